package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/news-trust/internal/apperr"
	"github.com/DjordjeVuckovic/news-trust/internal/dto"
	"github.com/DjordjeVuckovic/news-trust/internal/fetch"
	"github.com/DjordjeVuckovic/news-trust/internal/queue"
	"github.com/DjordjeVuckovic/news-trust/internal/scoring"
	"github.com/DjordjeVuckovic/news-trust/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-trust/internal/trust"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, rawURL string) fetch.Page {
	return fetch.Page{
		Title:        "Fetched title",
		Content:      strings.Repeat("n", 2500),
		CanonicalURL: rawURL,
	}
}

func setupRouter(t *testing.T) (*echo.Echo, *trust.Service) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	svc := trust.NewService(
		in_mem.NewInMemStorer(),
		queue.NewMemoryQueue(),
		scoring.NewHeuristic(scoring.DefaultConfig()),
		stubFetcher{},
	)
	NewArticleRouter(e, svc).Bind()
	return e, svc
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func submit(t *testing.T, e *echo.Echo, body string) uuid.UUID {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/articles", body)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp dto.SubmittedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEqual(t, uuid.Nil, resp.ID)
	return resp.ID
}

func TestArticleRouter_SubmitAndGet(t *testing.T) {
	e, _ := setupRouter(t)

	id := submit(t, e, `{"title":"Budget","content":"The council approved the budget.","url":"https://bbc.co.uk/a","publish_date":"2024-03-01"}`)

	rec := doJSON(e, http.MethodGet, "/articles/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.Article
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 50, got.TrustScore)
	assert.Equal(t, "2024-03-01", got.PublishDate)
	assert.Equal(t, "manual", got.Source)
}

func TestArticleRouter_SubmitValidation(t *testing.T) {
	e, _ := setupRouter(t)

	rec := doJSON(e, http.MethodPost, "/articles", `{"title":"","content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")

	rec = doJSON(e, http.MethodPost, "/articles", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticleRouter_SubmitOnline(t *testing.T) {
	e, svc := setupRouter(t)

	rec := doJSON(e, http.MethodPost, "/articles/online", `{"url":"https://www.reuters.com/x"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp dto.SubmittedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	a, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fetched title", a.Title)

	rec = doJSON(e, http.MethodPost, "/articles/online", `{"url":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "url is required")
}

func TestArticleRouter_Reports(t *testing.T) {
	e, _ := setupRouter(t)
	id := submit(t, e, `{"title":"t","content":"body"}`)

	var resp dto.ScoreResponse
	for i := 0; i < 3; i++ {
		rec := doJSON(e, http.MethodPost, "/articles/"+id.String()+"/reports", `{"user_id":"u1","reason":"fake"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	assert.Equal(t, 70, resp.TrustScore)

	rec := doJSON(e, http.MethodPost, "/articles/"+uuid.NewString()+"/reports", `{"user_id":"u1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "article not found")

	rec = doJSON(e, http.MethodPost, "/articles/not-a-uuid/reports", `{"user_id":"u1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticleRouter_Recompute(t *testing.T) {
	e, _ := setupRouter(t)
	id := submit(t, e, `{"title":"t","content":"BREAKING: shocking conspiracy revealed"}`)

	rec := doJSON(e, http.MethodPost, "/articles/"+id.String()+"/recompute", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ScoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.TrustScore)
	assert.Contains(t, resp.Explanation, scoring.MarkerHeuristic)

	rec = doJSON(e, http.MethodPost, "/articles/"+uuid.NewString()+"/recompute", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArticleRouter_List(t *testing.T) {
	e, _ := setupRouter(t)
	id := submit(t, e, `{"title":"t","content":"body"}`)
	for i := 0; i < 5; i++ {
		rec := doJSON(e, http.MethodPost, "/articles/"+id.String()+"/reports", `{"user_id":"u"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	submit(t, e, `{"title":"t2","content":"body"}`)

	rec := doJSON(e, http.MethodGet, "/articles", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ArticleListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Risky, 2)
	assert.Empty(t, resp.Safe)
	assert.Equal(t, trust.SafeThreshold, resp.Threshold)

	rec = doJSON(e, http.MethodGet, "/articles?page=2&size=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Risky, 1)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 1, resp.Size)

	rec = doJSON(e, http.MethodGet, "/articles?size=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticleRouter_Check(t *testing.T) {
	e, svc := setupRouter(t)

	rec := doJSON(e, http.MethodPost, "/check", `{"url":"https://www.bbc.co.uk/news/1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.CheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 70, resp.TrustScore)
	assert.Equal(t, "https://www.bbc.co.uk/news/1", resp.CanonicalURL)

	listing, err := svc.List(context.Background(), trust.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, listing.Safe)
	assert.Empty(t, listing.Risky)

	rec = doJSON(e, http.MethodPost, "/check", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "url is required")
}
