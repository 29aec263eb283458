package router

import (
	"context"
	"net/http"
	"strconv"

	"github.com/DjordjeVuckovic/news-trust/internal/apperr"
	"github.com/DjordjeVuckovic/news-trust/internal/domain"
	"github.com/DjordjeVuckovic/news-trust/internal/dto"
	"github.com/DjordjeVuckovic/news-trust/internal/scoring"
	"github.com/DjordjeVuckovic/news-trust/internal/trust"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ArticleService interface {
	SubmitArticle(ctx context.Context, sub trust.Submission) (uuid.UUID, error)
	SubmitOnlineArticle(ctx context.Context, rawURL string) (uuid.UUID, error)
	SubmitReport(ctx context.Context, articleID uuid.UUID, userID, reason string) (int, error)
	RecomputeNow(ctx context.Context, articleID uuid.UUID) (scoring.Result, error)
	Get(ctx context.Context, articleID uuid.UUID) (*domain.Article, error)
	List(ctx context.Context, q trust.ListQuery) (trust.Listing, error)
	CheckOnline(ctx context.Context, rawURL string) (trust.CheckResult, error)
}

var _ ArticleService = (*trust.Service)(nil)

type ArticleRouter struct {
	e       *echo.Echo
	service ArticleService
}

func NewArticleRouter(e *echo.Echo, service ArticleService) *ArticleRouter {
	return &ArticleRouter{
		e:       e,
		service: service,
	}
}

func (r *ArticleRouter) Bind() {
	g := r.e.Group("/articles")
	g.POST("", r.submitHandler)
	g.GET("", r.listHandler)
	g.POST("/online", r.submitOnlineHandler)
	g.GET("/:id", r.getHandler)
	g.POST("/:id/reports", r.reportHandler)
	g.POST("/:id/recompute", r.recomputeHandler)

	r.e.POST("/check", r.checkHandler)
}

func (r *ArticleRouter) submitHandler(c echo.Context) error {
	var req dto.SubmitArticleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	id, err := r.service.SubmitArticle(c.Request().Context(), req.ToSubmission())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, dto.SubmittedResponse{ID: id})
}

func (r *ArticleRouter) submitOnlineHandler(c echo.Context) error {
	var req dto.URLRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	id, err := r.service.SubmitOnlineArticle(c.Request().Context(), req.URL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, dto.SubmittedResponse{ID: id})
}

func (r *ArticleRouter) reportHandler(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}

	var req dto.ReportRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	score, err := r.service.SubmitReport(c.Request().Context(), id, req.UserID, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ScoreResponse{TrustScore: score})
}

func (r *ArticleRouter) recomputeHandler(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}

	res, err := r.service.RecomputeNow(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ScoreResponse{TrustScore: res.Score, Explanation: res.Explanation})
}

func (r *ArticleRouter) getHandler(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return err
	}

	article, err := r.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewArticle(*article))
}

func (r *ArticleRouter) listHandler(c echo.Context) error {
	var (
		q   trust.ListQuery
		err error
	)
	if q.MinScore, err = optionalInt(c, "min_score"); err != nil {
		return err
	}
	if q.MaxScore, err = optionalInt(c, "max_score"); err != nil {
		return err
	}
	page, err := optionalInt(c, "page")
	if err != nil {
		return err
	}
	if page != nil {
		q.Page.Page = *page
	}
	size, err := optionalInt(c, "size")
	if err != nil {
		return err
	}
	if size != nil {
		q.Page.Size = *size
	}

	listing, err := r.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewArticleListResponse(listing))
}

func (r *ArticleRouter) checkHandler(c echo.Context) error {
	var req dto.URLRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	res, err := r.service.CheckOnline(c.Request().Context(), req.URL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewCheckResponse(res))
}

func articleID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid article id", err)
	}
	return id, nil
}

func optionalInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.NewValidation(name + " must be an integer")
	}
	return &v, nil
}
