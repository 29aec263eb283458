package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-trust/internal/apperr"
)

const (
	defaultModel   = "hamzab/roberta-fake-news-classification"
	defaultTimeout = 30 * time.Second
)

type HTTPClientOption func(client *HTTPClient)

// HTTPClient calls a hosted text-classification endpoint speaking the
// Hugging Face inference protocol: POST {"inputs": text} to /models/{model}.
type HTTPClient struct {
	base   url.URL
	model  string
	apiKey string
	http   *http.Client
}

func NewHTTPClient(baseUrl string, opts ...HTTPClientOption) (*HTTPClient, error) {
	base, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid classifier base url: %q", baseUrl)
	}

	client := &HTTPClient{
		base:  *base,
		model: defaultModel,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func WithHttpClient(httpClient *http.Client) HTTPClientOption {
	return func(client *HTTPClient) {
		client.http = httpClient
	}
}

func WithModel(model string) HTTPClientOption {
	return func(client *HTTPClient) {
		if model != "" {
			client.model = model
		}
	}
}

func WithAPIKey(key string) HTTPClientOption {
	return func(client *HTTPClient) {
		client.apiKey = key
	}
}

type classifyRequest struct {
	Inputs string `json:"inputs"`
}

func (hc *HTTPClient) Classify(ctx context.Context, text string) (Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return Prediction{}, apperr.NewValidation("missing text to classify")
	}

	var raw json.RawMessage
	if err := hc.do(ctx, http.MethodPost, "/models/"+hc.model, classifyRequest{Inputs: text}, &raw); err != nil {
		return Prediction{}, err
	}

	predictions, err := decodePredictions(raw)
	if err != nil {
		return Prediction{}, err
	}

	return top(predictions)
}

// decodePredictions accepts both the flat and the batched response shapes.
func decodePredictions(raw json.RawMessage) ([]Prediction, error) {
	var nested [][]Prediction
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}

	var flat []Prediction
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("unmarshal predictions: %w", err)
	}
	return flat, nil
}

func top(predictions []Prediction) (Prediction, error) {
	if len(predictions) == 0 {
		return Prediction{}, fmt.Errorf("classifier returned no predictions")
	}

	best := predictions[0]
	for _, p := range predictions[1:] {
		if p.Confidence > best.Confidence {
			best = p
		}
	}
	if best.Confidence < 0 || best.Confidence > 1 {
		return Prediction{}, fmt.Errorf("classifier confidence out of range: %v", best.Confidence)
	}
	return best, nil
}

func (hc *HTTPClient) do(ctx context.Context, method, path string, reqData, respData any) error {
	reqDataBytes, err := json.Marshal(reqData)
	if err != nil {
		return err
	}

	reqURL := hc.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), bytes.NewReader(reqDataBytes))
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if hc.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+hc.apiKey)
	}

	resp, err := hc.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

var _ Classifier = (*HTTPClient)(nil)
