package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Rorical/LeadForm/internal/fields"
)

const (
	MsgValidation  = "Please correct validation errors."
	MsgAPIFallback = "Something went wrong."
	MsgConnection  = "API connection failed."
)

// Result is the success body of the prediction endpoint
type Result struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

// Predictor is the remote classification service
type Predictor interface {
	Predict(ctx context.Context, features [fields.Count]float64) (*Result, error)
	Ping(ctx context.Context) (string, error)
}

// APIError is returned when the endpoint answers with a non-success status
type APIError struct {
	StatusCode int
	Message    string // the body's "error" field, may be empty
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}
	return e.Message
}

// TransportError is returned when the request could not be completed
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage maps a Predict error to the message shown on the form
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgAPIFallback
	}
	return MsgConnection
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// Client talks to the prediction endpoint over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(endpoint string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.baseURL
}

type predictRequest struct {
	Features [fields.Count]float64 `json:"features"`
}

type errorBody struct {
	Error string `json:"error"`
}

type predictResponse struct {
	Prediction  *int     `json:"prediction"`
	Probability *float64 `json:"probability"`
	Error       string   `json:"error"`
}

// Predict posts the feature vector to {endpoint}/predict. A non-success
// status, or a success body without a prediction, yields *APIError;
// anything that prevents reading a JSON response yields *TransportError.
func (c *Client) Predict(ctx context.Context, features [fields.Count]float64) (*Result, error) {
	payload, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return nil, eris.Wrap(err, "predict: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: eris.Wrap(err, "predict: create request")}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "LeadForm/1.0")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("prediction request failed", zap.String("endpoint", c.baseURL), zap.Error(err))
		return nil, &TransportError{Err: eris.Wrap(err, "predict: do request")}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: eris.Wrap(err, "predict: read body")}
	}

	c.log.Debug("prediction response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if !json.Valid(body) {
		return nil, &TransportError{Err: eris.Errorf("predict: %d response is not JSON", resp.StatusCode)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		// a JSON body of another shape simply carries no message
		_ = json.Unmarshal(body, &eb)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
	}

	var wire predictResponse
	_ = json.Unmarshal(body, &wire)
	// the backend reports model failures as 200 {"error": ...}
	if wire.Prediction == nil || wire.Probability == nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: wire.Error}
	}
	return &Result{Prediction: *wire.Prediction, Probability: *wire.Probability}, nil
}

// Ping fetches the endpoint's root welcome message
func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return "", eris.Wrap(err, "ping: create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "LeadForm/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Err: eris.Wrap(err, "ping: do request")}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode}
	}

	var welcome struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&welcome); err != nil {
		return "", eris.Wrap(err, "ping: decode response")
	}
	return welcome.Message, nil
}
