package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/securematch/internal/client/models"
	"github.com/dmitrijs2005/securematch/internal/common"
	"github.com/dmitrijs2005/securematch/internal/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const maxResponseBytes = 8 << 20

// Option configures an HTTPClient.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	timeout    time.Duration
	httpClient *http.Client
	logger     logging.Logger
	metricsReg prometheus.Registerer
}

// WithTimeout bounds each request. Ignored when WithHTTPClient is given.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) { c.timeout = d })
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) { c.httpClient = hc })
}

func WithLogger(l logging.Logger) Option {
	return optionFunc(func(c *clientConfig) { c.logger = l })
}

// WithPrometheus records per-operation request counters and latency
// histograms in reg.
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) { c.metricsReg = reg })
}

// HTTPClient talks JSON over HTTP to the search API. It is safe for
// concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	obs     *observer
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates baseURL (scheme and host required) and applies opts.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	cfg := clientConfig{timeout: 15 * time.Second}
	for _, o := range opts {
		o.apply(&cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs := &observer{log: cfg.logger}
	if cfg.metricsReg != nil {
		m, err := newTransportMetrics(cfg.metricsReg)
		if err != nil {
			return nil, err
		}
		obs.metrics = m
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    hc,
		obs:     obs,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SearchInternal(ctx context.Context, payload models.TrapdoorPayload) (*SearchResponse, error) {
	start := time.Now()
	res, err := c.search(ctx, "/api/search/internal/", payload)
	c.obs.observe(ctx, "search_internal", start, err)
	return res, err
}

func (c *HTTPClient) SearchExternal(ctx context.Context, payload models.SignedQueryPayload) (*SearchResponse, error) {
	start := time.Now()
	res, err := c.search(ctx, "/api/search/external/", payload)
	c.obs.observe(ctx, "search_external", start, err)
	return res, err
}

func (c *HTTPClient) search(ctx context.Context, path string, payload any) (*SearchResponse, error) {
	env, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	var data searchData
	if err := decodeSection(env.Data, &data); err != nil {
		return nil, err
	}
	var meta SearchMeta
	if err := decodeSection(env.Meta, &meta); err != nil {
		return nil, err
	}
	return &SearchResponse{Results: data.Results, Meta: meta}, nil
}

func (c *HTTPClient) Metrics(ctx context.Context) (*models.Dashboard, error) {
	start := time.Now()
	d, err := c.metrics(ctx)
	c.obs.observe(ctx, "metrics", start, err)
	return d, err
}

func (c *HTTPClient) metrics(ctx context.Context) (*models.Dashboard, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/metrics/internal/", nil)
	if err != nil {
		return nil, err
	}
	var data metricsData
	if err := decodeSection(env.Data, &data); err != nil {
		return nil, err
	}

	d := &models.Dashboard{
		Auditors: make([]models.AuditorRecord, 0, len(data.Auditors)),
		System:   data.SystemMetrics,
	}
	for _, a := range data.Auditors {
		if a.ID == "" {
			continue
		}
		d.Auditors = append(d.Auditors, a.record())
	}
	if d.System == nil {
		d.System = models.SystemMetrics{}
	}
	return d, nil
}

func (c *HTTPClient) CreateAuditor(ctx context.Context, name string) (*CreatedAuditor, error) {
	start := time.Now()
	a, err := c.createAuditor(ctx, name)
	c.obs.observe(ctx, "create_auditor", start, err)
	return a, err
}

func (c *HTTPClient) createAuditor(ctx context.Context, name string) (*CreatedAuditor, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auditor/create/", createAuditorRequest{Name: name})
	if err != nil {
		return nil, err
	}
	var data createAuditorData
	if err := decodeSection(env.Data, &data); err != nil {
		return nil, err
	}
	if data.PrivateKey == "" {
		return nil, fmt.Errorf("%w: create auditor response has no private key", ErrUnknown)
	}
	id := data.AuditorID
	if id == "" {
		id = data.ID
	}
	return &CreatedAuditor{ID: string(id), Name: name, PrivateKey: []byte(data.PrivateKey)}, nil
}

func (c *HTTPClient) DeleteAuditor(ctx context.Context, auditorID string) error {
	start := time.Now()
	_, err := c.do(ctx, http.MethodDelete, "/api/auditor/"+url.PathEscape(auditorID)+"/delete/", nil)
	c.obs.observe(ctx, "delete_auditor", start, err)
	return err
}

// do sends one request and returns the decoded success envelope. A response
// with no body (204, or an empty 200) yields an empty envelope.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", common.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(common.RequestIDHeaderName, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, mapTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorResponse(resp.StatusCode, raw)
	}

	env := &envelope{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknown, err)
	}
	if env.Status == "error" || env.Error != nil {
		return nil, envelopeError(resp.StatusCode, env.Error)
	}
	return env, nil
}

func decodeSection(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknown, err)
	}
	return nil
}

// parseErrorResponse maps a non-2xx response. An error envelope always wins;
// without one, 5xx means the server is unavailable.
func parseErrorResponse(status int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && (env.Error != nil || env.Status == "error") {
		return envelopeError(status, env.Error)
	}
	if status >= 500 {
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, status)
	}
	return &ApplicationError{Status: status, Code: models.UnknownErrorCode, Message: http.StatusText(status)}
}

func envelopeError(status int, body *errorBody) error {
	out := &ApplicationError{Status: status, Code: models.UnknownErrorCode}
	if body != nil {
		if code := strings.TrimSpace(body.Code); code != "" {
			out.Code = code
		}
		out.Message = body.Message
	}
	return out
}

func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrUnknown, err)
}
