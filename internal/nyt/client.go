// nyt — HTTP-клиент NYT API (https://api.nytimes.com/svc).
//
// Клиент не хранит состояния между запросами: базовый URL и ключ передаются
// при создании, один вызов Get — ровно один исходящий GET без ретраев.
package nyt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/nyt-gateway/internal/metrics"
	"github.com/pribylovaa/nyt-gateway/internal/models"
	"github.com/pribylovaa/nyt-gateway/internal/pkg/log"
	"github.com/pribylovaa/nyt-gateway/internal/pkg/redact"
)

type ctxKey string

// CtxRequestID — ключ контекста с X-Request-Id входящего запроса
// (кладёт middleware.RequestID, читает Client.Get).
const CtxRequestID ctxKey = "request_id"

// APIKeyParam — имя query-параметра с ключом.
const APIKeyParam = "api-key"

const (
	// maxBodySize — потолок ответа апстрима (archive за месяц весит десятки МБ).
	maxBodySize = 64 << 20
	// maxErrorBody — сколько текста ошибки апстрима отдаём клиенту.
	maxErrorBody = 4 << 10
)

// ErrInvalidJSON — апстрим ответил 2xx, но тело не JSON.
var ErrInvalidJSON = errors.New("upstream returned invalid JSON")

// StatusError — апстрим ответил не-2xx. Body — текст ответа (усечённый).
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream status %d %s", e.Code, http.StatusText(e.Code))
	}

	return fmt.Sprintf("upstream status %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// Options — параметры клиента.
type Options struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	// Timeout — таймаут http.Client; игнорируется, если передан HTTPClient.
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

type Client struct {
	httpc     *http.Client
	baseURL   string
	apiKey    string
	userAgent string
	metrics   *metrics.Metrics
}

// New создаёт клиент. Пустые BaseURL/APIKey — ошибка конфигурации.
func New(opts Options) (*Client, error) {
	const op = "nyt.New"

	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%s: empty base url", op)
	}

	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s: empty api key", op)
	}

	httpc := opts.HTTPClient
	if httpc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "nyt-gateway"
	}

	return &Client{
		httpc:     httpc,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey:    opts.APIKey,
		userAgent: ua,
		metrics:   opts.Metrics,
	}, nil
}

// Get выполняет GET {baseURL}/{endpoint}?{params}&api-key=... и возвращает
// тело ответа как есть. Тексты ошибок не содержат ключа.
func (c *Client) Get(ctx context.Context, endpoint string, params models.Params) (json.RawMessage, error) {
	const op = "nyt.Get"

	query := FilterParams(params)
	query.Set(APIKeyParam, c.apiKey)

	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/") + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %s", op, c.scrub(err))
	}

	rid, _ := ctx.Value(CtxRequestID).(string)
	if rid == "" {
		rid = uuid.NewString()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", rid)

	family := endpointFamily(endpoint)
	lg := log.From(ctx).With(
		slog.String("endpoint", endpoint),
		slog.String("upstream_request_id", rid),
	)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		dur := time.Since(start)
		c.metrics.ObserveUpstream(family, metrics.OutcomeTransport, dur)

		msg := c.scrub(err)
		lg.Warn("upstream_error", slog.String("err", msg), slog.Duration("dur", dur))

		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, msg, cerr)
		}

		return nil, fmt.Errorf("%s: %s", op, msg)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	dur := time.Since(start)
	if err != nil {
		c.metrics.ObserveUpstream(family, metrics.OutcomeTransport, dur)
		return nil, fmt.Errorf("%s: read_body: %s", op, c.scrub(err))
	}

	lg.Info("upstream",
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", dur),
		slog.Int("bytes", len(body)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveUpstream(family, metrics.OutcomeStatus, dur)

		text := redact.Secret(strings.TrimSpace(string(body)), c.apiKey)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}

		return nil, &StatusError{Code: resp.StatusCode, Body: text}
	}

	if !json.Valid(body) {
		c.metrics.ObserveUpstream(family, metrics.OutcomeDecode, dur)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidJSON)
	}

	c.metrics.ObserveUpstream(family, metrics.OutcomeOK, dur)

	return json.RawMessage(body), nil
}

// scrub — текст ошибки без ключа (ошибки net/http включают полный URL).
func (c *Client) scrub(err error) string {
	return redact.Secret(err.Error(), c.apiKey)
}

// endpointFamily — первый сегмент пути: низкая кардинальность для метрик.
func endpointFamily(endpoint string) string {
	endpoint = strings.TrimLeft(endpoint, "/")
	if i := strings.IndexByte(endpoint, '/'); i > 0 {
		return endpoint[:i]
	}

	return endpoint
}
