package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/nyt-gateway/internal/dispatcher"
	"github.com/pribylovaa/nyt-gateway/internal/metrics"
	"github.com/pribylovaa/nyt-gateway/internal/models"
	"github.com/pribylovaa/nyt-gateway/internal/nyt"
)

// upstream — фейковый NYT API: отвечает по карте путей, запоминает последний запрос.
type upstream struct {
	srv *httptest.Server

	mu    sync.Mutex
	last  *http.Request
	count int
}

func (u *upstream) calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.count
}

func (u *upstream) lastReq() *http.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.last
}

func newUpstream(t *testing.T, routes map[string]struct {
	status int
	body   string
}) *upstream {
	t.Helper()

	u := &upstream{}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.count++
		u.last = r.Clone(context.Background())
		u.mu.Unlock()

		rt, ok := routes[r.URL.Path]
		if !ok {
			http.Error(w, `{"fault":"no such route"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.status)
		_, _ = io.WriteString(w, rt.body)
	}))
	t.Cleanup(u.srv.Close)

	return u
}

func newGateway(t *testing.T, up *upstream, m *metrics.Metrics) http.Handler {
	t.Helper()

	client, err := nyt.New(nyt.Options{BaseURL: up.srv.URL + "/svc", APIKey: "gw-key", Timeout: 2 * time.Second, Metrics: m})
	require.NoError(t, err)

	d := dispatcher.New(client, dispatcher.WithMetrics(m))
	return NewRouter(d, Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: m,
		Timeout: 5 * time.Second,
	})
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/mcp/message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type errBody struct {
	Detail    string `json:"detail"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

func TestHealth_AlwaysHealthy(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, nil)
	h := newGateway(t, up, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())
	require.Zero(t, up.calls(), "health не трогает апстрим")
}

func TestPostMessage_ArticleSearch_Normalized(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, map[string]struct {
		status int
		body   string
	}{
		"/svc/search/v2/articlesearch.json": {http.StatusOK, `{"status":"OK","response":{"docs":[{"headline":{"main":"T","kicker":"k"},"snippet":"S","web_url":"U","pub_date":"P","_id":"x"}],"meta":{"hits":1,"offset":0}}}`},
	})
	m := metrics.New()
	h := newGateway(t, up, m)

	rr := post(t, h, `{"message_type":"article_search","content":{"query":"moon","begin_date":"","page":0,"sort":"oldest"},"timestamp":"2026-10-18T10:00:00Z"}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.JSONEq(t, `{"articles":[{"headline":"T","snippet":"S","web_url":"U","pub_date":"P"}],"total_hits":1}`, rr.Body.String())

	q := up.lastReq().URL.Query()
	require.Equal(t, "moon", q.Get("q"))
	require.Equal(t, "oldest", q.Get("sort"))
	require.Equal(t, "gw-key", q.Get("api-key"))
	require.NotContains(t, q, "begin_date")
	require.NotContains(t, q, "page")

	// X-Request-Id входящего запроса уходит апстриму.
	require.Equal(t, rr.Header().Get("X-Request-Id"), up.lastReq().Header.Get("X-Request-Id"))
}

func TestPostMessage_TopStories_DefaultSection(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, map[string]struct {
		status int
		body   string
	}{
		"/svc/topstories/v2/home.json": {http.StatusOK, `{"results":[{"title":"A","abstract":"B","url":"C","section":"home","published_date":"D"}]}`},
	})
	h := newGateway(t, up, nil)

	rr := post(t, h, `{"message_type":"top_stories","content":{},"timestamp":"t"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"stories":[{"title":"A","abstract":"B","url":"C","section":"home","published_date":"D"}],"num_results":1}`, rr.Body.String())
}

func TestPostMessage_Books_PassThrough(t *testing.T) {
	t.Parallel()

	const payload = `{"status":"OK","num_results":1,"results":{"list_name":"Hardcover Fiction","books":[{"rank":1,"title":"X"}]}}`
	up := newUpstream(t, map[string]struct {
		status int
		body   string
	}{
		"/svc/books/v3/lists/current/hardcover-fiction.json": {http.StatusOK, payload},
	})
	h := newGateway(t, up, nil)

	rr := post(t, h, `{"message_type":"books","content":{"offset":0},"timestamp":"t"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, payload, rr.Body.String())
	require.NotContains(t, up.lastReq().URL.Query(), "offset", "нулевой offset не отправляется")
}

func TestPostMessage_UnsupportedType_400_NoUpstreamCall(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, nil)
	m := metrics.New()
	h := newGateway(t, up, m)

	rr := post(t, h, `{"message_type":"foo","content":{},"timestamp":"t"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body errBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "unsupported message type: foo", body.Detail)
	require.Equal(t, "invalid_argument", body.Code)
	require.NotEmpty(t, body.RequestID)
	require.Zero(t, up.calls())
}

func TestPostMessage_Upstream500_ServerFaultWithBody(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, map[string]struct {
		status int
		body   string
	}{
		"/svc/mostpopular/v2/viewed/1.json": {http.StatusInternalServerError, `{"fault":{"faultstring":"Execution of ServiceCallout failed"}}`},
	})
	h := newGateway(t, up, nil)

	rr := post(t, h, `{"message_type":"most_popular","content":{},"timestamp":"t"}`)

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var body errBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "internal", body.Code)
	require.Contains(t, body.Detail, "Execution of ServiceCallout failed")
	require.NotContains(t, rr.Body.String(), "gw-key")
}

func TestPostMessage_InvalidBody_400(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, nil)
	h := newGateway(t, up, nil)

	rr := post(t, h, `{"message_type":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body errBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "invalid request body", body.Detail)
}

func TestPostMessage_TooLarge_413(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, nil)
	h := newGateway(t, up, nil)

	big := `{"message_type":"top_stories","content":{"pad":"` + strings.Repeat("a", 2<<20) + `"}}`
	rr := post(t, h, big)
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	require.Zero(t, up.calls())
}

func TestUnknownRoute_JSON404(t *testing.T) {
	t.Parallel()

	h := newGateway(t, newUpstream(t, nil), nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

// stubDispatcher — фиксирует конверт, который дошёл до ядра.
type stubDispatcher struct {
	got models.Envelope
}

func (s *stubDispatcher) Handle(_ context.Context, env models.Envelope) (any, error) {
	s.got = env
	return map[string]int{"ok": 1}, nil
}

func TestPostMessage_DecodesEnvelope_NumbersAsJSONNumber(t *testing.T) {
	t.Parallel()

	d := &stubDispatcher{}
	h := NewRouter(d, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), BasePath: "/api"})

	req := httptest.NewRequest(http.MethodPost, "/api/mcp/message", strings.NewReader(`{"message_type":"archive","content":{"year":2024,"month":1},"timestamp":"2024-02-01T00:00:00Z","extra":true}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, models.Archive, d.got.MessageType)
	require.Equal(t, json.Number("2024"), d.got.Content["year"])
	require.Equal(t, "2024-02-01T00:00:00Z", d.got.Timestamp)
}

func TestPostMessage_NullContent_BecomesEmpty(t *testing.T) {
	t.Parallel()

	d := &stubDispatcher{}
	h := NewRouter(d, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	rr := post(t, h, `{"message_type":"top_stories","content":null,"timestamp":"t"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, d.got.Content)
}
