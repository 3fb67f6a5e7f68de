// dispatcher — ядро шлюза: по тегу message_type выбирает эндпойнт NYT API,
// собирает параметры из content, выполняет один вызов апстрима и приводит
// ответ к упрощённой стабильной форме.
//
// Ошибки классифицируются gRPC-кодами (как во всём семействе сервисов):
//   - codes.InvalidArgument — неподдерживаемый message_type, апстрим не вызывается;
//   - codes.Internal — любая ошибка апстрима (транспорт, не-2xx, битый JSON),
//     текст ошибки апстрима сохраняется в status message.
package dispatcher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pribylovaa/nyt-gateway/internal/metrics"
	"github.com/pribylovaa/nyt-gateway/internal/models"
	"github.com/pribylovaa/nyt-gateway/internal/pkg/log"
)

//go:generate mockgen -source=dispatcher.go -destination=../../mocks/mock_upstream.go -package=mocks

// Upstream — исходящий вызов NYT API (реализация: nyt.Client).
type Upstream interface {
	Get(ctx context.Context, endpoint string, params models.Params) (json.RawMessage, error)
}

// Option — функциональная опция Dispatcher.
type Option func(*Dispatcher)

// WithClock подменяет источник текущего времени (дефолты archive).
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithMetrics подключает счётчики диспетчеризации.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

type Dispatcher struct {
	upstream Upstream
	routes   map[models.MessageType]route
	now      func() time.Time
	metrics  *metrics.Metrics
}

func New(up Upstream, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		upstream: up,
		routes:   defaultRoutes(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Resolve переводит конверт в эндпойнт и параметры без обращения к апстриму.
func (d *Dispatcher) Resolve(env models.Envelope) (string, models.Params, error) {
	rt, ok := d.routes[env.MessageType]
	if !ok {
		return "", nil, status.Errorf(codes.InvalidArgument, "unsupported message type: %s", env.MessageType)
	}

	c := content(env.Content)
	return rt.endpoint(c, d.now()), rt.params(c), nil
}

// Handle обрабатывает конверт целиком. Результат — нормализованная структура
// из models либо json.RawMessage апстрима (pass-through).
func (d *Dispatcher) Handle(ctx context.Context, env models.Envelope) (any, error) {
	const op = "dispatcher.Handle"

	ctx, lg := log.With(ctx, slog.String("message_type", string(env.MessageType)))

	endpoint, params, err := d.Resolve(env)
	if err != nil {
		d.metrics.ObserveDispatch("unsupported", "rejected")
		lg.Warn("dispatch_rejected", slog.String("op", op))
		return nil, err
	}

	raw, err := d.upstream.Get(ctx, endpoint, params)
	if err != nil {
		d.metrics.ObserveDispatch(string(env.MessageType), "upstream_error")
		lg.Warn("dispatch_failed",
			slog.String("op", op),
			slog.String("endpoint", endpoint),
			slog.String("err", err.Error()),
		)
		return nil, status.Error(codes.Internal, err.Error())
	}

	rt := d.routes[env.MessageType]
	if rt.project != nil {
		if out, ok := rt.project(raw); ok {
			d.metrics.ObserveDispatch(string(env.MessageType), "normalized")
			return out, nil
		}
	}

	d.metrics.ObserveDispatch(string(env.MessageType), "passthrough")
	lg.Debug("dispatch_passthrough", slog.String("op", op), slog.String("endpoint", endpoint))

	return raw, nil
}
