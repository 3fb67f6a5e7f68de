package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/nyt-gateway/internal/models"
)

// maxBodyBytes — потолок тела POST /mcp/message.
const maxBodyBytes = 1 << 20

// Dispatcher — ядро шлюза (реализация: dispatcher.Dispatcher).
type Dispatcher interface {
	Handle(ctx context.Context, env models.Envelope) (any, error)
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	Dispatcher Dispatcher
}

func New(d Dispatcher) *Handlers {
	return &Handlers{Dispatcher: d}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeJSON — декодер тела: числа остаются json.Number, чтобы
// параметры апстрима уходили в исходном виде (2, а не 2.0).
// Неизвестные поля конверта игнорируются.
func decodeJSON(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(value)
}
