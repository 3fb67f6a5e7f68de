package handlers

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apierrors "github.com/pribylovaa/nyt-gateway/internal/errors"
	"github.com/pribylovaa/nyt-gateway/internal/models"
)

// PostMessage — POST /mcp/message: конверт -> диспетчер -> нормализованный JSON.
func (h *Handlers) PostMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var env models.Envelope
	if err := decodeJSON(r, &env); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.WriteError(w, r, status.Error(codes.ResourceExhausted, "request body too large"))
			return
		}

		apierrors.WriteError(w, r, status.Error(codes.InvalidArgument, "invalid request body"))
		return
	}

	if env.Content == nil {
		env.Content = map[string]any{}
	}

	resp, err := h.Dispatcher.Handle(r.Context(), env)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health — GET /health: всегда healthy, апстрим не опрашивается.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// NotFound — JSON-ответ для неизвестных маршрутов.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteError(w, r, status.Error(codes.NotFound, "not found"))
}
