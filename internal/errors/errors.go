// errors стандартизирует ответы об ошибках HTTP-слоя шлюза.
// На вход принимает ошибку (gRPC-статус от диспетчера), на выход даёт:
//   - корректный HTTP-статус;
//   - тело {"detail": ..., "code": ..., "request_id": ...}.
//
// В отличие от внутренних сервисов, detail несёт текст статуса как есть:
// для ошибок апстрима это текст ответа NYT API (ключ из него уже вырезан
// клиентом nyt), для неподдерживаемого типа — пояснение для клиента.
package errors

import (
	"encoding/json"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrorResponse — корневой объект ответа об ошибке.
// Detail — человекочитаемое описание (совместимо с {"detail": "..."} исходного API).
// Code — короткий стабильный код для машиночитаемой обработки.
// RequestID — прокидывается из X-Request-Id, если есть.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и тело.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal;
//   - err — не gRPC-статус — 500/internal без деталей;
//   - err — gRPC-статус — маппинг через baseFromGRPC; detail = status message
//     (пустое сообщение заменяется дефолтным текстом кода).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Detail: "internal error", Code: "internal"}
	}

	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, ErrorResponse{Detail: "internal error", Code: "internal"}
	}

	httpStatus, code, msg := baseFromGRPC(st.Code())
	if m := st.Message(); m != "" {
		msg = m
	}

	return httpStatus, ErrorResponse{Detail: msg, Code: code}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// baseFromGRPC — базовый маппинг gRPC -> HTTP/код/сообщение.
// Диспетчер сейчас выдаёт только InvalidArgument (400) и Internal (500);
// остальные строки таблицы нужны HTTP-слою (тело запроса, паника, отмена).
func baseFromGRPC(c codes.Code) (int, string, string) {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case codes.NotFound:
		return http.StatusNotFound, "not_found", "not found"
	case codes.ResourceExhausted:
		return http.StatusRequestEntityTooLarge, "resource_exhausted", "request too large"
	case codes.Canceled:
		return StatusClientClosedRequest, "canceled", "canceled"
	case codes.Unimplemented:
		return http.StatusNotImplemented, "unimplemented", "unimplemented"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
