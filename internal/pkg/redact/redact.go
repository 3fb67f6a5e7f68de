// redact предоставляет утилиты безопасного редактирования секретов для логов
// и текстов ошибок. Ключ NYT API передаётся query-параметром, поэтому он
// неизбежно оказывается в URL и в ошибках net/http (*url.Error).
package redact

import (
	"net/url"
	"strings"
)

// Placeholder — литерал-заглушка вместо секрета.
const Placeholder = "[REDACTED]"

// APIKey маскирует ключ для логов: оставляет первые два символа.
//
//	"abcdef" -> "ab***"
//	"ab"     -> "***"
//	""       -> ""
func APIKey(s string) string {
	if s == "" {
		return ""
	}

	r := []rune(s)
	if len(r) > 2 {
		return string(r[:2]) + "***"
	}

	return "***"
}

// Secret вырезает все вхождения secret из s.
// Пустой secret ничего не меняет.
func Secret(s, secret string) string {
	if secret == "" {
		return s
	}

	out := strings.ReplaceAll(s, secret, Placeholder)

	// url.Values.Encode экранирует спецсимволы — вырежем и этот вариант.
	if esc := url.QueryEscape(secret); esc != secret {
		out = strings.ReplaceAll(out, esc, Placeholder)
	}

	return out
}

// URL заменяет значения перечисленных query-параметров на Placeholder.
// Невалидный URL возвращается без изменений.
func URL(raw string, params ...string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()
	changed := false
	for _, p := range params {
		if _, ok := q[p]; ok {
			q.Set(p, Placeholder)
			changed = true
		}
	}

	if !changed {
		return raw
	}

	u.RawQuery = q.Encode()
	return u.String()
}
