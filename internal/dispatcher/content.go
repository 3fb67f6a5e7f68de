package dispatcher

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/pribylovaa/nyt-gateway/internal/nyt"
)

// content — свободный JSON-объект из конверта с хелперами чтения.
type content map[string]any

// value возвращает значение ключа «как есть» (включая null), либо def при отсутствии.
// Пустые значения позже отсеет nyt.FilterParams.
func (c content) value(key string, def any) any {
	if v, ok := c[key]; ok {
		return v
	}

	return def
}

// has сообщает, передан ли ключ вообще.
func (c content) has(key string) bool {
	_, ok := c[key]
	return ok
}

// segment — значение для сегмента пути. null/""/отсутствие -> def.
// Результат экранируется: content не может выйти за пределы шаблона.
func (c content) segment(key, def string) string {
	s := def
	if v, ok := c[key]; ok && v != nil {
		if str := strings.TrimSpace(nyt.FormatValue(v)); str != "" {
			s = str
		}
	}

	return url.PathEscape(s)
}

// positiveInt читает целое > 0 (число или числовая строка).
func (c content) positiveInt(key string) (int64, bool) {
	var n int64

	switch v := c[key].(type) {
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			i = int64(f)
		}
		n = i
	case float64:
		n = int64(v)
	case int:
		n = int64(v)
	case int64:
		n = v
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}

	if n <= 0 {
		return 0, false
	}

	return n, true
}
