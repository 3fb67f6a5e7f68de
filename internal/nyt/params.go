package nyt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pribylovaa/nyt-gateway/internal/models"
)

// FilterParams переводит параметры в url.Values, отбрасывая «пустые» значения:
// nil, "", числовой ноль и false. Отсутствие параметра предпочтительнее явного нуля.
func FilterParams(p models.Params) url.Values {
	out := make(url.Values, len(p))
	for k, v := range p {
		if IsEmpty(v) {
			continue
		}

		out.Set(k, FormatValue(v))
	}

	return out
}

// IsEmpty — правило фильтрации одного значения.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case json.Number:
		if x == "" {
			return true
		}
		f, err := x.Float64()
		return err == nil && f == 0
	case bool:
		return !x
	case int:
		return x == 0
	case int32:
		return x == 0
	case int64:
		return x == 0
	case float32:
		return x == 0
	case float64:
		return x == 0
	default:
		return false
	}
}

// FormatValue — строковое представление значения для query/path.
// Целые float64 печатаются без дробной части (2, а не 2.000000).
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
