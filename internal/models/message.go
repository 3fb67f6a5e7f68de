package models

// MessageType — тег типа входящего сообщения; определяет апстрим-эндпойнт.
type MessageType string

const (
	ArticleSearch MessageType = "article_search"
	TopStories    MessageType = "top_stories"
	TimesWire     MessageType = "times_wire"
	MostPopular   MessageType = "most_popular"
	Archive       MessageType = "archive"
	Books         MessageType = "books"
)

// MessageTypes — полный набор поддерживаемых типов в стабильном порядке.
var MessageTypes = []MessageType{
	ArticleSearch,
	TopStories,
	TimesWire,
	MostPopular,
	Archive,
	Books,
}

// Valid сообщает, входит ли тип в поддерживаемый набор.
func (t MessageType) Valid() bool {
	for _, mt := range MessageTypes {
		if mt == t {
			return true
		}
	}

	return false
}

// Envelope — универсальная обёртка входящего запроса POST /mcp/message.
// Content — произвольный JSON-объект; числа приходят как json.Number.
type Envelope struct {
	MessageType MessageType    `json:"message_type"`
	Content     map[string]any `json:"content"`
	Timestamp   string         `json:"timestamp"`
}

// Params — query-параметры апстрим-запроса.
type Params map[string]any
