package dispatcher

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pribylovaa/nyt-gateway/internal/models"
)

// decodeObject разбирает ответ апстрима как JSON-объект (числа — json.Number).
func decodeObject(raw json.RawMessage) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}

	return obj, true
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}

	return nil
}

// str — строковое поле записи; отсутствие или null дают "".
func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(v any) int64 {
	n, ok := v.(json.Number)
	if !ok {
		return 0
	}

	if i, err := n.Int64(); err == nil {
		return i
	}

	if f, err := n.Float64(); err == nil {
		return int64(f)
	}

	return 0
}

// results — массив верхнего уровня "results"; иначе — признак pass-through.
func results(raw json.RawMessage) ([]any, bool) {
	obj, ok := decodeObject(raw)
	if !ok {
		return nil, false
	}

	list, ok := obj["results"].([]any)
	return list, ok
}

func projectArticleSearch(raw json.RawMessage) (any, bool) {
	obj, ok := decodeObject(raw)
	if !ok {
		return nil, false
	}

	resp := asObject(obj["response"])
	if resp == nil {
		return nil, false
	}

	docs, ok := resp["docs"].([]any)
	if !ok {
		return nil, false
	}

	out := models.ArticleSearchResult{
		Articles:  make([]models.Article, 0, len(docs)),
		TotalHits: toInt64(asObject(resp["meta"])["hits"]),
	}

	for _, d := range docs {
		doc := asObject(d)
		out.Articles = append(out.Articles, models.Article{
			Headline: str(asObject(doc["headline"]), "main"),
			Snippet:  str(doc, "snippet"),
			WebURL:   str(doc, "web_url"),
			PubDate:  str(doc, "pub_date"),
		})
	}

	return out, true
}

func projectTopStories(raw json.RawMessage) (any, bool) {
	list, ok := results(raw)
	if !ok {
		return nil, false
	}

	out := models.TopStoriesResult{
		Stories:    make([]models.Story, 0, len(list)),
		NumResults: len(list),
	}

	for _, it := range list {
		rec := asObject(it)
		out.Stories = append(out.Stories, models.Story{
			Title:         str(rec, "title"),
			Abstract:      str(rec, "abstract"),
			URL:           str(rec, "url"),
			Section:       str(rec, "section"),
			PublishedDate: str(rec, "published_date"),
		})
	}

	return out, true
}

func projectTimesWire(raw json.RawMessage) (any, bool) {
	list, ok := results(raw)
	if !ok {
		return nil, false
	}

	out := models.TimesWireResult{
		NewsItems:  make([]models.NewsItem, 0, len(list)),
		NumResults: len(list),
	}

	for _, it := range list {
		rec := asObject(it)
		out.NewsItems = append(out.NewsItems, models.NewsItem{
			Title:         str(rec, "title"),
			Abstract:      str(rec, "abstract"),
			URL:           str(rec, "url"),
			Section:       str(rec, "section"),
			Subsection:    str(rec, "subsection"),
			PublishedDate: str(rec, "published_date"),
			Byline:        str(rec, "byline"),
		})
	}

	return out, true
}

func projectMostPopular(raw json.RawMessage) (any, bool) {
	list, ok := results(raw)
	if !ok {
		return nil, false
	}

	out := models.MostPopularResult{
		Articles:   make([]models.PopularArticle, 0, len(list)),
		NumResults: len(list),
	}

	for _, it := range list {
		rec := asObject(it)
		out.Articles = append(out.Articles, models.PopularArticle{
			Title:         str(rec, "title"),
			Abstract:      str(rec, "abstract"),
			URL:           str(rec, "url"),
			PublishedDate: str(rec, "published_date"),
		})
	}

	return out, true
}
