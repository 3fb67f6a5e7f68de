package dispatcher

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/nyt-gateway/internal/models"
	"github.com/pribylovaa/nyt-gateway/internal/nyt"
)

// route — запись таблицы диспетчеризации: шаблон пути, сборка параметров
// и проекция ответа. project == nil — всегда pass-through.
type route struct {
	endpoint func(c content, now time.Time) string
	params   func(c content) models.Params
	project  func(raw json.RawMessage) (any, bool)
}

// defaultRoutes — единая точка регистрации поддерживаемых типов.
// Новый эндпойнт = новая запись здесь (и константа в models).
func defaultRoutes() map[models.MessageType]route {
	return map[models.MessageType]route{
		models.ArticleSearch: {
			endpoint: static("search/v2/articlesearch.json"),
			params:   articleSearchParams,
			project:  projectArticleSearch,
		},
		models.TopStories: {
			endpoint: func(c content, _ time.Time) string {
				return fmt.Sprintf("topstories/v2/%s.json", c.segment("section", "home"))
			},
			params:  noParams,
			project: projectTopStories,
		},
		models.TimesWire: {
			endpoint: static("news/v3/content/all/all.json"),
			params: func(c content) models.Params {
				return models.Params{
					"limit":  c.value("limit", 20),
					"offset": c.value("offset", 0),
					"source": c.value("source", "nyt"),
				}
			},
			project: projectTimesWire,
		},
		models.MostPopular: {
			endpoint: func(c content, _ time.Time) string {
				return fmt.Sprintf("mostpopular/v2/%s/%s.json",
					c.segment("type", "viewed"),
					c.segment("time_period", "1"),
				)
			},
			params:  noParams,
			project: projectMostPopular,
		},
		models.Archive: {
			endpoint: func(c content, now time.Time) string {
				return fmt.Sprintf("archive/v1/%s/%s.json",
					c.segment("year", fmt.Sprint(now.Year())),
					c.segment("month", fmt.Sprint(int(now.Month()))),
				)
			},
			params: noParams,
		},
		models.Books: {
			endpoint: func(c content, _ time.Time) string {
				return fmt.Sprintf("books/v3/lists/current/%s.json", c.segment("list", "hardcover-fiction"))
			},
			params: func(c content) models.Params {
				return models.Params{"offset": c.value("offset", 0)}
			},
		},
	}
}

func static(endpoint string) func(content, time.Time) string {
	return func(content, time.Time) string { return endpoint }
}

func noParams(content) models.Params { return models.Params{} }

// articleSearchParams — q/sort всегда; даты — только если переданы;
// page — только если > 0.
func articleSearchParams(c content) models.Params {
	query := c.value("query", nil)
	if query == nil {
		query = c.value("q", "")
	}

	q := ""
	if query != nil {
		q = strings.TrimSpace(nyt.FormatValue(query))
	}

	p := models.Params{
		"q":    q,
		"sort": c.value("sort", "newest"),
	}

	for _, key := range []string{"begin_date", "end_date"} {
		if c.has(key) {
			p[key] = c[key]
		}
	}

	if page, ok := c.positiveInt("page"); ok {
		p["page"] = page
	}

	return p
}
