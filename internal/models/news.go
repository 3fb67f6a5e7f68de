package models

// Нормализованные ответы. Поля, отсутствующие в апстрим-записи,
// остаются пустыми строками, но не опускаются.

type ArticleSearchResult struct {
	Articles  []Article `json:"articles"`
	TotalHits int64     `json:"total_hits"`
}

type Article struct {
	Headline string `json:"headline"`
	Snippet  string `json:"snippet"`
	WebURL   string `json:"web_url"`
	PubDate  string `json:"pub_date"`
}

type TopStoriesResult struct {
	Stories    []Story `json:"stories"`
	NumResults int     `json:"num_results"`
}

type Story struct {
	Title         string `json:"title"`
	Abstract      string `json:"abstract"`
	URL           string `json:"url"`
	Section       string `json:"section"`
	PublishedDate string `json:"published_date"`
}

type TimesWireResult struct {
	NewsItems  []NewsItem `json:"news_items"`
	NumResults int        `json:"num_results"`
}

type NewsItem struct {
	Title         string `json:"title"`
	Abstract      string `json:"abstract"`
	URL           string `json:"url"`
	Section       string `json:"section"`
	Subsection    string `json:"subsection"`
	PublishedDate string `json:"published_date"`
	Byline        string `json:"byline"`
}

type MostPopularResult struct {
	Articles   []PopularArticle `json:"articles"`
	NumResults int              `json:"num_results"`
}

type PopularArticle struct {
	Title         string `json:"title"`
	Abstract      string `json:"abstract"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
}
