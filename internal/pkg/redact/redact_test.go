package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIKey_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "long", in: "abcdef123", want: "ab***"},
		{name: "len_2", in: "ab", want: "***"},
		{name: "len_1", in: "a", want: "***"},
		{name: "empty", in: "", want: ""},
		{name: "unicode", in: "ключ-123", want: "кл***"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, APIKey(tt.in))
		})
	}
}

func TestSecret_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		secret string
		want   string
	}{
		{
			name:   "url_error_text",
			in:     `Get "https://api.nytimes.com/svc/x.json?api-key=s3cr3t": dial tcp: refused`,
			secret: "s3cr3t",
			want:   `Get "https://api.nytimes.com/svc/x.json?api-key=[REDACTED]": dial tcp: refused`,
		},
		{
			name:   "escaped_form",
			in:     "api-key=a%2Bb%2Fc",
			secret: "a+b/c",
			want:   "api-key=[REDACTED]",
		},
		{name: "no_secret", in: "plain text", secret: "", want: "plain text"},
		{name: "not_present", in: "plain text", secret: "zzz", want: "plain text"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Secret(tt.in, tt.secret))
		})
	}
}

func TestURL_ReplacesOnlyListedParams(t *testing.T) {
	t.Parallel()

	got := URL("https://api.nytimes.com/svc/search/v2/articlesearch.json?api-key=k&q=go", "api-key")
	require.Equal(t, "https://api.nytimes.com/svc/search/v2/articlesearch.json?api-key=%5BREDACTED%5D&q=go", got)

	const clean = "https://api.nytimes.com/svc/topstories/v2/home.json"
	require.Equal(t, clean, URL(clean, "api-key"))

	require.Equal(t, "://bad", URL("://bad", "api-key"))
}
