package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		raw       string
		host      string
		path      string
		query     string
		extension string
	}{
		{raw: "/relative/image.jpg", path: "/relative/image.jpg", extension: "jpg"},
		{raw: "https://Example.com/a/b.PNG?x=1#top", host: "example.com", path: "/a/b.PNG", query: "?x=1#top", extension: "png"},
		{raw: "https:/example.com/image.jpg", host: "example.com", path: "/image.jpg", extension: "jpg"},
		{raw: "http://localhost:3000/img.webp", host: "localhost:3000", path: "/img.webp", extension: "webp"},
		{raw: "https://example.com", host: "example.com"},
		{raw: "//cdn.other.com/x.png", host: "cdn.other.com", path: "/x.png", extension: "png"},
		{raw: "https://example.com/v1.2/photo", host: "example.com", path: "/v1.2/photo"},
		{raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s := parseSource(tt.raw)
			assert.Equal(t, tt.host, s.host)
			assert.Equal(t, tt.path, s.path)
			assert.Equal(t, tt.query, s.query)
			assert.Equal(t, tt.extension, s.extension())
			assert.Equal(t, tt.host != "", s.absolute())
		})
	}
}

func TestSourceURL(t *testing.T) {
	assert.Equal(t, "https://cdn.other.com/x.png", parseSource("//cdn.other.com/x.png").url())
	assert.Equal(t, "https:/example.com/a.jpg", parseSource("https:/example.com/a.jpg").url())
	assert.Equal(t, "/a.jpg", parseSource("/a.jpg").url())
}

func TestSourceOnHost(t *testing.T) {
	s := parseSource("http://cdn.example.com:8080/image.png")

	assert.True(t, s.onHost("cdn.example.com"))
	assert.True(t, s.onHost("https://cdn.example.com/"))
	assert.False(t, s.onHost("example.com"))
	assert.False(t, s.onHost(""))
	assert.False(t, parseSource("/cdn.example.com/image.png").onHost("cdn.example.com"))
}
