package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uploadcare-loader/pkg/loader"
)

func newRouter(opts loader.Options) *mux.Router {
	h := NewHandler(loader.New(opts))

	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/image", h.Image).Methods("GET")
	r.HandleFunc("/resolve", h.Resolve).Methods("GET")
	return r
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

var productionOptions = loader.Options{Mode: loader.ModeProduction, PublicKey: "test-public-key"}

func TestImageRedirects(t *testing.T) {
	r := newRouter(productionOptions)

	rec := get(t, r, "/image?w=500&q=75&url="+url.QueryEscape("https://ucarecdn.com/a6f8abc8-f92e-460a-b7a1-c5cd70a18cdb/vercel.png"))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t,
		"https://ucarecdn.com/a6f8abc8-f92e-460a-b7a1-c5cd70a18cdb/-/format/auto/-/stretch/off/-/progressive/yes/-/resize/500x/-/quality/normal/vercel.png",
		rec.Header().Get("Location"))
}

func TestResolveReturnsJSON(t *testing.T) {
	r := newRouter(productionOptions)

	rec := get(t, r, "/resolve?w=9999&url="+url.QueryEscape("https://example.com/photo.jpg"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000", rec.Header().Get("Cache-Control"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t,
		"https://test-public-key.ucr.io/-/format/auto/-/stretch/off/-/progressive/yes/-/resize/5000x/-/quality/normal/https://example.com/photo.jpg",
		body["url"])
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		opts   loader.Options
		path   string
		status int
	}{
		{
			name:   "missing url",
			opts:   productionOptions,
			path:   "/resolve?w=100",
			status: http.StatusBadRequest,
		},
		{
			name:   "bad width",
			opts:   productionOptions,
			path:   "/resolve?w=wide&url=/a.png",
			status: http.StatusBadRequest,
		},
		{
			name:   "negative width",
			opts:   productionOptions,
			path:   "/resolve?w=-5&url=/a.png",
			status: http.StatusBadRequest,
		},
		{
			name:   "quality out of range",
			opts:   productionOptions,
			path:   "/resolve?q=101&url=/a.png",
			status: http.StatusBadRequest,
		},
		{
			name:   "missing credentials",
			opts:   loader.Options{Mode: loader.ModeProduction},
			path:   "/resolve?url=/a.png",
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newRouter(tt.opts), tt.path)
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestImageDevelopmentPassesThrough(t *testing.T) {
	r := newRouter(loader.Options{Mode: loader.ModeDevelopment})

	rec := get(t, r, "/image?w=500&url="+url.QueryEscape("/static/hero.png"))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/static/hero.png", rec.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	rec := get(t, newRouter(productionOptions), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])
}
