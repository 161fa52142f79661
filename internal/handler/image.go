package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"uploadcare-loader/internal/middleware"
	"uploadcare-loader/pkg/loader"
)

type Handler struct {
	loader *loader.Loader
}

func NewHandler(l *loader.Loader) *Handler {
	return &Handler{loader: l}
}

// Image redirects the client to the transformed CDN URL.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	target, ok := h.resolve(w, r)
	if !ok {
		return
	}

	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// Resolve returns the transformed CDN URL as JSON.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	target, ok := h.resolve(w, r)
	if !ok {
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=31536000")
	writeJSON(w, http.StatusOK, map[string]string{"url": target})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (string, bool) {
	req, err := parseRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return "", false
	}

	target, err := h.loader.URL(req)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(r.Context()),
			"src":        req.Src,
		}).WithError(err).Error("failed to build image url")

		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return "", false
	}

	return target, true
}

func parseRequest(r *http.Request) (loader.Request, error) {
	query := r.URL.Query()

	req := loader.Request{Src: query.Get("url")}
	if req.Src == "" {
		return req, errors.New("missing url parameter")
	}

	var err error
	if req.Width, err = parseNonNegative(query.Get("w")); err != nil {
		return req, fmt.Errorf("invalid width: %w", err)
	}
	if req.Quality, err = parseNonNegative(query.Get("q")); err != nil {
		return req, fmt.Errorf("invalid quality: %w", err)
	}
	if req.Quality > 100 {
		return req, errors.New("invalid quality: must be between 0 and 100")
	}

	return req, nil
}

func parseNonNegative(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
