package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/webmoto/storefront/internal/auth"
	"github.com/webmoto/storefront/internal/views"
	"github.com/webmoto/storefront/types"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// render writes page or, when the template fails, a JSON 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data views.Data) {
	if err := h.views.Render(w, status, page, data); err != nil {
		h.logger.Error(r.Context(), "render failed", "page", page, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// internalError logs err and answers with a generic 500.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(r.Context(), msg, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}

// page fills the fields shared by every page from the request.
func page(r *http.Request, title string, content any) views.Data {
	data := views.Data{Title: title, Content: content}
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		data.Viewer = id.Username
		data.IsAdmin = id.Role == types.RoleAdmin
	}
	q := r.URL.Query()
	data.Flash = views.Flash{Success: q.Get("success"), Error: q.Get("error"), Info: q.Get("info")}
	return data
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

// withFlash appends a flash notice to target.
func withFlash(target, kind, msg string) string {
	return target + "?" + kind + "=" + url.QueryEscape(msg)
}

// localPath reports whether target is a path on this site. Protocol
// relative and absolute URLs are rejected.
func localPath(target string) bool {
	return strings.HasPrefix(target, "/") &&
		!strings.HasPrefix(target, "//") &&
		!strings.HasPrefix(target, "/\\")
}

func intQuery(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return 0
	}
	return n
}
