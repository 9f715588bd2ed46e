package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/YuBaBing/FCS/service"
	"github.com/YuBaBing/FCS/storage"
)

const tokenMaxAge = 3600 // seconds, matches the token TTL

type HTTPHandler struct {
	auth  *service.AuthService
	posts *service.PostService
	log   *zap.Logger
}

func NewHTTPHandler(auth *service.AuthService, posts *service.PostService, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{auth: auth, posts: posts, log: log}
}

func (h *HTTPHandler) Register(rw http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(rw, http.StatusBadRequest, "username and password are required")
		return
	}
	err := h.auth.Register(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(rw, http.StatusOK, messageResponse{Success: true, Message: "registration successful"})
	case errors.Is(err, service.ErrValidation):
		writeError(rw, http.StatusBadRequest, "username and password are required")
	case errors.Is(err, storage.ErrUserExists):
		writeError(rw, http.StatusBadRequest, "username already exists")
	default:
		h.log.Error("register failed", zap.Error(err))
		writeError(rw, http.StatusInternalServerError, "server error")
	}
}

func (h *HTTPHandler) Login(rw http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(rw, http.StatusBadRequest, "username and password are required")
		return
	}
	token, _, err := h.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		writeError(rw, http.StatusBadRequest, "username and password are required")
		return
	case errors.Is(err, storage.ErrUserNotFound):
		writeError(rw, http.StatusUnauthorized, "user not found")
		return
	case errors.Is(err, service.ErrWrongPassword):
		writeError(rw, http.StatusUnauthorized, "wrong password")
		return
	default:
		h.log.Error("login failed", zap.Error(err))
		writeError(rw, http.StatusInternalServerError, "server error")
		return
	}
	http.SetCookie(rw, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   tokenMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(rw, http.StatusOK, loginResponse{Success: true, Username: req.Username})
}

// Logout clears the cookie. The token itself stays valid until expiry.
func (h *HTTPHandler) Logout(rw http.ResponseWriter, _ *http.Request) {
	http.SetCookie(rw, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(rw, http.StatusOK, messageResponse{Success: true, Message: "logged out"})
}

const maxUploadBytes = 10 << 20

func (h *HTTPHandler) CreatePost(rw http.ResponseWriter, r *http.Request) {
	username := UsernameFromContext(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(rw, http.StatusBadRequest, "invalid form data")
		return
	}
	var upload *service.Upload
	file, header, err := r.FormFile("image")
	if err == nil {
		defer func() { _ = file.Close() }()
		upload = &service.Upload{Name: header.Filename, Data: file}
	} else if !errors.Is(err, http.ErrMissingFile) {
		writeError(rw, http.StatusBadRequest, "invalid image upload")
		return
	}

	p, err := h.posts.Create(r.Context(), username, r.FormValue("title"), r.FormValue("content"), upload)
	switch {
	case err == nil:
		writeJSON(rw, http.StatusOK, postResponse{Success: true, Post: p})
	case errors.Is(err, service.ErrValidation):
		writeError(rw, http.StatusBadRequest, "title and content are required")
	default:
		h.log.Error("create post failed", zap.Error(err))
		writeError(rw, http.StatusInternalServerError, "server error")
	}
}

func (h *HTTPHandler) ListPosts(rw http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", storage.DefaultPage)
	limit := queryInt(r, "limit", storage.DefaultSize)
	posts, hasMore, err := h.posts.List(r.Context(), r.URL.Query().Get("userId"), page, limit)
	if err != nil {
		h.log.Error("list posts failed", zap.Error(err))
		writeError(rw, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(rw, http.StatusOK, feedResponse{Posts: posts, HasMore: hasMore})
}

func (h *HTTPHandler) ToggleLike(rw http.ResponseWriter, r *http.Request) {
	username := UsernameFromContext(r.Context())
	p, err := h.posts.ToggleLike(r.Context(), mux.Vars(r)["id"], username)
	switch {
	case err == nil:
		writeJSON(rw, http.StatusOK, postResponse{Success: true, Post: p})
	case errors.Is(err, storage.ErrPostNotFound):
		writeError(rw, http.StatusNotFound, "post not found")
	default:
		h.log.Error("toggle like failed", zap.Error(err))
		writeError(rw, http.StatusInternalServerError, "server error")
	}
}

func (h *HTTPHandler) DeletePost(rw http.ResponseWriter, r *http.Request) {
	username := UsernameFromContext(r.Context())
	err := h.posts.Delete(r.Context(), mux.Vars(r)["id"], username)
	switch {
	case err == nil:
		writeJSON(rw, http.StatusOK, messageResponse{Success: true, Message: "post deleted"})
	case errors.Is(err, storage.ErrPostNotFound):
		writeError(rw, http.StatusNotFound, "post not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(rw, http.StatusForbidden, "only the author can delete this post")
	default:
		h.log.Error("delete post failed", zap.Error(err))
		writeError(rw, http.StatusInternalServerError, "server error")
	}
}

// queryInt falls back to def when the parameter is absent, non-numeric or
// not positive.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}
