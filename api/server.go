package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/YuBaBing/FCS/auth"
)

// NewRouter wires the API routes, the auth middleware and the static
// uploads directory.
func NewRouter(h *HTTPHandler, tokens *auth.TokenService, uploadsDir string, log *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover(log), RequestLogging(log))

	authed := RequireAuth(tokens, log)

	r.HandleFunc("/api/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", h.Logout).Methods(http.MethodPost)
	r.HandleFunc("/api/posts", authed(h.CreatePost)).Methods(http.MethodPost)
	r.HandleFunc("/api/posts", h.ListPosts).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{id}/like", authed(h.ToggleLike)).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{id}", authed(h.DeletePost)).Methods(http.MethodDelete)
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	return r
}

func MakeServer(r *mux.Router, port string) *http.Server {
	return &http.Server{
		Handler:      r,
		Addr:         fmt.Sprintf("0.0.0.0:%s", port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
}
