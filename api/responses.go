package api

import (
	"encoding/json"
	"net/http"

	"github.com/YuBaBing/FCS/domain/post"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

type postResponse struct {
	Success bool       `json:"success"`
	Post    *post.Post `json:"post"`
}

type feedResponse struct {
	Posts   []*post.Post `json:"posts"`
	HasMore bool         `json:"hasMore"`
}

func writeJSON(rw http.ResponseWriter, status int, body any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(body)
}

func writeError(rw http.ResponseWriter, status int, message string) {
	writeJSON(rw, status, messageResponse{Success: false, Message: message})
}
