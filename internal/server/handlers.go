package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/spacesedan/safegram/internal/db"
	"github.com/spacesedan/safegram/internal/models"
	"github.com/spacesedan/safegram/internal/uploads"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[Server] Failed to encode response",
			slog.String("error", err.Error()))
	}
}

// currentUser resolves the session cookie. The bool mirrors the identity
// provider: false means not signed in.
func (s *Server) currentUser(r *http.Request) (models.User, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return models.User{}, false
	}
	return s.identity.GetCurrentUser(r.Context(), cookie.Value)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if !s.storeHealthy.Load() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]bool{
		"store":      s.storeHealthy.Load(),
		"classifier": s.classifierHealthy.Load(),
	})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, models.SubmissionResult{Success: false, Message: "Email is required"})
		return
	}

	token, err := s.identity.SignIn(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeJSON(w, http.StatusUnauthorized, models.SubmissionResult{Success: false, Message: "No account for that email"})
			return
		}
		slog.Error("[Server] Sign-in failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, models.SubmissionResult{Success: false, Message: "Failed to sign in"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, models.SubmissionResult{Success: true, Message: "Signed in"})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.identity.SignOut(r.Context(), cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	writeJSON(w, http.StatusOK, models.SubmissionResult{Success: true, Message: "Signed out"})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.GetPosts(r.Context())
	if err != nil {
		slog.Error("[Server] Failed to load feed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, models.SubmissionResult{Success: false, Message: "Failed to load feed"})
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.SubmissionResult{Success: false, Message: "Invalid request body"})
		return
	}

	user, _ := s.currentUser(r)
	result := s.orchestrator.CreatePost(r.Context(), user, req.Content, req.ImageURL)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.SubmissionResult{Success: false, Message: "Invalid request body"})
		return
	}

	user, _ := s.currentUser(r)
	result := s.orchestrator.CreateComment(r.Context(), user, mux.Vars(r)["id"], req.Content)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.store.GetComments(r.Context(), mux.Vars(r)["id"], 0)
	if err != nil {
		slog.Error("[Server] Failed to load comments", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, models.SubmissionResult{Success: false, Message: "Failed to load comments"})
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.SubmissionResult{Success: false, Message: "You must be signed in to like a post"})
		return
	}
	if err := s.store.LikePost(r.Context(), mux.Vars(r)["id"], user.ID); err != nil {
		slog.Error("[Server] Failed to like post", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, models.SubmissionResult{Success: false, Message: "Failed to like post"})
		return
	}
	writeJSON(w, http.StatusOK, models.SubmissionResult{Success: true, Message: "Post liked"})
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.SubmissionResult{Success: false, Message: "You must be signed in to like a post"})
		return
	}
	if err := s.store.UnlikePost(r.Context(), mux.Vars(r)["id"], user.ID); err != nil {
		slog.Error("[Server] Failed to unlike post", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, models.SubmissionResult{Success: false, Message: "Failed to unlike post"})
		return
	}
	writeJSON(w, http.StatusOK, models.SubmissionResult{Success: true, Message: "Post unliked"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUser(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.SubmissionResult{Success: false, Message: "You must be signed in to upload images"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.SubmissionResult{Success: false, Message: "No file provided"})
		return
	}
	defer file.Close()

	url, err := s.uploader.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrInvalidType):
			writeJSON(w, http.StatusBadRequest, models.SubmissionResult{Success: false, Message: "Invalid file type. Please upload a JPEG, PNG, GIF, or WebP image."})
		case errors.Is(err, uploads.ErrFileTooLarge):
			writeJSON(w, http.StatusBadRequest, models.SubmissionResult{Success: false, Message: "File too large. Maximum size is 5MB."})
		default:
			slog.Error("[Server] Upload failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, models.SubmissionResult{Success: false, Message: "Failed to upload image"})
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
		Message string `json:"message"`
	}{true, url, "Image uploaded successfully"})
}
