package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/pkg/errors"
)

const maxUploadBytes = 10 << 20

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
		return
	}

	token, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"token": token})
	case errors.IsInvalidInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed credentials"})
	case errors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "not an admin"})
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	}
}

type postRequest struct {
	Timestamp string   `json:"timestamp"`
	Type      string   `json:"type"`
	Content   string   `json:"content"`
	Images    []string `json:"images"`
	Videos    []string `json:"videos"`
	Links     []string `json:"links"`
}

func (r *postRequest) toDraft() (domain.PostDraft, error) {
	draft := domain.PostDraft{
		Type:    r.Type,
		Content: r.Content,
		Images:  r.Images,
		Videos:  r.Videos,
		Links:   r.Links,
	}
	if r.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return domain.PostDraft{}, errors.Wrap(errors.ErrInvalidInput, "bad timestamp")
		}
		draft.Timestamp = ts
	}
	return draft, nil
}

// reloadFeed republishes the feed after an admin mutation so every open
// session sees the change. Bursts of edits coalesce into one pipeline run.
func (s *Server) reloadFeed() {
	s.feed.RequestReload()
}

func (s *Server) handleCreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
		return
	}
	draft, err := req.toDraft()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.posts.Create(c.Request.Context(), draft)
	if err != nil {
		s.logger.Error("Post create failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create post"})
		return
	}
	s.reloadFeed()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) handleUpdatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
		return
	}
	draft, err := req.toDraft()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.posts.Update(c.Request.Context(), c.Param("id"), draft); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	s.reloadFeed()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeletePost(c *gin.Context) {
	if err := s.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	s.reloadFeed()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image"})
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	url, err := s.storage.UploadImage(c.Request.Context(), header.Filename, data, contentType)
	if err != nil {
		s.logger.Error("Image upload failed", "name", header.Filename, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
