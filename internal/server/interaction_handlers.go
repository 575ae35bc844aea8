package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/pkg/errors"
)

type commentView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

func toCommentViews(comments []*domain.Comment) []commentView {
	out := make([]commentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentView{
			ID:        c.ID,
			Username:  c.Username,
			Message:   c.Message,
			CreatedAt: c.CreatedAt.Format("02 Jan 2006, 3:04 pm"),
		})
	}
	return out
}

func (s *Server) handleToggleLike(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	_ = c.ShouldBindJSON(&req)

	result, err := s.interactions.ToggleLike(c.Request.Context(), c.Param("id"), visitorID(c), req.Username)
	if err != nil {
		s.logger.Error("Like toggle failed", "post_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update like"})
		return
	}
	if result.Ignored {
		c.JSON(http.StatusOK, gin.H{"ignored": true})
		return
	}
	resp := gin.H{"liked": result.Liked}
	// Count -1 means the recount failed; the client keeps its old number.
	if result.Count >= 0 {
		resp["count"] = result.Count
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.interactions.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"likes":    stats.Likes,
		"comments": stats.Comments,
		"liked":    s.interactions.HasLiked(c.Request.Context(), c.Param("id"), visitorID(c)),
	})
}

func (s *Server) handleListComments(c *gin.Context) {
	comments, err := s.interactions.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comments unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": toCommentViews(comments)})
}

func (s *Server) handleAddComment(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Message  string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
		return
	}

	comments, err := s.interactions.AddComment(c.Request.Context(), c.Param("id"), visitorID(c), req.Username, req.Message)
	if err != nil {
		if errors.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("Comment create failed", "post_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not post comment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comments": toCommentViews(comments)})
}

func (s *Server) handleDeleteComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad comment id"})
		return
	}
	if err := s.interactions.DeleteComment(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleLikeDetail(c *gin.Context) {
	likes, err := s.interactions.LikeDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "likes unavailable"})
		return
	}
	out := make([]gin.H, 0, len(likes))
	for _, l := range likes {
		out = append(out, gin.H{
			"username": l.Username,
			"liked_at": l.CreatedAt.Format("02 Jan 2006, 3:04 pm"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"likes": out})
}
