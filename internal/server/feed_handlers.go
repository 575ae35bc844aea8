package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/internal/feed"
	"github.com/satyapal28/archive-server/internal/translator"
)

// postView is the wire shape of one rendered post. Stats are deliberately
// absent; clients fetch them lazily per post as it scrolls into view.
type postView struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	Year           int      `json:"year,omitempty"`
	Type           string   `json:"type,omitempty"`
	Content        string   `json:"content"`
	Images         []string `json:"images,omitempty"`
	Videos         []string `json:"videos,omitempty"`
	Links          []string `json:"links,omitempty"`
	HasTranslation bool     `json:"has_translation,omitempty"`
}

type pageView struct {
	Posts []postView `json:"posts"`
	Page  int        `json:"page"`
	Empty bool       `json:"empty"`
	// ObserveIDs tells the client which posts to start watching for the
	// lazy stats fetch; it always matches the batch just rendered.
	ObserveIDs []string `json:"observe_ids"`
	// GalleryGroups lists the media of each new post for the lightbox,
	// grouped so next/previous stays within one post.
	GalleryGroups [][]string `json:"gallery_groups"`
	Remaining     int        `json:"remaining"`
}

type feedView struct {
	pageView
	Years       []int  `json:"years"`
	Year        int    `json:"year,omitempty"`
	Query       string `json:"query,omitempty"`
	ResultCount int    `json:"result_count"` // -1 when no search is active
	Partial     bool   `json:"partial,omitempty"`
}

func toPostView(p domain.Post) postView {
	return postView{
		ID:             p.ID,
		Date:           p.Date,
		Year:           p.Year(),
		Type:           p.Type,
		Content:        p.Content,
		Images:         p.Images,
		Videos:         p.Videos,
		Links:          p.Links,
		HasTranslation: translator.ContainsDevanagari(p.Content),
	}
}

func toPageView(batch feed.Batch, remaining int) pageView {
	posts := make([]postView, 0, len(batch.Posts))
	observe := make([]string, 0, len(batch.Posts))
	groups := make([][]string, 0, len(batch.Posts))
	for _, p := range batch.Posts {
		posts = append(posts, toPostView(p))
		observe = append(observe, p.ID)
		if media := append(append([]string{}, p.Images...), p.Videos...); len(media) > 0 {
			groups = append(groups, media)
		}
	}
	return pageView{
		Posts:         posts,
		Page:          batch.Page,
		Empty:         batch.Empty,
		ObserveIDs:    observe,
		GalleryGroups: groups,
		Remaining:     remaining,
	}
}

// handleFeed re-derives the visitor's view from the year filter and query,
// then returns the first page.
func (s *Server) handleFeed(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	query := c.Query("q")

	sess := s.feed.Session(visitorID(c))
	if err := sess.Apply(c.Request.Context(), year, query); err != nil {
		// A newer query from the same visitor won; nothing to render for
		// this one.
		c.JSON(http.StatusOK, gin.H{"stale": true})
		return
	}

	batch, _ := sess.NextPage()
	c.JSON(http.StatusOK, feedView{
		pageView:    toPageView(batch, sess.Remaining()),
		Years:       s.feed.Store().Years(),
		Year:        sess.Year(),
		Query:       sess.Query(),
		ResultCount: sess.ResultCount(),
		Partial:     s.feed.LastLoad().State == feed.LoadPartial,
	})
}

// handleFeedNext renders one more page of the active view.
func (s *Server) handleFeedNext(c *gin.Context) {
	sess := s.feed.Session(visitorID(c))
	batch, ok := sess.NextPage()
	if !ok && !batch.Empty {
		c.JSON(http.StatusOK, gin.H{"done": true})
		return
	}
	c.JSON(http.StatusOK, toPageView(batch, sess.Remaining()))
}

func (s *Server) handlePhotoGrid(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"images": s.feed.PhotoGrid()})
}

// handleTranslate serves the per-post "see translation" affordance.
func (s *Server) handleTranslate(c *gin.Context) {
	text := c.Query("text")
	lang := c.DefaultQuery("lang", "en")
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to translate"})
		return
	}

	translated, err := s.translator.Translate(c.Request.Context(), text, lang)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, translator.ErrRateLimited) {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"error": "translation unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"translation": translated})
}
