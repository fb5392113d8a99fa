package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/service"
)

// postResponse is the wire form of a post. Clients treat slug as opaque
// except for the leading id segment.
type postResponse struct {
	ID        int64           `json:"id"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Category  string          `json:"category,omitempty"`
	AuthorID  int64           `json:"author_id"`
	Counters  models.Counters `json:"counters"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toPostResponse(post *models.Post) postResponse {
	return postResponse{
		ID:        post.ID,
		Slug:      post.Slug,
		Title:     post.Title,
		Content:   post.Content,
		Category:  post.Category,
		AuthorID:  post.AuthorID,
		Counters:  post.Counters(),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

type postRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
}

func (r *Router) createPost(c *gin.Context) {
	identity, _ := callerIdentity(c)

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := r.svc.CreatePost(c.Request.Context(), identity.UserID, service.PostDraft{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPostResponse(post))
}

func (r *Router) getPost(c *gin.Context) {
	post, err := r.svc.GetPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(post))
}

func (r *Router) updatePost(c *gin.Context) {
	identity, _ := callerIdentity(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := r.svc.UpdatePost(c.Request.Context(), identity, id, service.PostDraft{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(post))
}

func (r *Router) deletePost(c *gin.Context) {
	identity, _ := callerIdentity(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	if err := r.svc.DeletePost(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
