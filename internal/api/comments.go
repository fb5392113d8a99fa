package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maeulhub/maeul/internal/models"
)

type commentResponse struct {
	ID        int64                `json:"id"`
	PostID    int64                `json:"post_id"`
	AuthorID  int64                `json:"author_id"`
	Content   string               `json:"content"`
	ParentID  *int64               `json:"parent_comment_id,omitempty"`
	Status    models.CommentStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

func toCommentResponse(comment *models.Comment) commentResponse {
	resp := commentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		Status:    comment.Status,
		CreatedAt: comment.CreatedAt,
	}
	if comment.ParentID.Valid {
		parentID := comment.ParentID.Int64
		resp.ParentID = &parentID
	}
	return resp
}

type createCommentRequest struct {
	PostID   int64  `json:"post_id" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ParentID *int64 `json:"parent_comment_id"`
}

func (r *Router) createComment(c *gin.Context) {
	identity, _ := callerIdentity(c)

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := r.svc.CreateComment(c.Request.Context(), identity.UserID, req.PostID, req.Content, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

type updateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (r *Router) updateComment(c *gin.Context) {
	identity, _ := callerIdentity(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := r.svc.UpdateComment(c.Request.Context(), identity, id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponse(comment))
}

func (r *Router) deleteComment(c *gin.Context) {
	identity, _ := callerIdentity(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	result, err := r.svc.DeleteComment(c.Request.Context(), identity, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (r *Router) listComments(c *gin.Context) {
	post, err := r.svc.ResolvePost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	comments, err := r.svc.ListComments(c.Request.Context(), post.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		out = append(out, toCommentResponse(comment))
	}
	c.JSON(http.StatusOK, gin.H{"post_id": post.ID, "comments": out})
}
