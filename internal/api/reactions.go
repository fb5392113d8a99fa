package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/service"
)

type toggleReactionRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   int64  `json:"target_id" binding:"required"`
	Kind       string `json:"kind" binding:"required"`
}

func parseTargetType(s string) (models.TargetType, bool) {
	switch models.TargetType(s) {
	case models.TargetPost, models.TargetComment:
		return models.TargetType(s), true
	default:
		return "", false
	}
}

func (r *Router) toggleReaction(c *gin.Context) {
	identity, _ := callerIdentity(c)

	var req toggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetType, ok := parseTargetType(req.TargetType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_type must be 'post' or 'comment'"})
		return
	}
	kind, err := service.ParseKind(req.Kind)
	if err != nil {
		respondError(c, err)
		return
	}

	target := models.Target{Type: targetType, ID: req.TargetID}
	result, err := r.svc.ToggleReaction(c.Request.Context(), identity.UserID, target, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (r *Router) getStats(c *gin.Context) {
	targetType, ok := parseTargetType(c.Param("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target type must be 'post' or 'comment'"})
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target id"})
		return
	}

	var viewerID *int64
	if identity, ok := callerIdentity(c); ok {
		viewerID = &identity.UserID
	}

	result, err := r.svc.GetStats(c.Request.Context(), models.Target{Type: targetType, ID: id}, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
