package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r *Router) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := r.svc.Register(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := r.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"role":  user.Role,
		"token": token,
	})
}

func (r *Router) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := r.svc.Authenticate(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := r.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"role":  user.Role,
		"token": token,
	})
}

// me returns the account behind the bearer token.
func (r *Router) me(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := r.svc.GetUser(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":   user.ID,
		"name": user.Name,
		"role": user.Role,
	})
}

// parseIDParam parses a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
