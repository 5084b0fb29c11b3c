package api

import (
	"net/http"

	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/models"

	"github.com/gin-gonic/gin"
)

func (s *Server) saveProfile(c *gin.Context) {
	var p models.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.profiles.Save(c.Request.Context(), &p); err != nil {
		s.profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile saved successfully", "profile": p})
}

func (s *Server) getProfile(c *gin.Context) {
	p, err := s.profiles.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		s.profileError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) profileError(c *gin.Context, err error) {
	stdErr := apperrors.Normalize(err)
	status := http.StatusInternalServerError
	switch stdErr.Code {
	case apperrors.ErrCodeProfileNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeInvalidRequest:
		status = http.StatusBadRequest
	default:
		s.logger.Error("profile store failed", map[string]interface{}{"error": err.Error()})
	}
	c.JSON(status, gin.H{"error": stdErr.Message, "code": string(stdErr.Code)})
}
