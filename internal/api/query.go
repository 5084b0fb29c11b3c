package api

import (
	"net/http"

	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/models"

	"github.com/gin-gonic/gin"
)

// legacyQueryRequest is the single-entity request shape of /query.
type legacyQueryRequest struct {
	Query         string `json:"query"`
	WalletAddress string `json:"wallet_address"`
	CollectionID  string `json:"collection_id"`
	TokenID       string `json:"token_id"`
}

type smartQueryRequest struct {
	Query           string   `json:"query"`
	UserID          string   `json:"user_id"`
	UserWallets     []string `json:"user_wallets"`
	UserCollections []string `json:"user_collections"`
}

func (s *Server) query(c *gin.Context) {
	var req legacyQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respond(c, models.Query{
		Text:          req.Query,
		WalletAddress: req.WalletAddress,
		CollectionID:  req.CollectionID,
		TokenID:       req.TokenID,
	})
}

func (s *Server) smartQuery(c *gin.Context) {
	var req smartQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := models.Query{
		Text:            req.Query,
		UserID:          req.UserID,
		UserWallets:     req.UserWallets,
		UserCollections: req.UserCollections,
	}
	if q.UserID != "" && len(q.UserWallets) == 0 && len(q.UserCollections) == 0 {
		s.loadProfile(c, &q)
	}
	s.respond(c, q)
}

// loadProfile fills the user lists from the stored profile. A missing or
// unreadable profile leaves the query as sent.
func (s *Server) loadProfile(c *gin.Context, q *models.Query) {
	if s.profiles == nil {
		return
	}
	p, err := s.profiles.Get(c.Request.Context(), q.UserID)
	if err != nil {
		if apperrors.CodeOf(err) != apperrors.ErrCodeProfileNotFound {
			s.logger.Warn("profile lookup failed", map[string]interface{}{
				"userId": q.UserID,
				"error":  err.Error(),
			})
		}
		return
	}
	q.UserWallets = p.WalletAddresses
	q.UserCollections = p.WatchlistCollections
}

func (s *Server) respond(c *gin.Context, q models.Query) {
	resp := s.pipeline.Run(c.Request.Context(), q)
	if resp.Error != "" {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
