package api

import (
	"errors"
	"fmt"
	"net/http"

	"nft-query-router/internal/clients/analytics"

	"github.com/gin-gonic/gin"
)

type lookupRequest struct {
	WalletAddress string `json:"wallet_address"`
	CollectionID  string `json:"collection_id"`
	TokenID       string `json:"token_id"`
}

func (s *Server) collectionStats(c *gin.Context) {
	var req lookupRequest
	_ = c.ShouldBindJSON(&req)
	if req.CollectionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing collection_id"})
		return
	}
	res, err := s.data.CollectionStats(c.Request.Context(), analytics.ForCollection(req.CollectionID))
	s.lookupResult(c, res, err)
}

func (s *Server) walletHealth(c *gin.Context) {
	var req lookupRequest
	_ = c.ShouldBindJSON(&req)
	if req.WalletAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing wallet_address"})
		return
	}
	res, err := s.data.WalletHealth(c.Request.Context(), req.WalletAddress, analytics.Params{})
	s.lookupResult(c, res, err)
}

func (s *Server) nftValuation(c *gin.Context) {
	var req lookupRequest
	_ = c.ShouldBindJSON(&req)
	if req.CollectionID == "" || req.TokenID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token_id or collection_id"})
		return
	}
	res, err := s.data.NFTValuation(c.Request.Context(), req.CollectionID, req.TokenID, analytics.Params{})
	s.lookupResult(c, res, err)
}

func (s *Server) lookupResult(c *gin.Context, res *analytics.Result, err error) {
	if err != nil {
		status := http.StatusBadGateway
		msg := "analytics request failed"
		var apiErr *analytics.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
			msg = fmt.Sprintf("analytics provider returned status %d", apiErr.StatusCode)
		}
		s.logger.Warn("direct lookup failed", map[string]interface{}{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res.Records, "empty": res.Empty})
}
