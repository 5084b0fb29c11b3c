// Package api exposes the query pipeline, the direct analytics lookups and the
// profile store over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nft-query-router/internal/clients/analytics"
	"nft-query-router/internal/common/config"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/models"
	"nft-query-router/internal/profiles"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const welcomeMessage = "Welcome to the NFT portfolio assistant!"

// Runner answers one query.
type Runner interface {
	Run(ctx context.Context, q models.Query) *models.Response
}

// DataSource backs the direct lookup endpoints.
type DataSource interface {
	CollectionStats(ctx context.Context, p analytics.Params) (*analytics.Result, error)
	WalletHealth(ctx context.Context, wallet string, p analytics.Params) (*analytics.Result, error)
	NFTValuation(ctx context.Context, contract, tokenID string, p analytics.Params) (*analytics.Result, error)
}

type Server struct {
	config   config.ServerConfig
	engine   *gin.Engine
	pipeline Runner
	data     DataSource
	profiles profiles.Store
	logger   logger.Logger
}

func NewServer(cfg config.ServerConfig, pipeline Runner, data DataSource, store profiles.Store, log logger.Logger) *Server {
	s := &Server{
		config:   cfg,
		pipeline: pipeline,
		data:     data,
		profiles: store,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger(), cors(cfg.CORSOrigins))
	s.routes(engine)
	s.engine = engine
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", s.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/query", s.query)
	r.POST("/smart-query", s.smartQuery)

	r.POST("/get-collection-stats", s.collectionStats)
	r.POST("/get-wallet-health", s.walletHealth)
	r.POST("/get-nft-valuation", s.nftValuation)
	r.GET("/chart-data/:collection_id", s.chartData)

	r.POST("/user/profile", s.saveProfile)
	r.GET("/user/profile/:user_id", s.getProfile)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.engine,
		ReadTimeout:  config.GetDuration(s.config.ReadTimeout),
		WriteTimeout: config.GetDuration(s.config.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down http server", nil)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) ready(c *gin.Context) {
	if s.profiles != nil {
		if err := s.profiles.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request served", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}

// cors answers preflight requests and echoes allowed origins. An empty list
// allows any origin.
func cors(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			_, ok := allowed[origin]
			if ok || len(allowed) == 0 {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				h.Add("Vary", "Origin")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
