package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"haranalyzer/internal/analyze"
	"haranalyzer/internal/server/api"
	"haranalyzer/internal/server/storage"
	"haranalyzer/internal/server/storage/duckdb"
	"haranalyzer/internal/server/storage/sqlite"
)

type Config struct {
	ListenAddr string
	DBDriver   string
	DBPath     string
	Thresholds analyze.Thresholds
}

type Server struct {
	httpServer *http.Server
	store      storage.Store
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.Thresholds == (analyze.Thresholds{}) {
		cfg.Thresholds = analyze.DefaultThresholds()
	}

	var (
		store storage.Store
		err   error
	)
	switch cfg.DBDriver {
	case "", "sqlite":
		store, err = sqlite.NewStore(cfg.DBPath)
	case "duckdb":
		store, err = duckdb.NewStore(cfg.DBPath)
	default:
		return nil, fmt.Errorf("不支持的 db-driver：%s", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())

	h := api.NewHandlers(store, cfg.Thresholds)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/capture", h.UploadCapture)
		v1.GET("/entries", h.Entries)
		v1.GET("/summary", h.Summary)
		v1.GET("/slowest", h.Slowest)
		v1.GET("/domains", h.Domains)
		v1.GET("/distribution", h.Distribution)
	}

	return &Server{
		store: store,
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	_ = s.httpServer.Shutdown(ctx)
	return s.store.Close()
}
