package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mediascribe/internal/config"
	"mediascribe/internal/media"
	"mediascribe/internal/pipeline"
	"mediascribe/internal/services"
	"mediascribe/internal/storage"
	"mediascribe/pkg/executor"
)

type Server struct {
	engine *gin.Engine
	cfg    config.Config
}

func NewServer(cfg config.Config, log zerolog.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	files, err := storage.NewFileManager(cfg.DataDir, cfg.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("init file manager: %w", err)
	}

	store := storage.NewSessionStore()
	openaiSvc := services.NewOpenAIService(cfg)
	pdfSvc := services.NewPDFService()
	shareSvc := services.NewShareService(cfg)

	normalizer := media.NewNormalizer(executor.New(), log, cfg)
	pipe := pipeline.New(cfg, store, files, normalizer, openaiSvc, openaiSvc, log)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	engine.Use(MaxBodySize(cfg.MaxUploadBytes))
	engine.Use(CORS())

	api := NewAPI(cfg, store, files, pipe, pdfSvc, shareSvc, log)
	registerRoutes(engine, api)

	return &Server{engine: engine, cfg: cfg}, nil
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	return s.engine.Run(addr)
}
