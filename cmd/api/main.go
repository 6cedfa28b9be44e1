package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"goto-quest-backend/internal/ai"
	"goto-quest-backend/internal/config"
	"goto-quest-backend/internal/profile"
	"goto-quest-backend/internal/quest"
	"goto-quest-backend/internal/questlog"
	"goto-quest-backend/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := newLogger(cfg.LogMode)
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer func() { _ = logger.Sync() }()

	// ----------------------
	//        STORES
	// ----------------------

	profiles, err := profile.Load(cfg.ProfilePath, logger)
	if err != nil {
		logger.Fatalw("failed to load profile table", "err", err)
	}

	qlog, err := questlog.Open(cfg.QuestLogPath, logger)
	if err != nil {
		logger.Fatalw("failed to open quest log", "err", err)
	}

	aiClient := ai.New(cfg.OpenAIKey, cfg.OpenAIModel)
	generator := quest.New(profiles, qlog, aiClient, logger)

	// ----------------------
	//        ROUTES
	// ----------------------

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		web.JSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"message": "Quest generator service is running",
		})
	})

	mux.HandleFunc("GET /user-stats/{customerId}", profile.UserStatsHandler(profiles))
	mux.HandleFunc("GET /generate-quest/{customerId}", quest.GenerateQuestHandler(generator))
	mux.HandleFunc("POST /complete-quest/{customerId}/{questId}", quest.CompleteQuestHandler(profiles, qlog))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		web.Error(w, http.StatusNotFound, "Resource not found")
	})

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	handler := c.Handler(web.Recover(logger, mux))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Infow("quest API listening", "addr", addr, "model", cfg.OpenAIModel)
	logger.Fatalw("server stopped", "err", http.ListenAndServe(addr, handler))
}

func newLogger(mode string) (*zap.SugaredLogger, error) {
	var zcfg zap.Config
	switch strings.ToLower(mode) {
	case "dev", "development":
		zcfg = zap.NewDevelopmentConfig()
	default:
		zcfg = zap.NewProductionConfig()
	}
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
