package main

import (
	"fmt"
	"os"

	"github.com/emert/crm-service/internal/config"
	"github.com/emert/crm-service/internal/db"
	"github.com/emert/crm-service/internal/excel"
	httphandler "github.com/emert/crm-service/internal/http"
	"github.com/emert/crm-service/internal/logger"
	"github.com/emert/crm-service/internal/pdf"
	"github.com/emert/crm-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	pdfGenerator := pdf.NewGenerator()
	excelGenerator := excel.NewGenerator()

	handler := httphandler.NewHandler(
		service.NewClientService(database),
		service.NewProjectService(database),
		service.NewTaskService(database),
		service.NewQuoteService(database, pdfGenerator),
		service.NewRequirementService(database),
		service.NewUpdateService(database),
		service.NewCommunicationService(database),
		service.NewAnalyticsService(database, excelGenerator),
		log,
	)
	router := httphandler.NewRouter(handler, cfg.Environment, cfg.CORS.AllowOrigins, cfg.Static.Dir)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting crm service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
