package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/paystub-extraction/client"
	"github.com/Aashish23092/paystub-extraction/config"
	"github.com/Aashish23092/paystub-extraction/handler"
	"github.com/Aashish23092/paystub-extraction/mcp"
	"github.com/Aashish23092/paystub-extraction/repository"
	"github.com/Aashish23092/paystub-extraction/service"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// stdout carries the MCP protocol in stdio mode
	log.SetOutput(os.Stderr)
	log.Printf("Loaded %s", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ocr service.OCR
	if cfg.OCREnabled {
		tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
		defer tesseractClient.Close()
		ocr = tesseractClient
	}

	var store service.HistoryStore
	if cfg.DBDriver != "" {
		repo, err := repository.Open(ctx, cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			log.Fatalf("Failed to open history store: %v", err)
		}
		defer repo.Close()
		store = repo
	}

	paystubService := service.NewPaystubService(ocr, service.NewPDFProcessor(), store, service.Options{
		MaxFileSize: cfg.MaxFileSize,
		Strategy:    cfg.Strategy,
		OCREnabled:  cfg.OCREnabled,
		Debug:       cfg.IsDebug(),
	})

	if cfg.Mode == config.ModeStdio {
		mcpServer, err := mcp.NewServer(paystubService)
		if err != nil {
			log.Fatalf("Failed to create MCP server: %v", err)
		}
		if err := mcpServer.Run(ctx); err != nil {
			log.Fatalf("MCP server stopped: %v", err)
		}
		return
	}

	if !cfg.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.MaxMultipartMemory = 32 << 20

	handler.NewPaystubHandler(paystubService).RegisterRoutes(router)

	log.Printf("Starting Pay Stub Extraction Service on port %d", cfg.ServerPort)
	if err := router.Run(cfg.Address()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
