/*
Copyright © 2025 orthoime
*/
package cmd

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orthoime/medicase-be/config"
	"github.com/orthoime/medicase-be/database"
	"github.com/orthoime/medicase-be/handler"
	"github.com/orthoime/medicase-be/logger"
	"github.com/orthoime/medicase-be/middleware"
	"github.com/orthoime/medicase-be/repository"
	"github.com/orthoime/medicase-be/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the case management server",
	Long:  `Starts the HTTP API with the document intelligence pipeline`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		appLogger := logger.New(cfg.LogLevel, cfg.LogPretty)

		ctx := context.Background()
		mongoClient, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect(ctx)
		mongoDb := mongoClient.Database(cfg.Database)

		// init repo
		caseRepo := repository.NewCaseRepo(mongoDb)
		documentRepo := repository.NewDocumentRepo(mongoDb)
		extractionRepo := repository.NewExtractionRepo(mongoDb)
		examinationRepo := repository.NewExaminationRepo(mongoDb)
		timelineRepo := repository.NewTimelineRepo(mongoDb)
		reportRepo := repository.NewReportRepo(mongoDb)
		auditRepo := repository.NewAuditRepo(mongoDb)

		// init pipeline
		segmenter := service.NewSegmenter(cfg.Pipeline.ChunkSize)
		extractor, err := service.NewGeminiExtractor(cfg.Pipeline.GeminiKeys(), cfg.Pipeline.ExtractModel, appLogger)
		if err != nil {
			log.Fatalf("Failed to init extractor: %v", err)
		}
		var synthesizer service.Synthesizer
		if cfg.Pipeline.Backend == "openai" {
			synthesizer = service.NewOpenAISynthesizer(cfg.Pipeline.OpenAIBaseURL, cfg.Pipeline.OpenAIAPIKey, cfg.Pipeline.SynthesisModel)
		} else {
			synthesizer, err = service.NewGeminiSynthesizer(cfg.Pipeline.GeminiKeys(), cfg.Pipeline.SynthesisModel, appLogger)
			if err != nil {
				log.Fatalf("Failed to init synthesizer: %v", err)
			}
		}
		persister := service.NewResultPersister(documentRepo, extractionRepo, appLogger)
		progressHub := service.NewProgressHub(appLogger)
		analysisService := service.NewAnalysisService(segmenter, extractor, synthesizer, persister, progressHub, appLogger)

		// init services
		fileService, err := service.NewFileService(cfg.UploadDir, cfg.SignedURL.Secret, cfg.SignedURL.TTLSeconds)
		if err != nil {
			log.Fatalf("Failed to init file storage: %v", err)
		}
		caseService := service.NewCaseService(caseRepo, auditRepo, appLogger)
		documentService := service.NewDocumentService(documentRepo, fileService, appLogger)
		examinationService := service.NewExaminationService(examinationRepo, timelineRepo, appLogger)
		timelineService := service.NewTimelineService(timelineRepo, extractionRepo, appLogger)
		reportService := service.NewReportService(reportRepo, caseRepo, documentRepo, extractionRepo, appLogger)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		analyzeHandler := handler.NewAnalyzeHandler(analysisService)
		caseHandler := handler.NewCaseHandler(caseService)
		documentHandler := handler.NewDocumentHandler(documentService)
		examinationHandler := handler.NewExaminationHandler(examinationService)
		timelineHandler := handler.NewTimelineHandler(timelineService)
		reportHandler := handler.NewReportHandler(reportService)
		statusHandler := handler.NewStatusHandler(progressHub)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		apiV1 := router.Group("/api/v1")

		// Signed-URL download does not carry a bearer token
		apiV1.GET("/documents/:id/download", documentHandler.HandleDownload)

		protected := apiV1.Group("/")
		protected.Use(middleware.AuthMiddleware)
		{
			protected.POST("/document-intelligence/analyze", analyzeHandler.HandleAnalyze)

			protected.POST("/cases", caseHandler.HandleCreateCase)
			protected.GET("/cases", caseHandler.HandleListCases)
			protected.GET("/cases/stats", caseHandler.HandleStats)
			protected.GET("/cases/:id", caseHandler.HandleGetCase)
			protected.PUT("/cases/:id", caseHandler.HandleUpdateCase)
			protected.POST("/cases/:id/status", caseHandler.HandleChangeStatus)
			protected.GET("/cases/:id/status-history", caseHandler.HandleStatusHistory)
			protected.POST("/cases/:id/assign", caseHandler.HandleAssignCase)
			protected.DELETE("/cases/:id", caseHandler.HandleDeleteCase)

			protected.POST("/cases/:id/documents", documentHandler.HandleUpload)
			protected.GET("/cases/:id/documents", documentHandler.HandleListByCase)
			protected.GET("/documents/:id", documentHandler.HandleGetDocument)
			protected.GET("/documents/:id/download-url", documentHandler.HandleDownloadURL)
			protected.DELETE("/documents/:id", documentHandler.HandleDelete)

			protected.POST("/examinations", examinationHandler.HandleCreate)
			protected.GET("/examinations/:id", examinationHandler.HandleGetDetail)
			protected.GET("/cases/:id/examinations", examinationHandler.HandleListByCase)
			protected.POST("/examinations/:id/rom", examinationHandler.HandleRecordROM)
			protected.POST("/examinations/:id/strength", examinationHandler.HandleRecordStrength)
			protected.POST("/examinations/:id/special-tests", examinationHandler.HandleRecordSpecialTest)
			protected.POST("/examinations/:id/complete", examinationHandler.HandleComplete)

			protected.GET("/cases/:id/timeline", timelineHandler.HandleListEvents)
			protected.POST("/cases/:id/timeline", timelineHandler.HandleAddEvent)
			protected.POST("/cases/:id/timeline/rebuild", timelineHandler.HandleRebuild)
			protected.DELETE("/cases/:id/timeline/:eventId", timelineHandler.HandleDeleteEvent)

			protected.POST("/reports", reportHandler.HandleCreate)
			protected.GET("/reports/:id", reportHandler.HandleGetDetail)
			protected.GET("/cases/:id/reports", reportHandler.HandleListByCase)
			protected.PUT("/reports/:id/sections/:sectionId", reportHandler.HandleUpdateSection)
			protected.POST("/reports/:id/generate-sections", reportHandler.HandleRegenerateSections)
			protected.POST("/reports/:id/finalize", reportHandler.HandleFinalize)
		}

		router.GET("/ws/analysis/:documentId", statusHandler.HandleAnalysisProgress)

		appLogger.Info().Str("port", cfg.Port).Msg("starting server")
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
