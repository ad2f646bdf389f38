/*
Copyright © 2025 orthoime
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/orthoime/medicase-be/config"
	"github.com/orthoime/medicase-be/database"
	"github.com/orthoime/medicase-be/logger"
	"github.com/orthoime/medicase-be/repository"
	"github.com/orthoime/medicase-be/service"
	"github.com/orthoime/medicase-be/types"
	"github.com/orthoime/medicase-be/utils"
)

// noProgress discards progress events for one-shot CLI runs.
type noProgress struct{}

func (noProgress) Publish(types.ProcessingStatus) {}

// analyzeDocumentCmd represents the analyze-document command
var analyzeDocumentCmd = &cobra.Command{
	Use:   "analyze-document",
	Short: "Run document analysis on a local PDF",
	Long: `Runs the document intelligence pipeline on a local PDF and prints
the result as JSON. The document is archived into the upload directory and
the result is persisted against the given case.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		caseID, _ := cmd.Flags().GetString("case-id")
		if filePath == "" || caseID == "" {
			log.Fatal("both --file and --case-id are required")
		}

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

		documentRepo := repository.NewDocumentRepo(mongoDb)
		extractionRepo := repository.NewExtractionRepo(mongoDb)

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
		analysisService := service.NewAnalysisService(segmenter, extractor, synthesizer, persister, noProgress{}, appLogger)

		data, err := os.ReadFile(filePath)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", filePath, err)
		}
		if _, err := utils.CopyFileWithTimestamp(filePath, cfg.UploadDir); err != nil {
			log.Fatalf("Failed to archive document: %v", err)
		}

		result, err := analysisService.AnalyzeDocument(ctx, service.AnalyzeRequest{
			DocumentID: uuid.NewString(),
			CaseID:     caseID,
			FileName:   filepath.Base(filePath),
			Data:       data,
		})
		if err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(analyzeDocumentCmd)
	analyzeDocumentCmd.Flags().StringP("file", "f", "", "path to the PDF to analyze")
	analyzeDocumentCmd.Flags().String("case-id", "", "case to attach the analysis to")
}
