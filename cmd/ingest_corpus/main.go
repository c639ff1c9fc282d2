package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/skillforge/skillforge-backend/internal/clients/openai"
	"github.com/skillforge/skillforge-backend/internal/clients/pinecone"
	"github.com/skillforge/skillforge-backend/internal/db"
	"github.com/skillforge/skillforge-backend/internal/logger"
	"github.com/skillforge/skillforge-backend/internal/repos"
	"github.com/skillforge/skillforge-backend/internal/services"
	"github.com/skillforge/skillforge-backend/internal/utils"
)

// Loads a corpus JSON file (an array of course records), embeds every record
// and upserts the vectors plus rows. Run once per corpus file:
//
//	go run ./cmd/ingest_corpus -file corpus.json
func main() {
	_ = godotenv.Load()

	filePath := flag.String("file", "", "path to the corpus JSON file")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *filePath == "" {
		log.Error("missing -file flag")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Error("Could not read corpus file", "path", *filePath, "error", err)
		os.Exit(1)
	}
	var records []services.CourseRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Error("Could not parse corpus file", "path", *filePath, "error", err)
		os.Exit(1)
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	pineconeClient, err := pinecone.New(log, pinecone.Config{
		APIKey: os.Getenv("PINECONE_API_KEY"),
	})
	if err != nil {
		log.Error("Could not init Pinecone client", "error", err)
		os.Exit(1)
	}
	vectorStore, err := pinecone.NewVectorStore(log, pineconeClient)
	if err != nil {
		log.Error("Could not init vector store", "error", err)
		os.Exit(1)
	}

	courseRepo := repos.NewCourseRepo(thePG, log)
	corpusService := services.NewCorpusService(thePG, log, openaiClient, vectorStore, courseRepo)

	namespace := utils.GetEnv("CORPUS_NAMESPACE", "courses", log)
	count, err := corpusService.Ingest(context.Background(), namespace, records)
	if err != nil {
		log.Error("Ingest failed", "ingested", count, "error", err)
		os.Exit(1)
	}
	log.Info("Ingest complete", "ingested", count)
}
