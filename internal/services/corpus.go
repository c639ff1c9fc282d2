package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/clients/openai"
	"github.com/skillforge/skillforge-backend/internal/clients/pinecone"
	"github.com/skillforge/skillforge-backend/internal/logger"
	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/repos"
	"github.com/skillforge/skillforge-backend/internal/types"
)

// embedBatchSize bounds how many records go into a single embeddings call.
const embedBatchSize = 64

// CourseRecord is one row of the corpus file handed to ingestion.
type CourseRecord struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	ChannelName        string   `json:"channel_name"`
	PublishedDate      string   `json:"published_date"`
	SkillPath          string   `json:"skill_path"`
	Level              string   `json:"level"`
	Type               string   `json:"type"`
	Content            string   `json:"content"`
	Topic              string   `json:"topic"`
	PrerequisiteTopics []string `json:"prerequisite_topics"`
}

type CorpusService interface {
	Ingest(ctx context.Context, namespace string, records []CourseRecord) (int, error)
}

type corpusService struct {
	db         *gorm.DB
	log        *logger.Logger
	ai         openai.Client
	vec        pinecone.VectorStore
	courseRepo repos.CourseRepo
}

func NewCorpusService(db *gorm.DB, log *logger.Logger, ai openai.Client, vec pinecone.VectorStore, courseRepo repos.CourseRepo) CorpusService {
	return &corpusService{
		db:         db,
		log:        log.With("service", "CorpusService"),
		ai:         ai,
		vec:        vec,
		courseRepo: courseRepo,
	}
}

// Ingest embeds each record's composite text, upserts the vectors keyed by
// the new course row ids, and persists the rows. Returns how many records
// were ingested.
func (cs *corpusService) Ingest(ctx context.Context, namespace string, records []CourseRecord) (int, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("no records to ingest: %w", pkgerrors.ErrInvalidArgument)
	}

	total := 0
	for start := 0; start < len(records); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		texts := make([]string, len(batch))
		courses := make([]*types.Course, len(batch))
		for i, rec := range batch {
			courses[i] = &types.Course{
				ID:                 uuid.New(),
				Title:              rec.Title,
				Description:        rec.Description,
				ChannelName:        rec.ChannelName,
				PublishedDate:      rec.PublishedDate,
				SkillPath:          rec.SkillPath,
				Level:              rec.Level,
				ContentType:        rec.Type,
				Content:            rec.Content,
				Topic:              rec.Topic,
				PrerequisiteTopics: datatypes.NewJSONSlice(rec.PrerequisiteTopics),
			}
			texts[i] = EmbedText(rec)
		}

		embeddings, err := cs.ai.Embed(ctx, texts)
		if err != nil {
			return total, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		if len(embeddings) != len(batch) {
			return total, fmt.Errorf("embed batch at %d: got %d embeddings for %d records", start, len(embeddings), len(batch))
		}

		vectors := make([]pinecone.Vector, len(batch))
		for i, c := range courses {
			vectors[i] = pinecone.Vector{ID: c.ID.String(), Values: embeddings[i]}
		}
		if err := cs.vec.Upsert(ctx, namespace, vectors); err != nil {
			return total, fmt.Errorf("upsert batch at %d: %w", start, err)
		}

		if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			_, err := cs.courseRepo.Create(ctx, tx, courses)
			return err
		}); err != nil {
			return total, fmt.Errorf("persist batch at %d: %w", start, err)
		}
		total += len(batch)
		cs.log.Info("ingested corpus batch", "from", start, "count", len(batch))
	}
	return total, nil
}

// EmbedText builds the composite string embedded for a corpus record. The
// same shape is used at ingest and (per query) at retrieval time.
func EmbedText(rec CourseRecord) string {
	return fmt.Sprintf(
		"Title: %s, Description: %s, Skill Path: %s, Level: %s, Type: %s, Topic: %s, Prerequisite Topics: %s, Content: %s",
		rec.Title, rec.Description, rec.SkillPath, rec.Level, rec.Type, rec.Topic,
		strings.Join(rec.PrerequisiteTopics, ", "), rec.Content,
	)
}
