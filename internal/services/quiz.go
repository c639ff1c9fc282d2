package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/clients/openai"
	"github.com/skillforge/skillforge-backend/internal/logger"
	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/repos"
	"github.com/skillforge/skillforge-backend/internal/roadmap/prompts"
	"github.com/skillforge/skillforge-backend/internal/types"
)

// QuestionCount is how many questions each quiz round asks: five preference
// questions followed by three knowledge checks.
const QuestionCount = 8

type QuizService interface {
	GenerateQuestions(ctx context.Context, userID uuid.UUID, skillName string) ([]types.Question, error)
}

type quizService struct {
	log      *logger.Logger
	ai       openai.Client
	userRepo repos.UserRepo
}

func NewQuizService(log *logger.Logger, ai openai.Client, userRepo repos.UserRepo) QuizService {
	prompts.RegisterAll()
	return &quizService{log: log.With("service", "QuizService"), ai: ai, userRepo: userRepo}
}

func (qs *quizService) GenerateQuestions(ctx context.Context, userID uuid.UUID, skillName string) ([]types.Question, error) {
	skillName = strings.TrimSpace(skillName)
	if skillName == "" {
		return nil, fmt.Errorf("skill name required: %w", pkgerrors.ErrInvalidArgument)
	}

	user, err := qs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	skillsJSON, _ := json.Marshal(user.SkillsLearned)
	prefsJSON, _ := json.Marshal(user.Preferences.Data())
	prompt, err := prompts.Build(prompts.PromptQuizQuestions, prompts.Input{
		SkillName:         skillName,
		SkillsLearnedJSON: string(skillsJSON),
		PreferencesJSON:   string(prefsJSON),
		QuestionCount:     QuestionCount,
	})
	if err != nil {
		return nil, err
	}

	obj, err := qs.ai.GenerateJSON(ctx, prompt.System, prompt.User, prompt.SchemaName, prompt.Schema)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	raw, _ := json.Marshal(obj)
	var out struct {
		Questions []struct {
			QuestionText string   `json:"question_text"`
			QuestionType string   `json:"question_type"`
			Options      []string `json:"options"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("question generation failed: invalid output: %w", err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("question generation failed: no questions returned")
	}

	questions := make([]types.Question, 0, len(out.Questions))
	for _, q := range out.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			continue
		}
		questionType := types.QuestionType(q.QuestionType)
		if !questionType.Valid() {
			return nil, fmt.Errorf("question generation failed: unknown question type %q", q.QuestionType)
		}
		options := q.Options
		if options == nil {
			options = []string{}
		}
		questions = append(questions, types.Question{
			ID:           uuid.New().String(),
			QuestionText: q.QuestionText,
			QuestionType: questionType,
			Options:      options,
		})
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("question generation failed: all questions empty")
	}
	return questions, nil
}
