package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/repos"
	"github.com/skillforge/skillforge-backend/internal/testutil"
	"github.com/skillforge/skillforge-backend/internal/types"
)

func seedQuizUser(t *testing.T, userRepo repos.UserRepo) *types.User {
	t.Helper()
	user := &types.User{
		ID:            uuid.New(),
		Username:      "mira",
		PasswordHash:  "x",
		Name:          "Mira",
		SkillsLearned: []types.SkillLearned{},
		Preferences:   datatypes.NewJSONType(types.UserPreferences{}),
	}
	if _, err := userRepo.Create(context.Background(), nil, user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestGenerateQuestions(t *testing.T) {
	db := testutil.NewDB(t)
	log := testutil.NewLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	user := seedQuizUser(t, userRepo)

	ai := &stubAI{
		generateJSON: func(ctx context.Context, system, userPrompt, schemaName string, schema map[string]any) (map[string]any, error) {
			return map[string]any{
				"questions": []any{
					map[string]any{"question_text": "Preferred format?", "question_type": "MCQ", "options": []any{"video", "text"}},
					map[string]any{"question_text": "Pick all you know", "question_type": "MSQ", "options": []any{"slices", "maps"}},
					map[string]any{"question_text": "Go has classes", "question_type": "TrueFalse", "options": []any{"True", "False"}},
					map[string]any{"question_text": "   ", "question_type": "OneWord", "options": []any{}},
				},
			}, nil
		},
	}
	svc := NewQuizService(log, ai, userRepo)

	questions, err := svc.GenerateQuestions(context.Background(), user.ID, "Go")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3 (blank dropped)", len(questions))
	}
	seen := map[string]bool{}
	for _, q := range questions {
		if _, err := uuid.Parse(q.ID); err != nil {
			t.Fatalf("question id %q not a uuid: %v", q.ID, err)
		}
		if seen[q.ID] {
			t.Fatalf("duplicate question id %s", q.ID)
		}
		seen[q.ID] = true
		if q.Options == nil {
			t.Fatalf("options nil for %q", q.QuestionText)
		}
	}
}

func TestGenerateQuestionsRejectsUnknownType(t *testing.T) {
	db := testutil.NewDB(t)
	log := testutil.NewLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	user := seedQuizUser(t, userRepo)

	ai := &stubAI{
		generateJSON: func(ctx context.Context, system, userPrompt, schemaName string, schema map[string]any) (map[string]any, error) {
			return map[string]any{
				"questions": []any{
					map[string]any{"question_text": "Preferred format?", "question_type": "Essay", "options": []any{}},
				},
			}, nil
		},
	}
	svc := NewQuizService(log, ai, userRepo)

	_, err := svc.GenerateQuestions(context.Background(), user.ID, "Go")
	if err == nil || !strings.Contains(err.Error(), "unknown question type") {
		t.Fatalf("expected unknown-type error, got %v", err)
	}
}

func TestGenerateQuestionsBlankSkill(t *testing.T) {
	db := testutil.NewDB(t)
	log := testutil.NewLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	user := seedQuizUser(t, userRepo)

	svc := NewQuizService(log, &stubAI{}, userRepo)
	if _, err := svc.GenerateQuestions(context.Background(), user.ID, "  "); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("got %v, want invalid argument", err)
	}
}
