package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/repos"
	"github.com/skillforge/skillforge-backend/internal/testutil"
	"github.com/skillforge/skillforge-backend/internal/types"
)

type fakeExpander struct {
	queries []string
	err     error
}

func (f *fakeExpander) Expand(ctx context.Context, skill string, user *types.User, responses []types.QuestionResponse) ([]string, error) {
	return f.queries, f.err
}

type fakeRetriever struct {
	courses []types.Course
	err     error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, namespace string, queries []string) ([]types.Course, error) {
	return f.courses, f.err
}

type fakeSynthesizer struct {
	nodes []types.RoadmapNode
	err   error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, skill string, user *types.User, responses []types.QuestionResponse, candidates []types.Course) ([]types.RoadmapNode, error) {
	return f.nodes, f.err
}

type roadmapFixture struct {
	svc         RoadmapService
	roadmapRepo repos.RoadmapRepo
	userID      uuid.UUID
}

func newRoadmapFixture(t *testing.T, expander *fakeExpander, retriever *fakeRetriever, synthesizer *fakeSynthesizer) *roadmapFixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := testutil.NewLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	roadmapRepo := repos.NewRoadmapRepo(db, log)

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

	svc := NewRoadmapService(db, log, roadmapRepo, userRepo, expander, retriever, synthesizer, "courses")
	return &roadmapFixture{svc: svc, roadmapRepo: roadmapRepo, userID: user.ID}
}

func sampleNodes() []types.RoadmapNode {
	a, b := uuid.New().String(), uuid.New().String()
	return []types.RoadmapNode{
		{ID: a, SkillName: "Basics", Resources: []types.LearningResource{}, Prerequisites: []string{}, NextNodeID: b},
		{ID: b, SkillName: "Slices", Resources: []types.LearningResource{}, Prerequisites: []string{}, PrevNodeID: a},
	}
}

func responses() []types.QuestionResponse {
	return []types.QuestionResponse{{QuestionID: "q1", Answer: []string{"video"}}}
}

func TestGenerateRoadmapPersists(t *testing.T) {
	fx := newRoadmapFixture(t,
		&fakeExpander{queries: []string{"go basics"}},
		&fakeRetriever{courses: []types.Course{{ID: uuid.New(), Title: "Go 101"}}},
		&fakeSynthesizer{nodes: sampleNodes()},
	)

	rm, err := fx.svc.GenerateRoadmap(context.Background(), fx.userID, "Go", responses())
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}
	stored, err := fx.roadmapRepo.GetByID(context.Background(), nil, rm.ID)
	if err != nil {
		t.Fatalf("stored roadmap missing: %v", err)
	}
	if len(stored.Nodes) != 2 || stored.SkillName != "Go" {
		t.Fatalf("stored roadmap wrong: %+v", stored)
	}
}

func TestGenerateRoadmapValidation(t *testing.T) {
	fx := newRoadmapFixture(t, &fakeExpander{}, &fakeRetriever{}, &fakeSynthesizer{})

	if _, err := fx.svc.GenerateRoadmap(context.Background(), fx.userID, "  ", responses()); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("blank skill: got %v, want invalid argument", err)
	}
	if _, err := fx.svc.GenerateRoadmap(context.Background(), fx.userID, "Go", nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("no responses: got %v, want invalid argument", err)
	}
}

func TestGenerateRoadmapStageFailuresAbort(t *testing.T) {
	cases := []struct {
		name        string
		expander    *fakeExpander
		retriever   *fakeRetriever
		synthesizer *fakeSynthesizer
		wantStage   string
	}{
		{
			name:        "expansion",
			expander:    &fakeExpander{err: fmt.Errorf("model down")},
			retriever:   &fakeRetriever{},
			synthesizer: &fakeSynthesizer{},
			wantStage:   "query expansion failed",
		},
		{
			name:        "retrieval",
			expander:    &fakeExpander{queries: []string{"q"}},
			retriever:   &fakeRetriever{err: fmt.Errorf("index down")},
			synthesizer: &fakeSynthesizer{},
			wantStage:   "retrieval failed",
		},
		{
			name:        "synthesis",
			expander:    &fakeExpander{queries: []string{"q"}},
			retriever:   &fakeRetriever{},
			synthesizer: &fakeSynthesizer{err: fmt.Errorf("bad json")},
			wantStage:   "synthesis failed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newRoadmapFixture(t, tc.expander, tc.retriever, tc.synthesizer)
			_, err := fx.svc.GenerateRoadmap(context.Background(), fx.userID, "Go", responses())
			if err == nil || !strings.Contains(err.Error(), tc.wantStage) {
				t.Fatalf("got %v, want error containing %q", err, tc.wantStage)
			}
			list, lerr := fx.svc.ListRoadmaps(context.Background(), fx.userID)
			if lerr != nil {
				t.Fatalf("list: %v", lerr)
			}
			if len(list) != 0 {
				t.Fatalf("partial roadmap persisted after %s failure", tc.name)
			}
		})
	}
}

func TestToggleCompletionInvolution(t *testing.T) {
	fx := newRoadmapFixture(t,
		&fakeExpander{queries: []string{"q"}},
		&fakeRetriever{},
		&fakeSynthesizer{nodes: sampleNodes()},
	)
	rm, err := fx.svc.GenerateRoadmap(context.Background(), fx.userID, "Go", responses())
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}
	nodeID := rm.Nodes[0].ID

	after, err := fx.svc.ToggleCompletion(context.Background(), fx.userID, rm.ID, nodeID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !after.Nodes[0].IsCompleted {
		t.Fatalf("node not completed after first toggle")
	}
	completed, total := fx.svc.Progress(after)
	if completed != 1 || total != 2 {
		t.Fatalf("progress = %d/%d, want 1/2", completed, total)
	}

	after, err = fx.svc.ToggleCompletion(context.Background(), fx.userID, rm.ID, nodeID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if after.Nodes[0].IsCompleted {
		t.Fatalf("double toggle did not restore original state")
	}
}

func TestToggleCompletionUnknownNodeIsNoOp(t *testing.T) {
	fx := newRoadmapFixture(t,
		&fakeExpander{queries: []string{"q"}},
		&fakeRetriever{},
		&fakeSynthesizer{nodes: sampleNodes()},
	)
	rm, err := fx.svc.GenerateRoadmap(context.Background(), fx.userID, "Go", responses())
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}

	after, err := fx.svc.ToggleCompletion(context.Background(), fx.userID, rm.ID, "no-such-node")
	if err != nil {
		t.Fatalf("toggle unknown node: %v", err)
	}
	for _, n := range after.Nodes {
		if n.IsCompleted {
			t.Fatalf("unknown node toggle changed state: %+v", n)
		}
	}
}

func TestToggleCompletionMissingRoadmap(t *testing.T) {
	fx := newRoadmapFixture(t, &fakeExpander{}, &fakeRetriever{}, &fakeSynthesizer{})
	_, err := fx.svc.ToggleCompletion(context.Background(), fx.userID, uuid.New(), "n")
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestRoadmapOwnershipEnforced(t *testing.T) {
	fx := newRoadmapFixture(t,
		&fakeExpander{queries: []string{"q"}},
		&fakeRetriever{},
		&fakeSynthesizer{nodes: sampleNodes()},
	)
	rm, err := fx.svc.GenerateRoadmap(context.Background(), fx.userID, "Go", responses())
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}

	stranger := uuid.New()
	if _, _, err := fx.svc.GetRoadmap(context.Background(), stranger, rm.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("get as stranger: got %v, want not found", err)
	}
	if err := fx.svc.DeleteRoadmap(context.Background(), stranger, rm.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("delete as stranger: got %v, want not found", err)
	}
}

func TestGetRoadmapReturnsLinearizedOrder(t *testing.T) {
	nodes := sampleNodes()
	fx := newRoadmapFixture(t,
		&fakeExpander{queries: []string{"q"}},
		&fakeRetriever{},
		&fakeSynthesizer{nodes: nodes},
	)
	rm, err := fx.svc.GenerateRoadmap(context.Background(), fx.userID, "Go", responses())
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}

	_, ordered, err := fx.svc.GetRoadmap(context.Background(), fx.userID, rm.ID)
	if err != nil {
		t.Fatalf("GetRoadmap: %v", err)
	}
	if len(ordered) != 2 {
		t.Fatalf("got %d ordered nodes, want 2", len(ordered))
	}
	if ordered[0].SkillName != "Basics" || ordered[1].SkillName != "Slices" {
		t.Fatalf("unexpected order: %s then %s", ordered[0].SkillName, ordered[1].SkillName)
	}
}
