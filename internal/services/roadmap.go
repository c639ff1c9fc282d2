package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/logger"
	pkgerrors "github.com/skillforge/skillforge-backend/internal/pkg/errors"
	"github.com/skillforge/skillforge-backend/internal/repos"
	"github.com/skillforge/skillforge-backend/internal/roadmap"
	"github.com/skillforge/skillforge-backend/internal/types"
)

// Expander, retriever and synthesizer are consumed through narrow interfaces
// so tests can fake each stage independently.
type NodeSynthesizer interface {
	Synthesize(ctx context.Context, skill string, user *types.User, responses []types.QuestionResponse, candidates []types.Course) ([]types.RoadmapNode, error)
}

type CourseRetriever interface {
	Retrieve(ctx context.Context, namespace string, queries []string) ([]types.Course, error)
}

type RoadmapService interface {
	GenerateRoadmap(ctx context.Context, userID uuid.UUID, skillName string, responses []types.QuestionResponse) (*types.Roadmap, error)
	GetRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) (*types.Roadmap, []types.RoadmapNode, error)
	ListRoadmaps(ctx context.Context, userID uuid.UUID) ([]*types.Roadmap, error)
	DeleteRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) error
	ToggleCompletion(ctx context.Context, userID, roadmapID uuid.UUID, nodeID string) (*types.Roadmap, error)
	Progress(r *types.Roadmap) (completed, total int)
}

type roadmapService struct {
	db          *gorm.DB
	log         *logger.Logger
	roadmapRepo repos.RoadmapRepo
	userRepo    repos.UserRepo
	expander    roadmap.Expander
	retriever   CourseRetriever
	synthesizer NodeSynthesizer
	namespace   string
}

func NewRoadmapService(
	db *gorm.DB,
	log *logger.Logger,
	roadmapRepo repos.RoadmapRepo,
	userRepo repos.UserRepo,
	expander roadmap.Expander,
	retriever CourseRetriever,
	synthesizer NodeSynthesizer,
	namespace string,
) RoadmapService {
	return &roadmapService{
		db:          db,
		log:         log.With("service", "RoadmapService"),
		roadmapRepo: roadmapRepo,
		userRepo:    userRepo,
		expander:    expander,
		retriever:   retriever,
		synthesizer: synthesizer,
		namespace:   namespace,
	}
}

// GenerateRoadmap runs the full pipeline: expand queries, retrieve candidate
// courses, synthesize the node graph, persist. Nothing is stored unless every
// stage succeeds.
func (rs *roadmapService) GenerateRoadmap(ctx context.Context, userID uuid.UUID, skillName string, responses []types.QuestionResponse) (*types.Roadmap, error) {
	skillName = strings.TrimSpace(skillName)
	if skillName == "" {
		return nil, fmt.Errorf("skill name required: %w", pkgerrors.ErrInvalidArgument)
	}
	if len(responses) == 0 {
		return nil, fmt.Errorf("quiz responses required: %w", pkgerrors.ErrInvalidArgument)
	}

	user, err := rs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, pkgerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	queries, err := rs.expander.Expand(ctx, skillName, user, responses)
	if err != nil {
		return nil, fmt.Errorf("query expansion failed: %w", err)
	}
	rs.log.Info("expanded queries", "skill", skillName, "count", len(queries))

	candidates, err := rs.retriever.Retrieve(ctx, rs.namespace, queries)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	rs.log.Info("retrieved candidates", "skill", skillName, "count", len(candidates))

	nodes, err := rs.synthesizer.Synthesize(ctx, skillName, user, responses, candidates)
	if err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}

	now := time.Now()
	rm := &types.Roadmap{
		ID:        uuid.New(),
		UserID:    userID,
		SkillName: skillName,
		Nodes:     nodes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := rs.roadmapRepo.Create(ctx, tx, rm); err != nil {
			return fmt.Errorf("failed to persist roadmap: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	rs.log.Info("roadmap generated", "roadmap_id", rm.ID, "skill", skillName, "nodes", len(nodes))
	return rm, nil
}

// GetRoadmap returns the stored roadmap and its linearized display order.
func (rs *roadmapService) GetRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) (*types.Roadmap, []types.RoadmapNode, error) {
	rm, err := rs.loadOwned(ctx, nil, userID, roadmapID)
	if err != nil {
		return nil, nil, err
	}
	return rm, roadmap.Linearize(rm.Nodes), nil
}

func (rs *roadmapService) ListRoadmaps(ctx context.Context, userID uuid.UUID) ([]*types.Roadmap, error) {
	roadmaps, err := rs.roadmapRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roadmaps: %w", err)
	}
	return roadmaps, nil
}

func (rs *roadmapService) DeleteRoadmap(ctx context.Context, userID, roadmapID uuid.UUID) error {
	return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := rs.loadOwned(ctx, tx, userID, roadmapID); err != nil {
			return err
		}
		if err := rs.roadmapRepo.Delete(ctx, tx, roadmapID); err != nil {
			return fmt.Errorf("failed to delete roadmap: %w", err)
		}
		return nil
	})
}

// ToggleCompletion flips is_completed on one node. A node id that matches no
// stored node leaves the roadmap untouched and returns it as-is.
func (rs *roadmapService) ToggleCompletion(ctx context.Context, userID, roadmapID uuid.UUID, nodeID string) (*types.Roadmap, error) {
	var out *types.Roadmap
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rm, err := rs.loadOwned(ctx, tx, userID, roadmapID)
		if err != nil {
			return err
		}
		found := false
		for i := range rm.Nodes {
			if rm.Nodes[i].ID == nodeID {
				rm.Nodes[i].IsCompleted = !rm.Nodes[i].IsCompleted
				found = true
				break
			}
		}
		if !found {
			rs.log.Warn("toggle on unknown node", "roadmap_id", roadmapID, "node_id", nodeID)
			out = rm
			return nil
		}
		rm.UpdatedAt = time.Now()
		if err := rs.roadmapRepo.Update(ctx, tx, rm); err != nil {
			return fmt.Errorf("failed to update roadmap: %w", err)
		}
		out = rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Progress is derived from node state on read; no separate counter is stored.
func (rs *roadmapService) Progress(r *types.Roadmap) (completed, total int) {
	for _, n := range r.Nodes {
		if n.IsCompleted {
			completed++
		}
	}
	return completed, len(r.Nodes)
}

func (rs *roadmapService) loadOwned(ctx context.Context, tx *gorm.DB, userID, roadmapID uuid.UUID) (*types.Roadmap, error) {
	rm, err := rs.roadmapRepo.GetByID(ctx, tx, roadmapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("roadmap %s: %w", roadmapID, pkgerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load roadmap: %w", err)
	}
	if rm.UserID != userID {
		return nil, fmt.Errorf("roadmap %s: %w", roadmapID, pkgerrors.ErrNotFound)
	}
	return rm, nil
}
