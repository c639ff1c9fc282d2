package roadmap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/skillforge/skillforge-backend/internal/clients/openai"
	"github.com/skillforge/skillforge-backend/internal/clients/pinecone"
	"github.com/skillforge/skillforge-backend/internal/logger"
	"github.com/skillforge/skillforge-backend/internal/repos"
	"github.com/skillforge/skillforge-backend/internal/types"
)

const (
	// TopKPerQuery is how many nearest courses each expanded query pulls.
	TopKPerQuery = 5
	// MaxCandidates bounds the merged candidate set handed to synthesis.
	MaxCandidates = 20
)

// Retriever runs every expanded query against the vector index, merges the
// per-query hits deduplicating by course id, and hydrates the surviving ids
// from the relational store.
type Retriever struct {
	log     *logger.Logger
	ai      openai.Client
	vec     pinecone.VectorStore
	courses repos.CourseRepo
}

type RetrieverDeps struct {
	Log     *logger.Logger
	AI      openai.Client
	Vec     pinecone.VectorStore
	Courses repos.CourseRepo
}

func NewRetriever(d RetrieverDeps) *Retriever {
	return &Retriever{
		log:     d.Log.With("service", "Retriever"),
		ai:      d.AI,
		vec:     d.Vec,
		courses: d.Courses,
	}
}

// Retrieve fans the queries out concurrently. Any query failing fails the
// whole retrieval; a partially retrieved candidate set would skew synthesis
// without surfacing the degradation.
func (r *Retriever) Retrieve(ctx context.Context, namespace string, queries []string) ([]types.Course, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries to retrieve with")
	}

	embeddings, err := r.ai.Embed(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("embed queries: %w", err)
	}
	if len(embeddings) != len(queries) {
		return nil, fmt.Errorf("embed queries: got %d embeddings for %d queries", len(embeddings), len(queries))
	}

	perQuery := make([][]string, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i := range queries {
		i := i
		g.Go(func() error {
			ids, err := r.vec.QueryIDs(gctx, namespace, embeddings[i], TopKPerQuery)
			if err != nil {
				return fmt.Errorf("vector query %q: %w", queries[i], err)
			}
			perQuery[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in query order so truncation keeps the highest-ranked hits of
	// the earliest queries first.
	seen := make(map[string]struct{})
	merged := make([]string, 0, MaxCandidates)
	for _, ids := range perQuery {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	if len(merged) > MaxCandidates {
		merged = merged[:MaxCandidates]
	}
	if len(merged) == 0 {
		return []types.Course{}, nil
	}

	rows, err := r.courses.GetByIDs(ctx, nil, merged)
	if err != nil {
		return nil, fmt.Errorf("hydrate candidates: %w", err)
	}

	// GetByIDs gives no order guarantee; restore merge order.
	byID := make(map[string]types.Course, len(rows))
	for _, c := range rows {
		byID[c.ID.String()] = c
	}
	out := make([]types.Course, 0, len(merged))
	var dropped []string
	for _, id := range merged {
		c, ok := byID[id]
		if !ok {
			dropped = append(dropped, id)
			continue
		}
		out = append(out, c)
	}
	if len(dropped) > 0 {
		r.log.Warn("vector index references missing course rows", "ids", dropped)
	}
	return out, nil
}
