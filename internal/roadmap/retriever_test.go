package roadmap

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/testutil"
	"github.com/skillforge/skillforge-backend/internal/types"
)

func seedCourses(n int) (map[string]types.Course, []string) {
	courses := make(map[string]types.Course, n)
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := uuid.New()
		courses[id.String()] = types.Course{ID: id, Title: fmt.Sprintf("course %d", i)}
		ids = append(ids, id.String())
	}
	return courses, ids
}

func TestRetrieveDedupesAcrossQueries(t *testing.T) {
	courses, ids := seedCourses(6)
	// Both queries return overlapping windows of the same hits.
	perQuery := map[int][]string{
		0: {ids[0], ids[1], ids[2]},
		1: {ids[1], ids[2], ids[3]},
	}
	calls := 0
	vec := &fakeVec{
		queryIDs: func(ctx context.Context, namespace string, q []float32, topK int) ([]string, error) {
			if topK != TopKPerQuery {
				t.Errorf("topK = %d, want %d", topK, TopKPerQuery)
			}
			hits := perQuery[int(q[0])]
			calls++
			return hits, nil
		},
	}
	r := NewRetriever(RetrieverDeps{
		Log:     testutil.NewLogger(t),
		AI:      &fakeAI{},
		Vec:     vec,
		Courses: &fakeCourses{courses: courses},
	})

	out, err := r.Retrieve(context.Background(), "courses", []string{"q0", "q1"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if calls != 2 {
		t.Fatalf("vector queries = %d, want 2", calls)
	}
	if len(out) != 4 {
		t.Fatalf("got %d candidates, want 4 after dedupe", len(out))
	}
	seen := map[string]bool{}
	for _, c := range out {
		if seen[c.ID.String()] {
			t.Fatalf("duplicate candidate %s", c.ID)
		}
		seen[c.ID.String()] = true
	}
}

func TestRetrieveCapsCandidates(t *testing.T) {
	courses, ids := seedCourses(30)
	vec := &fakeVec{
		queryIDs: func(ctx context.Context, namespace string, q []float32, topK int) ([]string, error) {
			// Each query returns a disjoint block of five ids.
			start := int(q[0]) * 5
			return ids[start : start+5], nil
		},
	}
	r := NewRetriever(RetrieverDeps{
		Log:     testutil.NewLogger(t),
		AI:      &fakeAI{},
		Vec:     vec,
		Courses: &fakeCourses{courses: courses},
	})

	queries := []string{"a", "b", "c", "d", "e", "f"}
	out, err := r.Retrieve(context.Background(), "courses", queries)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(out) != MaxCandidates {
		t.Fatalf("got %d candidates, want cap %d", len(out), MaxCandidates)
	}
	// Truncation keeps earliest queries' hits.
	for i := 0; i < MaxCandidates; i++ {
		if out[i].ID.String() != ids[i] {
			t.Fatalf("candidate %d = %s, want %s", i, out[i].ID, ids[i])
		}
	}
}

func TestRetrieveFailsWhenAnyQueryFails(t *testing.T) {
	courses, ids := seedCourses(5)
	vec := &fakeVec{
		queryIDs: func(ctx context.Context, namespace string, q []float32, topK int) ([]string, error) {
			if int(q[0]) == 1 {
				return nil, fmt.Errorf("index unavailable")
			}
			return ids[:2], nil
		},
	}
	r := NewRetriever(RetrieverDeps{
		Log:     testutil.NewLogger(t),
		AI:      &fakeAI{},
		Vec:     vec,
		Courses: &fakeCourses{courses: courses},
	})

	_, err := r.Retrieve(context.Background(), "courses", []string{"a", "b", "c"})
	if err == nil {
		t.Fatalf("expected error when one query fails")
	}
}

func TestRetrieveNoQueries(t *testing.T) {
	r := NewRetriever(RetrieverDeps{
		Log:     testutil.NewLogger(t),
		AI:      &fakeAI{},
		Vec:     &fakeVec{},
		Courses: &fakeCourses{},
	})
	if _, err := r.Retrieve(context.Background(), "courses", nil); err == nil {
		t.Fatalf("expected error for empty query list")
	}
}

func TestRetrieveEmptyHits(t *testing.T) {
	vec := &fakeVec{
		queryIDs: func(ctx context.Context, namespace string, q []float32, topK int) ([]string, error) {
			return nil, nil
		},
	}
	r := NewRetriever(RetrieverDeps{
		Log:     testutil.NewLogger(t),
		AI:      &fakeAI{},
		Vec:     vec,
		Courses: &fakeCourses{},
	})
	out, err := r.Retrieve(context.Background(), "courses", []string{"a"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %d candidates, want 0", len(out))
	}
}
