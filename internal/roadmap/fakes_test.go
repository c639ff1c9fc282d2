package roadmap

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/skillforge/skillforge-backend/internal/clients/pinecone"
	"github.com/skillforge/skillforge-backend/internal/types"
)

type fakeAI struct {
	embed        func(ctx context.Context, inputs []string) ([][]float32, error)
	generateJSON func(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error)
}

func (f *fakeAI) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if f.embed == nil {
		out := make([][]float32, len(inputs))
		for i := range inputs {
			out[i] = []float32{float32(i), 1}
		}
		return out, nil
	}
	return f.embed(ctx, inputs)
}

func (f *fakeAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	if f.generateJSON == nil {
		return nil, fmt.Errorf("unexpected GenerateJSON call")
	}
	return f.generateJSON(ctx, system, user, schemaName, schema)
}

type fakeVec struct {
	queryIDs func(ctx context.Context, namespace string, q []float32, topK int) ([]string, error)
}

func (f *fakeVec) Upsert(ctx context.Context, namespace string, vectors []pinecone.Vector) error {
	return nil
}

func (f *fakeVec) QueryIDs(ctx context.Context, namespace string, q []float32, topK int) ([]string, error) {
	return f.queryIDs(ctx, namespace, q, topK)
}

type fakeCourses struct {
	courses map[string]types.Course
}

func (f *fakeCourses) Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
	return courses, nil
}

func (f *fakeCourses) GetByIDs(ctx context.Context, tx *gorm.DB, courseIDs []string) ([]types.Course, error) {
	var out []types.Course
	for _, id := range courseIDs {
		if c, ok := f.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourses) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	return int64(len(f.courses)), nil
}
