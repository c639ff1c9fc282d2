package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skillforge/skillforge-backend/internal/clients/openai"
	"github.com/skillforge/skillforge-backend/internal/logger"
	"github.com/skillforge/skillforge-backend/internal/roadmap/prompts"
	"github.com/skillforge/skillforge-backend/internal/types"
)

// QueryCount is the target number of expanded search queries per request.
const QueryCount = 5

// Expander turns (skill, profile, quiz responses) into a small set of diverse
// semantic search strings. Implementations must vary queries along topic
// breadth and learner context.
type Expander interface {
	Expand(ctx context.Context, skill string, user *types.User, responses []types.QuestionResponse) ([]string, error)
}

// LLMExpander is the primary mode. Malformed model output is a hard failure
// for the whole roadmap-generation request; a single query measurably
// degrades retrieval diversity, so there is no silent fallback.
type LLMExpander struct {
	log *logger.Logger
	ai  openai.Client
}

func NewLLMExpander(log *logger.Logger, ai openai.Client) *LLMExpander {
	prompts.RegisterAll()
	return &LLMExpander{log: log.With("service", "LLMExpander"), ai: ai}
}

func (e *LLMExpander) Expand(ctx context.Context, skill string, user *types.User, responses []types.QuestionResponse) ([]string, error) {
	prompt, err := prompts.Build(prompts.PromptQueryExpansion, prompts.Input{
		SkillName:         skill,
		QueryCount:        QueryCount,
		SkillsLearnedJSON: toJSON(user.SkillsLearned),
		PreferencesJSON:   toJSON(user.Preferences.Data()),
		ResponsesJSON:     toJSON(responses),
	})
	if err != nil {
		return nil, err
	}

	obj, err := e.ai.GenerateJSON(ctx, prompt.System, prompt.User, prompt.SchemaName, prompt.Schema)
	if err != nil {
		return nil, err
	}

	raw, _ := json.Marshal(obj)
	var out struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("invalid query expansion output: %w", err)
	}

	queries := make([]string, 0, len(out.Queries))
	for _, q := range out.Queries {
		q = strings.TrimSpace(q)
		if q != "" {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("query expansion returned no usable queries")
	}
	return queries, nil
}

// HeuristicExpander synthesizes queries by string templating instead of
// calling the generative backend. It is an explicit degraded mode selected
// at wiring time (QUERY_EXPANSION_MODE=heuristic), never a catch of the
// primary path's failure.
type HeuristicExpander struct {
	log *logger.Logger
}

func NewHeuristicExpander(log *logger.Logger) *HeuristicExpander {
	return &HeuristicExpander{log: log.With("service", "HeuristicExpander")}
}

func (e *HeuristicExpander) Expand(ctx context.Context, skill string, user *types.User, responses []types.QuestionResponse) ([]string, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return nil, fmt.Errorf("skill required")
	}

	prefs := user.Preferences.Data()
	level := strings.TrimSpace(prefs.DifficultyPreference)
	if level == "" {
		level = "beginner"
	}

	// Broad/foundational plus narrow/technical, then learner-context variants.
	queries := []string{
		fmt.Sprintf("%s fundamentals for beginners", skill),
		fmt.Sprintf("%s %s tutorial", skill, strings.ToLower(level)),
		fmt.Sprintf("advanced %s concepts and techniques", skill),
		fmt.Sprintf("%s skill path overview", skill),
	}
	for _, ct := range prefs.PreferredContentTypes {
		ct = strings.TrimSpace(ct)
		if ct != "" {
			queries = append(queries, fmt.Sprintf("%s %s", skill, strings.ToLower(ct)))
		}
	}
	for _, r := range responses {
		for _, a := range r.Answer {
			a = strings.TrimSpace(a)
			if len(a) > 12 {
				queries = append(queries, fmt.Sprintf("%s %s", skill, a))
			}
		}
	}

	// Hard cap above the LLM target; templating can overshoot.
	if len(queries) > 2*QueryCount {
		queries = queries[:2*QueryCount]
	}
	return queries, nil
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
