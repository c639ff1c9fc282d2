package roadmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge-backend/internal/clients/openai"
	"github.com/skillforge/skillforge-backend/internal/logger"
	"github.com/skillforge/skillforge-backend/internal/roadmap/prompts"
	"github.com/skillforge/skillforge-backend/internal/types"
)

// Synthesizer asks the generative backend for a full node graph over the
// retrieved candidates, then post-processes the symbolic skill-name links
// into stable node ids.
type Synthesizer struct {
	log *logger.Logger
	ai  openai.Client
}

func NewSynthesizer(log *logger.Logger, ai openai.Client) *Synthesizer {
	prompts.RegisterAll()
	return &Synthesizer{log: log.With("service", "Synthesizer"), ai: ai}
}

// modelNode mirrors the roadmap_nodes schema. The model emits skill names in
// prerequisites/prev/next; ids do not exist until assignNodeIDs.
type modelNode struct {
	SkillName     string                   `json:"skill_name"`
	Description   string                   `json:"description"`
	Resources     []types.LearningResource `json:"resources"`
	Prerequisites []string                 `json:"prerequisites"`
	PrevNodeID    *string                  `json:"prev_node_id"`
	NextNodeID    *string                  `json:"next_node_id"`
}

func (s *Synthesizer) Synthesize(ctx context.Context, skill string, user *types.User, responses []types.QuestionResponse, candidates []types.Course) ([]types.RoadmapNode, error) {
	prompt, err := prompts.Build(prompts.PromptRoadmapNodes, prompts.Input{
		SkillName:         skill,
		SkillsLearnedJSON: toJSON(user.SkillsLearned),
		PreferencesJSON:   toJSON(user.Preferences.Data()),
		ResponsesJSON:     toJSON(responses),
		CandidatesJSON:    candidateContext(candidates),
	})
	if err != nil {
		return nil, err
	}

	obj, err := s.ai.GenerateJSON(ctx, prompt.System, prompt.User, prompt.SchemaName, prompt.Schema)
	if err != nil {
		return nil, err
	}

	raw, _ := json.Marshal(obj)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var out struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid roadmap output: %w", err)
	}
	if len(out.Nodes) == 0 {
		return nil, fmt.Errorf("roadmap output contained no nodes")
	}

	modelNodes := make([]modelNode, 0, len(out.Nodes))
	for i, rawNode := range out.Nodes {
		n, err := decodeModelNode(rawNode)
		if err != nil {
			return nil, fmt.Errorf("roadmap output node %d: %w", i, err)
		}
		if strings.TrimSpace(n.SkillName) == "" {
			return nil, fmt.Errorf("roadmap output node %d missing skill_name", i)
		}
		modelNodes = append(modelNodes, n)
	}

	nodes := s.assignNodeIDs(modelNodes)
	return s.resolveReferences(nodes), nil
}

// requiredNodeFields are the keys every node object must carry. prev_node_id
// and next_node_id may be null; resources and prerequisites may not.
var requiredNodeFields = []string{"skill_name", "description", "resources", "prerequisites", "prev_node_id", "next_node_id"}

// decodeModelNode rejects nodes that drop or null out a required field
// instead of letting them default to zero values.
func decodeModelNode(raw json.RawMessage) (modelNode, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return modelNode{}, fmt.Errorf("invalid node object: %w", err)
	}
	for _, key := range requiredNodeFields {
		if _, ok := fields[key]; !ok {
			return modelNode{}, fmt.Errorf("missing %s", key)
		}
	}
	for _, key := range []string{"resources", "prerequisites"} {
		if string(bytes.TrimSpace(fields[key])) == "null" {
			return modelNode{}, fmt.Errorf("%s must not be null", key)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var n modelNode
	if err := dec.Decode(&n); err != nil {
		return modelNode{}, err
	}
	return n, nil
}

// assignNodeIDs converts model nodes into stored nodes, minting one uuid per
// node. References are still raw skill names after this pass.
func (s *Synthesizer) assignNodeIDs(in []modelNode) []types.RoadmapNode {
	out := make([]types.RoadmapNode, 0, len(in))
	for _, n := range in {
		resources := n.Resources
		if resources == nil {
			resources = []types.LearningResource{}
		}
		prereqs := n.Prerequisites
		if prereqs == nil {
			prereqs = []string{}
		}
		node := types.RoadmapNode{
			ID:            uuid.New().String(),
			SkillName:     n.SkillName,
			Description:   n.Description,
			Resources:     resources,
			Prerequisites: prereqs,
			IsCompleted:   false,
		}
		if n.PrevNodeID != nil {
			node.PrevNodeID = *n.PrevNodeID
		}
		if n.NextNodeID != nil {
			node.NextNodeID = *n.NextNodeID
		}
		out = append(out, node)
	}
	return out
}

// resolveReferences rewrites every skill-name reference to the matched node's
// id. Names are matched exactly. A reference naming no node in this roadmap
// is kept as the raw string so the dangling link stays visible downstream.
func (s *Synthesizer) resolveReferences(nodes []types.RoadmapNode) []types.RoadmapNode {
	idByName := make(map[string]string, len(nodes))
	for _, n := range nodes {
		idByName[n.SkillName] = n.ID
	}

	resolve := func(ref string) string {
		if ref == "" {
			return ""
		}
		if id, ok := idByName[ref]; ok {
			return id
		}
		s.log.Warn("unresolved node reference", "reference", ref)
		return ref
	}

	for i := range nodes {
		nodes[i].PrevNodeID = resolve(nodes[i].PrevNodeID)
		nodes[i].NextNodeID = resolve(nodes[i].NextNodeID)
		for j, p := range nodes[i].Prerequisites {
			nodes[i].Prerequisites[j] = resolve(p)
		}
		if nodes[i].PrevNodeID == nodes[i].ID || nodes[i].NextNodeID == nodes[i].ID {
			s.log.Warn("node references itself", "node_id", nodes[i].ID, "skill_name", nodes[i].SkillName)
		}
	}
	return nodes
}

// candidateContext flattens retrieved courses into the compact JSON block the
// synthesis prompt embeds. Content is truncated; titles and topic metadata
// carry most of the grounding signal.
func candidateContext(candidates []types.Course) string {
	type row struct {
		Title              string   `json:"title"`
		Description        string   `json:"description"`
		SkillPath          string   `json:"skill_path"`
		Level              string   `json:"level"`
		Type               string   `json:"type"`
		Topic              string   `json:"topic"`
		PrerequisiteTopics []string `json:"prerequisite_topics"`
		Content            string   `json:"content"`
	}
	rows := make([]row, 0, len(candidates))
	for _, c := range candidates {
		content := c.Content
		if len(content) > 600 {
			content = content[:600]
		}
		rows = append(rows, row{
			Title:              c.Title,
			Description:        c.Description,
			SkillPath:          c.SkillPath,
			Level:              c.Level,
			Type:               c.ContentType,
			Topic:              c.Topic,
			PrerequisiteTopics: c.PrerequisiteTopics,
			Content:            content,
		})
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	return string(b)
}
