package prompts

func StringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func StringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

func StringOrNullSchema() map[string]any {
	return map[string]any{
		"type": []any{"string", "null"},
	}
}

func EnumSchema(values ...string) map[string]any {
	arr := make([]any, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return map[string]any{"type": "string", "enum": arr}
}

func objectSchema(properties map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

// QueryExpansionSchema: a bare object carrying the query list; the model must
// not return a top-level array.
func QueryExpansionSchema() map[string]any {
	return objectSchema(map[string]any{
		"queries": StringArraySchema(),
	}, []string{"queries"})
}

func QuizQuestionsSchema() map[string]any {
	question := objectSchema(map[string]any{
		"question_text": StringSchema(),
		"question_type": EnumSchema("MCQ", "MSQ", "TrueFalse", "OneWord"),
		"options":       StringArraySchema(),
	}, []string{"question_text", "question_type", "options"})

	return objectSchema(map[string]any{
		"questions": map[string]any{
			"type":  "array",
			"items": question,
		},
	}, []string{"questions"})
}

// RoadmapNodesSchema: every cross-reference is a skill-name string, never an
// id — the model cannot know ids that do not exist yet.
func RoadmapNodesSchema() map[string]any {
	resource := objectSchema(map[string]any{
		"title":         StringSchema(),
		"platform":      StringSchema(),
		"url":           StringOrNullSchema(),
		"resource_type": StringSchema(),
	}, []string{"title", "platform", "url", "resource_type"})

	node := objectSchema(map[string]any{
		"skill_name":  StringSchema(),
		"description": StringSchema(),
		"resources": map[string]any{
			"type":  "array",
			"items": resource,
		},
		"prerequisites": StringArraySchema(),
		"prev_node_id":  StringOrNullSchema(),
		"next_node_id":  StringOrNullSchema(),
	}, []string{"skill_name", "description", "resources", "prerequisites", "prev_node_id", "next_node_id"})

	return objectSchema(map[string]any{
		"nodes": map[string]any{
			"type":  "array",
			"items": node,
		},
	}, []string{"nodes"})
}
