package prompts

// RegisterAll registers every prompt in the registry using RegisterSpec.
// Called once from the engine constructors; re-registration is harmless.
func RegisterAll() {
	// ---------- Retrieval ----------

	RegisterSpec(Spec{
		Name:       PromptQueryExpansion,
		Version:    1,
		SchemaName: "query_expansion",
		Schema:     QueryExpansionSchema,
		System: `
You are a query generation assistant for an educational retrieval system.
Your goal is to generate {{.QueryCount}} distinct, high-quality semantic search
queries to retrieve relevant course material for a user's learning intent.

The corpus contains course records with these fields:
- Title, Topic, Description, Content
- Skill Path, Prerequisite Topics
- Level (Beginner, Intermediate, Advanced)
- Type (Macro, Micro)

Instructions:
1. Analyze the skill to learn and the user's quiz responses.
2. If the responses indicate a specific knowledge gap or preference, prioritize
   that over general profile preferences.
3. Mix broad foundational searches (Macro) and narrow technical searches (Micro).
4. Include level keywords ("beginner tutorial", "advanced concepts") when the
   user context suggests them.

Return JSON only.`,
		User: `
Skill to learn: {{.SkillName}}
User quiz responses: {{.ResponsesJSON}}
User preferences: {{.PreferencesJSON}}
User skills: {{.SkillsLearnedJSON}}`,
		Validators: []Validator{
			RequireNonEmpty("SkillName", func(in Input) string { return in.SkillName }),
		},
	})

	// ---------- Quiz ----------

	RegisterSpec(Spec{
		Name:       PromptQuizQuestions,
		Version:    1,
		SchemaName: "quiz_questions",
		Schema:     QuizQuestionsSchema,
		System: `
You are an educational assessment expert that generates personalized learning
evaluation questions. Your goal is to understand both HOW the user prefers to
learn and WHAT they already know.

Question quality guidelines:
1. Preference questions (5):
   - learning style (visual/text/hands-on/video)
   - time commitment and pacing
   - content depth (deep-dive vs overview)
   - preferred resource types (courses/books/projects/docs)
   - learning goals (career/hobby/certification)
2. Knowledge questions (3):
   - prerequisite knowledge relevant to the skill
   - fundamental concepts
   - experience level

Question types:
- MCQ: single correct answer (4 options)
- MSQ: multiple correct answers (4-5 options)
- TrueFalse: binary choice (options: "True", "False")
- OneWord: short text answer (empty options array)

Make questions conversational, relevant to the specific skill, and keep the
options realistic and well-balanced. Return JSON only.`,
		User: `
Generate {{.QuestionCount}} questions to evaluate learning preferences and
existing knowledge for learning {{.SkillName}}.
User's existing skills: {{.SkillsLearnedJSON}}
User's preferences: {{.PreferencesJSON}}`,
		Validators: []Validator{
			RequireNonEmpty("SkillName", func(in Input) string { return in.SkillName }),
		},
	})

	// ---------- Roadmap construction ----------

	RegisterSpec(Spec{
		Name:       PromptRoadmapNodes,
		Version:    1,
		SchemaName: "roadmap_nodes",
		Schema:     RoadmapNodesSchema,
		System: `
You are a curriculum planner. Create a detailed, mostly-linear learning roadmap
as a set of nodes. Ground every node's resources in the available resources
when they fit; invent a resource only when nothing available covers the step.

Linking rules (important):
- "prerequisites" must be an array of OTHER node "skill_name" strings, not ids.
- "prev_node_id" and "next_node_id" must be the adjacent node's "skill_name"
  (or null at the ends of the path). Identifiers are assigned by the server.
- The prev/next chain should form one continuous path through all nodes.

Return JSON only.`,
		User: `
Create a learning roadmap for '{{.SkillName}}'.

User profile:
- Existing skills: {{.SkillsLearnedJSON}}
- Learning preferences: {{.PreferencesJSON}}
- Quiz responses: {{.ResponsesJSON}}

Available resources:
{{.CandidatesJSON}}`,
		Validators: []Validator{
			RequireNonEmpty("SkillName", func(in Input) string { return in.SkillName }),
			RequireNonEmpty("CandidatesJSON", func(in Input) string { return in.CandidatesJSON }),
		},
	})
}
