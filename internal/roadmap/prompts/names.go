package prompts

type PromptName string

const (
	// Retrieval
	PromptQueryExpansion PromptName = "query_expansion"

	// Quiz
	PromptQuizQuestions PromptName = "quiz_questions"

	// Roadmap construction
	PromptRoadmapNodes PromptName = "roadmap_nodes"
)
