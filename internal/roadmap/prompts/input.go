package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// Request
	SkillName string

	// User profile
	SkillsLearnedJSON string
	PreferencesJSON   string

	// Quiz
	ResponsesJSON string
	QuestionCount int

	// Retrieval
	QueryCount int

	// Candidate resources for synthesis
	CandidatesJSON string
}
