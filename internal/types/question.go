package types

type QuestionType string

const (
	QuestionMCQ       QuestionType = "MCQ"
	QuestionMSQ       QuestionType = "MSQ"
	QuestionTrueFalse QuestionType = "TrueFalse"
	QuestionOneWord   QuestionType = "OneWord"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMCQ, QuestionMSQ, QuestionTrueFalse, QuestionOneWord:
		return true
	}
	return false
}

// Question is generated per request and never persisted; ids are assigned
// server-side so responses can be matched back.
type Question struct {
	ID           string       `json:"id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Options      []string     `json:"options"`
}

// QuestionResponse is immutable once submitted by the client.
type QuestionResponse struct {
	QuestionID string   `json:"question_id"`
	Answer     []string `json:"answer"`
}
