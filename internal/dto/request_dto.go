package dto

import "encoding/json"

// PublishQuestionRequest accepts both question encodings: choices as a plain
// string array with correct_index/correct_indices, or as an array of
// {id, text, is_correct} objects. The normalizer settles the shape once at
// publish time.
type PublishQuestionRequest struct {
	ID             int             `json:"id"`
	Domain         string          `json:"domain"`
	Prompt         string          `json:"prompt" binding:"required"`
	Choices        json.RawMessage `json:"choices" binding:"required"`
	CorrectIndex   *int            `json:"correct_index"`
	CorrectIndices []int           `json:"correct_indices"`
	SelectCount    *int            `json:"select_count"`
	Services       []string        `json:"services"`
	DomainTip      string          `json:"domain_tip"`
	Explanation    string          `json:"explanation"`
	DocLink        string          `json:"doc_link"`
}

type PublishExamRequest struct {
	Code      string                   `json:"code" binding:"required"`
	Title     string                   `json:"title" binding:"required"`
	Questions []PublishQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// CreateAttemptRequest selects the question subset for a new attempt. Leave
// everything empty for "the whole exam"; set adaptive for weakest-link
// selection; question_ids is the legacy explicit-list mode.
type CreateAttemptRequest struct {
	Adaptive    bool     `json:"adaptive"`
	Domains     []string `json:"domains"`
	Services    []string `json:"services"`
	Keyword     string   `json:"keyword"`
	Count       int      `json:"count" binding:"omitempty,min=1"`
	QuestionIDs []int    `json:"question_ids"`
}

type SubmitAnswerRequest struct {
	QuestionID        int      `json:"question_id" binding:"required"`
	SelectedChoiceID  *string  `json:"selected_choice_id"`
	SelectedChoiceIDs []string `json:"selected_choice_ids"`
	SelectedIndex     *int     `json:"selected_index"`
	SelectedIndices   []int    `json:"selected_indices"`
	TimeMs            *int     `json:"time_ms"`
	TipShown          bool     `json:"tip_shown"`
}
