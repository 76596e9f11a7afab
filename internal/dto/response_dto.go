package dto

import (
	"time"

	"github.com/prepforge/certprep/internal/model"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// ChoiceResponse is the learner-facing view of a choice: no correctness flag.
type ChoiceResponse struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// QuestionResponse is the learner-facing view of a question. Correctness
// stays server-side; explanation and doc link are withheld until the attempt
// is finished.
type QuestionResponse struct {
	ID          int              `json:"id"`
	Domain      string           `json:"domain"`
	Prompt      string           `json:"prompt"`
	Choices     []ChoiceResponse `json:"choices"`
	Encoding    string           `json:"encoding"`
	SelectCount *int             `json:"select_count,omitempty"`
	Services    []string         `json:"services,omitempty"`
	DomainTip   string           `json:"domain_tip,omitempty"`
	Explanation string           `json:"explanation,omitempty"`
	DocLink     string           `json:"doc_link,omitempty"`
}

type AnswerResponse struct {
	QuestionID        int       `json:"question_id"`
	SelectedChoiceID  *string   `json:"selected_choice_id,omitempty"`
	SelectedChoiceIDs []string  `json:"selected_choice_ids,omitempty"`
	SelectedIndex     *int      `json:"selected_index,omitempty"`
	SelectedIndices   []int     `json:"selected_indices,omitempty"`
	Correct           bool      `json:"correct"`
	TimeMs            *int      `json:"time_ms,omitempty"`
	TipShown          bool      `json:"tip_shown"`
	RecordedAt        time.Time `json:"recorded_at"`
}

type CreateAttemptResponse struct {
	AttemptID string    `json:"attempt_id"`
	StartedAt time.Time `json:"started_at"`
}

type AttemptResponse struct {
	ID           string                   `json:"id"`
	ExamCode     string                   `json:"exam_code"`
	VersionToken string                   `json:"version_token"`
	Questions    []QuestionResponse       `json:"questions"`
	Answers      map[int]AnswerResponse   `json:"answers"`
	StartedAt    time.Time                `json:"started_at"`
	FinishedAt   *time.Time               `json:"finished_at,omitempty"`
	Score        *int                     `json:"score,omitempty"`
	CorrectCount *int                     `json:"correct_count,omitempty"`
	PerDomain    model.DomainResultMap    `json:"per_domain,omitempty"`
}

type AttemptSummaryResponse struct {
	ID           string     `json:"id"`
	ExamCode     string     `json:"exam_code"`
	VersionToken string     `json:"version_token"`
	Questions    int        `json:"question_count"`
	Answered     int        `json:"answered_count"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Score        *int       `json:"score,omitempty"`
}

type FinishResponse struct {
	Score        int                   `json:"score"`
	CorrectCount int                   `json:"correct_count"`
	Total        int                   `json:"total"`
	PerDomain    model.DomainResultMap `json:"per_domain"`
	FinishedAt   time.Time             `json:"finished_at"`
}

type ExamDetailResponse struct {
	Code         string             `json:"code"`
	Title        string             `json:"title"`
	VersionToken string             `json:"version_token"`
	Questions    []QuestionResponse `json:"questions"`
	PublishedAt  time.Time          `json:"published_at"`
}

type PublishExamResponse struct {
	Code          string    `json:"code"`
	VersionToken  string    `json:"version_token"`
	QuestionCount int       `json:"question_count"`
	PublishedAt   time.Time `json:"published_at"`
}

type DomainStatResponse struct {
	Domain   string  `json:"domain"`
	Attempts int     `json:"attempts"`
	AvgScore float64 `json:"avg_score"`
}

type DomainStatsResponse struct {
	ExamCode string               `json:"exam_code"`
	Domains  []DomainStatResponse `json:"domains"`
	WrongIDs []int                `json:"previously_wrong_question_ids"`
}

type AdviceResponse struct {
	AttemptID string `json:"attempt_id"`
	Advice    string `json:"advice"`
}

// NewQuestionResponse strips correctness from a snapshot question. Review
// fields (explanation, doc link) are included only when the attempt is done.
func NewQuestionResponse(q model.Question, includeReview bool) QuestionResponse {
	choices := make([]ChoiceResponse, len(q.Choices))
	for i, c := range q.Choices {
		choices[i] = ChoiceResponse{ID: c.ID, Text: c.Text}
	}
	resp := QuestionResponse{
		ID:          q.ID,
		Domain:      q.Domain,
		Prompt:      q.Prompt,
		Choices:     choices,
		Encoding:    string(q.Encoding),
		SelectCount: q.SelectCount,
		Services:    q.Services,
		DomainTip:   q.DomainTip,
	}
	if includeReview {
		resp.Explanation = q.Explanation
		resp.DocLink = q.DocLink
	}
	return resp
}

func NewAttemptResponse(a *model.Attempt) AttemptResponse {
	questions := make([]QuestionResponse, len(a.Questions))
	for i, q := range a.Questions {
		questions[i] = NewQuestionResponse(q, a.Finished())
	}
	answers := make(map[int]AnswerResponse, len(a.Answers))
	for qid, ans := range a.Answers {
		answers[qid] = AnswerResponse(ans)
	}
	return AttemptResponse{
		ID:           a.ID,
		ExamCode:     a.ExamCode,
		VersionToken: a.VersionToken,
		Questions:    questions,
		Answers:      answers,
		StartedAt:    a.StartedAt,
		FinishedAt:   a.FinishedAt,
		Score:        a.Score,
		CorrectCount: a.CorrectCount,
		PerDomain:    a.PerDomain,
	}
}

func NewAttemptSummaryResponse(a model.Attempt) AttemptSummaryResponse {
	return AttemptSummaryResponse{
		ID:           a.ID,
		ExamCode:     a.ExamCode,
		VersionToken: a.VersionToken,
		Questions:    len(a.Questions),
		Answered:     len(a.Answers),
		StartedAt:    a.StartedAt,
		FinishedAt:   a.FinishedAt,
		Score:        a.Score,
	}
}
