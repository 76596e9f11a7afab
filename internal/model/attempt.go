package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DomainResult is one bucket of the per-domain breakdown computed when an
// attempt is finished.
type DomainResult struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Score   int `json:"score"`
}

// DomainResultMap is a JSON column mapping domain name to its result bucket.
type DomainResultMap map[string]DomainResult

func (m DomainResultMap) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *DomainResultMap) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for DomainResultMap", value)
	}
}

// Attempt is one learner's pass through a frozen question subset.
//
// Questions and VersionToken are the snapshot: written once at creation and
// never mutated, so a republish of the exam cannot change what this attempt
// is scored against. Answers is mutated only through the store's serialized
// update primitive. FinishedAt, Score, CorrectCount and PerDomain transition
// once from null and are thereafter immutable.
type Attempt struct {
	ID           string          `gorm:"primarykey;size:36" json:"id"`
	UserID       string          `json:"user_id" gorm:"not null;index:idx_attempt_user_exam"`
	ExamCode     string          `json:"exam_code" gorm:"not null;index:idx_attempt_user_exam"`
	VersionToken string          `json:"version_token" gorm:"not null"`
	Questions    QuestionList    `json:"questions" gorm:"type:jsonb;not null"`
	Answers      AnswerMap       `json:"answers" gorm:"type:jsonb"`
	StartedAt    time.Time       `json:"started_at" gorm:"not null"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
	Score        *int            `json:"score,omitempty"`
	CorrectCount *int            `json:"correct_count,omitempty"`
	PerDomain    DomainResultMap `json:"per_domain,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Finished reports whether the attempt has been scored and closed.
func (a *Attempt) Finished() bool {
	return a.FinishedAt != nil
}

// QuestionByID returns the snapshot question with the given id.
func (a *Attempt) QuestionByID(id int) (Question, bool) {
	for _, q := range a.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
