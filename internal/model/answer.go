package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Answer is the single current submission for one question of an attempt.
// Exactly one of the selection fields is populated, matching the question's
// encoding and select count. Correct is computed at submission time against
// the attempt's frozen snapshot and never recomputed.
type Answer struct {
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

// AnswerMap is a JSON column mapping questionId to the current Answer for
// that question. The map key guarantees at most one answer per question; a
// resubmission replaces the prior entry.
type AnswerMap map[int]Answer

func (m AnswerMap) Value() (driver.Value, error) {
	if m == nil {
		m = AnswerMap{}
	}
	return json.Marshal(m)
}

func (m *AnswerMap) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = AnswerMap{}
		return nil
	default:
		return fmt.Errorf("unsupported type %T for AnswerMap", value)
	}
}
