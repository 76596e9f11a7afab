package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ChoiceEncoding tags which submission shape a question accepts. Legacy
// questions were authored as plain strings plus a correct-index list and are
// answered by position; newer questions carry choice objects with ids and are
// answered by choice id.
type ChoiceEncoding string

const (
	EncodingLegacyIndex ChoiceEncoding = "legacy_index"
	EncodingObject      ChoiceEncoding = "object"
)

// DefaultDomain is used for questions published without a topic label.
const DefaultDomain = "General"

type Choice struct {
	ID      string `json:"id,omitempty"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is the canonical in-memory shape every question is normalized to
// before the attempt engine touches it. Correctness lives on the choices
// themselves regardless of the original encoding; Encoding only determines
// which selection fields a submission may use.
type Question struct {
	ID          int            `json:"id"`
	Domain      string         `json:"domain"`
	Prompt      string         `json:"prompt"`
	Choices     []Choice       `json:"choices"`
	Encoding    ChoiceEncoding `json:"encoding"`
	SelectCount *int           `json:"select_count,omitempty"`
	Services    []string       `json:"services,omitempty"`
	DomainTip   string         `json:"domain_tip,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
	DocLink     string         `json:"doc_link,omitempty"`
}

// MultiSelect reports whether the question expects a set of selections rather
// than a single one.
func (q Question) MultiSelect() bool {
	if q.SelectCount != nil && *q.SelectCount > 1 {
		return true
	}
	return len(q.CorrectChoiceIDs()) > 1
}

// CorrectChoiceIDs returns the ids of the choices flagged correct, in choice
// order.
func (q Question) CorrectChoiceIDs() []string {
	var ids []string
	for _, c := range q.Choices {
		if c.Correct {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// CorrectIndices returns the positions of the choices flagged correct, in
// choice order. Positions are relative to the question's current (possibly
// per-attempt shuffled) choice order.
func (q Question) CorrectIndices() []int {
	var idxs []int
	for i, c := range q.Choices {
		if c.Correct {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// MatchesKeyword reports whether the keyword appears in the prompt or any
// choice text, case-insensitively.
func (q Question) MatchesKeyword(keyword string) bool {
	k := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(q.Prompt), k) {
		return true
	}
	for _, c := range q.Choices {
		if strings.Contains(strings.ToLower(c.Text), k) {
			return true
		}
	}
	return false
}

// QuestionList is a JSON column holding an ordered question set. Used both
// for published exam content and for the frozen per-attempt snapshot.
type QuestionList []Question

func (l QuestionList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *QuestionList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for QuestionList", value)
	}
}
