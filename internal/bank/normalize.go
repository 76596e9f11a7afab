package bank

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prepforge/certprep/internal/model"
)

// RawQuestion is a question as submitted for publishing. Choices arrives in
// one of two encodings: a plain string array with correctness given by
// CorrectIndex/CorrectIndices (legacy), or an array of {id, text, is_correct}
// objects. The normalizer resolves the encoding once, here, so nothing
// downstream ever probes shapes.
type RawQuestion struct {
	ID             int             `json:"id"`
	Domain         string          `json:"domain"`
	Prompt         string          `json:"prompt"`
	Choices        json.RawMessage `json:"choices"`
	CorrectIndex   *int            `json:"correct_index,omitempty"`
	CorrectIndices []int           `json:"correct_indices,omitempty"`
	SelectCount    *int            `json:"select_count,omitempty"`
	Services       []string        `json:"services,omitempty"`
	DomainTip      string          `json:"domain_tip,omitempty"`
	Explanation    string          `json:"explanation,omitempty"`
	DocLink        string          `json:"doc_link,omitempty"`
}

type objectChoice struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// NormalizeQuestion reconciles one raw question into the canonical shape.
func NormalizeQuestion(raw RawQuestion) (model.Question, error) {
	q := model.Question{
		ID:          raw.ID,
		Domain:      strings.TrimSpace(raw.Domain),
		Prompt:      raw.Prompt,
		SelectCount: raw.SelectCount,
		Services:    raw.Services,
		DomainTip:   raw.DomainTip,
		Explanation: raw.Explanation,
		DocLink:     raw.DocLink,
	}
	if q.Domain == "" {
		q.Domain = model.DefaultDomain
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return model.Question{}, fmt.Errorf("%w: question %d has an empty prompt", ErrInvalidQuestion, raw.ID)
	}

	var texts []string
	if err := json.Unmarshal(raw.Choices, &texts); err == nil {
		if err := normalizeLegacy(&q, texts, raw); err != nil {
			return model.Question{}, err
		}
	} else {
		var objs []objectChoice
		if err := json.Unmarshal(raw.Choices, &objs); err != nil {
			return model.Question{}, fmt.Errorf("%w: question %d choices are neither a string array nor choice objects", ErrInvalidQuestion, raw.ID)
		}
		if err := normalizeObject(&q, objs, raw); err != nil {
			return model.Question{}, err
		}
	}

	if len(q.Choices) < 2 {
		return model.Question{}, fmt.Errorf("%w: question %d needs at least two choices", ErrInvalidQuestion, raw.ID)
	}
	corrects := len(q.CorrectIndices())
	if corrects == 0 {
		return model.Question{}, fmt.Errorf("%w: question %d has no correct choice", ErrInvalidQuestion, raw.ID)
	}
	if q.SelectCount != nil {
		if *q.SelectCount < 1 {
			return model.Question{}, fmt.Errorf("%w: question %d select_count must be at least 1", ErrInvalidQuestion, raw.ID)
		}
		if *q.SelectCount != corrects {
			return model.Question{}, fmt.Errorf("%w: question %d select_count %d does not match %d correct choices", ErrInvalidQuestion, raw.ID, *q.SelectCount, corrects)
		}
	}
	return q, nil
}

func normalizeLegacy(q *model.Question, texts []string, raw RawQuestion) error {
	q.Encoding = model.EncodingLegacyIndex
	q.Choices = make([]model.Choice, len(texts))
	for i, t := range texts {
		q.Choices[i] = model.Choice{Text: t}
	}

	indices := raw.CorrectIndices
	if len(indices) == 0 && raw.CorrectIndex != nil {
		indices = []int{*raw.CorrectIndex}
	}
	if len(indices) == 0 {
		return fmt.Errorf("%w: question %d uses indexed choices but no correct index was given", ErrInvalidQuestion, raw.ID)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(q.Choices) {
			return fmt.Errorf("%w: question %d correct index %d is out of range", ErrInvalidQuestion, raw.ID, idx)
		}
		q.Choices[idx].Correct = true
	}
	return nil
}

func normalizeObject(q *model.Question, objs []objectChoice, raw RawQuestion) error {
	q.Encoding = model.EncodingObject
	q.Choices = make([]model.Choice, len(objs))
	for i, o := range objs {
		if strings.TrimSpace(o.Text) == "" {
			return fmt.Errorf("%w: question %d choice %d has empty text", ErrInvalidQuestion, raw.ID, i)
		}
		id := o.ID
		if id == "" {
			id = fmt.Sprintf("q%d_c%d", raw.ID, i+1)
		}
		q.Choices[i] = model.Choice{ID: id, Text: o.Text, Correct: o.IsCorrect}
	}
	return nil
}

// NormalizeQuestions reconciles a full submitted set, assigning sequential ids
// where the publisher left them zero and rejecting duplicates.
func NormalizeQuestions(raws []RawQuestion) (model.QuestionList, error) {
	questions := make(model.QuestionList, 0, len(raws))
	seen := make(map[int]bool, len(raws))
	nextID := 1
	for _, raw := range raws {
		if raw.ID == 0 {
			for seen[nextID] {
				nextID++
			}
			raw.ID = nextID
		}
		if seen[raw.ID] {
			return nil, fmt.Errorf("%w: duplicate question id %d", ErrInvalidQuestion, raw.ID)
		}
		seen[raw.ID] = true

		q, err := NormalizeQuestion(raw)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}
