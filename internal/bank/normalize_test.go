package bank

import (
	"encoding/json"
	"testing"

	"github.com/prepforge/certprep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuestionLegacyEncoding(t *testing.T) {
	idx := 1
	tests := []struct {
		name    string
		raw     RawQuestion
		wantErr bool
		check   func(t *testing.T, q model.Question)
	}{
		{
			name: "single correct index",
			raw: RawQuestion{
				ID:           1,
				Prompt:       "Pick the managed key service",
				Choices:      json.RawMessage(`["KMS","EC2","S3"]`),
				CorrectIndex: &idx,
			},
			check: func(t *testing.T, q model.Question) {
				assert.Equal(t, model.EncodingLegacyIndex, q.Encoding)
				assert.Equal(t, []int{1}, q.CorrectIndices())
				assert.False(t, q.MultiSelect())
				assert.Equal(t, model.DefaultDomain, q.Domain)
			},
		},
		{
			name: "multiple correct indices",
			raw: RawQuestion{
				ID:             2,
				Domain:         "Security",
				Prompt:         "Pick both encryption options",
				Choices:        json.RawMessage(`["SSE-S3","Plaintext","SSE-KMS"]`),
				CorrectIndices: []int{0, 2},
			},
			check: func(t *testing.T, q model.Question) {
				assert.Equal(t, []int{0, 2}, q.CorrectIndices())
				assert.True(t, q.MultiSelect())
				assert.Equal(t, "Security", q.Domain)
			},
		},
		{
			name: "missing correct index",
			raw: RawQuestion{
				ID:      3,
				Prompt:  "No answer key",
				Choices: json.RawMessage(`["a","b"]`),
			},
			wantErr: true,
		},
		{
			name: "index out of range",
			raw: RawQuestion{
				ID:             4,
				Prompt:         "Bad index",
				Choices:        json.RawMessage(`["a","b"]`),
				CorrectIndices: []int{5},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NormalizeQuestion(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuestion)
				return
			}
			require.NoError(t, err)
			tt.check(t, q)
		})
	}
}

func TestNormalizeQuestionObjectEncoding(t *testing.T) {
	raw := RawQuestion{
		ID:     7,
		Domain: "Networking",
		Prompt: "Select the private subnet routes",
		Choices: json.RawMessage(`[
			{"id":"a","text":"NAT gateway","is_correct":true},
			{"text":"Internet gateway"},
			{"id":"c","text":"VPC endpoint","is_correct":true}
		]`),
	}
	q, err := NormalizeQuestion(raw)
	require.NoError(t, err)

	assert.Equal(t, model.EncodingObject, q.Encoding)
	assert.Equal(t, []string{"a", "c"}, q.CorrectChoiceIDs())
	assert.True(t, q.MultiSelect())
	// missing id is synthesized
	assert.Equal(t, "q7_c2", q.Choices[1].ID)
}

func TestNormalizeQuestionSelectCountMismatch(t *testing.T) {
	two := 2
	raw := RawQuestion{
		ID:          8,
		Prompt:      "Exactly two required",
		Choices:     json.RawMessage(`[{"id":"a","text":"x","is_correct":true},{"id":"b","text":"y"}]`),
		SelectCount: &two,
	}
	_, err := NormalizeQuestion(raw)
	assert.ErrorIs(t, err, ErrInvalidQuestion)
}

func TestNormalizeQuestionsAssignsAndRejectsIDs(t *testing.T) {
	idx := 0
	raws := []RawQuestion{
		{Prompt: "first", Choices: json.RawMessage(`["a","b"]`), CorrectIndex: &idx},
		{ID: 1, Prompt: "second", Choices: json.RawMessage(`["a","b"]`), CorrectIndex: &idx},
	}
	// first question is auto-assigned id 1, colliding with the explicit 1
	_, err := NormalizeQuestions(raws)
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	raws[1].ID = 2
	questions, err := NormalizeQuestions(raws)
	require.NoError(t, err)
	assert.Equal(t, 1, questions[0].ID)
	assert.Equal(t, 2, questions[1].ID)
}

func TestVersionTokenTracksContent(t *testing.T) {
	idx := 0
	q1, err := NormalizeQuestion(RawQuestion{ID: 1, Prompt: "p", Choices: json.RawMessage(`["a","b"]`), CorrectIndex: &idx})
	require.NoError(t, err)

	token := VersionToken(model.QuestionList{q1})
	assert.Equal(t, token, VersionToken(model.QuestionList{q1}))

	q2 := q1
	q2.Prompt = "changed"
	assert.NotEqual(t, token, VersionToken(model.QuestionList{q2}))
}
