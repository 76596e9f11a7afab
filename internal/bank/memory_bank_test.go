package bank

import (
	"context"
	"testing"

	"github.com/prepforge/certprep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishable(prompt string) model.QuestionList {
	return model.QuestionList{{
		ID:       1,
		Domain:   "General",
		Prompt:   prompt,
		Encoding: model.EncodingLegacyIndex,
		Choices:  []model.Choice{{Text: "a", Correct: true}, {Text: "b"}},
	}}
}

func TestMemoryBankRepublishProducesNewToken(t *testing.T) {
	b := NewMemoryBank()
	ctx := context.Background()

	v1, err := b.Publish(ctx, "SAA-C03", "Solutions Architect", publishable("v1 prompt"))
	require.NoError(t, err)

	// identical content is a no-op
	again, err := b.Publish(ctx, "SAA-C03", "Solutions Architect", publishable("v1 prompt"))
	require.NoError(t, err)
	assert.Equal(t, v1.VersionToken, again.VersionToken)

	v2, err := b.Publish(ctx, "SAA-C03", "Solutions Architect", publishable("v2 prompt"))
	require.NoError(t, err)
	assert.NotEqual(t, v1.VersionToken, v2.VersionToken)

	resolved, err := b.Resolve(ctx, "SAA-C03")
	require.NoError(t, err)
	assert.Equal(t, v2.VersionToken, resolved.VersionToken)
	assert.Equal(t, "v2 prompt", resolved.Questions[0].Prompt)
}

func TestMemoryBankResolveUnknownCode(t *testing.T) {
	b := NewMemoryBank()
	_, err := b.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrExamNotFound)
}

func TestMemoryBankListExams(t *testing.T) {
	b := NewMemoryBank()
	ctx := context.Background()
	_, err := b.Publish(ctx, "SAA-C03", "Architect", publishable("x"))
	require.NoError(t, err)
	_, err = b.Publish(ctx, "CLF-C02", "Practitioner", publishable("y"))
	require.NoError(t, err)

	summaries, err := b.ListExams(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "CLF-C02", summaries[0].Code)
	assert.Equal(t, "SAA-C03", summaries[1].Code)
	assert.Equal(t, 1, summaries[0].QuestionCount)
}
