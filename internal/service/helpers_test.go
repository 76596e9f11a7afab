package service

import (
	"context"
	"testing"

	"github.com/prepforge/certprep/config"
	"github.com/prepforge/certprep/internal/bank"
	"github.com/prepforge/certprep/internal/model"
	"github.com/prepforge/certprep/internal/store"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	bank      *bank.MemoryBank
	store     *store.MemoryStore
	attempts  AttemptService
	answers   AnswerService
	scoring   ScoringService
	analytics AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b := bank.NewMemoryBank()
	s := store.NewMemoryStore()
	cfg := &config.Config{Exam: config.Exam{PassThreshold: 70}}
	analytics := NewAnalyticsService(s)
	return &testEnv{
		bank:      b,
		store:     s,
		attempts:  NewAttemptService(b, s, analytics, cfg),
		answers:   NewAnswerService(s, b),
		scoring:   NewScoringService(s),
		analytics: analytics,
	}
}

func objQuestion(id int, domain string, texts []string, correct []int) model.Question {
	q := model.Question{
		ID:       id,
		Domain:   domain,
		Prompt:   "prompt " + domain,
		Encoding: model.EncodingObject,
	}
	for i, text := range texts {
		q.Choices = append(q.Choices, model.Choice{
			ID:   string(rune('a' + i)),
			Text: text,
		})
	}
	for _, idx := range correct {
		q.Choices[idx].Correct = true
	}
	if len(correct) > 1 {
		n := len(correct)
		q.SelectCount = &n
	}
	return q
}

func legacyQuestion(id int, domain string, texts []string, correct []int) model.Question {
	q := objQuestion(id, domain, texts, correct)
	q.Encoding = model.EncodingLegacyIndex
	for i := range q.Choices {
		q.Choices[i].ID = ""
	}
	return q
}

// fixtureQuestions is a five-question exam spanning three domains and all
// four answer encodings.
func fixtureQuestions() model.QuestionList {
	q1 := objQuestion(1, "Compute", []string{"EC2", "S3", "RDS"}, []int{0})
	q1.Services = []string{"ec2"}
	q2 := objQuestion(2, "Storage", []string{"S3", "EBS", "EFS", "DynamoDB"}, []int{0, 2})
	q2.Services = []string{"s3", "efs"}
	q3 := legacyQuestion(3, "Compute", []string{"Lambda", "Fargate", "Batch"}, []int{1})
	q3.Services = []string{"fargate"}
	q4 := legacyQuestion(4, "Security", []string{"KMS", "IAM", "WAF", "Shield"}, []int{0, 1})
	q4.Services = []string{"kms", "iam"}
	q5 := objQuestion(5, "Storage", []string{"Lifecycle policy", "Replication", "Versioning"}, []int{2})
	q5.Services = []string{"s3"}
	q5.Prompt = "Which feature keeps prior object lifecycle revisions?"
	return model.QuestionList{q1, q2, q3, q4, q5}
}

func publishFixture(t *testing.T, env *testEnv) *model.Exam {
	t.Helper()
	exam, err := env.bank.Publish(context.Background(), "SAA-C03", "Solutions Architect Associate", fixtureQuestions())
	require.NoError(t, err)
	return exam
}

// correctIndexOf returns the post-shuffle position of the single correct
// choice in a snapshot question.
func correctIndexOf(t *testing.T, q model.Question) int {
	t.Helper()
	idxs := q.CorrectIndices()
	require.Len(t, idxs, 1)
	return idxs[0]
}

// correctSubmission builds a submission that answers the question correctly
// against its current choice order, whatever the encoding.
func correctSubmission(t *testing.T, q model.Question) AnswerSubmission {
	t.Helper()
	sub := AnswerSubmission{QuestionID: q.ID}
	switch q.Encoding {
	case model.EncodingObject:
		ids := q.CorrectChoiceIDs()
		if q.MultiSelect() {
			sub.SelectedChoiceIDs = ids
		} else {
			require.Len(t, ids, 1)
			sub.SelectedChoiceID = &ids[0]
		}
	case model.EncodingLegacyIndex:
		idxs := q.CorrectIndices()
		if q.MultiSelect() {
			sub.SelectedIndices = idxs
		} else {
			require.Len(t, idxs, 1)
			sub.SelectedIndex = &idxs[0]
		}
	}
	return sub
}
