package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truth-meter/backend/internal/storage/models"
)

type fakeStore struct {
	evaluations []models.Evaluation
	questions   []models.Question
}

func (f *fakeStore) AllEvaluations() ([]models.Evaluation, error) {
	return f.evaluations, nil
}

func (f *fakeStore) AllQuestions() ([]models.Question, error) {
	return f.questions, nil
}

func (f *fakeStore) CountQuestions() (int, error) {
	return len(f.questions), nil
}

func eval(questionID, model string, accuracy, clarity, completeness float64) models.Evaluation {
	return models.Evaluation{
		QuestionID:        questionID,
		ModelName:         model,
		AccuracyScore:     accuracy,
		ClarityScore:      clarity,
		CompletenessScore: completeness,
	}
}

func TestOverviewEmpty(t *testing.T) {
	agg := NewAggregator(&fakeStore{})

	overview, err := agg.Overview()
	require.NoError(t, err)

	assert.Equal(t, 0, overview.TotalEvaluations)
	assert.Equal(t, 0, overview.TotalQuestions)
	assert.Equal(t, 0.0, overview.AvgAccuracy)
	assert.Equal(t, 0.0, overview.AvgClarity)
	assert.Equal(t, 0.0, overview.AvgCompleteness)
}

func TestOverviewAverages(t *testing.T) {
	store := &fakeStore{
		questions: []models.Question{{ID: "q1", Subject: "Math"}},
		evaluations: []models.Evaluation{
			eval("q1", "gpt-4o", 90, 80, 70),
			eval("q1", "gpt-4o", 85, 81, 74),
		},
	}
	agg := NewAggregator(store)

	overview, err := agg.Overview()
	require.NoError(t, err)

	assert.Equal(t, 2, overview.TotalEvaluations)
	assert.Equal(t, 1, overview.TotalQuestions)
	assert.Equal(t, 87.5, overview.AvgAccuracy)
	assert.Equal(t, 80.5, overview.AvgClarity)
	assert.Equal(t, 72.0, overview.AvgCompleteness)
}

func TestRoundingHalfAwayFromZero(t *testing.T) {
	// 80.5 and 81.0 average to 80.75, a tie at the second decimal; half away
	// from zero gives 80.8, not banker's 80.7.
	store := &fakeStore{
		evaluations: []models.Evaluation{
			eval("q1", "gpt-4o", 80.5, 0, 0),
			eval("q1", "gpt-4o", 81.0, 0, 0),
		},
	}
	agg := NewAggregator(store)

	overview, err := agg.Overview()
	require.NoError(t, err)
	assert.Equal(t, 80.8, overview.AvgAccuracy)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 87.5, round1(87.45))
	assert.Equal(t, 87.4, round1(87.44))
	assert.Equal(t, 0.0, round1(0))
	assert.Equal(t, 100.0, round1(100.0))
	assert.Equal(t, -1.5, round1(-1.45))
}

func TestBySubjectInnerJoin(t *testing.T) {
	store := &fakeStore{
		questions: []models.Question{
			{ID: "q1", Subject: "Math"},
			{ID: "q2", Subject: "Physics"},
		},
		evaluations: []models.Evaluation{
			eval("q1", "gpt-4o", 90, 90, 90),
			eval("q2", "gpt-4o", 80, 80, 80),
			// References a deleted question: silently excluded.
			eval("gone", "gpt-4o", 10, 10, 10),
		},
	}
	agg := NewAggregator(store)

	stats, err := agg.BySubject()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	total := 0
	for _, s := range stats {
		total += s.Count
	}
	assert.Equal(t, 2, total, "orphaned evaluations must not be counted")

	assert.Equal(t, "Math", stats[0].Subject)
	assert.Equal(t, 1, stats[0].Count)
	assert.Equal(t, 90.0, stats[0].AvgAccuracy)
	assert.Equal(t, "Physics", stats[1].Subject)
}

func TestBySubjectGroupsMultipleQuestions(t *testing.T) {
	store := &fakeStore{
		questions: []models.Question{
			{ID: "q1", Subject: "Math"},
			{ID: "q2", Subject: "Math"},
		},
		evaluations: []models.Evaluation{
			eval("q1", "gpt-4o", 90, 88, 86),
			eval("q2", "claude-sonnet-4-5", 70, 72, 74),
		},
	}
	agg := NewAggregator(store)

	stats, err := agg.BySubject()
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Equal(t, "Math", stats[0].Subject)
	assert.Equal(t, 2, stats[0].Count)
	assert.Equal(t, 80.0, stats[0].AvgAccuracy)
	assert.Equal(t, 80.0, stats[0].AvgClarity)
	assert.Equal(t, 80.0, stats[0].AvgCompleteness)
}

func TestByModelPartitionsAllEvaluations(t *testing.T) {
	store := &fakeStore{
		evaluations: []models.Evaluation{
			eval("q1", "gpt-4o", 90, 90, 90),
			eval("q2", "gpt-4o", 80, 80, 80),
			eval("gone", "deepseek-chat", 60, 60, 60),
		},
	}
	agg := NewAggregator(store)

	stats, err := agg.ByModel()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Provider is ignored and orphaned question references do not matter:
	// every evaluation lands in exactly one model group.
	total := 0
	for _, s := range stats {
		total += s.Count
	}
	assert.Equal(t, 3, total)

	assert.Equal(t, "deepseek-chat", stats[0].Model)
	assert.Equal(t, 1, stats[0].Count)
	assert.Equal(t, "gpt-4o", stats[1].Model)
	assert.Equal(t, 2, stats[1].Count)
	assert.Equal(t, 85.0, stats[1].AvgAccuracy)
}
