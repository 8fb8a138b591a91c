package analytics

import (
	"math"
	"sort"

	"github.com/truth-meter/backend/internal/storage/models"
)

// Store is the read-only slice of the persistence layer the aggregator needs.
// All joins and grouping happen in process over these record sets, so every
// average goes through the same rounding primitive.
type Store interface {
	AllEvaluations() ([]models.Evaluation, error)
	AllQuestions() ([]models.Question, error)
	CountQuestions() (int, error)
}

type Overview struct {
	TotalEvaluations int     `json:"total_evaluations"`
	AvgAccuracy      float64 `json:"avg_accuracy"`
	AvgClarity       float64 `json:"avg_clarity"`
	AvgCompleteness  float64 `json:"avg_completeness"`
	TotalQuestions   int     `json:"total_questions"`
}

type SubjectStats struct {
	Subject         string  `json:"subject"`
	Count           int     `json:"count"`
	AvgAccuracy     float64 `json:"avg_accuracy"`
	AvgClarity      float64 `json:"avg_clarity"`
	AvgCompleteness float64 `json:"avg_completeness"`
}

type ModelStats struct {
	Model           string  `json:"model"`
	Count           int     `json:"count"`
	AvgAccuracy     float64 `json:"avg_accuracy"`
	AvgClarity      float64 `json:"avg_clarity"`
	AvgCompleteness float64 `json:"avg_completeness"`
}

type Aggregator struct {
	store Store
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Overview reports totals and the mean of each score field across all
// evaluations. With zero evaluations every average is exactly 0.
func (a *Aggregator) Overview() (*Overview, error) {
	evaluations, err := a.store.AllEvaluations()
	if err != nil {
		return nil, err
	}

	totalQuestions, err := a.store.CountQuestions()
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		TotalEvaluations: len(evaluations),
		TotalQuestions:   totalQuestions,
	}

	if len(evaluations) == 0 {
		return overview, nil
	}

	var accuracy, clarity, completeness scoreSum
	for _, e := range evaluations {
		accuracy.add(e.AccuracyScore)
		clarity.add(e.ClarityScore)
		completeness.add(e.CompletenessScore)
	}

	overview.AvgAccuracy = accuracy.mean()
	overview.AvgClarity = clarity.mean()
	overview.AvgCompleteness = completeness.mean()

	return overview, nil
}

// BySubject joins each evaluation to its question and groups by the question's
// subject. The join is inner: evaluations whose question was deleted are
// silently excluded.
func (a *Aggregator) BySubject() ([]SubjectStats, error) {
	evaluations, err := a.store.AllEvaluations()
	if err != nil {
		return nil, err
	}

	questions, err := a.store.AllQuestions()
	if err != nil {
		return nil, err
	}

	subjectByQuestion := make(map[string]string, len(questions))
	for _, q := range questions {
		subjectByQuestion[q.ID] = q.Subject
	}

	groups := make(map[string]*scoreGroup)
	for _, e := range evaluations {
		subject, ok := subjectByQuestion[e.QuestionID]
		if !ok {
			continue
		}
		group, exists := groups[subject]
		if !exists {
			group = &scoreGroup{}
			groups[subject] = group
		}
		group.add(e)
	}

	results := make([]SubjectStats, 0, len(groups))
	for subject, group := range groups {
		results = append(results, SubjectStats{
			Subject:         subject,
			Count:           group.count,
			AvgAccuracy:     group.accuracy.mean(),
			AvgClarity:      group.clarity.mean(),
			AvgCompleteness: group.completeness.mean(),
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Subject < results[j].Subject })

	return results, nil
}

// ByModel groups all evaluations by model name, ignoring provider. Every
// evaluation lands in exactly one group.
func (a *Aggregator) ByModel() ([]ModelStats, error) {
	evaluations, err := a.store.AllEvaluations()
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*scoreGroup)
	for _, e := range evaluations {
		group, exists := groups[e.ModelName]
		if !exists {
			group = &scoreGroup{}
			groups[e.ModelName] = group
		}
		group.add(e)
	}

	results := make([]ModelStats, 0, len(groups))
	for model, group := range groups {
		results = append(results, ModelStats{
			Model:           model,
			Count:           group.count,
			AvgAccuracy:     group.accuracy.mean(),
			AvgClarity:      group.clarity.mean(),
			AvgCompleteness: group.completeness.mean(),
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Model < results[j].Model })

	return results, nil
}

type scoreSum struct {
	sum   float64
	count int
}

func (s *scoreSum) add(v float64) {
	s.sum += v
	s.count++
}

func (s *scoreSum) mean() float64 {
	if s.count == 0 {
		return 0
	}
	return round1(s.sum / float64(s.count))
}

type scoreGroup struct {
	count        int
	accuracy     scoreSum
	clarity      scoreSum
	completeness scoreSum
}

func (g *scoreGroup) add(e models.Evaluation) {
	g.count++
	g.accuracy.add(e.AccuracyScore)
	g.clarity.add(e.ClarityScore)
	g.completeness.add(e.CompletenessScore)
}

// round1 rounds half away from zero to one decimal place. It is the single
// rounding primitive for every reported average; nothing is rounded inside the
// database.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
