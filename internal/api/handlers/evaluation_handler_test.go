package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truth-meter/backend/internal/evaluation"
	"github.com/truth-meter/backend/internal/judge"
	"github.com/truth-meter/backend/internal/storage/models"
	"github.com/truth-meter/backend/internal/storage/sqlite"
)

type fakeRunner struct {
	result *evaluation.RunResult
	err    error

	questionID string
	provider   string
	modelName  string
}

func (f *fakeRunner) Run(_ context.Context, questionID, providerName, modelName string) (*evaluation.RunResult, error) {
	f.questionID = questionID
	f.provider = providerName
	f.modelName = modelName
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeEvaluationStore struct {
	evaluations []models.Evaluation
	skip, limit int
}

func (f *fakeEvaluationStore) ListEvaluations(skip, limit int) ([]models.Evaluation, error) {
	f.skip, f.limit = skip, limit
	return f.evaluations, nil
}

func newEvaluationApp(runner *fakeRunner, store *fakeEvaluationStore) *fiber.App {
	app := fiber.New()
	h := NewEvaluationHandler(runner, store, nil)
	app.Post("/api/evaluations", h.RunEvaluation)
	app.Get("/api/evaluations", h.ListEvaluations)
	return app
}

func TestRunEvaluationSuccess(t *testing.T) {
	runner := &fakeRunner{result: &evaluation.RunResult{
		ID:            "e1",
		QuestionID:    "q1",
		Provider:      "openai",
		ModelName:     "gpt-4o",
		ResponseText:  "4",
		AccuracyScore: 92,
		JudgedBy:      judge.ModelName,
	}}
	app := newEvaluationApp(runner, &fakeEvaluationStore{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/evaluations",
		`{"question_id": "q1", "provider": "openai", "model_name": "gpt-4o"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got evaluation.RunResult
	decodeBody(t, resp, &got)
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, 92.0, got.AccuracyScore)

	assert.Equal(t, "q1", runner.questionID)
	assert.Equal(t, "openai", runner.provider)
	assert.Equal(t, "gpt-4o", runner.modelName)
}

func TestRunEvaluationRequiresQuestionAndProvider(t *testing.T) {
	app := newEvaluationApp(&fakeRunner{}, &fakeEvaluationStore{})

	for _, body := range []string{
		`{"provider": "openai"}`,
		`{"question_id": "q1"}`,
		`nope`,
	} {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/evaluations", body))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)
	}
}

func TestRunEvaluationModelNameOptional(t *testing.T) {
	runner := &fakeRunner{result: &evaluation.RunResult{ID: "e1"}}
	app := newEvaluationApp(runner, &fakeEvaluationStore{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/evaluations",
		`{"question_id": "q1", "provider": "google"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", runner.modelName)
}

func TestRunEvaluationQuestionNotFound(t *testing.T) {
	runner := &fakeRunner{err: sqlite.ErrQuestionNotFound}
	app := newEvaluationApp(runner, &fakeEvaluationStore{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/evaluations",
		`{"question_id": "missing", "provider": "openai"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Question not found", body["error"])
}

func TestRunEvaluationJudgeUnavailableIs500(t *testing.T) {
	runner := &fakeRunner{err: judge.ErrNotConfigured}
	app := newEvaluationApp(runner, &fakeEvaluationStore{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/evaluations",
		`{"question_id": "q1", "provider": "openai"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestListEvaluationsPassesPagination(t *testing.T) {
	store := &fakeEvaluationStore{evaluations: []models.Evaluation{{ID: "e1"}}}
	app := newEvaluationApp(&fakeRunner{}, store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/evaluations?skip=5&limit=20", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, store.skip)
	assert.Equal(t, 20, store.limit)

	var got []models.Evaluation
	decodeBody(t, resp, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
}
