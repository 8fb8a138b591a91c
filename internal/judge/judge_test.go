package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInferenceServer speaks just enough of the chat-completions protocol for
// the judge's client to run a real round trip.
func fakeInferenceServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]interface{}{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": reply,
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestJudge(baseURL string) *Judge {
	return New(Config{
		APIKey:  "test-key",
		BaseURL: baseURL + "/v1",
	})
}

func TestEvaluateNotConfigured(t *testing.T) {
	j := New(Config{})

	verdict, err := j.Evaluate(context.Background(), "q", "ref", "resp")

	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, verdict)
	assert.False(t, j.Configured())
}

func TestEvaluateParsesReply(t *testing.T) {
	reply := "```json\n" + `{
		"accuracy_score": 91.5,
		"clarity_score": 88.0,
		"completeness_score": 84.5,
		"reasoning": "**Strengths**: solid. **Drawbacks**: missing notation.",
		"model_version": "1.0.0"
	}` + "\n```"
	srv := fakeInferenceServer(t, reply, http.StatusOK)
	defer srv.Close()

	j := newTestJudge(srv.URL)
	verdict, err := j.Evaluate(context.Background(), "What is 2+2?", "4", "The answer is 4.")

	require.NoError(t, err)
	assert.Equal(t, 91.5, verdict.AccuracyScore)
	assert.Equal(t, 88.0, verdict.ClarityScore)
	assert.Equal(t, 84.5, verdict.CompletenessScore)
	assert.Contains(t, verdict.Reasoning, "Strengths")
	assert.Equal(t, ModelName, verdict.JudgedBy)
	assert.Equal(t, ModelVersion, verdict.ModelVersion)
}

func TestEvaluateScoresNotRangeChecked(t *testing.T) {
	// Scores come back verbatim; the nominal 0-100 range is not enforced.
	srv := fakeInferenceServer(t, `{"accuracy_score": 150, "clarity_score": -5, "completeness_score": 0, "reasoning": "odd"}`, http.StatusOK)
	defer srv.Close()

	j := newTestJudge(srv.URL)
	verdict, err := j.Evaluate(context.Background(), "q", "ref", "resp")

	require.NoError(t, err)
	assert.Equal(t, 150.0, verdict.AccuracyScore)
	assert.Equal(t, -5.0, verdict.ClarityScore)
}

func TestEvaluateMalformedReplyDegrades(t *testing.T) {
	srv := fakeInferenceServer(t, "I refuse to emit JSON today.", http.StatusOK)
	defer srv.Close()

	j := newTestJudge(srv.URL)
	verdict, err := j.Evaluate(context.Background(), "q", "ref", "resp")

	require.NoError(t, err)
	assert.Equal(t, 0.0, verdict.AccuracyScore)
	assert.Equal(t, 0.0, verdict.ClarityScore)
	assert.Equal(t, 0.0, verdict.CompletenessScore)
	assert.True(t, strings.HasPrefix(verdict.Reasoning, "Evaluation failed:"))
	assert.Equal(t, ModelName, verdict.JudgedBy)
	assert.Equal(t, ModelVersion, verdict.ModelVersion)
}

func TestEvaluateCallFailureDegrades(t *testing.T) {
	srv := fakeInferenceServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	j := newTestJudge(srv.URL)
	verdict, err := j.Evaluate(context.Background(), "q", "ref", "resp")

	require.NoError(t, err)
	assert.Equal(t, 0.0, verdict.AccuracyScore)
	assert.True(t, strings.HasPrefix(verdict.Reasoning, "Evaluation failed:"))
}

func TestBuildPromptEmbedsInputsVerbatim(t *testing.T) {
	prompt := buildPrompt("What is the Krebs cycle?", "A series of reactions.", "Something about mitochondria.")

	assert.Contains(t, prompt, "What is the Krebs cycle?")
	assert.Contains(t, prompt, "A series of reactions.")
	assert.Contains(t, prompt, "Something about mitochondria.")
	assert.Contains(t, prompt, ModelName)
	assert.Contains(t, prompt, "Strengths")
	assert.Contains(t, prompt, "Drawbacks")
}

func TestGetInfo(t *testing.T) {
	j := New(Config{})
	info := j.GetInfo()

	assert.Equal(t, ModelName, info.ModelName)
	assert.Equal(t, ModelVersion, info.Version)
	assert.NotEmpty(t, info.SupportedDomains)
}
