package models

import "time"

// Question is a stored prompt with its expert reference answer. Immutable once
// created except for deletion.
type Question struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	Subject         string    `json:"subject"`
	ReferenceAnswer string    `json:"reference_answer"`
	Difficulty      string    `json:"difficulty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Evaluation is one graded run of a candidate model against a question.
// Written exactly once, never mutated. QuestionID is not enforced by a foreign
// key; deleting a question leaves its evaluations in place.
type Evaluation struct {
	ID                string    `json:"id"`
	QuestionID        string    `json:"question_id"`
	Provider          string    `json:"provider"`
	ModelName         string    `json:"model_name"`
	ResponseText      string    `json:"response_text"`
	AccuracyScore     float64   `json:"accuracy_score"`
	ClarityScore      float64   `json:"clarity_score"`
	CompletenessScore float64   `json:"completeness_score"`
	Reasoning         string    `json:"reasoning"`
	JudgedBy          string    `json:"judged_by"`
	ModelVersion      string    `json:"model_version"`
	CreatedAt         time.Time `json:"created_at"`
}
