package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/truth-meter/backend/internal/storage/models"
	"github.com/truth-meter/backend/pkg/logger"
)

// ErrQuestionNotFound is the one domain error the evaluation pipeline stops on.
var ErrQuestionNotFound = errors.New("question not found")

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Foreign keys stay off: evaluations intentionally survive question deletion.
	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		subject TEXT NOT NULL,
		reference_answer TEXT NOT NULL,
		difficulty TEXT NOT NULL DEFAULT 'Medium',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_questions_subject ON questions(subject);

	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		question_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		model_name TEXT NOT NULL,
		response_text TEXT,
		accuracy_score REAL,
		clarity_score REAL,
		completeness_score REAL,
		reasoning TEXT,
		judged_by TEXT NOT NULL,
		model_version TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_evaluations_question ON evaluations(question_id);
	CREATE INDEX IF NOT EXISTS idx_evaluations_model ON evaluations(model_name);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertQuestion(q *models.Question) error {
	query := `
		INSERT INTO questions (id, text, subject, reference_answer, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		q.ID,
		q.Text,
		q.Subject,
		q.ReferenceAnswer,
		q.Difficulty,
		q.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	logger.Debug("Question inserted", zap.String("question_id", q.ID), zap.String("subject", q.Subject))
	return nil
}

func (c *Client) GetQuestion(id string) (*models.Question, error) {
	query := `SELECT id, text, subject, reference_answer, difficulty, created_at FROM questions WHERE id = ?`

	var q models.Question
	var createdAt int64

	err := c.db.QueryRow(query, id).Scan(
		&q.ID,
		&q.Text,
		&q.Subject,
		&q.ReferenceAnswer,
		&q.Difficulty,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	q.CreatedAt = time.Unix(createdAt, 0)

	return &q, nil
}

func (c *Client) ListQuestions(skip, limit int) ([]models.Question, error) {
	query := `
		SELECT id, text, subject, reference_answer, difficulty, created_at
		FROM questions
		ORDER BY created_at
		LIMIT ? OFFSET ?
	`

	rows, err := c.db.Query(query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]models.Question, 0)
	for rows.Next() {
		var q models.Question
		var createdAt int64

		err := rows.Scan(&q.ID, &q.Text, &q.Subject, &q.ReferenceAnswer, &q.Difficulty, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		q.CreatedAt = time.Unix(createdAt, 0)
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func (c *Client) CountQuestions() (int, error) {
	var count int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// DeleteQuestion removes a question. Evaluations referencing it are left
// untouched; the by-subject analytics join silently drops them.
func (c *Client) DeleteQuestion(id string) error {
	res, err := c.db.Exec(`DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if affected == 0 {
		return ErrQuestionNotFound
	}

	logger.Info("Question deleted", zap.String("question_id", id))
	return nil
}

func (c *Client) InsertEvaluation(e *models.Evaluation) error {
	query := `
		INSERT INTO evaluations (id, question_id, provider, model_name, response_text,
			accuracy_score, clarity_score, completeness_score, reasoning,
			judged_by, model_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		e.ID,
		e.QuestionID,
		e.Provider,
		e.ModelName,
		e.ResponseText,
		e.AccuracyScore,
		e.ClarityScore,
		e.CompletenessScore,
		e.Reasoning,
		e.JudgedBy,
		e.ModelVersion,
		e.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert evaluation: %w", err)
	}

	logger.Info("Evaluation recorded",
		zap.String("evaluation_id", e.ID),
		zap.String("question_id", e.QuestionID),
		zap.String("provider", e.Provider),
		zap.String("model", e.ModelName),
		zap.Float64("accuracy", e.AccuracyScore),
	)

	return nil
}

func (c *Client) ListEvaluations(skip, limit int) ([]models.Evaluation, error) {
	query := `
		SELECT id, question_id, provider, model_name, response_text,
			accuracy_score, clarity_score, completeness_score, reasoning,
			judged_by, model_version, created_at
		FROM evaluations
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := c.db.Query(query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	return scanEvaluations(rows)
}

// AllEvaluations returns every stored evaluation. The analytics aggregator
// joins and groups these in process.
func (c *Client) AllEvaluations() ([]models.Evaluation, error) {
	query := `
		SELECT id, question_id, provider, model_name, response_text,
			accuracy_score, clarity_score, completeness_score, reasoning,
			judged_by, model_version, created_at
		FROM evaluations
	`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluations: %w", err)
	}
	defer rows.Close()

	return scanEvaluations(rows)
}

func (c *Client) AllQuestions() ([]models.Question, error) {
	query := `SELECT id, text, subject, reference_answer, difficulty, created_at FROM questions`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	defer rows.Close()

	questions := make([]models.Question, 0)
	for rows.Next() {
		var q models.Question
		var createdAt int64

		err := rows.Scan(&q.ID, &q.Text, &q.Subject, &q.ReferenceAnswer, &q.Difficulty, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		q.CreatedAt = time.Unix(createdAt, 0)
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func scanEvaluations(rows *sql.Rows) ([]models.Evaluation, error) {
	evaluations := make([]models.Evaluation, 0)
	for rows.Next() {
		var e models.Evaluation
		var createdAt int64

		err := rows.Scan(
			&e.ID,
			&e.QuestionID,
			&e.Provider,
			&e.ModelName,
			&e.ResponseText,
			&e.AccuracyScore,
			&e.ClarityScore,
			&e.CompletenessScore,
			&e.Reasoning,
			&e.JudgedBy,
			&e.ModelVersion,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		e.CreatedAt = time.Unix(createdAt, 0)
		evaluations = append(evaluations, e)
	}

	return evaluations, rows.Err()
}
