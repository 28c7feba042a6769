package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hugo-study/backend/internal/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrDuplicateAnswer     = errors.New("question already answered")
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SavedQuestionnaire carries the storage identity assigned to a generated
// questionnaire. QuestionIDs follows the order of the saved questions.
type SavedQuestionnaire struct {
	ID          string
	QuestionIDs []int64
}

// ── Participants ──────────────────────────────────────

func (s *Store) CreateParticipant(ctx context.Context, req models.CreateParticipantRequest) (*models.Participant, error) {
	var p models.Participant
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO participants (age, education, studied_french_literature, hugo_style_familiarity)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, age, education, studied_french_literature, hugo_style_familiarity, created_at`,
		req.Age, req.Education, req.StudiedFrenchLiterature, req.HugoStyleFamiliarity,
	).Scan(&p.ID, &p.Age, &p.Education, &p.StudiedFrenchLiterature, &p.HugoStyleFamiliarity, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return &p, nil
}

func (s *Store) GetParticipant(ctx context.Context, id int64) (*models.Participant, error) {
	var p models.Participant
	err := s.db.QueryRowContext(ctx,
		`SELECT id, age, education, studied_french_literature, hugo_style_familiarity, created_at
		 FROM participants WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Age, &p.Education, &p.StudiedFrenchLiterature, &p.HugoStyleFamiliarity, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return &p, nil
}

// ── Questionnaires ────────────────────────────────────

// SaveQuestionnaire stores the questionnaire, its paragraphs and its
// questions in one transaction. Generation-time ids are not persisted.
func (s *Store) SaveQuestionnaire(ctx context.Context, participantID int64, questions []*models.Question) (*SavedQuestionnaire, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	saved := &SavedQuestionnaire{
		ID:          uuid.New().String(),
		QuestionIDs: make([]int64, 0, len(questions)),
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO questionnaires (id, participant_id, question_count) VALUES ($1, $2, $3)`,
		saved.ID, participantID, len(questions),
	); err != nil {
		return nil, fmt.Errorf("insert questionnaire: %w", err)
	}

	for i, q := range questions {
		leftID, err := insertParagraph(ctx, tx, saved.ID, q.Left)
		if err != nil {
			return nil, err
		}
		rightID, err := insertParagraph(ctx, tx, saved.ID, q.Right)
		if err != nil {
			return nil, err
		}

		var questionID int64
		err = tx.QueryRowContext(ctx,
			`INSERT INTO questions (questionnaire_id, position, category, left_paragraph_id, right_paragraph_id)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			saved.ID, i, q.Category, leftID, rightID,
		).Scan(&questionID)
		if err != nil {
			return nil, fmt.Errorf("insert question %d: %w", i, err)
		}
		saved.QuestionIDs = append(saved.QuestionIDs, questionID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit questionnaire: %w", err)
	}
	return saved, nil
}

func insertParagraph(ctx context.Context, tx *sql.Tx, questionnaireID string, p *models.Paragraph) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO paragraphs (questionnaire_id, file, text, category, author)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		questionnaireID, p.File, p.Text, p.Category, p.Author,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert paragraph %s: %w", p.File, err)
	}
	return id, nil
}

// ── Answers ───────────────────────────────────────────

// CreateAnswer records a choice. The question must belong to one of the
// participant's questionnaires and may only be answered once.
func (s *Store) CreateAnswer(ctx context.Context, req models.SubmitAnswerRequest) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO answers (question_id, participant_id, choice)
		 SELECT q.id, qn.participant_id, $3
		 FROM questions q
		 JOIN questionnaires qn ON qn.id = q.questionnaire_id
		 WHERE q.id = $1 AND qn.participant_id = $2
		 RETURNING id`,
		req.QuestionID, req.ParticipantID, req.Choice,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrQuestionNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return 0, ErrDuplicateAnswer
	}
	if err != nil {
		return 0, fmt.Errorf("create answer: %w", err)
	}
	return id, nil
}

const answerSelect = `
	SELECT a.id, a.participant_id, a.question_id, q.category, a.choice,
	       c.file, c.category, c.author, o.file, o.category, a.created_at
	FROM answers a
	JOIN questions q ON q.id = a.question_id
	JOIN paragraphs c ON c.id = CASE a.choice WHEN 'left' THEN q.left_paragraph_id ELSE q.right_paragraph_id END
	JOIN paragraphs o ON o.id = CASE a.choice WHEN 'left' THEN q.right_paragraph_id ELSE q.left_paragraph_id END`

// answerWhere builds the filter clause shared by the list and count queries.
// A paragraph category matches when either side of the question has it.
func answerWhere(filter models.AnswerFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.QuestionCategory != nil {
		args = append(args, *filter.QuestionCategory)
		conds = append(conds, fmt.Sprintf("q.category = $%d", len(args)))
	}
	if filter.ParagraphCategory != nil {
		args = append(args, *filter.ParagraphCategory)
		conds = append(conds, fmt.Sprintf("(c.category = $%d OR o.category = $%d)", len(args), len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) ListAnswers(ctx context.Context, filter models.AnswerFilter) ([]models.AnswerRecord, int, error) {
	where, args := answerWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM (" + answerSelect + where + ") AS filtered"
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count answers: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("%s%s ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d",
		answerSelect, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := []models.AnswerRecord{}
	for rows.Next() {
		var a models.AnswerRecord
		if err := rows.Scan(&a.ID, &a.ParticipantID, &a.QuestionID, &a.QuestionCategory, &a.Choice,
			&a.ChosenFile, &a.ChosenCategory, &a.ChosenAuthor, &a.OtherFile, &a.OtherCategory,
			&a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan answer: %w", err)
		}
		a.ChoseHugo = a.ChosenCategory == models.CategoryHugo
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list answers: %w", err)
	}
	return answers, total, nil
}

// ── Stats ─────────────────────────────────────────────

func (s *Store) Stats(ctx context.Context) (*models.StudyStats, error) {
	stats := &models.StudyStats{}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants`).Scan(&stats.Participants); err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT q.category,
		        COUNT(DISTINCT q.id),
		        COUNT(a.id),
		        COUNT(a.id) FILTER (WHERE c.category = $1)
		 FROM questions q
		 LEFT JOIN answers a ON a.question_id = q.id
		 LEFT JOIN paragraphs c ON c.id = CASE a.choice WHEN 'left' THEN q.left_paragraph_id ELSE q.right_paragraph_id END
		 GROUP BY q.category`,
		models.CategoryHugo,
	)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	defer rows.Close()

	byCategory := map[models.QuestionCategory]models.CategoryStats{}
	for rows.Next() {
		var cs models.CategoryStats
		if err := rows.Scan(&cs.Category, &cs.QuestionsSent, &cs.Answers, &cs.HugoChosen); err != nil {
			return nil, fmt.Errorf("scan category stats: %w", err)
		}
		byCategory[cs.Category] = cs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}

	stats.Categories = orderedStats(byCategory)
	return stats, nil
}

// orderedStats lists every question category in canonical order, filling
// categories with no questions yet, and computes the Hugo rate.
func orderedStats(byCategory map[models.QuestionCategory]models.CategoryStats) []models.CategoryStats {
	out := make([]models.CategoryStats, 0, len(models.AllQuestionCategories))
	for _, category := range models.AllQuestionCategories {
		cs := byCategory[category]
		cs.Category = category
		if cs.Answers > 0 {
			cs.HugoRate = float64(cs.HugoChosen) / float64(cs.Answers)
		}
		out = append(out, cs)
	}
	return out
}
