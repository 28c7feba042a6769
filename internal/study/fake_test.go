package study

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hugo-study/backend/internal/corpus"
	"github.com/hugo-study/backend/internal/models"
	"github.com/hugo-study/backend/internal/questionnaire"
)

// memRepo is an in-memory Repository.
type memRepo struct {
	participants   map[int64]*models.Participant
	questionnaires map[string][]*models.Question
	answers        map[[2]int64]models.Choice
	nextQuestionID int64
	participantHit int
	listFilter     models.AnswerFilter
}

func newMemRepo() *memRepo {
	return &memRepo{
		participants:   map[int64]*models.Participant{},
		questionnaires: map[string][]*models.Question{},
		answers:        map[[2]int64]models.Choice{},
		nextQuestionID: 100,
	}
}

func (m *memRepo) CreateParticipant(_ context.Context, req models.CreateParticipantRequest) (*models.Participant, error) {
	p := &models.Participant{
		ID:                      int64(len(m.participants) + 1),
		Age:                     req.Age,
		Education:               req.Education,
		StudiedFrenchLiterature: req.StudiedFrenchLiterature,
		HugoStyleFamiliarity:    req.HugoStyleFamiliarity,
	}
	m.participants[p.ID] = p
	return p, nil
}

func (m *memRepo) GetParticipant(_ context.Context, id int64) (*models.Participant, error) {
	m.participantHit++
	p, ok := m.participants[id]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	return p, nil
}

func (m *memRepo) SaveQuestionnaire(_ context.Context, _ int64, questions []*models.Question) (*SavedQuestionnaire, error) {
	id := fmt.Sprintf("q-%d", len(m.questionnaires)+1)
	m.questionnaires[id] = questions
	saved := &SavedQuestionnaire{ID: id}
	for range questions {
		m.nextQuestionID++
		saved.QuestionIDs = append(saved.QuestionIDs, m.nextQuestionID)
	}
	return saved, nil
}

func (m *memRepo) CreateAnswer(_ context.Context, req models.SubmitAnswerRequest) (int64, error) {
	if _, ok := m.participants[req.ParticipantID]; !ok || req.QuestionID > m.nextQuestionID {
		return 0, ErrQuestionNotFound
	}
	key := [2]int64{req.QuestionID, req.ParticipantID}
	if _, ok := m.answers[key]; ok {
		return 0, ErrDuplicateAnswer
	}
	m.answers[key] = req.Choice
	return int64(len(m.answers)), nil
}

func (m *memRepo) ListAnswers(_ context.Context, filter models.AnswerFilter) ([]models.AnswerRecord, int, error) {
	m.listFilter = filter
	return []models.AnswerRecord{}, len(m.answers), nil
}

func (m *memRepo) Stats(_ context.Context) (*models.StudyStats, error) {
	return &models.StudyStats{Participants: len(m.participants), Categories: orderedStats(nil)}, nil
}

func writeCorpusFile(t *testing.T, root string, category models.ParagraphCategory, key, content string) {
	t.Helper()
	dir := filepath.Join(root, string(category))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, key), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", key, err)
	}
}

// newTestService wires a seeded engine over a corpus with hugoCount linked
// Hugo passages and one registered participant (id 1).
func newTestService(t *testing.T, hugoCount int) (*Service, *memRepo) {
	t.Helper()
	root := t.TempDir()
	for i := 1; i <= hugoCount; i++ {
		key := fmt.Sprintf("hugo_contemplations_%d.txt", i)
		writeCorpusFile(t, root, models.CategoryHugo, key, fmt.Sprintf("Hugo %d [MASK].", i))
		writeCorpusFile(t, root, models.CategoryNeutralized, key, fmt.Sprintf("Neutral %d.", i))
		writeCorpusFile(t, root, models.CategoryRestored, key, fmt.Sprintf("Restored %d.", i))
	}
	for i, author := range []string{"zola", "verne"} {
		key := fmt.Sprintf("%s_extrait_%d.txt", author, i+1)
		writeCorpusFile(t, root, models.CategoryOther, key, "Other "+author)
		writeCorpusFile(t, root, models.CategoryOther2Hugo, key, "Styled "+author)
	}

	repo := newMemRepo()
	repo.CreateParticipant(context.Background(), models.CreateParticipantRequest{
		Age:                  models.Age21To29,
		Education:            models.EducationGraduate,
		HugoStyleFamiliarity: models.FamiliarityNeutral,
	})

	svc := NewService(repo, corpus.New(root, corpus.DefaultOptions()))
	var seed uint64
	svc.newEngine = func(src questionnaire.Source) *questionnaire.Engine {
		seed++
		return questionnaire.NewSeeded(src, seed)
	}
	return svc, repo
}
