package study

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hugo-study/backend/internal/models"
	"github.com/hugo-study/backend/internal/questionnaire"
)

// Repository is the persistence the service depends on. *Store implements it.
type Repository interface {
	CreateParticipant(ctx context.Context, req models.CreateParticipantRequest) (*models.Participant, error)
	GetParticipant(ctx context.Context, id int64) (*models.Participant, error)
	SaveQuestionnaire(ctx context.Context, participantID int64, questions []*models.Question) (*SavedQuestionnaire, error)
	CreateAnswer(ctx context.Context, req models.SubmitAnswerRequest) (int64, error)
	ListAnswers(ctx context.Context, filter models.AnswerFilter) ([]models.AnswerRecord, int, error)
	Stats(ctx context.Context) (*models.StudyStats, error)
}

type Service struct {
	repo      Repository
	corpus    questionnaire.Source
	newEngine func(questionnaire.Source) *questionnaire.Engine
}

func NewService(repo Repository, corpus questionnaire.Source) *Service {
	return &Service{
		repo:      repo,
		corpus:    corpus,
		newEngine: questionnaire.NewRandom,
	}
}

func (s *Service) CreateParticipant(ctx context.Context, req models.CreateParticipantRequest) (*models.Participant, error) {
	p, err := s.repo.CreateParticipant(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Printf("[study] participant %d registered (age=%q familiarity=%q)", p.ID, p.Age, p.HugoStyleFamiliarity)
	return p, nil
}

func (s *Service) GetParticipant(ctx context.Context, id int64) (*models.Participant, error) {
	return s.repo.GetParticipant(ctx, id)
}

// GenerateQuestionnaire builds a questionnaire for a participant, persists it
// and returns what the participant is shown. The distribution is validated
// before the corpus or the store is touched.
func (s *Service) GenerateQuestionnaire(ctx context.Context, req models.QuestionnaireRequest) (*models.QuestionnaireResponse, error) {
	dist := questionnaire.DefaultDistribution()
	if req.Distribution != nil {
		dist = questionnaire.Distribution(req.Distribution)
	}
	if err := dist.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetParticipant(ctx, req.ParticipantID); err != nil {
		return nil, err
	}

	start := time.Now()
	questions, err := s.newEngine(s.corpus).Assemble(dist)
	if err != nil {
		log.Printf("[study] WARN: questionnaire for participant %d failed: %v", req.ParticipantID, err)
		return nil, fmt.Errorf("assemble questionnaire: %w", err)
	}

	saved, err := s.repo.SaveQuestionnaire(ctx, req.ParticipantID, questions)
	if err != nil {
		return nil, fmt.Errorf("save questionnaire: %w", err)
	}

	log.Printf("[study] questionnaire %s: %d questions for participant %d in %v",
		saved.ID, len(questions), req.ParticipantID, time.Since(start))

	return present(saved, questions), nil
}

// present strips authorship and substitutes storage ids for the run-local
// question ids.
func present(saved *SavedQuestionnaire, questions []*models.Question) *models.QuestionnaireResponse {
	resp := &models.QuestionnaireResponse{
		QuestionnaireID: saved.ID,
		Questions:       make([]models.PresentedQuestion, 0, len(questions)),
	}
	for i, q := range questions {
		resp.Questions = append(resp.Questions, models.PresentedQuestion{
			ID:       saved.QuestionIDs[i],
			Category: q.Category,
			Left:     q.Left.Text,
			Right:    q.Right.Text,
		})
	}
	return resp
}

func (s *Service) SubmitAnswer(ctx context.Context, req models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	id, err := s.repo.CreateAnswer(ctx, req)
	if err != nil {
		return nil, err
	}
	return &models.SubmitAnswerResponse{Status: "success", ID: id}, nil
}

func (s *Service) ListAnswers(ctx context.Context, filter models.AnswerFilter) (*models.AnswerListResponse, error) {
	answers, total, err := s.repo.ListAnswers(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := 1
	if filter.Limit > 0 {
		page = filter.Offset/filter.Limit + 1
	}
	return &models.AnswerListResponse{
		Answers:  answers,
		Total:    total,
		Page:     page,
		PageSize: filter.Limit,
	}, nil
}

func (s *Service) Stats(ctx context.Context) (*models.StudyStats, error) {
	return s.repo.Stats(ctx)
}
