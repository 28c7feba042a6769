package models

import "time"

type QuestionCategory string

const (
	QuestionHugoVsOther       QuestionCategory = "Hugo VS Other"
	QuestionHugoVsNeutralized QuestionCategory = "Hugo VS Neutralized"
	QuestionHugoVsOther2Hugo  QuestionCategory = "Hugo VS Other2Hugo"
	QuestionHugoVsRestored    QuestionCategory = "Hugo VS Restored"
	QuestionIrrelevant        QuestionCategory = "Irrelevant"
)

// AllQuestionCategories is the order in which a distribution is enumerated
// before the final shuffle.
var AllQuestionCategories = []QuestionCategory{
	QuestionHugoVsOther,
	QuestionHugoVsNeutralized,
	QuestionHugoVsOther2Hugo,
	QuestionHugoVsRestored,
	QuestionIrrelevant,
}

var ValidQuestionCategories = map[QuestionCategory]bool{
	QuestionHugoVsOther:       true,
	QuestionHugoVsNeutralized: true,
	QuestionHugoVsOther2Hugo:  true,
	QuestionHugoVsRestored:    true,
	QuestionIrrelevant:        true,
}

type Choice string

const (
	ChoiceLeft  Choice = "left"
	ChoiceRight Choice = "right"
)

// Question pairs two paragraphs. Left and Right only describe display
// position.
type Question struct {
	ID       int64            `json:"id"`
	Category QuestionCategory `json:"category"`
	Left     *Paragraph       `json:"left"`
	Right    *Paragraph       `json:"right"`
}

// ── Request Types ─────────────────────────────────────

type QuestionnaireRequest struct {
	ParticipantID int64                    `json:"participant_id"`
	Distribution  map[QuestionCategory]int `json:"distribution,omitempty"`
}

type SubmitAnswerRequest struct {
	QuestionID    int64  `json:"question_id"`
	ParticipantID int64  `json:"participant_id"`
	Choice        Choice `json:"choice"`
}

// ── Response Types ────────────────────────────────────

// PresentedQuestion is what a participant sees; paragraph authorship is
// withheld.
type PresentedQuestion struct {
	ID       int64            `json:"id"`
	Category QuestionCategory `json:"category"`
	Left     string           `json:"left"`
	Right    string           `json:"right"`
}

type QuestionnaireResponse struct {
	QuestionnaireID string              `json:"questionnaire_id"`
	Questions       []PresentedQuestion `json:"questions"`
}

type SubmitAnswerResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// ── Admin Types ───────────────────────────────────────

type AnswerFilter struct {
	QuestionCategory  *QuestionCategory
	ParagraphCategory *ParagraphCategory
	Limit             int
	Offset            int
}

type AnswerRecord struct {
	ID               int64             `json:"id"`
	ParticipantID    int64             `json:"participant_id"`
	QuestionID       int64             `json:"question_id"`
	QuestionCategory QuestionCategory  `json:"question_category"`
	Choice           Choice            `json:"choice"`
	ChosenFile       string            `json:"chosen_file"`
	ChosenCategory   ParagraphCategory `json:"chosen_category"`
	ChosenAuthor     Author            `json:"chosen_author"`
	OtherFile        string            `json:"other_file"`
	OtherCategory    ParagraphCategory `json:"other_category"`
	ChoseHugo        bool              `json:"chose_hugo"`
	CreatedAt        time.Time         `json:"created_at"`
}

type AnswerListResponse struct {
	Answers  []AnswerRecord `json:"answers"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type CategoryStats struct {
	Category      QuestionCategory `json:"category"`
	QuestionsSent int              `json:"questions_sent"`
	Answers       int              `json:"answers"`
	HugoChosen    int              `json:"hugo_chosen"`
	HugoRate      float64          `json:"hugo_rate"`
}

type StudyStats struct {
	Participants int             `json:"participants"`
	Categories   []CategoryStats `json:"categories"`
}
