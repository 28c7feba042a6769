// Package questionnaire generates the paired-paragraph questions shown to
// study participants.
//
// An Engine owns the random source and the id sequences of one generation
// run and is not safe for concurrent use; concurrent requests each build
// their own Engine. The corpus is only read.
package questionnaire

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/hugo-study/backend/internal/corpus"
	"github.com/hugo-study/backend/internal/models"
)

var ErrInvalidCount = errors.New("invalid question count")

// Limits on one questionnaire. Irrelevant questions never exhaust the
// corpus, so only these caps bound a request.
const (
	MaxQuestionsPerCategory = 100
	MaxQuestions            = 200
)

// Distribution is the number of questions wanted per question category.
type Distribution map[models.QuestionCategory]int

// DefaultDistribution is used when a caller does not ask for a specific mix.
func DefaultDistribution() Distribution {
	return Distribution{
		models.QuestionHugoVsOther:       4,
		models.QuestionHugoVsNeutralized: 2,
		models.QuestionHugoVsOther2Hugo:  4,
		models.QuestionHugoVsRestored:    4,
		models.QuestionIrrelevant:        0,
	}
}

func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Validate rejects unknown categories, negative counts, and counts above
// MaxQuestionsPerCategory or MaxQuestions in total.
func (d Distribution) Validate() error {
	total := 0
	for category, n := range d {
		if !models.ValidQuestionCategories[category] {
			return fmt.Errorf("%w: %q", corpus.ErrInvalidCategory, category)
		}
		if n < 0 || n > MaxQuestionsPerCategory {
			return fmt.Errorf("%w: %d for %s (want 0..%d)", ErrInvalidCount, n, category, MaxQuestionsPerCategory)
		}
		total += n
		if total > MaxQuestions {
			return fmt.Errorf("%w: more than %d questions requested", ErrInvalidCount, MaxQuestions)
		}
	}
	return nil
}

type Engine struct {
	rng          *rand.Rand
	paragraphIDs IDSequence
	questionIDs  IDSequence
	selector     *Selector
	builder      *Builder
}

func New(src Source, rng *rand.Rand) *Engine {
	e := &Engine{rng: rng}
	e.selector = NewSelector(src, rng, &e.paragraphIDs)
	e.builder = NewBuilder(e.selector, rng, &e.questionIDs)
	return e
}

// NewSeeded returns an Engine whose output is reproducible for a given seed
// and corpus.
func NewSeeded(src Source, seed uint64) *Engine {
	return New(src, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewRandom returns an Engine with its own randomly seeded source.
func NewRandom(src Source) *Engine {
	return New(src, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// Assemble builds dist.Total() questions and returns them in random order.
// Each category gets a fresh exclusion set for its Hugo references, so a
// reference never repeats within a category but may reappear across
// categories. The first build failure aborts the whole questionnaire.
func (e *Engine) Assemble(dist Distribution) ([]*models.Question, error) {
	if err := dist.Validate(); err != nil {
		return nil, err
	}

	questions := make([]*models.Question, 0, dist.Total())
	for _, category := range models.AllQuestionCategories {
		n := dist[category]
		if n == 0 {
			continue
		}

		used := corpus.NewKeySet()
		for i := 0; i < n; i++ {
			q, err := e.builder.Build(category, used)
			if err != nil {
				return nil, fmt.Errorf("question %d of %d: %w", i+1, n, err)
			}
			questions = append(questions, q)
		}
	}

	e.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	return questions, nil
}
