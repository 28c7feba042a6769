package questionnaire

import (
	"fmt"
	"math/rand/v2"

	"github.com/hugo-study/backend/internal/corpus"
	"github.com/hugo-study/backend/internal/models"
)

// counterPools maps the contrastive categories to the pool a Hugo reference
// is paired against.
var counterPools = map[models.QuestionCategory]models.ParagraphCategory{
	models.QuestionHugoVsOther:       models.CategoryOther,
	models.QuestionHugoVsNeutralized: models.CategoryNeutralized,
	models.QuestionHugoVsOther2Hugo:  models.CategoryOther2Hugo,
}

// Builder turns a question category into one pair of paragraphs.
type Builder struct {
	sel *Selector
	rng *rand.Rand
	ids *IDSequence
}

func NewBuilder(sel *Selector, rng *rand.Rand, ids *IDSequence) *Builder {
	return &Builder{sel: sel, rng: rng, ids: ids}
}

// Build creates one question of category. Hugo references are drawn outside
// usedReferences and recorded in it. Nothing is returned unless both
// paragraphs were resolved.
func (b *Builder) Build(category models.QuestionCategory, usedReferences corpus.KeySet) (*models.Question, error) {
	var first, second *models.Paragraph
	var err error

	switch category {
	case models.QuestionHugoVsOther, models.QuestionHugoVsNeutralized, models.QuestionHugoVsOther2Hugo:
		first, second, err = b.contrast(counterPools[category], usedReferences)
	case models.QuestionHugoVsRestored:
		first, second, err = b.restored(usedReferences)
	case models.QuestionIrrelevant:
		first, second, err = b.irrelevant()
	default:
		return nil, fmt.Errorf("build question: %w: %q", corpus.ErrInvalidCategory, category)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s question: %w", category, err)
	}

	left, right := b.assignSides(first, second)
	return &models.Question{
		ID:       b.ids.Next(),
		Category: category,
		Left:     left,
		Right:    right,
	}, nil
}

func (b *Builder) contrast(pool models.ParagraphCategory, used corpus.KeySet) (*models.Paragraph, *models.Paragraph, error) {
	ref, err := b.sel.Select(models.CategoryHugo, used)
	if err != nil {
		return nil, nil, err
	}
	other, err := b.sel.Select(pool, nil)
	if err != nil {
		return nil, nil, err
	}
	return ref, other, nil
}

func (b *Builder) restored(used corpus.KeySet) (*models.Paragraph, *models.Paragraph, error) {
	ref, err := b.sel.Select(models.CategoryHugo, used)
	if err != nil {
		return nil, nil, err
	}

	fn, err := corpus.ParseKey(ref.File)
	if err != nil {
		return nil, nil, err
	}
	if !fn.HasLinkID {
		return nil, nil, fmt.Errorf("%w: reference %s has no link id", corpus.ErrCorpusExhausted, ref.File)
	}

	linked, err := b.sel.SelectLinked(models.CategoryRestored, fn.LinkID)
	if err != nil {
		return nil, nil, err
	}
	return ref, linked, nil
}

// irrelevant draws both paragraphs from one uniformly chosen partition with
// no exclusion, so the two may coincide.
func (b *Builder) irrelevant() (*models.Paragraph, *models.Paragraph, error) {
	category := models.AllParagraphCategories[b.rng.IntN(len(models.AllParagraphCategories))]

	first, err := b.sel.Select(category, nil)
	if err != nil {
		return nil, nil, err
	}
	second, err := b.sel.Select(category, nil)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// assignSides places the pair with a fair coin, independent of fetch order.
func (b *Builder) assignSides(p, q *models.Paragraph) (left, right *models.Paragraph) {
	if b.rng.IntN(2) == 0 {
		return p, q
	}
	return q, p
}
