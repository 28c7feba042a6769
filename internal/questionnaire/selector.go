package questionnaire

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/hugo-study/backend/internal/corpus"
	"github.com/hugo-study/backend/internal/models"
)

var (
	ErrUnknownAuthor = errors.New("unknown author token")

	// ErrMisfiledParagraph is returned for a Hugo-attributed file found in
	// the other-authors pool.
	ErrMisfiledParagraph = errors.New("misfiled paragraph")
)

// Source is the read side of the corpus used during generation.
type Source interface {
	ListAvailable(category models.ParagraphCategory, exclude corpus.KeySet) ([]string, error)
	ListLinked(category models.ParagraphCategory, linkID int) ([]string, error)
	Load(category models.ParagraphCategory, key string) (string, error)
}

// IDSequence numbers the records of one generation run, starting at 1.
type IDSequence struct {
	last int64
}

func (s *IDSequence) Next() int64 {
	s.last++
	return s.last
}

// Selector draws single paragraphs uniformly from a corpus partition.
type Selector struct {
	src Source
	rng *rand.Rand
	ids *IDSequence
}

func NewSelector(src Source, rng *rand.Rand, ids *IDSequence) *Selector {
	return &Selector{src: src, rng: rng, ids: ids}
}

// Select picks one paragraph of category whose key is not in exclude. When
// exclude is non-nil the chosen key is added to it, so repeated calls with
// the same set never return the same file twice.
func (s *Selector) Select(category models.ParagraphCategory, exclude corpus.KeySet) (*models.Paragraph, error) {
	if !models.ValidParagraphCategories[category] {
		return nil, fmt.Errorf("select: %w: %q", corpus.ErrInvalidCategory, category)
	}

	keys, err := s.src.ListAvailable(category, exclude)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", category, err)
	}

	p, err := s.load(category, keys[s.rng.IntN(len(keys))])
	if err != nil {
		return nil, err
	}
	if exclude != nil {
		exclude.Add(p.File)
	}
	return p, nil
}

// SelectLinked picks one paragraph of category sharing linkID.
func (s *Selector) SelectLinked(category models.ParagraphCategory, linkID int) (*models.Paragraph, error) {
	if !models.ValidParagraphCategories[category] {
		return nil, fmt.Errorf("select linked: %w: %q", corpus.ErrInvalidCategory, category)
	}

	keys, err := s.src.ListLinked(category, linkID)
	if err != nil {
		return nil, fmt.Errorf("select linked from %s: %w", category, err)
	}

	return s.load(category, keys[s.rng.IntN(len(keys))])
}

func (s *Selector) load(category models.ParagraphCategory, key string) (*models.Paragraph, error) {
	author, err := AuthorOf(category, key)
	if err != nil {
		return nil, err
	}

	text, err := s.src.Load(category, key)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", category, key, err)
	}

	return &models.Paragraph{
		ID:       s.ids.Next(),
		File:     key,
		Text:     text,
		Category: category,
		Author:   author,
	}, nil
}

// AuthorOf attributes a corpus file. Only the original-author partitions
// carry a meaningful author token; everything else is generated.
func AuthorOf(category models.ParagraphCategory, key string) (models.Author, error) {
	if !category.IsOriginalPool() {
		return models.AuthorGenerated, nil
	}

	fn, err := corpus.ParseKey(key)
	if err != nil {
		return "", err
	}
	author, ok := models.AuthorFromToken(fn.AuthorToken)
	if !ok {
		return "", fmt.Errorf("%w: %q in %s/%s", ErrUnknownAuthor, fn.AuthorToken, category, key)
	}
	if author == models.AuthorHugo && category != models.CategoryHugo {
		return "", fmt.Errorf("%w: %s/%s is attributed to Hugo", ErrMisfiledParagraph, category, key)
	}
	return author, nil
}
