package questionnaire

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hugo-study/backend/internal/corpus"
	"github.com/hugo-study/backend/internal/models"
)

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

// newFixtureCorpus builds a corpus with hugoCount linked Hugo passages, each
// with a neutralized and a restored variant, plus a small other-authors pool
// and its Hugo-styled transforms.
func newFixtureCorpus(t *testing.T, hugoCount int) *corpus.Corpus {
	t.Helper()
	root := t.TempDir()

	for i := 1; i <= hugoCount; i++ {
		key := fmt.Sprintf("hugo_miserables_%d.txt", i)
		writeCorpusFile(t, root, models.CategoryHugo, key, fmt.Sprintf("Hugo original %d.", i))
		writeCorpusFile(t, root, models.CategoryNeutralized, key, fmt.Sprintf("Neutral %d.", i))
		writeCorpusFile(t, root, models.CategoryRestored, key, fmt.Sprintf("Restored %d.", i))
	}

	for i, author := range []string{"zola", "dumas", "colette"} {
		key := fmt.Sprintf("%s_roman_%d.txt", author, i+1)
		writeCorpusFile(t, root, models.CategoryOther, key, fmt.Sprintf("Other %s.", author))
		writeCorpusFile(t, root, models.CategoryOther2Hugo, key, fmt.Sprintf("Styled %s.", author))
	}

	return corpus.New(root, corpus.DefaultOptions())
}

func linkIDOf(t *testing.T, key string) int {
	t.Helper()
	fn, err := corpus.ParseKey(key)
	if err != nil {
		t.Fatalf("ParseKey(%q): %v", key, err)
	}
	if !fn.HasLinkID {
		t.Fatalf("%q has no link id", key)
	}
	return fn.LinkID
}

// reference returns the Hugo-pool paragraph of a contrastive question.
func reference(t *testing.T, q *models.Question) *models.Paragraph {
	t.Helper()
	switch {
	case q.Left.Category == models.CategoryHugo && q.Right.Category != models.CategoryHugo:
		return q.Left
	case q.Right.Category == models.CategoryHugo && q.Left.Category != models.CategoryHugo:
		return q.Right
	}
	t.Fatalf("question %d (%s) has no single Hugo reference: %s / %s",
		q.ID, q.Category, q.Left.Category, q.Right.Category)
	return nil
}
