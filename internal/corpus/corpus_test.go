package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

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

func TestListAvailable(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeCorpusFile(t, root, models.CategoryHugo, "hugo_miserables_1.txt", "a")
	writeCorpusFile(t, root, models.CategoryHugo, "hugo_miserables_2.txt", "b")
	writeCorpusFile(t, root, models.CategoryHugo, "hugo_notredame_3.txt", "c")
	writeCorpusFile(t, root, models.CategoryHugo, ".DS_Store", "junk")
	if err := os.MkdirAll(filepath.Join(root, string(models.CategoryHugo), "drafts"), 0755); err != nil {
		t.Fatal(err)
	}

	c := New(root, DefaultOptions())

	got, err := c.ListAvailable(models.CategoryHugo, nil)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	want := []string{"hugo_miserables_1.txt", "hugo_miserables_2.txt", "hugo_notredame_3.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListAvailable = %v, want %v", got, want)
	}

	got, err = c.ListAvailable(models.CategoryHugo, NewKeySet("hugo_miserables_2.txt"))
	if err != nil {
		t.Fatalf("ListAvailable with exclusions: %v", err)
	}
	want = []string{"hugo_miserables_1.txt", "hugo_notredame_3.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListAvailable = %v, want %v", got, want)
	}
}

func TestListAvailable_Exhausted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeCorpusFile(t, root, models.CategoryOther, "zola_germinal_1.txt", "a")
	c := New(root, DefaultOptions())

	_, err := c.ListAvailable(models.CategoryOther, NewKeySet("zola_germinal_1.txt"))
	if !errors.Is(err, ErrCorpusExhausted) {
		t.Fatalf("err = %v, want ErrCorpusExhausted", err)
	}

	// Missing partition directory.
	_, err = c.ListAvailable(models.CategoryRestored, nil)
	if !errors.Is(err, ErrCorpusExhausted) {
		t.Fatalf("err = %v, want ErrCorpusExhausted for missing partition", err)
	}
}

func TestInvalidCategory(t *testing.T) {
	t.Parallel()

	// The root does not exist: an invalid category must fail before any
	// filesystem access is attempted.
	c := New(filepath.Join(t.TempDir(), "missing"), DefaultOptions())

	if _, err := c.ListAvailable("poems", nil); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ListAvailable err = %v, want ErrInvalidCategory", err)
	}
	if _, err := c.ListLinked("poems", 1); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ListLinked err = %v, want ErrInvalidCategory", err)
	}
	if _, err := c.Load("poems", "hugo_x_1.txt"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Load err = %v, want ErrInvalidCategory", err)
	}
}

func TestListLinked(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeCorpusFile(t, root, models.CategoryRestored, "hugo_miserables_12.txt", "a")
	writeCorpusFile(t, root, models.CategoryRestored, "hugo_notredame_12.txt", "b")
	writeCorpusFile(t, root, models.CategoryRestored, "hugo_notredame_120.txt", "c")
	writeCorpusFile(t, root, models.CategoryRestored, "hugo_untagged.txt", "d")
	writeCorpusFile(t, root, models.CategoryRestored, "nounderscore.txt", "e")
	c := New(root, DefaultOptions())

	got, err := c.ListLinked(models.CategoryRestored, 12)
	if err != nil {
		t.Fatalf("ListLinked: %v", err)
	}
	want := []string{"hugo_miserables_12.txt", "hugo_notredame_12.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListLinked = %v, want %v", got, want)
	}

	if _, err := c.ListLinked(models.CategoryRestored, 7); !errors.Is(err, ErrCorpusExhausted) {
		t.Fatalf("err = %v, want ErrCorpusExhausted", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeCorpusFile(t, root, models.CategoryNeutralized, "hugo_miserables_4.txt",
		"\n  Jean Valjean entra dans [MASK] sans bruit.\n\n")
	c := New(root, DefaultOptions())

	got, err := c.Load(models.CategoryNeutralized, "hugo_miserables_4.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "Jean Valjean entra dans […] sans bruit."
	if got != want {
		t.Fatalf("Load = %q, want %q", got, want)
	}

	plain := New(root, Options{})
	got, err = plain.Load(models.CategoryNeutralized, "hugo_miserables_4.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "Jean Valjean entra dans [MASK] sans bruit." {
		t.Fatalf("Load without masking = %q", got)
	}

	raw, err := c.Raw(models.CategoryNeutralized, "hugo_miserables_4.txt")
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if raw != "Jean Valjean entra dans [MASK] sans bruit." {
		t.Fatalf("Raw = %q", raw)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeCorpusFile(t, root, models.CategoryHugo, "hugo_a_1.txt", "x")
	c := New(root, DefaultOptions())

	if _, err := c.Load(models.CategoryHugo, "hugo_gone_2.txt"); !errors.Is(err, ErrCorpusExhausted) {
		t.Errorf("missing key err = %v, want ErrCorpusExhausted", err)
	}
	if _, err := c.Load(models.CategoryHugo, "../other_paragraphs/zola_a_1.txt"); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("path traversal err = %v, want ErrMalformedKey", err)
	}
}

func TestWriteExistsStats(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeCorpusFile(t, root, models.CategoryHugo, "hugo_a_1.txt", "x")
	writeCorpusFile(t, root, models.CategoryHugo, "hugo_a_2.txt", "y")
	c := New(root, DefaultOptions())

	ok, err := c.Exists(models.CategoryNeutralized, "hugo_a_1.txt")
	if err != nil || ok {
		t.Fatalf("Exists before write = %v, %v; want false, nil", ok, err)
	}
	if err := c.Write(models.CategoryNeutralized, "hugo_a_1.txt", "  neutre \n"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	ok, err = c.Exists(models.CategoryNeutralized, "hugo_a_1.txt")
	if err != nil || !ok {
		t.Fatalf("Exists after write = %v, %v; want true, nil", ok, err)
	}
	text, err := c.Load(models.CategoryNeutralized, "hugo_a_1.txt")
	if err != nil || text != "neutre" {
		t.Fatalf("Load after write = %q, %v", text, err)
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := map[models.ParagraphCategory]int{
		models.CategoryHugo:        2,
		models.CategoryOther:       0,
		models.CategoryOther2Hugo:  0,
		models.CategoryNeutralized: 1,
		models.CategoryRestored:    0,
	}
	if !reflect.DeepEqual(stats, want) {
		t.Fatalf("Stats = %v, want %v", stats, want)
	}
}
