package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hugo-study/backend/internal/models"
)

const (
	DefaultMaskMarker  = "[MASK]"
	DefaultMaskDisplay = "[…]"
)

// KeySet is a set of corpus keys. A nil KeySet is a valid empty set for
// lookups.
type KeySet map[string]struct{}

func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s KeySet) Add(key string) {
	s[key] = struct{}{}
}

func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

type Options struct {
	// MaskMarker is replaced by MaskDisplay in loaded text. Empty disables
	// masking normalization.
	MaskMarker  string
	MaskDisplay string
}

// Corpus reads paragraph files from one directory per category under root.
// Listings are never cached: every call re-reads the directory.
type Corpus struct {
	root        string
	maskMarker  string
	maskDisplay string
}

func New(root string, opts Options) *Corpus {
	return &Corpus{
		root:        root,
		maskMarker:  opts.MaskMarker,
		maskDisplay: opts.MaskDisplay,
	}
}

// DefaultOptions returns the standard mask marker settings.
func DefaultOptions() Options {
	return Options{MaskMarker: DefaultMaskMarker, MaskDisplay: DefaultMaskDisplay}
}

// MaskMarker is the raw marker stored in corpus files.
func (c *Corpus) MaskMarker() string {
	return c.maskMarker
}

func (c *Corpus) Root() string {
	return c.root
}

// ListAvailable returns the keys of category that are not in exclude.
func (c *Corpus) ListAvailable(category models.ParagraphCategory, exclude KeySet) ([]string, error) {
	keys, err := c.list(category)
	if err != nil {
		return nil, err
	}

	available := make([]string, 0, len(keys))
	for _, k := range keys {
		if !exclude.Has(k) {
			available = append(available, k)
		}
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("%w: no unused file in %s (%d excluded)", ErrCorpusExhausted, category, len(keys))
	}
	return available, nil
}

// ListLinked returns the keys of category whose link id equals linkID.
func (c *Corpus) ListLinked(category models.ParagraphCategory, linkID int) ([]string, error) {
	keys, err := c.list(category)
	if err != nil {
		return nil, err
	}

	var linked []string
	for _, k := range keys {
		fn, err := ParseKey(k)
		if err != nil {
			continue
		}
		if fn.HasLinkID && fn.LinkID == linkID {
			linked = append(linked, k)
		}
	}
	if len(linked) == 0 {
		return nil, fmt.Errorf("%w: no file in %s with link id %d", ErrCorpusExhausted, category, linkID)
	}
	return linked, nil
}

// Load returns the trimmed, mask-normalized text of one file.
func (c *Corpus) Load(category models.ParagraphCategory, key string) (string, error) {
	text, err := c.Raw(category, key)
	if err != nil {
		return "", err
	}
	if c.maskMarker != "" {
		text = strings.ReplaceAll(text, c.maskMarker, c.maskDisplay)
	}
	return text, nil
}

// Raw returns the trimmed text of one file with the mask marker left as
// stored.
func (c *Corpus) Raw(category models.ParagraphCategory, key string) (string, error) {
	path, err := c.path(category, key)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s/%s no longer exists", ErrCorpusExhausted, category, key)
	}
	if err != nil {
		return "", fmt.Errorf("read %s/%s: %w", category, key, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ── Tooling ─────────────────────────────────────────────

// Exists reports whether category already holds key.
func (c *Corpus) Exists(category models.ParagraphCategory, key string) (bool, error) {
	path, err := c.path(category, key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Write stores text under category/key, creating the partition if needed.
func (c *Corpus) Write(category models.ParagraphCategory, key, text string) error {
	path, err := c.path(category, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create partition %s: %w", category, err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(text)+"\n"), 0644); err != nil {
		return fmt.Errorf("write %s/%s: %w", category, key, err)
	}
	return nil
}

// Keys lists every file in category, or nil when the partition is missing.
func (c *Corpus) Keys(category models.ParagraphCategory) ([]string, error) {
	keys, err := c.list(category)
	if errors.Is(err, ErrCorpusExhausted) {
		return nil, nil
	}
	return keys, err
}

// Stats counts the files of every partition.
func (c *Corpus) Stats() (map[models.ParagraphCategory]int, error) {
	counts := make(map[models.ParagraphCategory]int, len(models.AllParagraphCategories))
	for _, category := range models.AllParagraphCategories {
		keys, err := c.Keys(category)
		if err != nil {
			return nil, err
		}
		counts[category] = len(keys)
	}
	return counts, nil
}

func (c *Corpus) list(category models.ParagraphCategory) ([]string, error) {
	if !models.ValidParagraphCategories[category] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	entries, err := os.ReadDir(filepath.Join(c.root, string(category)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: partition %s is missing", ErrCorpusExhausted, category)
	}
	if err != nil {
		return nil, fmt.Errorf("read partition %s: %w", category, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		keys = append(keys, e.Name())
	}
	return keys, nil
}

func (c *Corpus) path(category models.ParagraphCategory, key string) (string, error) {
	if !models.ValidParagraphCategories[category] {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if key == "" || filepath.Base(key) != key || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}
	return filepath.Join(c.root, string(category), key), nil
}
