package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hugo-study/backend/internal/corpus"
	"github.com/hugo-study/backend/internal/models"
	"github.com/hugo-study/backend/internal/questionnaire"
	"gopkg.in/yaml.v3"
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

func TestParseDistribution(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    questionnaire.Distribution
		wantErr bool
	}{
		{"empty uses default", "", questionnaire.DefaultDistribution(), false},
		{"single", "Hugo VS Other=3", questionnaire.Distribution{models.QuestionHugoVsOther: 3}, false},
		{"spaces and trailing comma", " Hugo VS Restored = 2 , Irrelevant=1,",
			questionnaire.Distribution{models.QuestionHugoVsRestored: 2, models.QuestionIrrelevant: 1}, false},
		{"missing count", "Hugo VS Other", nil, true},
		{"bad count", "Hugo VS Other=two", nil, true},
		{"repeated", "Irrelevant=1,Irrelevant=2", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDistribution(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %d, want %d", k, got[k], v)
				}
			}
		})
	}

	// Unknown names parse and are rejected by validation.
	dist, err := parseDistribution("Hugo VS Nobody=1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := dist.Validate(); !errors.Is(err, corpus.ErrInvalidCategory) {
		t.Errorf("Validate err = %v, want ErrInvalidCategory", err)
	}
}

func TestBuildReport(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, models.CategoryHugo, "hugo_miserables_1.txt", "a")
	writeCorpusFile(t, root, models.CategoryHugo, "hugo_miserables_2.txt", "b")
	writeCorpusFile(t, root, models.CategoryHugo, "hugo_preface.txt", "c")
	writeCorpusFile(t, root, models.CategoryRestored, "hugo_miserables_1.txt", "a'")
	writeCorpusFile(t, root, models.CategoryOther, "zola_germinal_1.txt", "z")

	report, err := buildReport(corpus.New(root, corpus.DefaultOptions()))
	if err != nil {
		t.Fatalf("buildReport: %v", err)
	}

	if report.Partitions[models.CategoryHugo] != 3 || report.Partitions[models.CategoryNeutralized] != 0 {
		t.Errorf("partitions = %v", report.Partitions)
	}

	wantMissing := []string{"hugo_miserables_2.txt", "hugo_preface.txt"}
	if strings.Join(report.MissingRestored, ",") != strings.Join(wantMissing, ",") {
		t.Errorf("missing restored = %v, want %v", report.MissingRestored, wantMissing)
	}

	want := map[models.QuestionCategory]int{
		models.QuestionHugoVsOther:       3,
		models.QuestionHugoVsNeutralized: 0,
		models.QuestionHugoVsOther2Hugo:  0,
		models.QuestionHugoVsRestored:    1,
		models.QuestionIrrelevant:        0,
	}
	for _, c := range report.Capacity {
		if c.Max != want[c.Category] {
			t.Errorf("%s capacity = %d, want %d", c.Category, c.Max, want[c.Category])
		}
		if c.Unbounded {
			t.Errorf("%s should not be unbounded with empty partitions", c.Category)
		}
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	if !strings.Contains(buf.String(), "hugo_preface.txt") {
		t.Errorf("text report missing unlinked file:\n%s", buf.String())
	}
}

func TestRender(t *testing.T) {
	v := map[string]int{"hugo_paragraphs": 2}

	var js bytes.Buffer
	if err := render(&js, "json", v); err != nil {
		t.Fatalf("json: %v", err)
	}
	var back map[string]int
	if err := json.Unmarshal(js.Bytes(), &back); err != nil || back["hugo_paragraphs"] != 2 {
		t.Errorf("json output = %q (%v)", js.String(), err)
	}

	var ym bytes.Buffer
	if err := render(&ym, "yaml", v); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	back = nil
	if err := yaml.Unmarshal(ym.Bytes(), &back); err != nil || back["hugo_paragraphs"] != 2 {
		t.Errorf("yaml output = %q (%v)", ym.String(), err)
	}

	if err := render(&js, "xml", v); err == nil {
		t.Error("expected error for unknown format")
	}
}
