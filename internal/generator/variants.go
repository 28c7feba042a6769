package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hugo-study/backend/internal/models"
)

// CorpusStore is the corpus access a generation run needs. *corpus.Corpus
// implements it.
type CorpusStore interface {
	Keys(category models.ParagraphCategory) ([]string, error)
	Raw(category models.ParagraphCategory, key string) (string, error)
	Exists(category models.ParagraphCategory, key string) (bool, error)
	Write(category models.ParagraphCategory, key, text string) error
	MaskMarker() string
}

type RunReport struct {
	Transform    Transform     `json:"transform" yaml:"transform"`
	Considered   int           `json:"considered" yaml:"considered"`
	Skipped      int           `json:"skipped" yaml:"skipped"`
	Written      int           `json:"written" yaml:"written"`
	Rejected     int           `json:"rejected" yaml:"rejected"`
	PromptTokens int           `json:"prompt_tokens" yaml:"prompt_tokens"`
	OutputTokens int           `json:"output_tokens" yaml:"output_tokens"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Run applies t to every source paragraph whose target file is missing.
// Targets keep the source key, so link ids carry over. limit caps the number
// of files written; zero means no cap. Rejected rewrites are logged and
// skipped; backend failures stop the run.
func (g *Generator) Run(ctx context.Context, store CorpusStore, t Transform, limit int) (*RunReport, error) {
	if _, ok := transforms[t]; !ok {
		return nil, fmt.Errorf("unknown transform %q", t)
	}

	start := time.Now()
	report := &RunReport{Transform: t}
	defer func() { report.Duration = time.Since(start) }()

	keys, err := store.Keys(t.Source())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.Source(), err)
	}

	marker := store.MaskMarker()
	for _, key := range keys {
		if limit > 0 && report.Written >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Considered++

		exists, err := store.Exists(t.Target(), key)
		if err != nil {
			return report, fmt.Errorf("check %s/%s: %w", t.Target(), key, err)
		}
		if exists {
			report.Skipped++
			continue
		}

		source, err := store.Raw(t.Source(), key)
		if err != nil {
			return report, fmt.Errorf("read %s/%s: %w", t.Source(), key, err)
		}

		rewritten, resp, err := g.Rewrite(ctx, t, source, marker)
		if resp != nil {
			report.PromptTokens += resp.PromptTokens
			report.OutputTokens += resp.OutputTokens
		}
		if err != nil {
			var verr *ValidationError
			if resp != nil || errors.As(err, &verr) {
				log.Printf("[generator] WARN: %s %s rejected: %v", t, key, err)
				report.Rejected++
				continue
			}
			return report, err
		}

		if err := store.Write(t.Target(), key, rewritten); err != nil {
			return report, err
		}
		report.Written++
		log.Printf("[generator] %s %s -> %s/%s", t, key, t.Target(), key)
	}

	log.Printf("[generator] %s done: considered=%d written=%d skipped=%d rejected=%d tokens=%d/%d",
		t, report.Considered, report.Written, report.Skipped, report.Rejected,
		report.PromptTokens, report.OutputTokens)
	return report, nil
}
