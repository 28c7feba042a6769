package generator

import (
	"fmt"
	"sort"

	"github.com/hugo-study/backend/internal/models"
)

// Transform names one rewrite that derives a corpus partition from another.
type Transform string

const (
	TransformNeutralize Transform = "neutralize"
	TransformRestore    Transform = "restore"
	TransformStylize    Transform = "stylize"
)

type transformDef struct {
	source       models.ParagraphCategory
	target       models.ParagraphCategory
	instructions string
}

var transforms = map[Transform]transformDef{
	TransformNeutralize: {
		source: models.CategoryHugo,
		target: models.CategoryNeutralized,
		instructions: `Rewrite the paragraph in a plain, neutral, contemporary French prose.
- Keep every event, character and idea, in the same order
- Remove Victor Hugo's stylistic signature: antitheses, accumulations, apostrophes, oratorical rhythm, grand imagery
- Prefer short declarative sentences and common vocabulary
- Do not summarize and do not add anything`,
	},
	TransformRestore: {
		source: models.CategoryNeutralized,
		target: models.CategoryRestored,
		instructions: `The paragraph is a neutral paraphrase of a passage by Victor Hugo. Rewrite it as Victor Hugo would have written it.
- Keep every event, character and idea, in the same order
- Use Hugo's devices: antithesis, accumulation, apostrophe, ample periodic sentences, striking imagery
- Write in nineteenth-century literary French
- Do not quote Hugo from memory; write a new text`,
	},
	TransformStylize: {
		source: models.CategoryOther,
		target: models.CategoryOther2Hugo,
		instructions: `The paragraph was written by another nineteenth-century French author. Rewrite it in the style of Victor Hugo.
- Keep every event, character and idea, in the same order
- Use Hugo's devices: antithesis, accumulation, apostrophe, ample periodic sentences, striking imagery
- Write in nineteenth-century literary French
- Do not summarize and do not add new events`,
	},
}

const (
	paragraphOpen  = "<paragraph>"
	paragraphClose = "</paragraph>"
)

// Transforms lists the known transforms in name order.
func Transforms() []Transform {
	out := make([]Transform, 0, len(transforms))
	for t := range transforms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func ParseTransform(s string) (Transform, error) {
	t := Transform(s)
	if _, ok := transforms[t]; !ok {
		return "", fmt.Errorf("unknown transform %q (want one of %v)", s, Transforms())
	}
	return t, nil
}

// Source is the partition a transform reads.
func (t Transform) Source() models.ParagraphCategory {
	return transforms[t].source
}

// Target is the partition a transform writes.
func (t Transform) Target() models.ParagraphCategory {
	return transforms[t].target
}

func SystemPrompt() string {
	return `You are a specialist of nineteenth-century French literature who rewrites paragraphs for a reader-perception study on the style of Victor Hugo.

RULES:
- Always answer in French
- Rewrite exactly one paragraph per request; never merge, split or skip content
- Keep proper nouns unless told otherwise
- Mask tokens stand for words hidden from study participants; copy each one unchanged and keep it at the equivalent position
- The rewrite should be roughly as long as the original

You must respond with valid JSON only. No markdown, no explanation outside the JSON.`
}

func BuildUserPrompt(t Transform, paragraph, marker string) string {
	maskRule := "The paragraph contains no mask token."
	if marker != "" {
		maskRule = fmt.Sprintf("Mask token: %s (keep every occurrence).", marker)
	}

	return fmt.Sprintf(`Transform: %s

%s

%s

%s
%s
%s

Respond with this exact JSON structure:
{"paragraph": "..."}`,
		string(t), transforms[t].instructions, maskRule, paragraphOpen, paragraph, paragraphClose)
}
