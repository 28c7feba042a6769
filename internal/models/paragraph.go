package models

// ParagraphCategory names a corpus partition. The value is the partition's
// directory name under the corpus root.
type ParagraphCategory string

const (
	CategoryHugo        ParagraphCategory = "hugo_paragraphs"
	CategoryOther       ParagraphCategory = "other_paragraphs"
	CategoryOther2Hugo  ParagraphCategory = "other2hugo"
	CategoryNeutralized ParagraphCategory = "hugo2neutral"
	CategoryRestored    ParagraphCategory = "restored_hugo"
)

// AllParagraphCategories lists every partition in canonical order.
var AllParagraphCategories = []ParagraphCategory{
	CategoryHugo,
	CategoryOther,
	CategoryOther2Hugo,
	CategoryNeutralized,
	CategoryRestored,
}

var ValidParagraphCategories = map[ParagraphCategory]bool{
	CategoryHugo:        true,
	CategoryOther:       true,
	CategoryOther2Hugo:  true,
	CategoryNeutralized: true,
	CategoryRestored:    true,
}

// IsOriginalPool reports whether paragraphs in the category were written by
// a historical author, so the filename's author token is meaningful.
func (c ParagraphCategory) IsOriginalPool() bool {
	return c == CategoryHugo || c == CategoryOther
}

type Author string

const (
	AuthorGenerated  Author = "Généré par l'IA"
	AuthorHugo       Author = "Victor Hugo"
	AuthorColette    Author = "Colette"
	AuthorDaudet     Author = "Alphonse Daudet"
	AuthorDumas      Author = "Alexandre Dumas"
	AuthorMaupassant Author = "Guy de Maupassant"
	AuthorVerne      Author = "Jules Verne"
	AuthorZola       Author = "Émile Zola"
)

// authorTokens maps the filename prefix token to its author.
var authorTokens = map[string]Author{
	"genai":      AuthorGenerated,
	"hugo":       AuthorHugo,
	"colette":    AuthorColette,
	"daudet":     AuthorDaudet,
	"dumas":      AuthorDumas,
	"maupassant": AuthorMaupassant,
	"verne":      AuthorVerne,
	"zola":       AuthorZola,
}

// AuthorFromToken resolves a filename author token such as "zola".
func AuthorFromToken(token string) (Author, bool) {
	a, ok := authorTokens[token]
	return a, ok
}

// Paragraph is one corpus file drawn for a questionnaire. ID is unique within
// the generation run that produced it; storage ids are assigned separately.
type Paragraph struct {
	ID       int64             `json:"id"`
	File     string            `json:"file"`
	Text     string            `json:"text"`
	Category ParagraphCategory `json:"category"`
	Author   Author            `json:"author"`
}

func (p *Paragraph) IsHugo() bool {
	return p.Author == AuthorHugo
}
