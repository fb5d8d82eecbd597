package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// Vader scores text with the VADER lexicon. One instance is shared by all
// requests; the analyzer is read-only after construction.
type Vader struct {
	analyzer    *govader.SentimentIntensityAnalyzer
	stripMarkup bool
}

type Option func(*Vader)

// WithMarkupStripping renders markdown to plain text and drops links before
// scoring.
func WithMarkupStripping() Option {
	return func(v *Vader) { v.stripMarkup = true }
}

func NewVader(opts ...Option) *Vader {
	v := &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Compound returns the normalized VADER compound score in [-1, 1].
// Blank input scores 0.
func (v *Vader) Compound(text string) float64 {
	if v.stripMarkup {
		text = PlainText(text)
	}
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return v.analyzer.PolarityScores(text).Compound
}

// RemoveLinks keeps markdown link labels and drops bare URLs.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// PlainText converts markdown to whitespace-normalized text without links.
func PlainText(input string) string {
	input = RemoveLinks(input)
	// Renderers keep state, so one per call. No Smartypants: curly-quote
	// entities would hide contractions from the lexicon.
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{})
	out := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions(), blackfriday.WithRenderer(renderer))
	text := html.UnescapeString(tagPattern.ReplaceAllString(string(out), " "))
	return strings.Join(strings.Fields(text), " ")
}
