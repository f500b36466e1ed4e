package diff

import (
	"html"
	"regexp"
	"strings"

	"github.com/showscrub/backend/internal/lcs"
)

// CSS classes wrapped around changed tokens.
const (
	ClassTokenDeleted = "diffTokDel"
	ClassTokenAdded   = "diffTokAdd"
)

var tokenRe = regexp.MustCompile(`\s+|\S+`)

// Segment is one token of a highlighted line.
type Segment struct {
	Text    string `json:"text"`
	Changed bool   `json:"changed,omitempty"`
}

func tokenize(s string) []string {
	return tokenRe.FindAllString(s, -1)
}

// Inline aligns the word and whitespace tokens of two lines and marks the
// tokens outside their longest common subsequence.
func Inline(left, right string) (l, r []Segment) {
	a, b := tokenize(left), tokenize(right)
	for _, s := range lcs.Align(a, b) {
		switch s.Op {
		case lcs.Match:
			l = append(l, Segment{Text: a[s.A]})
			r = append(r, Segment{Text: b[s.B]})
		case lcs.OnlyA:
			l = append(l, Segment{Text: a[s.A], Changed: true})
		case lcs.OnlyB:
			r = append(r, Segment{Text: b[s.B], Changed: true})
		}
	}
	return l, r
}

// RenderHTML escapes segments and wraps changed non-blank tokens in a span of
// the given class.
func RenderHTML(segs []Segment, class string) string {
	var b strings.Builder
	for _, s := range segs {
		text := html.EscapeString(s.Text)
		if !s.Changed || strings.TrimSpace(s.Text) == "" {
			b.WriteString(text)
			continue
		}
		b.WriteString(`<span class="`)
		b.WriteString(class)
		b.WriteString(`">`)
		b.WriteString(text)
		b.WriteString(`</span>`)
	}
	return b.String()
}

// RenderMarked writes changed non-blank tokens between open and close, e.g.
// "[-" and "-]" for a terminal word diff.
func RenderMarked(segs []Segment, open, close string) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Changed && strings.TrimSpace(s.Text) != "" {
			b.WriteString(open)
			b.WriteString(s.Text)
			b.WriteString(close)
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
