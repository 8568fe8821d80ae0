package content

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const excerptLimit = 160

var headingIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

type renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

type rendered struct {
	html     string
	excerpt  string
	headings []Heading
}

func newRenderer() *renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").Matching(headingIDPattern).OnElements("h2", "h3")
	policy.AllowAttrs("class").OnElements("blockquote", "p")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &renderer{md: md, policy: policy}
}

func (r *renderer) render(source []byte) (rendered, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return rendered{}, err
	}
	safe := strings.TrimSpace(r.policy.Sanitize(buf.String()))

	doc, err := html.Parse(strings.NewReader(safe))
	if err != nil {
		return rendered{}, err
	}
	out := rendered{html: safe}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H2:
				if id := attr(n, "id"); id != "" {
					out.headings = append(out.headings, Heading{ID: id, Text: textOf(n)})
				}
				return
			case atom.P:
				if out.excerpt == "" {
					out.excerpt = truncate(textOf(n), excerptLimit)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textOf concatenates the text nodes under n with whitespace collapsed.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
