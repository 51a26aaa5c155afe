package render

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/doctree"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
)

// A leading "1." or "-" would otherwise open a nested list.
var listMarkerRe = regexp.MustCompile(`^(\d+)([.)])|^([-+])`)

func escapeMarkdown(s string) string {
	s = markdownEscaper.Replace(s)
	return listMarkerRe.ReplaceAllString(s, `$1\$2$3`)
}

// Markdown renders the outline as a title heading followed by a nested list.
func Markdown(o doctree.Outline) string {
	var b strings.Builder
	if o.Title != "" {
		b.WriteString("# " + escapeMarkdown(o.Title) + "\n\n")
	}

	var walk func(nodes []*doctree.DocNode, indent int)
	walk = func(nodes []*doctree.DocNode, indent int) {
		for _, n := range nodes {
			fmt.Fprintf(&b, "%s- %s (p. %d)\n", strings.Repeat("  ", indent), escapeMarkdown(n.Title), n.Page)
			walk(n.Children, indent+1)
		}
	}
	walk(o.Tree(), 0)

	return b.String()
}

// HTML renders a standalone preview page for the outline.
func HTML(w io.Writer, o doctree.Outline) error {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(o)), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	title := o.Title
	if title == "" {
		title = "Untitled document"
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	titleNode := element(atom.Title)
	titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head.AppendChild(meta)
	head.AppendChild(titleNode)

	bodyNode := element(atom.Body)
	children, err := html.ParseFragment(&body, bodyNode)
	if err != nil {
		return fmt.Errorf("parse rendered markdown: %w", err)
	}
	for _, c := range children {
		bodyNode.AppendChild(c)
	}

	root.AppendChild(head)
	root.AppendChild(bodyNode)
	doc.AppendChild(root)

	return html.Render(w, doc)
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

// YAML writes v as YAML with two-space indentation.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
