package doctree

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Level is a heading level in the inferred outline.
type Level string

const (
	H1 Level = "H1"
	H2 Level = "H2"
	H3 Level = "H3"
)

// Depth returns 1 for H1, 2 for H2, 3 for H3 and 0 for anything else.
func (l Level) Depth() int {
	switch l {
	case H1:
		return 1
	case H2:
		return 2
	case H3:
		return 3
	}
	return 0
}

// Outline is the inferred structure of one document.
type Outline struct {
	Title   string  `json:"title" yaml:"title"`
	Outline []Entry `json:"outline" yaml:"outline"`
}

// Entry is a single heading in the outline.
type Entry struct {
	Level Level  `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
	Page  int    `json:"page" yaml:"page"`
}

// MarshalJSON always emits "outline" as an array, even when no headings were found.
func (o Outline) MarshalJSON() ([]byte, error) {
	type plain Outline
	p := plain(o)
	if p.Outline == nil {
		p.Outline = []Entry{}
	}
	// HTML escaping is left to the outer encoder.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DocNode is a heading with the headings nested under it.
type DocNode struct {
	Title    string     // Heading text
	Level    Level      // Heading level
	Page     int        // Source page
	Children []*DocNode // Deeper headings that follow this one
}

// Tree nests the flat outline by level in page order. Entries on the same
// page keep their outline order; an entry becomes a child of the closest
// preceding entry with a smaller depth. The outline itself is not reordered.
func (o Outline) Tree() []*DocNode {
	entries := make([]Entry, len(o.Outline))
	copy(entries, o.Outline)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Page < entries[j].Page
	})

	type stackEntry struct {
		node  *DocNode
		depth int
	}

	root := &DocNode{}
	stack := []stackEntry{{node: root, depth: 0}}

	for _, e := range entries {
		depth := e.Level.Depth()
		if depth == 0 {
			continue
		}
		node := &DocNode{Title: e.Text, Level: e.Level, Page: e.Page}

		// Pop stack until we find a parent with lower depth.
		for len(stack) > 1 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, node)
		stack = append(stack, stackEntry{node: node, depth: depth})
	}

	return root.Children
}
