package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/layout"
)

// LayoutParser reads pages that were already extracted into the layout JSON
// form, either as a bare array of pages or as {"pages": [...]}.
type LayoutParser struct{}

func (p *LayoutParser) Parse(r io.Reader, filename string) ([]layout.Page, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	src = bytes.TrimSpace(src)
	if len(src) == 0 {
		return nil, nil
	}

	var pages []layout.Page
	if src[0] == '[' {
		err = json.Unmarshal(src, &pages)
	} else {
		var doc struct {
			Pages []layout.Page `json:"pages"`
		}
		err = json.Unmarshal(src, &doc)
		pages = doc.Pages
	}
	if err != nil {
		return nil, fmt.Errorf("decode layout %s: %w", filename, err)
	}

	// Pages without an explicit number are numbered by position.
	for i := range pages {
		if pages[i].Number == 0 {
			pages[i].Number = i + 1
		}
	}
	return pages, nil
}
