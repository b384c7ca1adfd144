// Package content holds the canonical lesson structure and the pure functions
// that normalize, edit, render and preview it.
package content

// BlockType is the type of a content block
type BlockType string

const (
	BlockTypeText  BlockType = "text"
	BlockTypeVideo BlockType = "video"
)

// Block is a single text or video item inside a section.
// Content is the body for text blocks and an optional caption for video blocks.
type Block struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
	URL     *string   `json:"url"`
}

// Section groups ordered blocks
type Section struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Number int     `json:"number"`
	Blocks []Block `json:"blocks"`
}

// Content is the canonical lesson structure: an ordered list of sections
type Content struct {
	Sections []Section `json:"sections"`
}

// Empty returns content with an empty, non-nil section list
func Empty() Content {
	return Content{Sections: []Section{}}
}

// Clone returns a deep copy of c
func (c Content) Clone() Content {
	out := Content{Sections: make([]Section, len(c.Sections))}
	for i, s := range c.Sections {
		blocks := make([]Block, len(s.Blocks))
		for j, b := range s.Blocks {
			if b.URL != nil {
				u := *b.URL
				b.URL = &u
			}
			blocks[j] = b
		}
		s.Blocks = blocks
		out.Sections[i] = s
	}
	return out
}

// Renumber sets every section number to its 1-based array position
func (c *Content) Renumber() {
	for i := range c.Sections {
		c.Sections[i].Number = i + 1
	}
}

// FirstURL returns the first non-empty block url in section order, if any
func (c Content) FirstURL() (string, bool) {
	for _, s := range c.Sections {
		for _, b := range s.Blocks {
			if b.URL != nil && *b.URL != "" {
				return *b.URL, true
			}
		}
	}
	return "", false
}

// BlockCount returns the total number of blocks across all sections
func (c Content) BlockCount() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Blocks)
	}
	return n
}
