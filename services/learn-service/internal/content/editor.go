package content

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Direction moves an item one slot toward the start (Up) or the end (Down)
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// ErrInvalidDirection is returned when a move direction is neither Up nor Down
var ErrInvalidDirection = errors.New("direction must be -1 or 1")

// Editor applies admin edits to a private copy of lesson content.
// Section numbers are resynchronised after every structural change.
// Out-of-range indexes are ignored and reported as false.
type Editor struct {
	content Content
}

// NewEditor creates an editor working on a copy of c
func NewEditor(c Content) *Editor {
	e := &Editor{content: c.Clone()}
	e.Renumber()
	return e
}

// Content returns a copy of the edited content
func (e *Editor) Content() Content {
	return e.content.Clone()
}

// Renumber sets each section number to its 1-based position
func (e *Editor) Renumber() {
	e.content.Renumber()
}

// AddSection appends an empty section and returns its id
func (e *Editor) AddSection(title string) string {
	id := uuid.NewString()
	e.content.Sections = append(e.content.Sections, Section{ID: id, Title: title, Blocks: []Block{}})
	e.Renumber()
	return id
}

// RemoveSection deletes the section at index
func (e *Editor) RemoveSection(index int) bool {
	if !e.validSection(index) {
		return false
	}
	e.content.Sections = append(e.content.Sections[:index], e.content.Sections[index+1:]...)
	e.Renumber()
	return true
}

// MoveSection swaps the section at index with its neighbour in dir
func (e *Editor) MoveSection(index int, dir Direction) bool {
	target := index + int(dir)
	if !validDirection(dir) || !e.validSection(index) || !e.validSection(target) {
		return false
	}
	s := e.content.Sections
	s[index], s[target] = s[target], s[index]
	e.Renumber()
	return true
}

// UpdateSection changes the title of the section at index
func (e *Editor) UpdateSection(index int, title string) bool {
	if !e.validSection(index) {
		return false
	}
	e.content.Sections[index].Title = title
	return true
}

// AddBlock appends an empty block of the given type to a section and returns its id
func (e *Editor) AddBlock(sectionIndex int, blockType BlockType) (string, bool) {
	if !e.validSection(sectionIndex) {
		return "", false
	}
	if blockType != BlockTypeVideo {
		blockType = BlockTypeText
	}
	id := uuid.NewString()
	s := &e.content.Sections[sectionIndex]
	s.Blocks = append(s.Blocks, Block{ID: id, Type: blockType})
	return id, true
}

// RemoveBlock deletes a block from a section
func (e *Editor) RemoveBlock(sectionIndex, blockIndex int) bool {
	if !e.validBlock(sectionIndex, blockIndex) {
		return false
	}
	s := &e.content.Sections[sectionIndex]
	s.Blocks = append(s.Blocks[:blockIndex], s.Blocks[blockIndex+1:]...)
	return true
}

// MoveBlock swaps a block with its neighbour in dir within the same section
func (e *Editor) MoveBlock(sectionIndex, blockIndex int, dir Direction) bool {
	target := blockIndex + int(dir)
	if !validDirection(dir) || !e.validBlock(sectionIndex, blockIndex) || !e.validBlock(sectionIndex, target) {
		return false
	}
	b := e.content.Sections[sectionIndex].Blocks
	b[blockIndex], b[target] = b[target], b[blockIndex]
	return true
}

// UpdateBlock replaces the content and url of a block.
// Text blocks keep a url only when one is given, an empty url clears it.
func (e *Editor) UpdateBlock(sectionIndex, blockIndex int, text string, url *string) bool {
	if !e.validBlock(sectionIndex, blockIndex) {
		return false
	}
	b := &e.content.Sections[sectionIndex].Blocks[blockIndex]
	b.Content = text
	if url == nil || *url == "" {
		b.URL = nil
	} else {
		u := *url
		b.URL = &u
	}
	return true
}

func (e *Editor) validSection(i int) bool {
	return i >= 0 && i < len(e.content.Sections)
}

func (e *Editor) validBlock(s, b int) bool {
	return e.validSection(s) && b >= 0 && b < len(e.content.Sections[s].Blocks)
}

func validDirection(dir Direction) bool {
	return dir == Up || dir == Down
}

// ParseDirection converts a wire value into a Direction
func ParseDirection(v int) (Direction, error) {
	d := Direction(v)
	if !validDirection(d) {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidDirection, v)
	}
	return d, nil
}
