package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// idNamespace scopes the name-based ids derived for items that arrive without one
var idNamespace = uuid.MustParse("6f1c7a52-3d4b-4b8e-9a51-2c0d7e4f9b13")

// Normalize maps stored lesson JSON of any known layout to canonical content.
// It never fails: null, blank or unreadable input yields an empty section list.
// Existing ids are kept. Missing ids are derived from the input and the item
// position, so the same stored row always yields the same ids and normalizing
// canonical content returns an equal value.
func Normalize(raw json.RawMessage, fallbackTitle string) Content {
	v, ok := decode(raw)
	if !ok {
		return Empty()
	}

	n := normalizer{
		seed:          append(append([]byte(fallbackTitle), 0), raw...),
		fallbackTitle: fallbackTitle,
	}

	switch shapeOf(v) {
	case ShapeCanonical:
		return n.migrateCanonical(v.(map[string]any))
	case ShapeSectionArray:
		return n.migrateSectionArray(v.([]any))
	case ShapeBlockArray:
		return n.migrateBlockArray(v.([]any))
	case ShapeSingleSection:
		return n.migrateSingleSection(v.(map[string]any))
	case ShapeSingleBlock:
		return n.migrateSingleBlock(v.(map[string]any))
	case ShapeText:
		return n.migrateText(v.(string))
	default:
		return Empty()
	}
}

// NormalizeValue normalizes content built in memory, filling missing ids and numbers
func NormalizeValue(c Content) Content {
	raw, err := json.Marshal(c)
	if err != nil {
		return Empty()
	}
	return Normalize(raw, "")
}

type normalizer struct {
	seed          []byte
	fallbackTitle string
}

// id returns a name-based uuid for the item at path
func (n normalizer) id(path string) string {
	return uuid.NewSHA1(idNamespace, append(append([]byte{}, n.seed...), path...)).String()
}

func (n normalizer) migrateCanonical(obj map[string]any) Content {
	list, _ := obj["sections"].([]any)
	return n.migrateSectionArray(list)
}

func (n normalizer) migrateSectionArray(list []any) Content {
	out := Empty()
	for i, el := range list {
		index := len(out.Sections)
		path := "s" + strconv.Itoa(i)
		switch item := el.(type) {
		case map[string]any:
			if looksLikeSection(item) {
				out.Sections = append(out.Sections, n.section(item, index, path))
				continue
			}
			// a stray block between sections becomes its own section
			if b, ok := n.block(item, path+"/b0"); ok {
				out.Sections = append(out.Sections, n.implicitSection(index, path, []Block{b}))
			}
		case string:
			if !isBlank(item) {
				out.Sections = append(out.Sections, n.implicitSection(index, path, []Block{n.textBlock(item, path+"/b0")}))
			}
		}
	}
	return out
}

func (n normalizer) migrateBlockArray(list []any) Content {
	return Content{Sections: []Section{n.implicitSection(0, "s0", n.blocks(list, "s0"))}}
}

func (n normalizer) migrateSingleSection(obj map[string]any) Content {
	return Content{Sections: []Section{n.section(obj, 0, "s0")}}
}

func (n normalizer) migrateSingleBlock(obj map[string]any) Content {
	blocks := []Block{}
	if b, ok := n.block(obj, "s0/b0"); ok {
		blocks = append(blocks, b)
	}
	return Content{Sections: []Section{n.implicitSection(0, "s0", blocks)}}
}

func (n normalizer) migrateText(text string) Content {
	return Content{Sections: []Section{n.implicitSection(0, "s0", []Block{n.textBlock(text, "s0/b0")})}}
}

func (n normalizer) implicitSection(index int, path string, blocks []Block) Section {
	return Section{
		ID:     n.id(path),
		Title:  n.defaultTitle(index),
		Number: index + 1,
		Blocks: blocks,
	}
}

func (n normalizer) section(obj map[string]any, index int, path string) Section {
	s := Section{
		ID:     idFrom(obj["id"]),
		Number: index + 1,
		Blocks: []Block{},
	}
	if s.ID == "" {
		s.ID = n.id(path)
	}

	title, found := firstString(obj, sectionTitleKeys)
	if !found {
		title = n.defaultTitle(index)
	}
	s.Title = title

	for _, key := range []string{"number", "section_number"} {
		if num, ok := positiveInt(obj[key]); ok {
			s.Number = num
			break
		}
	}

	for _, key := range []string{"blocks", "items", "content"} {
		if list, ok := obj[key].([]any); ok {
			s.Blocks = n.blocks(list, path)
			break
		}
	}
	return s
}

func (n normalizer) blocks(list []any, sectionPath string) []Block {
	blocks := make([]Block, 0, len(list))
	for i, el := range list {
		path := sectionPath + "/b" + strconv.Itoa(i)
		switch item := el.(type) {
		case map[string]any:
			if b, ok := n.block(item, path); ok {
				blocks = append(blocks, b)
			}
		case string:
			blocks = append(blocks, n.textBlock(item, path))
		}
	}
	return blocks
}

func (n normalizer) block(obj map[string]any, path string) (Block, bool) {
	if len(obj) == 0 {
		return Block{}, false
	}
	b := Block{
		ID:   idFrom(obj["id"]),
		Type: blockType(obj["type"]),
	}
	if b.ID == "" {
		b.ID = n.id(path)
	}
	b.Content, _ = firstString(obj, blockContentKeys)
	for _, key := range blockURLKeys {
		if u, ok := obj[key].(string); ok && strings.TrimSpace(u) != "" {
			u = strings.TrimSpace(u)
			b.URL = &u
			break
		}
	}
	return b, true
}

func (n normalizer) textBlock(text, path string) Block {
	return Block{ID: n.id(path), Type: BlockTypeText, Content: text}
}

func (n normalizer) defaultTitle(index int) string {
	if index == 0 && n.fallbackTitle != "" {
		return n.fallbackTitle
	}
	return fmt.Sprintf("Section %d", index+1)
}

func blockType(v any) BlockType {
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), string(BlockTypeVideo)) {
		return BlockTypeVideo
	}
	return BlockTypeText
}

// firstString returns the first string or number found under keys
func firstString(obj map[string]any, keys []string) (string, bool) {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			return v, true
		case json.Number:
			return v.String(), true
		}
	}
	return "", false
}

func idFrom(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return id.String()
	}
	return ""
}

func positiveInt(v any) (int, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil || i <= 0 {
		return 0, false
	}
	return int(i), true
}

// decode parses raw JSON keeping numbers exact.
// A JSON string that itself holds an encoded object or array is unwrapped once.
func decode(raw []byte) (any, bool) {
	if isBlank(string(raw)) {
		return nil, true
	}
	v, err := decodeStrict(raw)
	if err != nil {
		return nil, false
	}
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			if inner, err := decodeStrict([]byte(trimmed)); err == nil {
				return inner, true
			}
		}
	}
	return v, true
}

func decodeStrict(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected trailing data")
	}
	return v, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
