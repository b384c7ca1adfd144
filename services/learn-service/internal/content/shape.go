package content

// Shape is the detected layout of stored lesson JSON
type Shape int

const (
	// ShapeEmpty is null, blank, an empty array or an empty object
	ShapeEmpty Shape = iota
	// ShapeCanonical is an object carrying a "sections" key
	ShapeCanonical
	// ShapeSectionArray is a top-level array whose elements carry blocks
	ShapeSectionArray
	// ShapeBlockArray is a legacy flat array of blocks
	ShapeBlockArray
	// ShapeSingleSection is a bare object carrying blocks
	ShapeSingleSection
	// ShapeSingleBlock is a bare object that looks like one block
	ShapeSingleBlock
	// ShapeText is a bare JSON string holding lesson text
	ShapeText
	// ShapeUnknown is anything else, including malformed JSON
	ShapeUnknown
)

var shapeNames = map[Shape]string{
	ShapeEmpty:         "empty",
	ShapeCanonical:     "canonical",
	ShapeSectionArray:  "section_array",
	ShapeBlockArray:    "block_array",
	ShapeSingleSection: "single_section",
	ShapeSingleBlock:   "single_block",
	ShapeText:          "text",
	ShapeUnknown:       "unknown",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

var (
	sectionBlockKeys = []string{"blocks", "items"}
	blockContentKeys = []string{"content", "text", "body", "caption"}
	blockURLKeys     = []string{"url", "video_url", "videoUrl", "src"}
	sectionTitleKeys = []string{"title", "name", "heading"}
)

// DetectShape classifies raw stored JSON
func DetectShape(raw []byte) Shape {
	v, ok := decode(raw)
	if !ok {
		return ShapeUnknown
	}
	return shapeOf(v)
}

func shapeOf(v any) Shape {
	switch t := v.(type) {
	case nil:
		return ShapeEmpty
	case string:
		if isBlank(t) {
			return ShapeEmpty
		}
		return ShapeText
	case []any:
		if len(t) == 0 {
			return ShapeEmpty
		}
		for _, el := range t {
			if obj, ok := el.(map[string]any); ok && looksLikeSection(obj) {
				return ShapeSectionArray
			}
		}
		return ShapeBlockArray
	case map[string]any:
		if len(t) == 0 {
			return ShapeEmpty
		}
		if _, ok := t["sections"]; ok {
			return ShapeCanonical
		}
		if looksLikeSection(t) {
			return ShapeSingleSection
		}
		if looksLikeBlock(t) {
			return ShapeSingleBlock
		}
		return ShapeUnknown
	default:
		return ShapeUnknown
	}
}

// looksLikeSection reports whether obj carries a block list.
// "content" only counts when it holds an array, since blocks use it for text.
func looksLikeSection(obj map[string]any) bool {
	for _, key := range sectionBlockKeys {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	_, isArray := obj["content"].([]any)
	return isArray
}

func looksLikeBlock(obj map[string]any) bool {
	if _, ok := obj["type"]; ok {
		return true
	}
	for _, key := range append(append([]string{}, blockContentKeys...), blockURLKeys...) {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}
