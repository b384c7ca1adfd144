package content

import (
	"net/url"
	"strings"
)

// RenderedItemKind is the kind of item shown on the student page
type RenderedItemKind string

const (
	RenderedText  RenderedItemKind = "text"
	RenderedVideo RenderedItemKind = "video"
)

// RenderedItem is a display-ready block
type RenderedItem struct {
	BlockID  string           `json:"blockId"`
	Kind     RenderedItemKind `json:"kind"`
	Text     string           `json:"text,omitempty"`
	VideoURL string           `json:"videoUrl,omitempty"`
	EmbedURL string           `json:"embedUrl,omitempty"`
	Caption  string           `json:"caption,omitempty"`
}

// RenderedSection is a display-ready section
type RenderedSection struct {
	SectionID string         `json:"sectionId"`
	Number    int            `json:"number"`
	Title     string         `json:"title"`
	Items     []RenderedItem `json:"items"`
}

// Render walks sections and blocks in order and emits the items a student sees.
// Text blocks without text and video blocks without a url are skipped.
func Render(c Content) []RenderedSection {
	out := make([]RenderedSection, 0, len(c.Sections))
	for i, s := range c.Sections {
		rs := RenderedSection{
			SectionID: s.ID,
			Number:    i + 1,
			Title:     s.Title,
			Items:     make([]RenderedItem, 0, len(s.Blocks)),
		}
		for _, b := range s.Blocks {
			switch b.Type {
			case BlockTypeVideo:
				if b.URL == nil || *b.URL == "" {
					continue
				}
				rs.Items = append(rs.Items, RenderedItem{
					BlockID:  b.ID,
					Kind:     RenderedVideo,
					VideoURL: *b.URL,
					EmbedURL: EmbedURL(*b.URL),
					Caption:  b.Content,
				})
			default:
				if strings.TrimSpace(b.Content) == "" {
					continue
				}
				rs.Items = append(rs.Items, RenderedItem{BlockID: b.ID, Kind: RenderedText, Text: b.Content})
			}
		}
		out = append(out, rs)
	}
	return out
}

// EmbedURL converts YouTube and Vimeo watch links into player embed links.
// Other urls, including direct media files, are returned unchanged.
func EmbedURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	path := strings.Trim(u.Path, "/")

	switch host {
	case "youtube.com", "m.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			return "https://www.youtube.com/embed/" + v
		}
		if strings.HasPrefix(path, "embed/") {
			return raw
		}
	case "youtu.be":
		if path != "" {
			return "https://www.youtube.com/embed/" + path
		}
	case "vimeo.com":
		if path != "" && !strings.Contains(path, "/") {
			return "https://player.vimeo.com/video/" + path
		}
	}
	return raw
}
