package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aura-academy/portal/services/learn-service/internal/content"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
)

// LegacyToContent merges the legacy rows of a day into canonical content.
// Rows from lesson_sections/lesson_blocks take precedence over day_sections.
func LegacyToContent(day int, sections []models.LegacyDaySection, blocks []models.LegacyLessonBlock) content.Content {
	if len(blocks) > 0 {
		return lessonBlocksToContent(day, blocks)
	}
	return daySectionsToContent(day, sections)
}

func daySectionsToContent(day int, rows []models.LegacyDaySection) content.Content {
	out := content.Empty()
	for _, row := range rows {
		title := strings.TrimSpace(row.Title)
		if title == "" {
			title = fmt.Sprintf("Day %d part %d", day, row.SectionNumber)
		}
		out.Sections = append(out.Sections, content.Normalize(row.Content, title).Sections...)
	}
	out.Renumber()
	return out
}

func lessonBlocksToContent(day int, rows []models.LegacyLessonBlock) content.Content {
	type legacySection struct {
		ID     string           `json:"id"`
		Title  string           `json:"title"`
		Blocks []map[string]any `json:"blocks"`
	}

	sections := make([]*legacySection, 0)
	byID := make(map[int]*legacySection)
	for _, row := range rows {
		s, ok := byID[row.SectionID]
		if !ok {
			title := strings.TrimSpace(row.SectionTitle)
			if title == "" {
				title = fmt.Sprintf("Day %d part %d", day, row.SectionNumber)
			}
			s = &legacySection{
				ID:     "legacy-section-" + strconv.Itoa(row.SectionID),
				Title:  title,
				Blocks: []map[string]any{},
			}
			byID[row.SectionID] = s
			sections = append(sections, s)
		}
		if row.BlockID == nil {
			continue
		}
		block := map[string]any{"id": *row.BlockID}
		if row.BlockType != nil {
			block["type"] = *row.BlockType
		}
		if row.BlockContent != nil {
			block["content"] = *row.BlockContent
		}
		if row.BlockURL != nil {
			block["url"] = *row.BlockURL
		}
		s.Blocks = append(s.Blocks, block)
	}

	raw, err := json.Marshal(map[string]any{"sections": sections})
	if err != nil {
		return content.Empty()
	}
	c := content.Normalize(raw, fmt.Sprintf("Day %d", day))
	c.Renumber()
	return c
}
