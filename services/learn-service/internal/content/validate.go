package content

import "fmt"

// ValidateForPublish checks that content can be shown to students.
// Every video block needs a url.
func ValidateForPublish(c Content) error {
	for _, s := range c.Sections {
		for j, b := range s.Blocks {
			if b.Type == BlockTypeVideo && (b.URL == nil || *b.URL == "") {
				return fmt.Errorf("section %d block %d: video block requires a url", s.Number, j+1)
			}
		}
	}
	return nil
}
