package services

import (
	"strconv"
	"strings"
)

// RenderTemplate replaces {{1}}, {{2}}, ... with params in order.
// Placeholders without a matching param are left as they are.
func RenderTemplate(tpl string, params []string) string {
	if len(params) == 0 {
		return tpl
	}
	pairs := make([]string, 0, len(params)*2)
	for i, p := range params {
		pairs = append(pairs, "{{"+strconv.Itoa(i+1)+"}}", strings.TrimSpace(p))
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}
