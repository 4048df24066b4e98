// Package sanitize limpia el texto libre que escriben los usuarios (posts, comentarios, bio).
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Text quita todo HTML y deja texto plano, recortado.
// bluemonday escapa entidades; las devolvemos a texto porque la salida es JSON, no HTML.
type Text struct {
	policy *bluemonday.Policy
}

func NewText() *Text {
	return &Text{policy: bluemonday.StrictPolicy()}
}

func (t *Text) Clean(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(t.policy.Sanitize(s)))
}

// Tags limpia cada tag y descarta vacíos y duplicados, preservando orden.
func (t *Text) Tags(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, raw := range in {
		tag := t.Clean(raw)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
