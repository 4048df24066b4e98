package identify

import (
	"strconv"
	"strings"

	"dog-breed-social/internal/domain/breeds"
)

const descriptionExcerpt = 100 // runes

// Describe arma el texto del análisis. primary es el breed del catálogo para results[0], si existe.
func Describe(rs []Result, primary *breeds.Breed) string {
	if len(rs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("This dog mainly shows the traits of ")
	b.WriteString(rs[0].Breed)
	b.WriteString(" (" + pct(rs[0].Percentage) + ")")

	if primary != nil && strings.TrimSpace(primary.Description) != "" {
		b.WriteString(". ")
		b.WriteString(excerpt(primary.Description, descriptionExcerpt))
		b.WriteString("...")
	} else {
		b.WriteString(".")
	}

	if len(rs) > 1 {
		b.WriteString(" It also carries traits of ")
		b.WriteString(rs[1].Breed)
		b.WriteString(" (" + pct(rs[1].Percentage) + ").")
	}
	return b.String()
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func excerpt(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
