package content

import (
	"regexp"
	"strconv"
	"strings"
)

const fallbackTableSlug = "table"

var (
	reSpaces  = regexp.MustCompile(`[\s\p{Z}]+`)
	reNotSlug = regexp.MustCompile(`[^a-z0-9-]+`)
	reHyphens = regexp.MustCompile(`-{2,}`)
)

// DeriveTableID выводит публичный идентификатор таблицы из заголовка раздела и
// порядкового номера таблицы (с единицы): "My Revenue Table!", 1 -> "my-revenue-table-1".
func DeriveTableID(seed string, ordinal int) string {
	return slugify(seed, fallbackTableSlug) + "-" + strconv.Itoa(ordinal)
}

func slugify(seed, fallback string) string {
	s := strings.ToLower(seed)
	s = reSpaces.ReplaceAllString(s, "-")
	s = reNotSlug.ReplaceAllString(s, "")
	s = reHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fallback
	}
	return s
}
