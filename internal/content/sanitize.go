package content

import (
	"html"
	"regexp"
	"strings"

	"github.com/aymerick/douceur/parser"
)

// Нормализация HTML из визуального редактора. Это не защита от XSS (её делает
// bluemonday на записи), а чистка оформления: цвета и шрифты, <font>, атрибуты
// у ячеек таблиц, span'ы с white-space. Каждое правило идемпотентно.
type rule struct {
	name  string
	apply func(string) string
}

var rules = []rule{
	{name: "drop-font-tags", apply: dropFontTags},
	{name: "unwrap-white-space-spans", apply: unwrapWhiteSpaceSpans},
	{name: "normalize-attributes", apply: normalizeAttributes},
}

// верхняя граница проходов Sanitize
const maxSanitizePasses = 8

// свойства, которые вырезаются из style
var droppedStyleProps = map[string]struct{}{
	"color":            {},
	"background-color": {},
	"font":             {},
	"font-family":      {},
	"font-size":        {},
}

// у этих тегов style и class удаляются целиком
var tableTags = map[string]struct{}{
	"table": {},
	"tr":    {},
	"th":    {},
	"td":    {},
}

var (
	reTag       = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9]*)(\s[^<>]*)?>`)
	reFontTag   = regexp.MustCompile(`(?i)</?font\b[^<>]*>`)
	reSpanTag   = regexp.MustCompile(`(?i)<span\b[^<>]*>|</span\s*>`)
	reStyleAttr = regexp.MustCompile(`(?i)(\s+)style\s*=\s*("[^"]*"|'[^']*'|[^\s"'>]+)`)
	reClassAttr = regexp.MustCompile(`(?i)\s+class\s*=\s*("[^"]*"|'[^']*'|[^\s"'>]+)`)
)

// Sanitize прогоняет markup через все правила, пока результат не перестанет меняться.
// Никогда не падает: разметку, которую правила не распознали, оставляет как есть.
// Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(markup string) string {
	if markup == "" {
		return markup
	}
	for i := 0; i < maxSanitizePasses; i++ {
		next := markup
		for _, r := range rules {
			next = r.apply(next)
		}
		if next == markup {
			break
		}
		markup = next
	}
	return markup
}

func dropFontTags(s string) string {
	return reFontTag.ReplaceAllString(s, "")
}

func unwrapWhiteSpaceSpans(s string) string {
	locs := reSpanTag.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	var stack []bool // true = этот span разворачиваем
	last := 0
	for _, loc := range locs {
		tag := s[loc[0]:loc[1]]
		b.WriteString(s[last:loc[0]])
		last = loc[1]

		if strings.HasPrefix(tag, "</") {
			if n := len(stack); n > 0 {
				unwrap := stack[n-1]
				stack = stack[:n-1]
				if unwrap {
					continue
				}
			}
			b.WriteString(tag)
			continue
		}

		unwrap := declaresWhiteSpace(tag)
		if !strings.HasSuffix(tag, "/>") {
			stack = append(stack, unwrap)
		}
		if !unwrap {
			b.WriteString(tag)
		}
	}
	b.WriteString(s[last:])
	return b.String()
}

func declaresWhiteSpace(tag string) bool {
	m := reStyleAttr.FindStringSubmatch(tag)
	if m == nil {
		return false
	}
	return strings.Contains(strings.ToLower(m[2]), "white-space")
}

func normalizeAttributes(s string) string {
	return reTag.ReplaceAllStringFunc(s, func(tag string) string {
		m := reTag.FindStringSubmatch(tag)
		name, attrs := strings.ToLower(m[1]), m[2]
		if attrs == "" {
			return tag
		}

		var cleaned string
		if _, ok := tableTags[name]; ok {
			cleaned = reStyleAttr.ReplaceAllString(attrs, "")
			cleaned = reClassAttr.ReplaceAllString(cleaned, "")
		} else {
			cleaned = reStyleAttr.ReplaceAllStringFunc(attrs, stripStyleAttr)
		}
		if cleaned == attrs {
			return tag
		}
		return "<" + m[1] + cleaned + ">"
	})
}

func stripStyleAttr(attr string) string {
	m := reStyleAttr.FindStringSubmatch(attr)
	lead, raw := m[1], m[2]

	quote := ""
	value := raw
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') {
		quote = raw[:1]
		value = raw[1 : len(raw)-1]
	}

	kept, changed := stripStyleDeclarations(value)
	if !changed {
		return attr
	}
	if kept == "" {
		return ""
	}
	if quote == "" {
		quote = `"`
	}
	return lead + "style=" + quote + kept + quote
}

// stripStyleDeclarations убирает запрещённые свойства. Значение атрибута приходит
// с HTML-сущностями (bluemonday пишет кавычки как &#39;/&#34;), поэтому сначала
// раскодируем, разбираем CSS и экранируем обратно. Если ничего не убрано или
// объявления не разбираются, changed=false и значение не переписывается.
func stripStyleDeclarations(value string) (kept string, changed bool) {
	text := strings.TrimSpace(html.UnescapeString(value))
	if !strings.HasSuffix(text, ";") {
		// douceur заполняет Value только по ';' или '}'
		text += ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return value, false
	}

	var out []string
	for _, d := range decls {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		if prop == "" {
			return value, false
		}
		if _, drop := droppedStyleProps[prop]; drop {
			changed = true
			continue
		}
		decl := prop + ": " + d.Value
		if d.Important {
			decl += " !important"
		}
		out = append(out, decl)
	}
	if !changed {
		return value, false
	}
	return html.EscapeString(strings.Join(out, "; ")), true
}
