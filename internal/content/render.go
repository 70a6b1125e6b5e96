package content

import (
	"html"
	"strings"
	"unicode"

	"cryptofunds/internal/models"
)

// RenderTable рендерит таблицу в HTML-блок: заголовок, <table> и подпись под ней.
// Ячейки уже очищены и вставляются как есть, заголовки колонок и подпись экранируются.
func RenderTable(t models.ComposedTable) string {
	var b strings.Builder

	b.WriteString(`<div class="section-table" id="`)
	b.WriteString(html.EscapeString(t.TableID))
	b.WriteString(`"><h3>`)
	b.WriteString(html.EscapeString(t.Title))
	b.WriteString(`</h3><table>`)

	if len(t.Headers) > 0 {
		b.WriteString("<thead><tr>")
		for _, h := range t.Headers {
			b.WriteString("<th>")
			b.WriteString(html.EscapeString(h))
			b.WriteString("</th>")
		}
		b.WriteString("</tr></thead>")
	}

	b.WriteString("<tbody>")
	for _, row := range visibleRows(t.Rows) {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>")
			b.WriteString(cell)
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")

	if t.Caption != nil && strings.TrimSpace(*t.Caption) != "" {
		b.WriteString(`<p class="table-caption">`)
		b.WriteString(html.EscapeString(*t.Caption))
		b.WriteString("</p>")
	}

	b.WriteString("</div>")
	return b.String()
}

// visibleRows отбрасывает строки из одних пустых ячеек и срезает хвостовые пробелы
// у ячеек последней оставшейся строки. Вход не меняется.
func visibleRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		out = append(out, row)
	}
	if n := len(out); n > 0 {
		last := make([]string, len(out[n-1]))
		for i, cell := range out[n-1] {
			last[i] = strings.TrimRightFunc(cell, unicode.IsSpace)
		}
		out[n-1] = last
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
