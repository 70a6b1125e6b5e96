package content

import (
	"regexp"
	"strconv"

	"cryptofunds/internal/models"
)

var rePlaceholder = regexp.MustCompile(`\{\{([A-Za-z0-9_-]+)\}\}`)

// Placeholders возвращает различные идентификаторы из {{...}} в порядке первого появления.
func Placeholders(raw string) []string {
	matches := rePlaceholder.FindAllStringSubmatch(raw, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// IdentifyTables берёт активные таблицы в порядке отображения, нумерует их с единицы,
// выводит идентификаторы от заголовка раздела и чистит каждую ячейку.
func IdentifyTables(sectionTitle string, tables []models.Table) []models.ComposedTable {
	out := make([]models.ComposedTable, 0, len(tables))
	ordinal := 0
	for _, t := range tables {
		if !t.IsActive {
			continue
		}
		ordinal++

		ct := models.ComposedTable{
			Table:    t,
			TableID:  DeriveTableID(sectionTitle, ordinal),
			TOCLabel: label(t.TableOfContent, t.Title),
		}
		ct.Rows = sanitizeRows(t.Rows)
		out = append(out, ct)
	}
	return out
}

// ComposeSection подставляет таблицы на место {{id}} в описании раздела и возвращает
// описание вместе с таблицами, на которые в тексте не сослались.
func ComposeSection(s models.Section) models.ComposedSection {
	tables := IdentifyTables(s.Title, s.Tables)

	// ссылки ищем в исходном тексте, подставляем в очищенный
	referenced := make(map[string]struct{})
	for _, id := range Placeholders(s.Description) {
		referenced[id] = struct{}{}
	}

	byID := make(map[string]models.ComposedTable, len(tables))
	for _, t := range tables {
		if _, dup := byID[t.TableID]; !dup {
			byID[t.TableID] = t
		}
	}

	rendered := make(map[string]string)
	description := rePlaceholder.ReplaceAllStringFunc(Sanitize(s.Description), func(token string) string {
		id := token[2 : len(token)-2]
		if out, ok := rendered[id]; ok {
			return out
		}
		t, ok := byID[id]
		if !ok {
			return token
		}
		rendered[id] = RenderTable(t)
		return rendered[id]
	})

	remaining := make([]models.ComposedTable, 0, len(tables))
	for _, t := range tables {
		if _, ok := referenced[t.TableID]; ok {
			continue
		}
		remaining = append(remaining, t)
	}

	return models.ComposedSection{
		ID:                      s.ID,
		PageID:                  s.PageID,
		Title:                   s.Title,
		Anchor:                  SectionAnchor(s),
		TableOfContent:          label(s.TableOfContent, s.Title),
		IsTableOfContentVisible: s.IsTableOfContentVisible,
		Description:             description,
		Tables:                  remaining,
	}
}

// SectionAnchor возвращает якорь раздела на странице.
func SectionAnchor(s models.Section) string {
	if s.ID > 0 {
		return "section-" + strconv.FormatInt(s.ID, 10)
	}
	return "section-preview"
}

func sanitizeRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = Sanitize(cell)
		}
		out[i] = cells
	}
	return out
}

func label(toc *string, title string) string {
	if toc != nil && *toc != "" {
		return *toc
	}
	return title
}
