package content

import "cryptofunds/internal/models"

// BuildTOC собирает оглавление страницы: разделы с видимым оглавлением,
// внутри их активные таблицы, у которых оглавление тоже включено.
func BuildTOC(sections []models.Section) []models.TOCEntry {
	out := make([]models.TOCEntry, 0, len(sections))
	for _, s := range sections {
		if !s.IsTableOfContentVisible {
			continue
		}
		entry := models.TOCEntry{
			Anchor: SectionAnchor(s),
			Label:  label(s.TableOfContent, s.Title),
		}
		for _, t := range IdentifyTables(s.Title, s.Tables) {
			if !t.IsTableOfContentVisible || t.TOCLabel == "" {
				continue
			}
			entry.Children = append(entry.Children, models.TOCEntry{
				Anchor: t.TableID,
				Label:  t.TOCLabel,
			})
		}
		out = append(out, entry)
	}
	return out
}
