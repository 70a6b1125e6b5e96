package models

import "time"

type Section struct {
	ID                      int64     `json:"id"`
	PageID                  int64     `json:"pageId"`
	Title                   string    `json:"title"`
	Description             string    `json:"description"`
	TableOfContent          *string   `json:"tableOfContent,omitempty"`
	IsTableOfContentVisible bool      `json:"isTableOfContentVisible"`
	Position                int       `json:"position"`
	Tables                  []Table   `json:"tables"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// Table принадлежит ровно одному разделу. Публичный идентификатор не хранится,
// он выводится из заголовка раздела и порядкового номера таблицы.
type Table struct {
	ID                      int64      `json:"id"`
	SectionID               int64      `json:"sectionId"`
	Title                   string     `json:"title"`
	TableOfContent          *string    `json:"tableOfContent,omitempty"`
	Headers                 []string   `json:"headers"`
	Rows                    [][]string `json:"rows"`
	Caption                 *string    `json:"caption,omitempty"`
	IsActive                bool       `json:"isActive"`
	IsTableOfContentVisible bool       `json:"isTableOfContentVisible"`
	Position                int        `json:"position"`
}

// ComposedTable: рабочая копия таблицы с выведенным идентификатором и подписью для оглавления.
type ComposedTable struct {
	Table
	TableID  string `json:"tableId"`
	TOCLabel string `json:"tableOfContent"`
}

type ComposedSection struct {
	ID                      int64           `json:"id"`
	PageID                  int64           `json:"pageId"`
	Title                   string          `json:"title"`
	Anchor                  string          `json:"anchor"`
	TableOfContent          string          `json:"tableOfContent"`
	IsTableOfContentVisible bool            `json:"isTableOfContentVisible"`
	Description             string          `json:"description"`
	Tables                  []ComposedTable `json:"tables"`
}

// swagger:model SectionRequest
type SectionRequest struct {
	PageID                  int64          `json:"pageId"  example:"1"`
	Title                   string         `json:"title"   example:"Overview"`
	Description             string         `json:"description" example:"<p>Overview</p>"`
	TableOfContent          *string        `json:"tableOfContent,omitempty"`
	IsTableOfContentVisible *bool          `json:"isTableOfContentVisible,omitempty"`
	Position                int            `json:"position"`
	Tables                  []TableRequest `json:"tables"`
}

type TableRequest struct {
	Title                   string     `json:"title"`
	TableOfContent          *string    `json:"tableOfContent,omitempty"`
	Headers                 []string   `json:"headers"`
	Rows                    [][]string `json:"rows"`
	Caption                 *string    `json:"caption,omitempty"`
	IsActive                *bool      `json:"isActive,omitempty"`
	IsTableOfContentVisible *bool      `json:"isTableOfContentVisible,omitempty"`
}
