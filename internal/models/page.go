package models

import "time"

type Page struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// swagger:model PageRequest
type PageRequest struct {
	Slug        string `json:"slug"        example:"token-sales-2024"`
	Title       string `json:"title"       example:"Token sales 2024"`
	Description string `json:"description" example:"<p>Intro</p>"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// PublicPage: страница со сверстанными разделами и оглавлением.
type PublicPage struct {
	Page     Page              `json:"page"`
	Sections []ComposedSection `json:"sections"`
	TOC      []TOCEntry        `json:"toc"`
}

type TOCEntry struct {
	Anchor   string     `json:"anchor"`
	Label    string     `json:"label"`
	Children []TOCEntry `json:"children,omitempty"`
}
