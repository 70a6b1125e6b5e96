package models

import "time"

type Project struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Category    string    `json:"category"`
	LogoURL     string    `json:"logoUrl"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Investor struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Kind        string    `json:"kind"` // vc, angel, dao, exchange...
	LogoURL     string    `json:"logoUrl"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type FundingRound struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"projectId"`
	Stage       string     `json:"stage"`
	AmountUSD   *int64     `json:"amountUsd,omitempty"`
	AnnouncedAt *time.Time `json:"announcedAt,omitempty"`
	InvestorIDs []int64    `json:"investorIds"`
	SourceURL   string     `json:"sourceUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ProjectDetails struct {
	Project Project        `json:"project"`
	Rounds  []FundingRound `json:"rounds"`
}

type InvestorDetails struct {
	Investor Investor       `json:"investor"`
	Rounds   []FundingRound `json:"rounds"`
}

// swagger:model ProjectRequest
type ProjectRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"        example:"Lido"`
	Description string `json:"description" example:"<p>Liquid staking</p>"`
	Website     string `json:"website"     example:"https://lido.fi"`
	Category    string `json:"category"    example:"DeFi"`
	LogoURL     string `json:"logoUrl"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// swagger:model InvestorRequest
type InvestorRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"        example:"Paradigm"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Kind        string `json:"kind"        example:"vc"`
	LogoURL     string `json:"logoUrl"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// swagger:model FundingRoundRequest
type FundingRoundRequest struct {
	ProjectID   int64      `json:"projectId"   example:"1"`
	Stage       string     `json:"stage"       example:"Seed"`
	AmountUSD   *int64     `json:"amountUsd,omitempty" example:"5000000"`
	AnnouncedAt *time.Time `json:"announcedAt,omitempty"`
	InvestorIDs []int64    `json:"investorIds"`
	SourceURL   string     `json:"sourceUrl"`
}

type ListFilter struct {
	Limit      int
	Offset     int
	Query      string
	OnlyActive bool
}
