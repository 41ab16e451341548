package models

type Product struct {
	ID           int    `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	Slug         string `json:"slug,omitempty"`
	Type         string `json:"type,omitempty"`
	Status       string `json:"status,omitempty"`
	Sku          string `json:"sku,omitempty"`
	Price        string `json:"price,omitempty"`
	RegularPrice string `json:"regular_price,omitempty"`
	ParentID     int    `json:"parent_id,omitempty"`
}
