package models

const META_KEY_SYNCED = "_odoo_synced"

type MetaData struct {
	ID    int         `json:"id,omitempty"`
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

type LineItem struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	ProductID   int    `json:"product_id,omitempty"`
	VariationID int    `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Sku         string `json:"sku,omitempty"`
	Total       string `json:"total,omitempty"`
}

// EffectiveKey is the identifier used for the mapping lookup: the variation
// when the item is a variant, the base product otherwise
func (li *LineItem) EffectiveKey() int {
	if li.VariationID != 0 {
		return li.VariationID
	}
	return li.ProductID
}

type Order struct {
	ID          int        `json:"id,omitempty"`
	ParentID    int        `json:"parent_id,omitempty"`
	Number      string     `json:"number,omitempty"`
	OrderKey    string     `json:"order_key,omitempty"`
	Status      string     `json:"status,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	DateCreated string     `json:"date_created,omitempty"`
	Total       string     `json:"total,omitempty"`
	CustomerID  int        `json:"customer_id,omitempty"`
	LineItems   []LineItem `json:"line_items,omitempty"`
	MetaData    []MetaData `json:"meta_data,omitempty"`
}

// IsSynced reports whether the order already carries a truthy synced flag
func (o *Order) IsSynced() bool {
	for _, meta := range o.MetaData {
		if meta.Key != META_KEY_SYNCED {
			continue
		}
		switch v := meta.Value.(type) {
		case string:
			return v != "" && v != "0" && v != "false" && v != "no"
		case bool:
			return v
		case float64:
			return v != 0
		}
	}
	return false
}

type OrderNote struct {
	ID           int    `json:"id,omitempty"`
	Note         string `json:"note"`
	CustomerNote bool   `json:"customer_note"`
	DateCreated  string `json:"date_created,omitempty"`
}

// OrderUpdate is the PUT body for metadata updates
type OrderUpdate struct {
	MetaData []MetaData `json:"meta_data"`
}
