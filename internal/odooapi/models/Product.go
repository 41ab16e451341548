package models

type Product struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Barcode string   `json:"barcode"`
	UomID   Many2One `json:"uom_id"`
}
