package sync

// LineItemResult is the per-line-item outcome consumed by note composition
type LineItemResult struct {
	Success      bool
	Skipped      bool
	ProductName  string
	WooProductID int
	Barcode      string
	Quantity     int
	PickingID    int
	Error        string
}
