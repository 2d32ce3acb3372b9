package enums

// StockLevel is the restocking hint attached to a demand forecast.
type StockLevel string

const (
	StockLevelHigh     StockLevel = "High"
	StockLevelLow      StockLevel = "Low"
	StockLevelMaintain StockLevel = "Maintain"
)
