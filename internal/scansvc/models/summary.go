package models

import "github.com/shopspring/decimal"

// PriceRange is the numeric reading of an Estimated_Raw_Value string.
type PriceRange struct {
	Raw  string          `json:"raw"`
	Low  decimal.Decimal `json:"low"`
	High decimal.Decimal `json:"high"`
	Mid  decimal.Decimal `json:"mid"`
	OK   bool            `json:"ok"`
}

// InventorySummary aggregates the valuations of every record in the inventory.
type InventorySummary struct {
	Count      int             `json:"count"`
	Valued     int             `json:"valued"`
	Unvalued   int             `json:"unvalued"`
	TotalLow   decimal.Decimal `json:"total_low"`
	TotalHigh  decimal.Decimal `json:"total_high"`
	TotalMid   decimal.Decimal `json:"total_mid"`
	MinLow     decimal.Decimal `json:"min_low"`
	MaxHigh    decimal.Decimal `json:"max_high"`
	AverageMid decimal.Decimal `json:"average_mid"`
}
