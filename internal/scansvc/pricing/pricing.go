package pricing

import (
	"regexp"
	"strings"

	"github.com/avvvet/cardscanner-services/internal/scansvc/models"
	"github.com/shopspring/decimal"
)

// compiled once; matches 15, 1,200 and 12.50
var numRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParseRange reads every number out of a free-text price such as "$15 - $25".
// Low and High are the smallest and largest numbers found, Mid is their mean.
func ParseRange(raw string) models.PriceRange {
	pr := models.PriceRange{Raw: raw}

	var values []decimal.Decimal
	for _, match := range numRe.FindAllString(raw, -1) {
		clean := strings.TrimRight(strings.ReplaceAll(match, ",", ""), ".")
		v, err := decimal.NewFromString(clean)
		if err != nil {
			continue
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return pr
	}

	pr.Low = decimal.Min(values[0], values[1:]...)
	pr.High = decimal.Max(values[0], values[1:]...)
	pr.Mid = decimal.Avg(values[0], values[1:]...)
	pr.OK = true
	return pr
}

// Summarize aggregates the valuations of records. Records whose value cannot
// be read are counted as unvalued and left out of the totals.
func Summarize(records []models.Record) models.InventorySummary {
	sum := models.InventorySummary{Count: len(records)}

	for _, rec := range records {
		pr := ParseRange(rec.EstimatedRawValue)
		if !pr.OK {
			sum.Unvalued++
			continue
		}

		if sum.Valued == 0 || pr.Low.LessThan(sum.MinLow) {
			sum.MinLow = pr.Low
		}
		if sum.Valued == 0 || pr.High.GreaterThan(sum.MaxHigh) {
			sum.MaxHigh = pr.High
		}

		sum.Valued++
		sum.TotalLow = sum.TotalLow.Add(pr.Low)
		sum.TotalHigh = sum.TotalHigh.Add(pr.High)
		sum.TotalMid = sum.TotalMid.Add(pr.Mid)
	}

	if sum.Valued > 0 {
		sum.AverageMid = sum.TotalMid.Div(decimal.NewFromInt(int64(sum.Valued))).Round(2)
	}

	return sum
}

// Money renders an amount the way the page and CLI show it.
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
