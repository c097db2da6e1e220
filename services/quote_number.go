package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// GetFiscalYear returns the Indian fiscal year string for a given date.
// Indian fiscal year runs April to March.
// Jan 2026 → "25-26", May 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	year := t.Year()
	month := t.Month()

	var startYear int
	if month >= time.April {
		startYear = year
	} else {
		startYear = year - 1
	}
	endYear := startYear + 1

	return fmt.Sprintf("%02d-%02d", startYear%100, endYear%100)
}

// formatQuoteNumber constructs the quote number string from components.
func formatQuoteNumber(fiscalYear string, sequence int) string {
	return fmt.Sprintf("VQ-%s-%03d", fiscalYear, sequence)
}

// GenerateQuoteNumber creates the next quote number.
// Format: VQ-{fiscal_year}-{sequence}
// - fiscal_year: Indian fiscal year (Apr-Mar), e.g., "25-26"
// - sequence: 3-digit zero-padded, per fiscal year
func GenerateQuoteNumber(app *pocketbase.PocketBase, now time.Time) (string, error) {
	fiscalYear := GetFiscalYear(now)
	prefix := fmt.Sprintf("VQ-%s-", fiscalYear)

	existing, err := app.FindRecordsByFilter(
		"quotes",
		"quote_number ~ {:prefix}",
		"", 0, 0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		// If collection doesn't exist or no records, start at 1
		existing = nil
	}

	nextSeq := len(existing) + 1

	return formatQuoteNumber(fiscalYear, nextSeq), nil
}
