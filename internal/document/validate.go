package document

import (
	"fmt"
	"math"
	"strings"
)

// Validation report statuses
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Finding severities
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Names of the checks recorded in Report.ChecksPerformed
const (
	CheckAccountingEquation = "accounting_equation"
	CheckGrossProfit        = "gross_profit_check"
	CheckOperatingIncome    = "operating_income_check"
	CheckTaxID              = "tax_id_check"
)

// Finding is a single validation error or warning
type Finding struct {
	Type       string `json:"type"`
	Message    string `json:"message,omitempty"`
	Expected   string `json:"expected,omitempty"`
	Actual     string `json:"actual,omitempty"`
	Difference string `json:"difference,omitempty"`
	Severity   string `json:"severity"`
	Field      string `json:"field,omitempty"`
	Value      string `json:"value,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Report is the outcome of the consistency checks for one record.
// ChecksPerformed records whether each check had all its inputs,
// independent of pass/fail, so a consumer can tell "ran and passed" from
// "could not run".
type Report struct {
	Status          string          `json:"status"`
	Reason          string          `json:"reason,omitempty"`
	Errors          []Finding       `json:"errors"`
	Warnings        []Finding       `json:"warnings"`
	ChecksPerformed map[string]bool `json:"checks_performed"`
}

// relativeTolerance is the accepted drift between a reported figure and the
// identity it should satisfy, as a fraction of the larger magnitude
const relativeTolerance = 0.01

// Validate applies the accounting identities and the uncertainty and tax-id
// checks to an extraction result. Each check is skipped, contributing
// nothing, when any of its required numbers is missing. Pure function over
// the immutable record: validating the same record twice yields identical
// reports.
func Validate(nlp NLPResult) Report {
	if nlp.Failed() {
		return Report{
			Status:   StatusSkipped,
			Reason:   "NLP analysis failed",
			Errors:   []Finding{},
			Warnings: []Finding{},
		}
	}

	errors := []Finding{}
	warnings := []Finding{}
	record := nlp.Record

	var fin FinancialData
	if record.FinancialData != nil {
		fin = *record.FinancialData
	}

	// Accounting equation: assets = liabilities + equity
	totalAssets := ParseNumber(fin.TotalAssets)
	totalLiabilities := ParseNumber(fin.TotalLiabilities)
	totalEquity := ParseNumber(fin.TotalEquity)

	if totalAssets != nil && totalLiabilities != nil && totalEquity != nil {
		expected := *totalLiabilities + *totalEquity
		difference := math.Abs(*totalAssets - expected)
		tolerance := math.Max(*totalAssets, expected) * relativeTolerance

		if difference > tolerance {
			errors = append(errors, Finding{
				Type: "accounting_equation",
				Message: fmt.Sprintf("accounting equation out of balance: assets(%s) != liabilities(%s) + equity(%s)",
					FormatNumber(*totalAssets), FormatNumber(*totalLiabilities), FormatNumber(*totalEquity)),
				Expected:   FormatNumber(expected),
				Actual:     FormatNumber(*totalAssets),
				Difference: FormatNumber(difference),
				Severity:   SeverityHigh,
			})
		}
	}

	// Gross profit: revenue - cost
	revenue := ParseNumber(fin.Revenue)
	cost := ParseNumber(fin.Cost)
	grossProfit := ParseNumber(fin.GrossProfit)

	if revenue != nil && cost != nil && grossProfit != nil {
		expected := *revenue - *cost
		difference := math.Abs(*grossProfit - expected)
		tolerance := math.Max(math.Abs(*grossProfit), math.Abs(expected)) * relativeTolerance

		if difference > tolerance {
			errors = append(errors, Finding{
				Type: "gross_profit_calculation",
				Message: fmt.Sprintf("gross profit mismatch: revenue(%s) - cost(%s) != gross profit(%s)",
					FormatNumber(*revenue), FormatNumber(*cost), FormatNumber(*grossProfit)),
				Expected:   FormatNumber(expected),
				Actual:     FormatNumber(*grossProfit),
				Difference: FormatNumber(difference),
				Severity:   SeverityHigh,
			})
		}
	}

	// Operating income: gross profit - operating expenses. Advisory only,
	// so a mismatch is a warning rather than an error.
	operatingExpenses := ParseNumber(fin.OperatingExpenses)
	operatingIncome := ParseNumber(fin.OperatingIncome)

	if grossProfit != nil && operatingExpenses != nil && operatingIncome != nil {
		expected := *grossProfit - *operatingExpenses
		difference := math.Abs(*operatingIncome - expected)
		tolerance := math.Max(math.Abs(*operatingIncome), math.Abs(expected)) * relativeTolerance

		if difference > tolerance {
			warnings = append(warnings, Finding{
				Type:       "operating_income_calculation",
				Message:    "operating income may be miscalculated",
				Expected:   FormatNumber(expected),
				Actual:     FormatNumber(*operatingIncome),
				Difference: FormatNumber(difference),
				Severity:   SeverityMedium,
			})
		}
	}

	// Every item the model flagged as uncertain becomes a warning
	for _, item := range record.UncertainItems {
		field := "unknown"
		if item.Field != nil {
			field = *item.Field
		}
		reason := "OCR not confident"
		if item.Reason != nil {
			reason = *item.Reason
		}
		warnings = append(warnings, Finding{
			Type:     "uncertain_value",
			Field:    field,
			Value:    item.OriginalValue.String(),
			Severity: SeverityMedium,
			Reason:   reason,
		})
	}

	// Tax ID format and checksum
	var taxID *FlexString
	if record.CompanyInfo != nil {
		taxID = record.CompanyInfo.TaxID
	}
	if taxID != nil {
		cleaned := digitsOnly(string(*taxID))
		if len(cleaned) != 8 {
			warnings = append(warnings, Finding{
				Type:     "tax_id_format",
				Message:  "tax ID format looks wrong (expected 8 digits)",
				Value:    string(*taxID),
				Severity: SeverityMedium,
			})
		} else if !ValidateTaxID(cleaned) {
			warnings = append(warnings, Finding{
				Type:     "tax_id_checksum",
				Message:  "tax ID checksum verification failed",
				Value:    string(*taxID),
				Severity: SeverityLow,
			})
		}
	}

	status := StatusPassed
	if len(errors) > 0 {
		status = StatusFailed
	}

	return Report{
		Status:   status,
		Errors:   errors,
		Warnings: warnings,
		ChecksPerformed: map[string]bool{
			CheckAccountingEquation: totalAssets != nil && totalLiabilities != nil && totalEquity != nil,
			CheckGrossProfit:        revenue != nil && cost != nil && grossProfit != nil,
			CheckOperatingIncome:    grossProfit != nil && operatingExpenses != nil && operatingIncome != nil,
			CheckTaxID:              taxID != nil,
		},
	}
}

// digitsOnly strips everything but ASCII digits
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
