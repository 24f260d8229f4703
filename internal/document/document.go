package document

import (
	"encoding/json"
	"strings"
)

// FlexString holds a value the model was asked to return as a string but
// sometimes returns as a bare number. Either form unmarshals to the original
// formatted text, so thousands separators survive until validation time.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		*f = FlexString(unquoted)
		return nil
	}
	// Bare number: keep the literal as written
	*f = FlexString(s)
	return nil
}

// String returns the underlying text
func (f *FlexString) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// CompanyInfo identifies the business the document belongs to
type CompanyInfo struct {
	Name    *string     `json:"name"`
	TaxID   *FlexString `json:"tax_id"`
	Address *string     `json:"address"`
	Contact *string     `json:"contact"`
}

// FinancialData holds the standard statement line items. Values keep their
// original formatting (thousands separators, parentheses for negatives).
type FinancialData struct {
	Revenue           *FlexString `json:"revenue"`
	Cost              *FlexString `json:"cost"`
	GrossProfit       *FlexString `json:"gross_profit"`
	OperatingExpenses *FlexString `json:"operating_expenses"`
	OperatingIncome   *FlexString `json:"operating_income"`
	NetIncome         *FlexString `json:"net_income"`
	TotalAssets       *FlexString `json:"total_assets"`
	TotalLiabilities  *FlexString `json:"total_liabilities"`
	TotalEquity       *FlexString `json:"total_equity"`
}

// DateInfo holds the document and reporting period dates
type DateInfo struct {
	DocumentDate *string `json:"document_date"`
	PeriodStart  *string `json:"period_start"`
	PeriodEnd    *string `json:"period_end"`
}

// OtherField is a numeric field the model found outside the standard set
type OtherField struct {
	FieldName *string     `json:"field_name"`
	Value     *FlexString `json:"value"`
	Location  *string     `json:"location"`
}

// UncertainItem flags a value the model was not confident about
type UncertainItem struct {
	Field         *string     `json:"field"`
	OriginalValue *FlexString `json:"original_value"`
	Reason        *string     `json:"reason"`
}

// Record is the structured extraction result for one document. Absent fields
// are nil and marshal as explicit null, never omitted, so downstream
// consumers treat missing-key and null identically.
type Record struct {
	DocumentType   *string         `json:"document_type"`
	CompanyInfo    *CompanyInfo    `json:"company_info"`
	FinancialData  *FinancialData  `json:"financial_data"`
	DateInfo       *DateInfo       `json:"date_info"`
	OtherFields    []OtherField    `json:"other_fields"`
	UncertainItems []UncertainItem `json:"uncertain_items"`
}

// OCRResult contains the raw text extracted from a document image and a
// heuristic confidence score in [0,100]. Created once per document and
// immutable after creation.
type OCRResult struct {
	RawText    string  `json:"raw_text"`
	Confidence float64 `json:"confidence"`
}

// NLPResult is either a parsed Record or an error variant carrying the
// parser failure and the cleaned raw reply. The error variant is what lets
// validation skip instead of crash, so downstream code checks Failed()
// rather than unwinding control flow.
type NLPResult struct {
	Record      *Record
	Err         string
	RawResponse string
}

// Failed reports whether the NLP reply could not be parsed
func (n NLPResult) Failed() bool {
	return n.Err != ""
}

// MarshalJSON implements json.Marshaler. The wire shape is either the record
// object itself or {"error": ..., "raw_response": ...}; the error key is the
// discriminator.
func (n NLPResult) MarshalJSON() ([]byte, error) {
	if n.Failed() {
		return json.Marshal(struct {
			Error       string `json:"error"`
			RawResponse string `json:"raw_response"`
		}{n.Err, n.RawResponse})
	}
	return json.Marshal(n.Record)
}

// Result aggregates the three stage outputs and the summary for one
// processed document
type Result struct {
	OCR        OCRResult `json:"ocr"`
	NLP        NLPResult `json:"nlp"`
	Validation Report    `json:"validation"`
	Summary    Summary   `json:"summary"`
}
