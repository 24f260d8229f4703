package document

// Summary is a short human-readable digest of the three stage outputs
type Summary struct {
	ProcessingStatus string   `json:"processing_status"`
	OCRConfidence    float64  `json:"ocr_confidence"`
	DocumentType     string   `json:"document_type"`
	ValidationStatus string   `json:"validation_status"`
	ErrorCount       int      `json:"error_count"`
	WarningCount     int      `json:"warning_count"`
	KeyFindings      []string `json:"key_findings"`
}

// BuildSummary composes the digest. Key findings list company name, tax id,
// revenue and net income, in that order, each only when present; absent
// fields get no placeholder line.
func BuildSummary(ocr OCRResult, nlp NLPResult, report Report) Summary {
	summary := Summary{
		ProcessingStatus: "completed",
		OCRConfidence:    ocr.Confidence,
		DocumentType:     "unknown",
		ValidationStatus: report.Status,
		ErrorCount:       len(report.Errors),
		WarningCount:     len(report.Warnings),
		KeyFindings:      []string{},
	}

	if nlp.Failed() {
		return summary
	}

	record := nlp.Record
	if record.DocumentType != nil {
		summary.DocumentType = *record.DocumentType
	}

	if record.CompanyInfo != nil {
		if record.CompanyInfo.Name != nil {
			summary.KeyFindings = append(summary.KeyFindings, "company name: "+*record.CompanyInfo.Name)
		}
		if record.CompanyInfo.TaxID != nil {
			summary.KeyFindings = append(summary.KeyFindings, "tax ID: "+record.CompanyInfo.TaxID.String())
		}
	}
	if record.FinancialData != nil {
		if record.FinancialData.Revenue != nil {
			summary.KeyFindings = append(summary.KeyFindings, "revenue: "+record.FinancialData.Revenue.String())
		}
		if record.FinancialData.NetIncome != nil {
			summary.KeyFindings = append(summary.KeyFindings, "net income: "+record.FinancialData.NetIncome.String())
		}
	}

	return summary
}
