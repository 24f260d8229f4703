package document

import (
	"context"
	"fmt"

	"github.com/findoc/findoc/internal/completion"
)

// nlpPromptTemplate embeds the OCR text and the exact JSON shape the
// pipeline expects back. Numeric values must keep their original formatting
// so the validator can report them the way they appear on the document.
const nlpPromptTemplate = `You are a professional financial document analysis system. Analyze the following document content and identify and extract the key financial fields.

Document content:
---
%s
---

Return the analysis result as JSON with the following fields (where present):

{
    "document_type": "document type (e.g. financial statement, invoice, balance sheet, income statement)",
    "company_info": {
        "name": "company name",
        "tax_id": "business registration number",
        "address": "address",
        "contact": "contact details"
    },
    "financial_data": {
        "revenue": "operating revenue",
        "cost": "cost of goods sold",
        "gross_profit": "gross profit",
        "operating_expenses": "operating expenses",
        "operating_income": "operating income",
        "net_income": "net income",
        "total_assets": "total assets",
        "total_liabilities": "total liabilities",
        "total_equity": "total equity"
    },
    "date_info": {
        "document_date": "document date",
        "period_start": "period start",
        "period_end": "period end"
    },
    "other_fields": [
        {"field_name": "field name", "value": "value", "location": "where it appears in the document"}
    ],
    "uncertain_items": [
        {"field": "field", "original_value": "original value", "reason": "why it is uncertain"}
    ]
}

Important:
1. Keep numeric values in their original format (including thousands separators)
2. If a field is not present, set it to null
3. Identify every numeric field, even ones not in the list above
4. Flag any data that may be wrong

Important: return pure JSON only, without any markdown markers (such as ` + "```json" + `) or explanatory text. Start with { and end with }.`

// RunNLP sends the extracted text through the structured-extraction prompt
// and parses the reply. A completion failure aborts the pipeline; a parse
// failure is absorbed into the NLPResult error variant.
func RunNLP(ctx context.Context, completer completion.Completer, rawText string) (NLPResult, error) {
	prompt := fmt.Sprintf(nlpPromptTemplate, rawText)

	text, err := completer.Complete(ctx, prompt, nil)
	if err != nil {
		return NLPResult{}, err
	}

	return ParseNLPReply(text), nil
}
