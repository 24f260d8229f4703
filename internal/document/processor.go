package document

import (
	"context"
	"log/slog"

	"github.com/findoc/findoc/internal/completion"
)

// ProgressFunc receives a stage-boundary notification. percent is
// monotonically non-decreasing across a single pipeline run.
type ProgressFunc func(stage, message string, percent int)

// Processor runs the three-stage extraction-and-validation pipeline
type Processor struct {
	completer completion.Completer
}

// NewProcessor creates a new Processor
func NewProcessor(completer completion.Completer) *Processor {
	return &Processor{completer: completer}
}

// Process runs the pipeline on one document: OCR, structured extraction,
// then consistency validation. A completion-capability failure aborts the
// whole run; no partial result is returned.
func (p *Processor) Process(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	return p.ProcessWithProgress(ctx, data, mimeType, nil)
}

// ProcessWithProgress is Process with stage-boundary progress
// notifications. The stages are strictly sequential: the NLP prompt embeds
// the OCR output, and validation reads the NLP record.
func (p *Processor) ProcessWithProgress(ctx context.Context, data []byte, mimeType string, progress ProgressFunc) (*Result, error) {
	notify := func(stage, message string, percent int) {
		if progress != nil {
			progress(stage, message, percent)
		}
	}

	notify("ocr_start", "running AI-OCR text recognition...", 20)

	ocr, err := RunOCR(ctx, p.completer, data, mimeType)
	if err != nil {
		return nil, err
	}
	slog.Debug("OCR stage complete", "confidence", ocr.Confidence, "text_length", len(ocr.RawText))

	notify("ocr_done", "OCR text recognition complete", 50)
	notify("nlp_start", "running NLP semantic analysis...", 55)

	nlp, err := RunNLP(ctx, p.completer, ocr.RawText)
	if err != nil {
		return nil, err
	}
	if nlp.Failed() {
		slog.Warn("NLP reply could not be parsed", "error", nlp.Err)
	}

	notify("nlp_done", "NLP semantic analysis complete", 80)
	notify("validation_start", "running consistency checks...", 85)

	report := Validate(nlp)

	notify("validation_done", "consistency checks complete", 95)
	notify("complete", "generating analysis report...", 98)

	return &Result{
		OCR:        ocr,
		NLP:        nlp,
		Validation: report,
		Summary:    BuildSummary(ocr, nlp, report),
	}, nil
}
