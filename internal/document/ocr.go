package document

import (
	"context"
	"math"
	"strings"

	"github.com/findoc/findoc/internal/completion"
)

// ocrPrompt instructs the vision model to behave like an OCR system. The
// [?] marker it is told to use for unreadable text drives the confidence
// estimate below.
const ocrPrompt = `You are a professional OCR text recognition system. Carefully analyze this document image and extract all visible text content.

Follow these rules:
1. Preserve the original document's format and structure
2. If text is blurry, infer the most likely content
3. Mark any uncertain text with [?]
4. Pay special attention to digit accuracy (easily confused characters such as 0 and O, 1 and l, 3 and 8)
5. Recognize table structures and keep their alignment

Output the recognition result as plain text, preserving the original layout.`

// RunOCR sends the document image to the completion capability and wraps the
// extracted text with a confidence estimate. The image is normalized (PDF
// and HEIC converted to PNG) before the call.
func RunOCR(ctx context.Context, completer completion.Completer, data []byte, mimeType string) (OCRResult, error) {
	imageData, imageMIME, err := PrepareImage(data, mimeType)
	if err != nil {
		return OCRResult{}, err
	}

	text, err := completer.Complete(ctx, ocrPrompt, &completion.InlineData{
		MIMEType: imageMIME,
		Data:     imageData,
	})
	if err != nil {
		return OCRResult{}, err
	}

	return OCRResult{
		RawText:    text,
		Confidence: EstimateConfidence(text),
	}, nil
}

// EstimateConfidence scores OCR output in [0,100] by penalizing the density
// of [?] uncertainty markers relative to text volume. A heuristic, not a
// calibrated probability.
func EstimateConfidence(text string) float64 {
	uncertain := strings.Count(text, "[?]")
	total := len(text)

	if total == 0 {
		return 0
	}

	ratio := float64(uncertain*10) / float64(total)
	confidence := 100 - ratio*100
	confidence = math.Max(0, math.Min(100, confidence))

	return math.Round(confidence*10) / 10
}
