package document

import (
	"context"
	"errors"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/findoc/findoc/internal/completion"
)

// stubCompleter replays scripted replies, one per call, and records the
// prompts and images it saw
type stubCompleter struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
	images  []*completion.InlineData
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string, image *completion.InlineData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &completion.TransportError{Err: err}
	}

	call := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.images = append(s.images, image)

	if call < len(s.errs) && s.errs[call] != nil {
		return "", s.errs[call]
	}
	if call < len(s.replies) {
		return s.replies[call], nil
	}
	return "", nil
}

func (s *stubCompleter) Close() error {
	return nil
}

const unbalancedNLPReply = `{
	"document_type": "balance sheet",
	"company_info": {"name": "Acme Manufacturing", "tax_id": "22099131", "address": null, "contact": null},
	"financial_data": {
		"revenue": null, "cost": null, "gross_profit": null,
		"operating_expenses": null, "operating_income": null, "net_income": "700",
		"total_assets": "1,100", "total_liabilities": "600", "total_equity": "400"
	},
	"date_info": {"document_date": "2024-12-31", "period_start": null, "period_end": null},
	"other_fields": [],
	"uncertain_items": []
}`

var _ = ginkgo.Describe("Processor", func() {
	var (
		stub      *stubCompleter
		processor *Processor
		result    *Result
		err       error
	)

	ginkgo.BeforeEach(func() {
		stub = &stubCompleter{}
		processor = NewProcessor(stub)
	})

	ginkgo.When("both completions succeed but the sheet is unbalanced", func() {
		ginkgo.BeforeEach(func() {
			stub.replies = []string{"ACME MANUFACTURING\nTotal Assets 1,100", unbalancedNLPReply}
			result, err = processor.Process(context.Background(), []byte("fake-image"), "image/png")
		})

		ginkgo.It("succeeds", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		ginkgo.It("sends the image only on the first call", func() {
			Expect(stub.calls).To(Equal(2))
			Expect(stub.images[0]).NotTo(BeNil())
			Expect(stub.images[1]).To(BeNil())
		})

		ginkgo.It("embeds the OCR output in the extraction prompt", func() {
			Expect(stub.prompts[1]).To(ContainSubstring("Total Assets 1,100"))
		})

		ginkgo.It("reports full OCR confidence for clean text", func() {
			Expect(result.OCR.Confidence).To(Equal(100.0))
		})

		ginkgo.It("fails validation with exactly one accounting equation error", func() {
			Expect(result.Validation.Status).To(Equal(StatusFailed))
			Expect(result.Validation.Errors).To(HaveLen(1))
			Expect(result.Validation.Errors[0].Type).To(Equal("accounting_equation"))
		})

		ginkgo.It("counts the error in the summary", func() {
			Expect(result.Summary.ErrorCount).To(Equal(1))
			Expect(result.Summary.ValidationStatus).To(Equal(StatusFailed))
		})
	})

	ginkgo.When("the OCR call fails", func() {
		ginkgo.BeforeEach(func() {
			stub.errs = []error{&completion.TransportError{Err: errors.New("connection refused")}}
			result, err = processor.Process(context.Background(), []byte("fake-image"), "image/png")
		})

		ginkgo.It("aborts without a partial result", func() {
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})

		ginkgo.It("surfaces the transport error", func() {
			var transportErr *completion.TransportError
			Expect(errors.As(err, &transportErr)).To(BeTrue())
		})

		ginkgo.It("does not attempt the NLP call", func() {
			Expect(stub.calls).To(Equal(1))
		})
	})

	ginkgo.When("the NLP call fails with an API error", func() {
		ginkgo.BeforeEach(func() {
			stub.replies = []string{"some text"}
			stub.errs = []error{nil, &completion.APIError{StatusCode: 429, Message: "quota exceeded"}}
			result, err = processor.Process(context.Background(), []byte("fake-image"), "image/png")
		})

		ginkgo.It("aborts without a partial result", func() {
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())

			var apiErr *completion.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.StatusCode).To(Equal(429))
		})
	})

	ginkgo.When("the NLP reply is unparseable", func() {
		ginkgo.BeforeEach(func() {
			stub.replies = []string{"some text", "I am terribly sorry, no data for you."}
			result, err = processor.Process(context.Background(), []byte("fake-image"), "image/png")
		})

		ginkgo.It("completes with the error variant and skips validation", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.NLP.Failed()).To(BeTrue())
			Expect(result.Validation.Status).To(Equal(StatusSkipped))
			Expect(result.Validation.Reason).To(Equal("NLP analysis failed"))
		})
	})

	ginkgo.When("the OCR reply is empty", func() {
		ginkgo.BeforeEach(func() {
			stub.replies = []string{"", "nonsense"}
			result, err = processor.Process(context.Background(), []byte("fake-image"), "image/png")
		})

		ginkgo.It("feeds the empty text forward without crashing", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.OCR.Confidence).To(Equal(0.0))
			Expect(result.NLP.Failed()).To(BeTrue())
		})
	})

	ginkgo.When("the caller cancels mid-pipeline", func() {
		ginkgo.It("abandons the run", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err = processor.Process(ctx, []byte("fake-image"), "image/png")
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})

	ginkgo.Describe("progress notifications", func() {
		ginkgo.It("emits stage boundaries with non-decreasing percentages", func() {
			stub.replies = []string{"some text", unbalancedNLPReply}

			var stages []string
			var percents []int
			_, err := processor.ProcessWithProgress(context.Background(), []byte("fake-image"), "image/png",
				func(stage, message string, percent int) {
					stages = append(stages, stage)
					percents = append(percents, percent)
				})

			Expect(err).NotTo(HaveOccurred())
			Expect(stages).To(Equal([]string{
				"ocr_start", "ocr_done", "nlp_start", "nlp_done",
				"validation_start", "validation_done", "complete",
			}))
			for i := 1; i < len(percents); i++ {
				Expect(percents[i]).To(BeNumerically(">=", percents[i-1]))
			}
		})

		ginkgo.It("emits nothing after an abort", func() {
			stub.errs = []error{&completion.TransportError{Err: errors.New("timeout")}}

			var stages []string
			_, err := processor.ProcessWithProgress(context.Background(), []byte("fake-image"), "image/png",
				func(stage, message string, percent int) {
					stages = append(stages, stage)
				})

			Expect(err).To(HaveOccurred())
			Expect(stages).To(Equal([]string{"ocr_start"}))
		})
	})
})
