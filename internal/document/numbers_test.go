package document

import (
	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func fs(s string) *FlexString {
	f := FlexString(s)
	return &f
}

var _ = ginkgo.Describe("ParseNumber", func() {
	ginkgo.It("parses thousands-separated values", func() {
		Expect(ParseNumber(fs("1,234,567"))).To(HaveValue(Equal(1234567.0)))
	})

	ginkgo.It("parses plain decimals", func() {
		Expect(ParseNumber(fs("123.45"))).To(HaveValue(Equal(123.45)))
	})

	ginkgo.It("ignores embedded whitespace", func() {
		Expect(ParseNumber(fs(" 1, 234 "))).To(HaveValue(Equal(1234.0)))
	})

	ginkgo.It("treats parenthesized values as negative", func() {
		Expect(ParseNumber(fs("(1,234.50)"))).To(HaveValue(Equal(-1234.5)))
	})

	ginkgo.It("keeps explicit negatives", func() {
		Expect(ParseNumber(fs("-500"))).To(HaveValue(Equal(-500.0)))
	})

	ginkgo.It("returns nil for nil input", func() {
		Expect(ParseNumber(nil)).To(BeNil())
	})

	ginkgo.It("returns nil for empty input", func() {
		Expect(ParseNumber(fs(""))).To(BeNil())
	})

	ginkgo.It("returns nil for non-numeric input instead of erroring", func() {
		Expect(ParseNumber(fs("abc"))).To(BeNil())
		Expect(ParseNumber(fs("12abc"))).To(BeNil())
		Expect(ParseNumber(fs("()"))).To(BeNil())
	})
})

var _ = ginkgo.Describe("FormatNumber", func() {
	ginkgo.It("groups thousands", func() {
		Expect(FormatNumber(1234567)).To(Equal("1,234,567"))
	})

	ginkgo.It("rounds to whole numbers", func() {
		Expect(FormatNumber(1234.56)).To(Equal("1,235"))
	})

	ginkgo.It("handles negatives", func() {
		Expect(FormatNumber(-1234567)).To(Equal("-1,234,567"))
	})

	ginkgo.It("leaves small numbers ungrouped", func() {
		Expect(FormatNumber(100)).To(Equal("100"))
		Expect(FormatNumber(0)).To(Equal("0"))
	})
})
