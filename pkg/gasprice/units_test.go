package gasprice_test

import (
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

var _ = Describe("Boundaries", func() {
	bounds := gasprice.DefaultBoundaries()

	DescribeTable("GasPriceWithinLimits",
		func(value, expected string) {
			Expect(bounds.GasPriceWithinLimits(d(value)).Equal(d(expected))).To(BeTrue())
		},
		Entry("at the minimum", "1", "1"),
		Entry("inside the range", "42.5", "42.5"),
		Entry("at the maximum", "250", "250"),
		Entry("below the minimum", "0.3", "1"),
		Entry("zero", "0", "1"),
		Entry("negative", "-7", "1"),
		Entry("above the maximum", "250.000001", "250"),
		Entry("far above the maximum", "100000", "250"),
	)

	It("rejects inverted ranges", func() {
		_, err := gasprice.NewBoundaries(d("10"), d("5"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects a negative minimum", func() {
		_, err := gasprice.NewBoundaries(d("-1"), d("5"))
		Expect(err).To(HaveOccurred())
	})

	It("accepts a degenerate range", func() {
		b, err := gasprice.NewBoundaries(d("3"), d("3"))
		Expect(err).NotTo(HaveOccurred())
		Expect(b.GasPriceWithinLimits(d("100")).Equal(d("3"))).To(BeTrue())
	})
})

var _ = Describe("NormalizeGasPrice", func() {
	bounds := gasprice.DefaultBoundaries()

	DescribeTable("scaling, clamping and conversion to wei",
		func(value, factor string, expected *big.Int) {
			Expect(gasprice.NormalizeGasPrice(d(value), d(factor), bounds).String()).To(Equal(expected.String()))
		},
		Entry("unit factor", "20", "1", gwei(20)),
		Entry("fractional factor", "200", "0.1", gwei(20)),
		Entry("product above the maximum", "200", "4", gwei(250)),
		Entry("product below the minimum", "1", "0.01", gwei(1)),
		Entry("fractional gwei", "12.5", "1", big.NewInt(12_500_000_000)),
		Entry("sub-wei precision rounds", "1.0000000004", "1", big.NewInt(1_000_000_000)),
		Entry("zero input", "0", "1", gwei(1)),
	)

	It("matches the Normalizer method", func() {
		n := gasprice.Normalizer{Factor: d("1.5"), Bounds: bounds}
		Expect(n.NormalizeGasPrice(d("10")).String()).To(Equal(gwei(15).String()))
	})

	It("bounds the gwei magnitude regardless of the factor", func() {
		n := gasprice.Normalizer{Factor: d("1000"), Bounds: bounds}
		Expect(n.NormalizeGasPrice(d("1")).String()).To(Equal(gwei(250).String()))
	})
})

var _ = Describe("unit conversion", func() {
	It("converts between gwei and wei", func() {
		Expect(gasprice.GweiToWei(d("2.25")).String()).To(Equal("2250000000"))
		Expect(gasprice.WeiToGwei(big.NewInt(2_250_000_000)).Equal(d("2.25"))).To(BeTrue())
		Expect(gasprice.WeiToGwei(nil).IsZero()).To(BeTrue())
	})
})
