package gasprice_test

import (
	"io"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/oracle"
)

var _ = Describe("Processor", func() {
	var (
		processor *gasprice.Processor
		state     gasprice.State
		cached    *big.Int
	)

	BeforeEach(func() {
		logger := logrus.New()
		logger.SetOutput(io.Discard)

		processor = gasprice.NewProcessor(gasprice.SideForeign, gasprice.Normalizer{
			Factor: d("2"),
			Bounds: gasprice.DefaultBoundaries(),
		}, logger)

		cached = big.NewInt(9_000_000_000)
		state = gasprice.State{
			GasPrice: cached,
			Speeds:   fullTable(),
			Source:   gasprice.SourceOracle,
		}
	})

	It("returns the cached price when no option is given", func() {
		Expect(processor.ProcessGasPriceOptions(nil, state).String()).To(Equal(cached.String()))
		Expect(processor.ProcessGasPriceOptions(gasprice.NoOption{}, state).String()).To(Equal(cached.String()))
	})

	It("returns a copy rather than the cached value itself", func() {
		price := processor.ProcessGasPriceOptions(gasprice.NoOption{}, state)
		price.SetInt64(1)
		Expect(cached.String()).To(Equal("9000000000"))
	})

	It("returns a fixed value verbatim without clamping", func() {
		price := processor.ProcessGasPriceOptions(gasprice.FixedOption{Value: "900000000000"}, state)
		Expect(price.String()).To(Equal("900000000000"))
	})

	It("degrades to the cached price for a non-numeric fixed value", func() {
		price := processor.ProcessGasPriceOptions(gasprice.FixedOption{Value: "fast please"}, state)
		Expect(price.String()).To(Equal(cached.String()))
	})

	It("degrades to the cached price for a negative fixed value", func() {
		price := processor.ProcessGasPriceOptions(gasprice.FixedOption{Value: "-1"}, state)
		Expect(price.String()).To(Equal(cached.String()))
	})

	It("normalizes the selected speed tier with the side's factor", func() {
		price := processor.ProcessGasPriceOptions(gasprice.SpeedOption{Speed: oracle.SpeedFast}, state)
		Expect(price.String()).To(Equal(gwei(40).String()))
	})

	It("clamps the selected speed tier", func() {
		price := processor.ProcessGasPriceOptions(gasprice.SpeedOption{Speed: oracle.SpeedInstant}, state)
		Expect(price.String()).To(Equal(gwei(250).String()))
	})

	It("degrades to the cached price for an unknown speed", func() {
		price := processor.ProcessGasPriceOptions(gasprice.SpeedOption{Speed: "ludicrous"}, state)
		Expect(price.String()).To(Equal(cached.String()))
	})

	It("degrades to the cached price when the tier is missing", func() {
		state.Speeds.Slow = nil
		price := processor.ProcessGasPriceOptions(gasprice.SpeedOption{Speed: oracle.SpeedSlow}, state)
		Expect(price.String()).To(Equal(cached.String()))
	})

	It("degrades to the cached price when no speeds are cached", func() {
		state.Speeds = nil
		price := processor.ProcessGasPriceOptions(gasprice.SpeedOption{Speed: oracle.SpeedFast}, state)
		Expect(price.String()).To(Equal(cached.String()))
	})

	It("returns nil when nothing is cached and the option is unusable", func() {
		state = gasprice.State{}
		Expect(processor.ProcessGasPriceOptions(gasprice.SpeedOption{Speed: oracle.SpeedFast}, state)).To(BeNil())
	})
})

var _ = Describe("ParseOption", func() {
	It("builds fixed options", func() {
		Expect(gasprice.ParseOption("fixed", "1000")).To(Equal(gasprice.FixedOption{Value: "1000"}))
	})

	It("builds speed options", func() {
		Expect(gasprice.ParseOption("speed", "fast")).To(Equal(gasprice.SpeedOption{Speed: oracle.SpeedFast}))
	})

	It("falls back to no option", func() {
		Expect(gasprice.ParseOption("", "")).To(Equal(gasprice.NoOption{}))
		Expect(gasprice.ParseOption("auction", "1")).To(Equal(gasprice.NoOption{}))
	})
})
