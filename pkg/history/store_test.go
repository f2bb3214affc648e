package history_test

import (
	"context"
	"io"
	"math/big"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/db"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/history"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/oracle"
)

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

var _ = Describe("SnapshotFromState", func() {
	It("maps an oracle state", func() {
		at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		state := gasprice.State{
			GasPrice: big.NewInt(12_000_000_000),
			Speeds: &oracle.SpeedTable{
				Standard:    dp("12"),
				Fast:        dp("20.5"),
				BlockNumber: 17893021,
				Health:      true,
			},
			Source:    gasprice.SourceOracle,
			UpdatedAt: at,
		}

		row := history.SnapshotFromState(gasprice.SideHome, state)
		Expect(row.Side).To(Equal("home"))
		Expect(row.Source).To(Equal("oracle"))
		Expect(*row.GasPrice).To(Equal("12000000000"))
		Expect(row.Slow).To(BeNil())
		Expect(*row.Standard).To(Equal("12"))
		Expect(*row.Fast).To(Equal("20.5"))
		Expect(row.Instant).To(BeNil())
		Expect(*row.BlockNumber).To(BeEquivalentTo(17893021))
		Expect(*row.Health).To(BeTrue())
		Expect([]string(row.AvailableTiers)).To(Equal([]string{"standard", "fast"}))
		Expect(row.CreatedAt).To(Equal(at))
	})

	It("keeps nulls for a failed cycle", func() {
		row := history.SnapshotFromState(gasprice.SideForeign, gasprice.State{Source: gasprice.SourceNone})
		Expect(row.GasPrice).To(BeNil())
		Expect(row.Standard).To(BeNil())
		Expect(row.Health).To(BeNil())
		Expect(row.AvailableTiers).To(BeNil())
		Expect(row.Source).To(Equal("none"))
		Expect(row.CreatedAt).NotTo(BeZero())
	})
})

var _ = Describe("ClampLimit", func() {
	DescribeTable("limits",
		func(in, want int) {
			Expect(history.ClampLimit(in)).To(Equal(want))
		},
		Entry("zero", 0, history.DefaultLimit),
		Entry("negative", -4, history.DefaultLimit),
		Entry("in range", 7, 7),
		Entry("too large", 10_000, history.MaxLimit),
	)
})

var _ = Describe("Store", func() {
	It("requires a connection", func() {
		_, err := history.NewStore(nil, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Store against postgres", Ordered, func() {
	var (
		conn  *gorm.DB
		store *history.Store
		ctx   context.Context
	)

	BeforeAll(func() {
		if os.Getenv("INTEGRATION_TESTS") != "true" {
			Skip("Skipping integration tests. Set INTEGRATION_TESTS=true to run")
		}

		logger := logrus.New()
		logger.SetOutput(io.Discard)

		var err error
		conn, err = db.SetupDatabase(db.NewConfig(), logger)
		Expect(err).NotTo(HaveOccurred())
		store, err = history.NewStore(conn, logger)
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		Expect(conn.Exec("DELETE FROM gas_price_snapshots").Error).To(Succeed())
	})

	AfterAll(func() {
		if conn != nil {
			Expect(db.Close(conn)).To(Succeed())
		}
	})

	It("records and reads back snapshots newest first", func() {
		older := gasprice.State{GasPrice: big.NewInt(1), Source: gasprice.SourceContract, UpdatedAt: time.Now().Add(-time.Minute)}
		newer := gasprice.State{Source: gasprice.SourceNone, UpdatedAt: time.Now()}

		Expect(store.Record(ctx, gasprice.SideHome, older)).To(Succeed())
		Expect(store.Record(ctx, gasprice.SideHome, newer)).To(Succeed())

		rows, err := store.Recent(ctx, gasprice.SideHome, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Source).To(Equal("none"))
		Expect(*rows[1].GasPrice).To(Equal("1"))

		latest, err := store.Latest(ctx, gasprice.SideHome)
		Expect(err).NotTo(HaveOccurred())
		Expect(latest.ID).To(Equal(rows[0].ID))
	})

	It("reports an empty side", func() {
		_, err := store.Latest(ctx, gasprice.SideForeign)
		Expect(err).To(MatchError(history.ErrNoSnapshots))
	})

	It("prunes old rows", func() {
		n, err := store.Prune(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeNumerically(">=", 2))
	})
})
