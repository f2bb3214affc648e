package db_test

import (
	"io"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/db"
)

var _ = Describe("SetupDatabase", Ordered, func() {
	var logger *logrus.Logger

	BeforeAll(func() {
		if os.Getenv("INTEGRATION_TESTS") != "true" {
			Skip("Skipping integration tests. Set INTEGRATION_TESTS=true to run")
		}
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	})

	It("migrates to a clean schema", func() {
		cfg := db.NewConfig()
		conn, err := db.SetupDatabase(cfg, logger)
		Expect(err).NotTo(HaveOccurred())
		defer db.Close(conn)

		version, dirty, err := db.MigrationStatus(cfg, logger)
		Expect(err).NotTo(HaveOccurred())
		Expect(dirty).To(BeFalse())
		Expect(version).To(BeNumerically(">=", 1))
		Expect(conn.Migrator().HasTable("gas_price_snapshots")).To(BeTrue())
	})

	It("fails on a missing migrations directory", func() {
		cfg := db.NewConfig()
		cfg.MigrationsDir = "/nonexistent/migrations"
		_, err := db.SetupDatabase(cfg, logger)
		Expect(err).To(HaveOccurred())
	})
})
