package config_test

import (
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/frametrace/internal/config"
	pkgConfig "github.com/smykla-skalski/frametrace/pkg/config"
)

var _ = Describe("Validator", func() {
	var validator *config.Validator

	BeforeEach(func() {
		validator = config.NewValidator()
	})

	It("should reject nil config", func() {
		err := validator.Validate(nil)
		Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
	})

	It("should accept defaults", func() {
		Expect(validator.Validate(config.DefaultConfig())).To(Succeed())
	})

	It("should accept an empty config", func() {
		Expect(validator.Validate(&pkgConfig.Config{})).To(Succeed())
	})

	It("should reject future versions", func() {
		err := validator.Validate(&pkgConfig.Config{Version: pkgConfig.CurrentConfigVersion + 1})
		Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("1 error(s)"))
	})

	DescribeTable("profiler capacity",
		func(capacity, logCapacity int, valid bool) {
			cfg := &pkgConfig.Config{
				Profiler: &pkgConfig.ProfilerConfig{
					Capacity:    &capacity,
					LogCapacity: &logCapacity,
				},
			}

			err := validator.Validate(cfg)
			if valid {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
			}
		},
		Entry("positive values", 10, 10, true),
		Entry("zero log capacity", 10, 0, true),
		Entry("zero capacity", 0, 10, false),
		Entry("negative capacity", -1, 10, false),
		Entry("negative log capacity", 10, -1, false),
	)

	DescribeTable("log level",
		func(level string, valid bool) {
			err := validator.Validate(&pkgConfig.Config{Log: &pkgConfig.LogConfig{Level: level}})
			Expect(err == nil).To(Equal(valid))
		},
		Entry("debug", "debug", true),
		Entry("upper case", "INFO", true),
		Entry("error", "error", true),
		Entry("unknown", "verbose", false),
	)

	DescribeTable("report",
		func(report *pkgConfig.ReportConfig, valid bool) {
			err := validator.Validate(&pkgConfig.Config{Report: report})
			Expect(err == nil).To(Equal(valid))
		},
		Entry("table", &pkgConfig.ReportConfig{Format: "table"}, true),
		Entry("tree", &pkgConfig.ReportConfig{Format: "tree"}, true),
		Entry("unknown format", &pkgConfig.ReportConfig{Format: "pie"}, false),
		Entry("valid patterns", &pkgConfig.ReportConfig{Match: []string{"render/**", "io/{read,write}"}}, true),
		Entry("unclosed bracket", &pkgConfig.ReportConfig{Match: []string{"render/[a-"}}, false),
	)

	It("should collect every failure", func() {
		capacity := 0
		cfg := &pkgConfig.Config{
			Profiler: &pkgConfig.ProfilerConfig{Capacity: &capacity},
			Log:      &pkgConfig.LogConfig{Level: "loud"},
			Report:   &pkgConfig.ReportConfig{Format: "pie"},
		}

		err := validator.Validate(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("3 error(s)"))
	})
})
