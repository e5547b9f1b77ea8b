package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/frametrace/internal/config"
	pkgConfig "github.com/smykla-skalski/frametrace/pkg/config"
)

func writeTOML(path, content string) {
	GinkgoHelper()

	Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
}

var _ = Describe("KoanfLoader", func() {
	var (
		homeDir string
		workDir string
		loader  *config.KoanfLoader
	)

	BeforeEach(func() {
		tmpDir := GinkgoT().TempDir()
		homeDir = filepath.Join(tmpDir, "home")
		workDir = filepath.Join(tmpDir, "work")

		Expect(os.MkdirAll(homeDir, 0o700)).To(Succeed())
		Expect(os.MkdirAll(workDir, 0o700)).To(Succeed())

		GinkgoT().Setenv("XDG_CONFIG_HOME", "")

		loader = config.NewKoanfLoaderWithDirs(homeDir, workDir)
	})

	globalPath := func() string {
		return filepath.Join(homeDir, ".config", "frametrace", "config.toml")
	}

	Context("with no config files", func() {
		It("should return defaults", func() {
			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.GetVersion()).To(Equal(pkgConfig.CurrentConfigVersion))
			Expect(cfg.Profiler.IsEnabled()).To(BeFalse())
			Expect(cfg.Profiler.GetCapacity()).To(Equal(pkgConfig.DefaultCapacity))
			Expect(cfg.Profiler.GetLogCapacity()).To(Equal(pkgConfig.DefaultLogCapacity))
			Expect(cfg.Log.GetLevel()).To(Equal("error"))
			Expect(cfg.Report.GetFormat()).To(Equal(pkgConfig.ReportFormatTable))
			Expect(cfg.Report.IsShowLog()).To(BeTrue())
			Expect(cfg.Report.GetSlowThreshold()).To(BeZero())
		})

		It("should not report any config files", func() {
			Expect(loader.HasGlobalConfig()).To(BeFalse())
			Expect(loader.FindProjectConfigPath()).To(BeEmpty())
		})
	})

	Context("with global config", func() {
		BeforeEach(func() {
			writeTOML(globalPath(), `
[profiler]
capacity = 50

[report]
format = "tree"
slow_threshold = "5ms"
`)
		})

		It("should load global values", func() {
			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(loader.HasGlobalConfig()).To(BeTrue())
			Expect(cfg.Profiler.GetCapacity()).To(Equal(50))
			Expect(cfg.Report.GetFormat()).To(Equal(pkgConfig.ReportFormatTree))
			Expect(cfg.Report.GetSlowThreshold().ToDuration()).To(Equal(5 * time.Millisecond))
		})

		It("should let project config override global", func() {
			writeTOML(filepath.Join(workDir, ".frametrace", "config.toml"), `
[profiler]
capacity = 75
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Profiler.GetCapacity()).To(Equal(75))
			Expect(cfg.Report.GetFormat()).To(Equal(pkgConfig.ReportFormatTree))
		})

		It("should let env vars override files", func() {
			GinkgoT().Setenv("FRAMETRACE_PROFILER_CAPACITY", "99")
			GinkgoT().Setenv("FRAMETRACE_REPORT_MATCH", "render/**, io/*")

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Profiler.GetCapacity()).To(Equal(99))
			Expect(cfg.Report.GetMatch()).To(Equal([]string{"render/**", "io/*"}))
		})

		It("should let flags override everything", func() {
			GinkgoT().Setenv("FRAMETRACE_PROFILER_CAPACITY", "99")

			cfg, err := loader.Load(map[string]any{
				"profiler.capacity": 7,
				"profiler.enabled":  true,
				"report.format":     nil,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Profiler.GetCapacity()).To(Equal(7))
			Expect(cfg.Profiler.IsEnabled()).To(BeTrue())
			Expect(cfg.Report.GetFormat()).To(Equal(pkgConfig.ReportFormatTree))
		})
	})

	Context("with alternative project config", func() {
		It("should load frametrace.toml", func() {
			writeTOML(filepath.Join(workDir, "frametrace.toml"), `
[log]
level = "debug"
`)

			cfg, err := loader.Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(loader.FindProjectConfigPath()).To(HaveSuffix("frametrace.toml"))
			Expect(cfg.Log.GetLevel()).To(Equal("debug"))
		})
	})

	Context("with explicit config file", func() {
		It("should layer it above project config", func() {
			writeTOML(filepath.Join(workDir, "frametrace.toml"), `
[profiler]
capacity = 20
log_capacity = 3
`)

			explicit := filepath.Join(workDir, "custom.toml")
			writeTOML(explicit, `
[profiler]
capacity = 30
`)

			cfg, err := loader.WithConfigFile(explicit).Load(nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Profiler.GetCapacity()).To(Equal(30))
			Expect(cfg.Profiler.GetLogCapacity()).To(Equal(3))
		})

		It("should fail when the file is missing", func() {
			_, err := loader.WithConfigFile(filepath.Join(workDir, "missing.toml")).Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, config.ErrConfigNotFound)).To(BeTrue())
		})
	})

	Context("with insecure permissions", func() {
		It("should reject world-writable files", func() {
			writeTOML(globalPath(), "version = 1\n")
			Expect(os.Chmod(globalPath(), 0o666)).To(Succeed())

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, config.ErrInvalidPermissions)).To(BeTrue())
		})
	})

	Context("with invalid values", func() {
		It("should fail validation", func() {
			writeTOML(globalPath(), `
[profiler]
capacity = 0
`)

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
		})

		It("should skip validation when asked", func() {
			writeTOML(globalPath(), `
[report]
format = "pie"
`)

			cfg, err := loader.LoadWithoutValidation(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Report.Format).To(Equal("pie"))
		})

		It("should reject malformed durations", func() {
			writeTOML(globalPath(), `
[report]
slow_threshold = "soon"
`)

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unmarshal"))
		})

		It("should reject malformed TOML", func() {
			writeTOML(globalPath(), "[profiler\n")

			_, err := loader.Load(nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("global config"))
		})
	})

	It("should agree with DefaultConfig", func() {
		cfg, err := loader.Load(nil)
		Expect(err).NotTo(HaveOccurred())

		defaults := config.DefaultConfig()
		Expect(cfg.Profiler).To(Equal(defaults.Profiler))
		Expect(cfg.Log).To(Equal(defaults.Log))
		Expect(cfg.Report.GetFormat()).To(Equal(defaults.Report.GetFormat()))
		Expect(cfg.Report.IsShowLog()).To(Equal(defaults.Report.IsShowLog()))
	})
})
