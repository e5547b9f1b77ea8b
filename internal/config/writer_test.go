package config_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/frametrace/internal/config"
	"github.com/smykla-skalski/frametrace/internal/schema"
	pkgConfig "github.com/smykla-skalski/frametrace/pkg/config"
)

var _ = Describe("Writer", func() {
	var (
		homeDir string
		workDir string
		writer  *config.Writer
	)

	BeforeEach(func() {
		tmpDir := GinkgoT().TempDir()
		homeDir = filepath.Join(tmpDir, "home")
		workDir = filepath.Join(tmpDir, "work")

		GinkgoT().Setenv("XDG_CONFIG_HOME", "")

		writer = config.NewWriterWithDirs(homeDir, workDir)
	})

	It("should reject nil config", func() {
		Expect(writer.WriteGlobal(nil)).To(MatchError(config.ErrInvalidConfig))
	})

	It("should write the global config with secure permissions", func() {
		Expect(writer.IsGlobalConfigExists()).To(BeFalse())
		Expect(writer.WriteGlobal(config.DefaultConfig())).To(Succeed())
		Expect(writer.IsGlobalConfigExists()).To(BeTrue())

		info, err := os.Stat(writer.GlobalConfigPath())
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(config.ConfigFileMode)))
	})

	It("should prepend the schema directive", func() {
		Expect(writer.WriteProject(config.DefaultConfig())).To(Succeed())

		data, err := os.ReadFile(writer.ProjectConfigPath())
		Expect(err).NotTo(HaveOccurred())

		firstLine, _, _ := strings.Cut(string(data), "\n")
		Expect(firstLine).To(Equal(schema.SchemaDirective()))
		Expect(string(data)).To(ContainSubstring("[profiler]"))
		Expect(string(data)).To(ContainSubstring("capacity = 1000"))
	})

	It("should round-trip through the loader", func() {
		enabled := true
		capacity := 42
		cfg := config.DefaultConfig()
		cfg.Profiler.Enabled = &enabled
		cfg.Profiler.Capacity = &capacity
		cfg.Report.Format = pkgConfig.ReportFormatTree
		cfg.Report.Match = []string{"render/**"}

		Expect(writer.WriteProject(cfg)).To(Succeed())

		loaded, err := config.NewKoanfLoaderWithDirs(homeDir, workDir).Load(nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(loaded.Profiler.IsEnabled()).To(BeTrue())
		Expect(loaded.Profiler.GetCapacity()).To(Equal(42))
		Expect(loaded.Report.GetFormat()).To(Equal(pkgConfig.ReportFormatTree))
		Expect(loaded.Report.GetMatch()).To(ConsistOf("render/**"))
	})
})
