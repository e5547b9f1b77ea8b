package script_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/frametrace/internal/script"
)

var _ = Describe("Parse", func() {
	It("should parse every operation with its line", func() {
		s, err := script.Parse([]byte(`name: demo
steps:
  - start
  - begin: render
  - sleep: 2ms
  - partition: second
  - log: "rendered {0} items in {1}"
    args: [42, fast]
  - end: render
  - reset
  - stop
`))
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Name).To(Equal("demo"))
		Expect(s.Steps).To(HaveLen(8))

		Expect(s.Steps[0]).To(Equal(script.Step{Op: script.OpStart, Line: 3}))
		Expect(s.Steps[1]).To(Equal(script.Step{Op: script.OpBegin, Arg: "render", Line: 4}))
		Expect(s.Steps[2].Sleep).To(Equal(2 * time.Millisecond))
		Expect(s.Steps[3].Arg).To(Equal("second"))
		Expect(s.Steps[3].Line).To(Equal(6))
		Expect(s.Steps[4].Op).To(Equal(script.OpLog))
		Expect(s.Steps[4].Args).To(Equal([]any{42, "fast"}))
		Expect(s.Steps[5].Line).To(Equal(9))
		Expect(s.Steps[6].Op).To(Equal(script.OpReset))
		Expect(s.Steps[7].Op).To(Equal(script.OpStop))
	})

	It("should parse nested repeat blocks", func() {
		s, err := script.Parse([]byte(`steps:
  - repeat:
      times: 3
      steps:
        - begin: tick
        - end: tick
`))
		Expect(err).NotTo(HaveOccurred())

		Expect(s.Steps).To(HaveLen(1))
		Expect(s.Steps[0].Times).To(Equal(3))
		Expect(s.Steps[0].Steps).To(HaveLen(2))
		Expect(s.Steps[0].Steps[0].Line).To(Equal(5))
		Expect(s.Count()).To(Equal(6))
	})

	It("should allow an empty partition id", func() {
		s, err := script.Parse([]byte("steps:\n  - partition: \"\"\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Steps[0].Arg).To(BeEmpty())
	})

	DescribeTable("invalid scripts",
		func(src string, sentinel error, fragment string) {
			_, err := script.Parse([]byte(src))
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, sentinel)).To(BeTrue(), err.Error())
			Expect(err.Error()).To(ContainSubstring(fragment))
		},
		Entry("malformed yaml", "steps: [", script.ErrInvalidScript, "invalid script"),
		Entry("empty document", "", script.ErrInvalidScript, "empty document"),
		Entry("not a mapping", "- start\n", script.ErrInvalidScript, "expected a mapping"),
		Entry("missing steps", "name: x\n", script.ErrInvalidScript, "missing steps"),
		Entry("unknown key", "steps: []\nloop: 1\n", script.ErrInvalidScript, `unknown key "loop"`),
		Entry("steps not a list", "steps: start\n", script.ErrInvalidScript, "must be a list"),
		Entry("bare begin", "steps:\n  - begin\n", script.ErrInvalidStep, "line 2"),
		Entry("unknown op", "steps:\n  - jump: x\n", script.ErrInvalidStep, `unknown operation "jump"`),
		Entry("two ops", "steps:\n  - begin: a\n    end: a\n", script.ErrInvalidStep, "more than one operation"),
		Entry("bad sleep", "steps:\n  - sleep: soon\n", script.ErrInvalidStep, "non-negative duration"),
		Entry("negative sleep", "steps:\n  - sleep: -1s\n", script.ErrInvalidStep, "non-negative duration"),
		Entry("args on begin", "steps:\n  - begin: a\n    args: [1]\n", script.ErrInvalidStep, "only valid for log"),
		Entry("argument on start", "steps:\n  - start: now\n", script.ErrInvalidStep, "takes no argument"),
		Entry("empty frame name", "steps:\n  - end: \"\"\n", script.ErrInvalidStep, "expects a frame name"),
		Entry("negative repeat", "steps:\n  - repeat:\n      times: -1\n      steps: []\n", script.ErrInvalidStep, "must not be negative"),
	)
})

var _ = Describe("Load", func() {
	It("should read a script file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "workload.yaml")
		Expect(os.WriteFile(path, []byte("steps:\n  - start\n"), 0o600)).To(Succeed())

		s, err := script.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Steps).To(HaveLen(1))
	})

	It("should fail for a missing file", func() {
		_, err := script.Load(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to read script"))
	})

	It("should name the file on parse errors", func() {
		path := filepath.Join(GinkgoT().TempDir(), "bad.yaml")
		Expect(os.WriteFile(path, []byte("name: x\n"), 0o600)).To(Succeed())

		_, err := script.Load(path)
		Expect(err).To(MatchError(ContainSubstring("bad.yaml")))
	})
})
