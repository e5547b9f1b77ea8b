package profiler_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sync/errgroup"

	"github.com/smykla-skalski/frametrace/pkg/profiler"
)

var _ = Describe("Log", func() {
	var log *profiler.Log

	BeforeEach(func() {
		log = profiler.NewLog(profiler.DefaultLogCapacity)
	})

	Describe("Write", func() {
		It("appends entries in order", func() {
			log.Write("first")
			log.Write("second %d", 2)

			Expect(log.Lines()).To(Equal([]string{"first", "second 2"}))
		})

		It("writes regardless of session state", func() {
			p := profiler.New()
			p.Log().Write("stopped")
			p.Start()
			p.Log().Write("running")

			Expect(p.Log().Len()).To(Equal(2))
		})

		It("copies the argument slice", func() {
			args := []any{"a"}
			log.Write("%s", args...)
			args[0] = "b"

			Expect(log.Lines()).To(Equal([]string{"a"}))
		})

		It("serializes concurrent writers", func() {
			const (
				writers = 8
				perW    = 200
			)

			var g errgroup.Group

			for w := range writers {
				g.Go(func() error {
					for i := range perW {
						log.Write("w%d-%d", w, i)
					}

					return nil
				})
			}

			Expect(g.Wait()).To(Succeed())
			Expect(log.Len()).To(Equal(writers * perW))

			seen := make(map[string]bool, writers*perW)
			for _, line := range log.Lines() {
				seen[line] = true
			}

			Expect(seen).To(HaveLen(writers * perW))
		})
	})

	Describe("lazy arguments", func() {
		It("are evaluated at render time", func() {
			state := "before"
			log.Write("state={0}", profiler.LazyString(func() string { return state }))

			state = "after"

			Expect(log.Lines()).To(Equal([]string{"state=after"}))
		})

		It("are not evaluated by Write", func() {
			calls := 0
			log.Write("%v", profiler.Lazy(func() any {
				calls++

				return calls
			}))

			Expect(calls).To(BeZero())
			Expect(log.Entries()[0].String()).To(Equal("1"))
			Expect(log.Entries()[0].String()).To(Equal("2"))
		})

		It("accept plain closures", func() {
			n := 1
			log.Write("%v %v", func() any { return n }, func() string { return "s" })
			n = 3

			Expect(log.Lines()).To(Equal([]string{"3 s"}))
		})
	})

	Describe("Entry.String", func() {
		DescribeTable("formats",
			func(format string, args []any, want string) {
				e := profiler.Entry{Format: format, Args: args}
				Expect(e.String()).To(Equal(want))
			},
			Entry("no args", "plain 100%", nil, "plain 100%"),
			Entry("fmt verbs", "%s took %d", []any{"load", 3}, "load took 3"),
			Entry("positional", "{1} before {0}", []any{"a", "b"}, "b before a"),
			Entry("repeated positional", "{0}{0}", []any{"x"}, "xx"),
			Entry("out of range positional", "{0} {5}", []any{"x"}, "x {5}"),
			Entry("args without placeholders", "hello", []any{1}, "hello"),
		)
	})

	Describe("Entries", func() {
		It("returns a snapshot", func() {
			log.Write("one")
			entries := log.Entries()
			log.Write("two")

			Expect(entries).To(HaveLen(1))
		})

		It("never exposes partial appends to concurrent readers", func() {
			var g errgroup.Group

			g.Go(func() error {
				for i := range 500 {
					log.Write("entry %d", i)
				}

				return nil
			})

			g.Go(func() error {
				for range 500 {
					for _, e := range log.Entries() {
						if !strings.HasPrefix(e.Format, "entry") || len(e.Args) != 1 {
							return fmt.Errorf("partial entry %+v", e)
						}
					}
				}

				return nil
			})

			Expect(g.Wait()).To(Succeed())
		})
	})

	Describe("Clear", func() {
		It("removes every entry", func() {
			log.Write("one")
			log.Clear()

			Expect(log.Len()).To(BeZero())
			Expect(log.Lines()).To(BeEmpty())
		})
	})
})
