package driver_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/antpole/internal/driver"
	"github.com/san-kum/antpole/internal/pole"
)

type countingView struct {
	steps       int
	completions []int
}

func (v *countingView) OnStep([]int, []pole.Direction, int) { v.steps++ }
func (v *countingView) OnComplete(elapsed int)              { v.completions = append(v.completions, elapsed) }

var _ = Describe("Driver", func() {
	var (
		view *countingView
		d    *driver.Driver
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		view = &countingView{}
		var err error
		d, err = driver.New(pole.DefaultParams(), pole.DefaultPositions(), view)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Play", func() {
		It("runs the all-left reference case to 50", func() {
			elapsed, err := d.Play(ctx, pole.IndexToDirections(0, 5))
			Expect(err).NotTo(HaveOccurred())
			Expect(elapsed).To(Equal(50))
			Expect(view.steps).To(Equal(50))
			Expect(view.completions).To(Equal([]int{50}))
			Expect(d.Record()).To(Equal(driver.Record{Max: 50, Min: 50, Played: true}))
		})

		It("keeps min and max across runs", func() {
			_, err := d.Play(ctx, pole.IndexToDirections(0, 5))
			Expect(err).NotTo(HaveOccurred())
			_, err = d.Play(ctx, pole.IndexToDirections(31, 5))
			Expect(err).NotTo(HaveOccurred())
			_, err = d.Play(ctx, pole.IndexToDirections(24, 5))
			Expect(err).NotTo(HaveOccurred())

			Expect(d.Record()).To(Equal(driver.Record{Max: 54, Min: 28, Played: true}))
			last, ok := d.Last()
			Expect(ok).To(BeTrue())
			Expect(last.Index).To(Equal(24))
			Expect(last.Elapsed).To(Equal(28))
		})

		It("surfaces invalid configurations", func() {
			_, err := d.Play(ctx, []pole.Direction{pole.Left})
			Expect(err).To(MatchError(pole.ErrInvalidConfiguration))
			Expect(d.Current()).To(BeNil())
		})
	})

	Describe("Start", func() {
		It("rejects a second start while a run is active", func() {
			first, err := d.Start(pole.IndexToDirections(3, 5))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Step()).To(BeTrue())

			_, err = d.Start(pole.IndexToDirections(4, 5))
			Expect(err).To(MatchError(pole.ErrDoubleStart))
			Expect(d.Current()).To(BeIdenticalTo(first))
			Expect(first.Time()).To(Equal(1))
		})

		It("allows a new start after reset", func() {
			first, err := d.Start(pole.IndexToDirections(3, 5))
			Expect(err).NotTo(HaveOccurred())
			d.Reset()
			Expect(first.Aborted()).To(BeTrue())

			_, err = d.Start(pole.IndexToDirections(4, 5))
			Expect(err).NotTo(HaveOccurred())
			Expect(view.completions).To(BeEmpty())
			Expect(d.Record().Played).To(BeFalse())
		})
	})

	Describe("Autoplay", func() {
		It("enumerates every combination", func() {
			seen := 0
			outcomes, err := d.Autoplay(ctx, func(driver.Outcome) { seen++ })
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes).To(HaveLen(32))
			Expect(seen).To(Equal(32))
			Expect(view.completions).To(HaveLen(32))

			for i, o := range outcomes {
				Expect(o.Index).To(Equal(i))
				Expect(pole.PassThroughElapsed(d.Params(), d.Positions(), o.Directions)).To(Equal(o.Elapsed))
			}
			Expect(outcomes[0].Elapsed).To(Equal(50))
			Expect(outcomes[24].Elapsed).To(Equal(28))
			Expect(d.Record()).To(Equal(driver.Record{Max: 54, Min: 28, Played: true}))
			Expect(d.Autoplaying()).To(BeFalse())
		})

		It("stops on a canceled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			outcomes, err := d.Autoplay(cctx, nil)
			Expect(err).To(MatchError(context.Canceled))
			Expect(outcomes).To(BeEmpty())
			Expect(d.Autoplaying()).To(BeFalse())
		})

		It("refuses to enumerate too many ants", func() {
			positions := make([]int, driver.MaxAutoplayAnts+1)
			for i := range positions {
				positions[i] = (i + 1) * 10
			}
			big, err := driver.New(pole.DefaultParams(), positions, nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = big.Autoplay(ctx, nil)
			Expect(err).To(MatchError(driver.ErrTooManyAnts))
			Expect(big.StartAutoplay()).To(MatchError(driver.ErrTooManyAnts))
		})
	})

	Describe("Tick", func() {
		It("fails before any run", func() {
			_, err := d.Tick()
			Expect(err).To(MatchError(driver.ErrNoRun))
		})

		It("relaunches in repeating mode until exhausted", func() {
			records := 0
			hooked, err := driver.New(pole.DefaultParams(), pole.DefaultPositions(), view,
				driver.WithRecordHook(func(driver.Record) { records++ }))
			Expect(err).NotTo(HaveOccurred())
			Expect(hooked.StartAutoplay()).To(Succeed())

			for {
				more, err := hooked.Tick()
				Expect(err).NotTo(HaveOccurred())
				if !more {
					break
				}
			}

			Expect(view.completions).To(HaveLen(32))
			Expect(records).To(Equal(32))
			Expect(hooked.Record()).To(Equal(driver.Record{Max: 54, Min: 28, Played: true}))
			Expect(hooked.Autoplaying()).To(BeFalse())
			Expect(hooked.AutoIndex()).To(Equal(0))
		})

		It("stops repeating after reset", func() {
			Expect(d.StartAutoplay()).To(Succeed())
			for i := 0; i < 10; i++ {
				_, err := d.Tick()
				Expect(err).NotTo(HaveOccurred())
			}
			d.Reset()

			more, err := d.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(more).To(BeFalse())
			Expect(d.Autoplaying()).To(BeFalse())
			Expect(view.completions).To(BeEmpty())
		})
	})
})

var _ = Describe("Record", func() {
	It("starts from the first observation", func() {
		var r driver.Record
		r.Observe(40)
		Expect(r).To(Equal(driver.Record{Max: 40, Min: 40, Played: true}))
		r.Observe(10)
		r.Observe(70)
		r.Observe(30)
		Expect(r.Min).To(Equal(10))
		Expect(r.Max).To(Equal(70))
	})
})
