package driver_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/antpole/internal/driver"
	"github.com/san-kum/antpole/internal/pole"
)

var _ = Describe("Enumerate", func() {
	It("matches sequential autoplay", func() {
		d, err := driver.New(pole.DefaultParams(), pole.DefaultPositions(), nil)
		Expect(err).NotTo(HaveOccurred())
		want, err := d.Autoplay(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())

		got, rec, err := driver.Enumerate(context.Background(), pole.DefaultParams(), pole.DefaultPositions(), 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
		Expect(rec).To(Equal(d.Record()))
		Expect(rec.Max).To(Equal(54))
		Expect(rec.Min).To(Equal(28))
	})

	It("splits large enumerations across workers", func() {
		positions := []int{20, 40, 60, 80, 100, 120, 140, 160}
		got, rec, err := driver.Enumerate(context.Background(), pole.DefaultParams(), positions, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveLen(256))
		for i, o := range got {
			Expect(o.Index).To(Equal(i))
			Expect(pole.PassThroughElapsed(pole.DefaultParams(), positions, o.Directions)).To(Equal(o.Elapsed))
		}
		Expect(rec.Played).To(BeTrue())
	})

	It("reports a canceled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := driver.Enumerate(ctx, pole.DefaultParams(), pole.DefaultPositions(), 2)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("rejects invalid layouts", func() {
		_, _, err := driver.Enumerate(context.Background(), pole.DefaultParams(), []int{10, 10}, 1)
		Expect(err).To(MatchError(pole.ErrInvalidConfiguration))
	})
})
