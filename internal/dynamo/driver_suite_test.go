package dynamo

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/circlesim/internal/physics"
)

func TestDriverSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Driver Suite")
}

var _ = Describe("Driver", func() {
	var (
		cfg Config
		d   *Driver
	)

	BeforeEach(func() {
		cfg = DefaultConfig()
		cfg.Seed = 7
		var err error
		d, err = NewDriver(cfg, red, blue)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts running with no collisions", func() {
		Expect(d.Done()).To(BeFalse())
		Expect(d.CollisionCount()).To(BeZero())
		Expect(d.Steps()).To(BeZero())
		Expect(d.Trail(0).Len()).To(BeZero())
	})

	It("grows the trail by one point per step up to the cap", func() {
		for i := 0; i < cfg.TrailLength+30; i++ {
			d.Step(cfg.Dt)
			Expect(d.Trail(0).Len()).To(Equal(min(i+1, cfg.TrailLength)))
		}
	})

	It("never decreases the collision count", func() {
		last := 0
		for i := 0; i < 3000 && !d.Done(); i++ {
			d.Step(cfg.Dt)
			Expect(d.CollisionCount()).To(BeNumerically(">=", last))
			last = d.CollisionCount()
		}
	})

	Context("with repeated head-on collisions", func() {
		BeforeEach(func() {
			d = headOnDriver(5)
		})

		It("completes at exactly the target and stays complete", func() {
			for i := 0; i < 10000 && !d.Done(); i++ {
				d.Step(1.0)
			}
			Expect(d.Done()).To(BeTrue())
			Expect(d.CollisionCount()).To(Equal(5))

			steps := d.Steps()
			d.Step(1.0)
			Expect(d.Steps()).To(Equal(steps))
			Expect(d.CollisionCount()).To(Equal(5))
		})

		It("keeps both bodies separated after every step", func() {
			for i := 0; i < 2000 && !d.Done(); i++ {
				d.Step(1.0)
				a, b := d.Body(0), d.Body(1)
				Expect(physics.Distance(a.Position, b.Position)).To(BeNumerically(">=", 2*cfg.BodyRadius-1e-6))
			}
		})
	})

	Describe("Config", func() {
		It("accepts the defaults", func() {
			Expect(DefaultConfig().Validate()).To(Succeed())
		})

		It("rejects a non-positive container radius", func() {
			cfg.Container.Radius = 0
			Expect(cfg.Validate()).To(MatchError(ErrInvalidConfig))
		})

		It("derives the spawn radius from the margin", func() {
			Expect(cfg.SpawnRadius()).To(BeNumerically("~", 170, 1e-12))
		})
	})
})
