package paging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Engine", func() {
	var engine *Engine

	BeforeEach(func() {
		engine = MakeBuilder().
			WithFrameCount(2).
			WithAlgorithm("FIFO").
			Build()
	})

	Context("when initializing", func() {
		It("should reject a non-positive frame count", func() {
			_, err := engine.Init(0, "FIFO")
			Expect(err).To(BeAssignableToTypeOf(ConfigError{}))

			_, err = engine.Init(-3, "LRU")
			Expect(err).To(BeAssignableToTypeOf(ConfigError{}))
		})

		It("should discard all prior state", func() {
			_, err := engine.CreateProcess("P1", 2, "")
			Expect(err).ToNot(HaveOccurred())
			_, err = engine.Access("P1", 0)
			Expect(err).ToNot(HaveOccurred())

			snapshot, err := engine.Init(4, "LRU")
			Expect(err).ToNot(HaveOccurred())

			Expect(snapshot.Frames).To(HaveLen(4))
			Expect(snapshot.Processes).To(BeEmpty())
			Expect(snapshot.Metrics.Clock).To(BeZero())
			Expect(snapshot.Metrics.TotalAccesses).To(BeZero())
			Expect(snapshot.Metrics.HitRatio).To(BeZero())
			Expect(snapshot.Algorithm).To(Equal("LRU"))
		})

		It("should fall back to FIFO for unrecognized policy names", func() {
			snapshot, err := engine.Init(2, "CLOCK")
			Expect(err).ToNot(HaveOccurred())
			Expect(snapshot.Algorithm).To(Equal("FIFO"))
		})

		It("should parse the policy name case-insensitively", func() {
			snapshot, err := engine.Init(2, "lru")
			Expect(err).ToNot(HaveOccurred())
			Expect(snapshot.Algorithm).To(Equal("LRU"))
		})
	})

	Context("when creating processes", func() {
		It("should allocate a page table with all pages absent", func() {
			proc, err := engine.CreateProcess("P1", 3, "#ff0000")
			Expect(err).ToNot(HaveOccurred())

			Expect(proc.PID).To(Equal("P1"))
			Expect(proc.Size).To(Equal(3))
			Expect(proc.PageTable).To(HaveLen(3))
			for i, entry := range proc.PageTable {
				Expect(entry.VPN).To(Equal(i))
				Expect(entry.Present).To(BeFalse())
				Expect(entry.PFN).To(BeNil())
				Expect(entry.Timestamp).To(BeZero())
			}
			Expect(*proc.Color).To(Equal("#ff0000"))
		})

		It("should reject a duplicated pid", func() {
			_, err := engine.CreateProcess("P1", 3, "")
			Expect(err).ToNot(HaveOccurred())

			_, err = engine.CreateProcess("P1", 5, "")
			Expect(err).To(Equal(DuplicateProcessError{PID: "P1"}))
		})

		It("should reject an empty pid", func() {
			_, err := engine.CreateProcess("", 3, "")
			Expect(err).To(BeAssignableToTypeOf(ConfigError{}))
		})

		It("should reject a negative size", func() {
			_, err := engine.CreateProcess("P1", -1, "")
			Expect(err).To(BeAssignableToTypeOf(ConfigError{}))
		})

		It("should accept size zero and fail every access on it", func() {
			proc, err := engine.CreateProcess("P1", 0, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(proc.PageTable).To(BeEmpty())

			_, err = engine.Access("P1", 0)
			Expect(err).To(Equal(InvalidPageError{PID: "P1", VPN: 0, Size: 0}))
		})
	})

	Context("when accessing pages with FIFO replacement", func() {
		BeforeEach(func() {
			_, err := engine.CreateProcess("P1", 3, "")
			Expect(err).ToNot(HaveOccurred())
		})

		It("should load the first two pages into free frames", func() {
			event, err := engine.Access("P1", 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.Result).To(Equal(ResultLoaded))
			Expect(event.PFN).To(Equal(0))
			Expect(event.Time).To(Equal(int64(1)))

			event, err = engine.Access("P1", 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.Result).To(Equal(ResultLoaded))
			Expect(event.PFN).To(Equal(1))
			Expect(event.Time).To(Equal(int64(2)))
		})

		It("should evict the oldest arrival when no frame is free", func() {
			engine.Access("P1", 0)
			engine.Access("P1", 1)

			event, err := engine.Access("P1", 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.Result).To(Equal(ResultReplaced))
			Expect(event.PFN).To(Equal(0))
			Expect(event.Evicted).To(Equal(&EvictedPage{PID: "P1", VPN: 0}))

			snapshot := engine.Snapshot()
			entry := snapshot.Processes["P1"].PageTable[0]
			Expect(entry.Present).To(BeFalse())
			Expect(entry.PFN).To(BeNil())
			Expect(entry.Timestamp).To(BeZero())
		})

		It("should not let a hit refresh the arrival order", func() {
			engine.Access("P1", 0)
			engine.Access("P1", 1)
			engine.Access("P1", 0)

			event, err := engine.Access("P1", 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.Evicted).To(Equal(&EvictedPage{PID: "P1", VPN: 0}))
		})

		It("should report a hit with the holding frame", func() {
			engine.Access("P1", 0)

			event, err := engine.Access("P1", 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.Result).To(Equal(ResultHit))
			Expect(event.PFN).To(Equal(0))
			Expect(event.Evicted).To(BeNil())

			snapshot := engine.Snapshot()
			Expect(snapshot.Frames[0].LastAccessed).To(Equal(int64(2)))
			Expect(snapshot.Processes["P1"].PageTable[0].Timestamp).
				To(Equal(int64(2)))
		})
	})

	Context("when accessing pages with LRU replacement", func() {
		BeforeEach(func() {
			engine = MakeBuilder().
				WithFrameCount(2).
				WithAlgorithm("LRU").
				Build()

			_, err := engine.CreateProcess("P1", 3, "")
			Expect(err).ToNot(HaveOccurred())
		})

		It("should evict the least recently used page", func() {
			engine.Access("P1", 0)
			engine.Access("P1", 1)

			event, err := engine.Access("P1", 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.Result).To(Equal(ResultHit))

			event, err = engine.Access("P1", 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.Result).To(Equal(ResultReplaced))
			Expect(event.PFN).To(Equal(1))
			Expect(event.Evicted).To(Equal(&EvictedPage{PID: "P1", VPN: 1}))
		})
	})

	Context("when an access is invalid", func() {
		It("should fail for an unknown pid and change nothing", func() {
			before := engine.Snapshot()

			_, err := engine.Access("ghost", 0)
			Expect(err).To(Equal(UnknownProcessError{PID: "ghost"}))

			Expect(engine.Snapshot()).To(Equal(before))
		})

		It("should fail for a vpn outside the page table", func() {
			_, err := engine.CreateProcess("P1", 3, "")
			Expect(err).ToNot(HaveOccurred())

			before := engine.Snapshot()

			_, err = engine.Access("P1", 3)
			Expect(err).To(Equal(InvalidPageError{PID: "P1", VPN: 3, Size: 3}))

			_, err = engine.Access("P1", -1)
			Expect(err).To(Equal(InvalidPageError{PID: "P1", VPN: -1, Size: 3}))

			Expect(engine.Snapshot()).To(Equal(before))
		})
	})

	Context("when taking snapshots", func() {
		BeforeEach(func() {
			_, err := engine.CreateProcess("P1", 3, "")
			Expect(err).ToNot(HaveOccurred())

			engine.Access("P1", 0)
			engine.Access("P1", 0)
			engine.Access("P1", 1)
			engine.Access("P1", 2)
		})

		It("should keep the metrics consistent", func() {
			metrics := engine.Snapshot().Metrics

			Expect(metrics.TotalAccesses).To(Equal(int64(4)))
			Expect(metrics.PageHits + metrics.PageFaults).
				To(Equal(metrics.TotalAccesses))
			Expect(metrics.Clock).To(Equal(int64(4)))
			Expect(metrics.HitRatio).To(Equal(0.25))
		})

		It("should keep frames and page tables consistent", func() {
			snapshot := engine.Snapshot()

			occupied := 0
			for _, frame := range snapshot.Frames {
				if !frame.IsFilled {
					continue
				}
				occupied++

				entry := snapshot.Processes[*frame.PID].PageTable[*frame.VPN]
				Expect(entry.Present).To(BeTrue())
				Expect(*entry.PFN).To(Equal(frame.ID))
			}
			Expect(occupied).To(BeNumerically("<=", len(snapshot.Frames)))

			for _, proc := range snapshot.Processes {
				for _, entry := range proc.PageTable {
					if entry.Present {
						Expect(entry.PFN).ToNot(BeNil())
					} else {
						Expect(entry.PFN).To(BeNil())
					}
				}
			}
		})

		It("should be idempotent", func() {
			Expect(engine.Snapshot()).To(Equal(engine.Snapshot()))
		})

		It("should return a copy detached from the live state", func() {
			snapshot := engine.Snapshot()

			*snapshot.Frames[0].PID = "mutated"
			snapshot.Processes["P1"].PageTable[1].Present = false

			fresh := engine.Snapshot()
			Expect(*fresh.Frames[0].PID).To(Equal("P1"))
			Expect(fresh.Processes["P1"].PageTable[1].Present).To(BeTrue())
		})
	})
})
