package systems

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// FrameStats describes one completed frame.
type FrameStats struct {
	Frame      uint64
	Particles  int
	Spawned    int
	Overridden int
	Rejected   int

	Inserted    int64 // newly spawned particles bucketed this frame
	Rebuckets   int64 // particles that moved to a different cell
	Reflections int64
	Collisions  int64
	Degenerate  int64

	Merge     time.Duration
	Integrate time.Duration // slowest worker
	Collide   time.Duration // slowest worker
	Total     time.Duration
}

// workerStats is written by one worker only and read by the barrier action.
type workerStats struct {
	inserted    int64
	rebuckets   int64
	reflections int64
	collisions  int64
	degenerate  int64
	integrate   time.Duration
	collide     time.Duration
	neighbors   []int
	_           [64]byte
}

// frameJob is handed to every worker once per frame.
type frameJob struct {
	frame uint64
	merge *sync.Once
}

// Scheduler runs frames over a fixed pool of worker goroutines.
//
// Frame protocol, executed by every worker:
//  1. merge: the first worker through the per-frame Once drains the ingest
//     buffer; the rest wait inside Once.Do until it is done
//  2. integrate + bucket over a contiguous particle slice
//  3. barrier 1
//  4. collide over a contiguous slice of cells
//  5. barrier 2, whose action publishes the completed frame
type Scheduler struct {
	world      *World
	numWorkers int
	stats      []workerStats

	barrier1 *Barrier
	barrier2 *Barrier
	signal   *FrameSignal

	// Worker pool channels
	workChan chan frameJob
	doneChan chan FrameStats
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool

	frame     uint64
	drain     DrainResult
	mergeTime time.Duration
	started   time.Time
}

// NewScheduler creates a scheduler for world. workers <= 0 uses GOMAXPROCS.
func NewScheduler(world *World, workers int) *Scheduler {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	s := &Scheduler{
		world:      world,
		numWorkers: workers,
		stats:      make([]workerStats, workers),
		signal:     NewFrameSignal(),
	}
	for i := range s.stats {
		s.stats[i].neighbors = make([]int, 0, 9)
	}
	s.barrier1 = NewBarrier(workers, nil)
	s.barrier2 = NewBarrier(workers, s.finishFrame)
	return s
}

// Workers returns the pool size.
func (s *Scheduler) Workers() int {
	return s.numWorkers
}

// Signal returns the frame completion signal the input side waits on.
func (s *Scheduler) Signal() *FrameSignal {
	return s.signal
}

// Frame returns the number of frames dispatched so far.
func (s *Scheduler) Frame() uint64 {
	return s.frame
}

// World returns the simulation the scheduler drives.
func (s *Scheduler) World() *World {
	return s.world
}

// Start launches the worker goroutines.
func (s *Scheduler) Start() {
	if s.running {
		return
	}

	s.workChan = make(chan frameJob, s.numWorkers)
	s.doneChan = make(chan FrameStats, 1)
	s.stopChan = make(chan struct{})
	s.running = true

	for i := 0; i < s.numWorkers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop signals all workers to exit and waits for them. Must not be called
// while Step is running.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}

	close(s.stopChan)
	s.wg.Wait()
	close(s.workChan)
	close(s.doneChan)
	s.running = false
}

// Step runs one full frame and blocks until it has completed.
func (s *Scheduler) Step() FrameStats {
	if !s.running {
		s.Start()
	}

	s.frame++
	s.started = time.Now()
	job := frameJob{frame: s.frame, merge: new(sync.Once)}
	for w := 0; w < s.numWorkers; w++ {
		s.workChan <- job
	}
	return <-s.doneChan
}

// Snapshot copies the current positions and colors. Only valid between
// Step calls.
func (s *Scheduler) Snapshot(dst []ParticleView) []ParticleView {
	return s.world.State.Snapshot(dst)
}

// worker runs in a goroutine, executing one frame per job until stopped.
func (s *Scheduler) worker(id int) {
	defer s.wg.Done()
	var frame uint64
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker fault", "worker", id, "frame", frame, "panic", r)
			panic(r)
		}
	}()

	for {
		select {
		case <-s.stopChan:
			return
		case job, ok := <-s.workChan:
			if !ok {
				return
			}
			frame = job.frame
			s.runFrame(id, job)
		}
	}
}

func (s *Scheduler) runFrame(id int, job frameJob) {
	st := &s.stats[id]
	*st = workerStats{neighbors: st.neighbors[:0]}

	job.merge.Do(s.merge)

	t0 := time.Now()
	n := s.world.State.Len()
	lo, hi := partition(n, s.numWorkers, id)
	s.integrateRange(st, lo, hi)
	st.integrate = time.Since(t0)

	s.barrier1.Wait()

	t1 := time.Now()
	lo, hi = partition(s.world.Grid.NumCells(), s.numWorkers, id)
	s.collideRange(st, lo, hi)
	st.collide = time.Since(t1)

	s.barrier2.Wait()
}

// partition returns worker id's contiguous share of [0, n).
func partition(n, workers, id int) (lo, hi int) {
	chunk := (n + workers - 1) / workers
	lo = id * chunk
	hi = lo + chunk
	if lo > n {
		lo = n
	}
	if hi > n {
		hi = n
	}
	return lo, hi
}

func (s *Scheduler) merge() {
	t := time.Now()
	s.drain = s.world.Ingest.DrainInto(s.world.State)
	s.mergeTime = time.Since(t)
}

// integrateRange advances, reflects and re-buckets particles [lo, hi).
func (s *Scheduler) integrateRange(st *workerStats, lo, hi int) {
	w := s.world
	ps := w.State.Particles
	for i := lo; i < hi; i++ {
		p := &ps[i]
		p.Pos = p.Pos.Add(p.Vel)
		if w.Resolver.Reflect(p) {
			st.reflections++
		}

		cell := w.Grid.CellIndex(p.Pos)
		old := int(p.cell)
		if old == cell {
			continue
		}
		if old == noCell {
			w.Locks.Lock(cell)
			w.Grid.Insert(i, cell)
			w.Locks.Unlock(cell)
			st.inserted++
		} else {
			w.Locks.LockPair(old, cell)
			found := w.Grid.Remove(i, old)
			if found {
				w.Grid.Insert(i, cell)
			}
			w.Locks.UnlockPair(old, cell)
			if !found {
				panic(fmt.Sprintf("systems: particle %d missing from recorded cell %d", i, old))
			}
			st.rebuckets++
		}
		p.cell = int32(cell)
	}
}

// collideRange resolves every cell pair owned by cells [lo, hi). A
// neighbor is only visited when its flat index is >= the owning cell, so each
// unordered cell pair is scanned exactly once per frame.
func (s *Scheduler) collideRange(st *workerStats, lo, hi int) {
	w := s.world
	ps := w.State.Particles
	grid := w.Grid
	for cell := lo; cell < hi; cell++ {
		// The grid is not modified between the barriers, so an unlocked
		// emptiness check is safe.
		if len(grid.Occupants(cell)) == 0 {
			continue
		}
		st.neighbors = grid.Neighbors(cell, st.neighbors[:0])
		for _, nb := range st.neighbors {
			if nb < cell || len(grid.Occupants(nb)) == 0 {
				continue
			}
			w.Locks.LockPair(cell, nb)
			var c, d int
			if nb == cell {
				c, d = w.Resolver.ResolveCell(ps, grid.Occupants(cell))
			} else {
				c, d = w.Resolver.ResolveCells(ps, grid.Occupants(cell), grid.Occupants(nb))
			}
			w.Locks.UnlockPair(cell, nb)
			st.collisions += int64(c)
			st.degenerate += int64(d)
		}
	}
}

// finishFrame runs as barrier 2's action, on the last worker to arrive.
func (s *Scheduler) finishFrame() {
	fs := FrameStats{
		Frame:      s.frame,
		Particles:  s.world.State.Len(),
		Spawned:    s.drain.Spawned,
		Overridden: s.drain.Overridden,
		Rejected:   s.drain.Rejected,
		Merge:      s.mergeTime,
	}
	for i := range s.stats {
		st := &s.stats[i]
		fs.Inserted += st.inserted
		fs.Rebuckets += st.rebuckets
		fs.Reflections += st.reflections
		fs.Collisions += st.collisions
		fs.Degenerate += st.degenerate
		fs.Integrate = max(fs.Integrate, st.integrate)
		fs.Collide = max(fs.Collide, st.collide)
	}
	fs.Total = time.Since(s.started)

	s.signal.publish(fs.Frame)
	s.doneChan <- fs
}
