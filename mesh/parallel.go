package mesh

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Phase names reported to a PhaseTimer.
const (
	PhaseTriangulate = "triangulate"
	PhaseNormals     = "normals"
)

// DefaultParallelThreshold is the smallest cells-per-axis that is sharded.
// Below this, the sequential walk is faster than dispatching to workers.
const DefaultParallelThreshold = 16

// PhaseTimer receives phase boundaries from a triangulation pass.
type PhaseTimer interface {
	StartPhase(phase string)
}

type jobKind uint8

const (
	jobPolygonize jobKind = iota
	jobNormals
)

// workChunk is a contiguous range of slabs or vertices for one worker.
type workChunk struct {
	kind       jobKind
	start, end int
	field      Field
	grid       Grid
	cellSize   float64
}

// Triangulator runs marching cubes on a pool of persistent workers.
// The x axis is split into slabs; each worker writes only its own slabs and
// the slabs are joined in x order, so the result matches Triangulate exactly.
// A Triangulator must not be used from more than one goroutine at a time.
type Triangulator struct {
	numWorkers int
	threshold  int

	// Timer, when set, is told when each phase starts.
	Timer PhaseTimer

	slabs   [][]r3.Vec
	verts   []r3.Vec
	normals []float32

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewTriangulator creates a triangulator. workers <= 0 uses GOMAXPROCS and
// threshold <= 0 uses DefaultParallelThreshold.
func NewTriangulator(workers, threshold int) *Triangulator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	return &Triangulator{
		numWorkers: workers,
		threshold:  threshold,
	}
}

// Workers returns the pool size.
func (t *Triangulator) Workers() int {
	return t.numWorkers
}

// Triangulate extracts the iso surface of f over g.
func (t *Triangulator) Triangulate(f Field, g Grid) (*Buffers, error) {
	if f == nil {
		return nil, ErrNilField
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if t.numWorkers <= 1 || g.CellsPerAxis < t.threshold {
		t.startPhase(PhaseTriangulate)
		cellSize := g.CellSize()
		verts := t.verts[:0]
		for i := 0; i < g.CellsPerAxis; i++ {
			verts = polygonizeSlab(f, g, i, cellSize, verts)
		}
		t.verts = verts

		t.startPhase(PhaseNormals)
		b := newBuffers(verts)
		estimateNormals(f, verts, b.Normals, 0, len(verts))
		return b, nil
	}

	t.startWorkers()

	t.startPhase(PhaseTriangulate)
	n := g.CellsPerAxis
	if cap(t.slabs) < n {
		t.slabs = make([][]r3.Vec, n)
	}
	t.slabs = t.slabs[:n]
	t.dispatch(n, workChunk{kind: jobPolygonize, field: f, grid: g, cellSize: g.CellSize()})

	verts := t.verts[:0]
	for _, slab := range t.slabs {
		verts = append(verts, slab...)
	}
	t.verts = verts

	t.startPhase(PhaseNormals)
	b := newBuffers(verts)
	t.normals = b.Normals
	t.dispatch(len(verts), workChunk{kind: jobNormals, field: f})
	t.normals = nil
	return b, nil
}

// Close stops the worker goroutines. The triangulator remains usable and
// restarts its workers on the next parallel pass.
func (t *Triangulator) Close() {
	if !t.running {
		return
	}
	close(t.stopChan)
	t.wg.Wait()
	close(t.workChan)
	close(t.doneChan)
	t.running = false
}

func (t *Triangulator) startPhase(phase string) {
	if t.Timer != nil {
		t.Timer.StartPhase(phase)
	}
}

// startWorkers launches persistent worker goroutines.
func (t *Triangulator) startWorkers() {
	if t.running {
		return
	}
	t.workChan = make(chan workChunk, t.numWorkers)
	t.doneChan = make(chan struct{}, t.numWorkers)
	t.stopChan = make(chan struct{})
	t.running = true

	for w := 0; w < t.numWorkers; w++ {
		t.wg.Add(1)
		go t.worker()
	}
}

// worker processes chunks until stopped.
func (t *Triangulator) worker() {
	defer t.wg.Done()
	for {
		select {
		case <-t.stopChan:
			return
		case chunk, ok := <-t.workChan:
			if !ok {
				return
			}
			t.run(chunk)
			t.doneChan <- struct{}{}
		}
	}
}

func (t *Triangulator) run(c workChunk) {
	switch c.kind {
	case jobPolygonize:
		for i := c.start; i < c.end; i++ {
			t.slabs[i] = polygonizeSlab(c.field, c.grid, i, c.cellSize, t.slabs[i][:0])
		}
	case jobNormals:
		estimateNormals(c.field, t.verts, t.normals, c.start, c.end)
	}
}

// dispatch splits [0, n) across the workers and waits for every chunk.
func (t *Triangulator) dispatch(n int, proto workChunk) {
	if n == 0 {
		return
	}
	chunkSize := (n + t.numWorkers - 1) / t.numWorkers

	dispatched := 0
	for w := 0; w < t.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		c := proto
		c.start, c.end = start, end
		t.workChan <- c
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-t.doneChan
	}
}
