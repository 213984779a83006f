package grid

import "github.com/lixenwraith/orbit-nav/navigation"

// Weighted step costs: cardinal = 10, diagonal = 14 (≈10√2)
const (
	CostCardinal    = 10
	CostDiagonal    = 14
	costUnreachable = 1<<30 - 1
)

// StepCost returns the weighted cost of one step in d
func StepCost(d navigation.Direction) int {
	if d.Diagonal() {
		return CostDiagonal
	}
	return CostCardinal
}

// WallChecker returns true if a cell blocks movement
type WallChecker func(x, y int) bool

// --- Min-heap for Dijkstra ---

type heapEntry struct {
	idx  int // Flat grid index (y*width + x)
	dist int
}

type minHeap []heapEntry

func (h *minHeap) push(e heapEntry) {
	*h = append(*h, e)
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if (*h)[parent].dist <= (*h)[i].dist {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *minHeap) pop() heapEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && (*h)[right].dist < (*h)[left].dist {
			smallest = right
		}
		if (*h)[i].dist <= (*h)[smallest].dist {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}

// FlowField holds weighted distances to one target over the whole map
// It is the global-knowledge baseline the local navigator is measured against
type FlowField struct {
	Width, Height int
	Target        navigation.Point
	Valid         bool

	distances []int
	heap      minHeap
}

// NewFlowField creates an empty field for the given dimensions
func NewFlowField(width, height int) *FlowField {
	size := width * height
	return &FlowField{
		Width:     width,
		Height:    height,
		distances: make([]int, size),
		heap:      make(minHeap, 0, size/4),
	}
}

// Compute runs Dijkstra outward from target; diagonal steps may cut corners,
// matching what an Agent is allowed to do
func (f *FlowField) Compute(target navigation.Point, isBlocked WallChecker) {
	f.Valid = false
	if target.X < 0 || target.Y < 0 || target.X >= f.Width || target.Y >= f.Height {
		return
	}

	w := f.Width
	for i := range f.distances {
		f.distances[i] = costUnreachable
	}

	targetIdx := target.Y*w + target.X
	f.distances[targetIdx] = 0
	f.heap = f.heap[:0]
	f.heap.push(heapEntry{idx: targetIdx, dist: 0})

	for len(f.heap) > 0 {
		entry := f.heap.pop()
		if entry.dist > f.distances[entry.idx] {
			continue // Stale entry
		}

		cx, cy := entry.idx%w, entry.idx/w
		for _, d := range navigation.Directions {
			nx, ny := cx+d.Dx(), cy+d.Dy()
			if nx < 0 || ny < 0 || nx >= f.Width || ny >= f.Height || isBlocked(nx, ny) {
				continue
			}
			nIdx := ny*w + nx
			if nd := entry.dist + StepCost(d); nd < f.distances[nIdx] {
				f.distances[nIdx] = nd
				f.heap.push(heapEntry{idx: nIdx, dist: nd})
			}
		}
	}

	f.Target = target
	f.Valid = true
}

// Distance returns the weighted cost from p to the target, -1 if unreachable
func (f *FlowField) Distance(p navigation.Point) int {
	if !f.Valid || p.X < 0 || p.Y < 0 || p.X >= f.Width || p.Y >= f.Height {
		return -1
	}
	d := f.distances[p.Y*f.Width+p.X]
	if d >= costUnreachable {
		return -1
	}
	return d
}

// ReferenceCost is the optimal weighted cost from start to goal in w, ignoring agents
func ReferenceCost(w *World, start, goal navigation.Point) int {
	f := NewFlowField(w.Width, w.Height)
	f.Compute(goal, w.Blocked)
	return f.Distance(start)
}
