package pathfind

import (
	"container/heap"
	"math"
)

// DistanceFunc selects the heuristic distance function for TraceAStar, per
// spec.md section 4.7.
type DistanceFunc uint8

const (
	DistManhattan DistanceFunc = iota
	DistChebyshev
	DistDiagonal
	DistEuclidean
)

// Point is one node of a traced path or, with AllPoints set, one visited
// node of the search (w carries its g-cost).
type Point struct {
	X, Y int
	Z    int8
	W    int64
}

// TraceOptions configures TraceAStar. All fields are optional; the zero
// value of each selects the default from spec.md section 4.7's table,
// applied in NewTraceOptions.
type TraceOptions struct {
	AccuracyX, AccuracyY, AccuracyZ int

	AllowDiagonalMove bool

	CostLimit         int64
	CostTurn          int64
	CostMoveStraight  int64
	CostMoveDiagonal  int64

	HeuristicDistance  DistanceFunc
	HeuristicStraight  int64
	HeuristicDiagonal  int64

	Left, Top, Right, Bottom int

	AllPoints bool

	Walkable, Ignore uint64
}

// NewTraceOptions returns defaults for a world of the given dimensions;
// cost_move_diagonal and heuristic_diagonal default to their straight
// counterpart, and right/bottom default to the world extent.
func NewTraceOptions(widthTiles, heightTiles int) TraceOptions {
	return TraceOptions{
		CostLimit:         math.MaxInt64,
		CostTurn:          1,
		CostMoveStraight:  1,
		CostMoveDiagonal:  1,
		HeuristicDistance: DistDiagonal,
		HeuristicStraight: 5,
		HeuristicDiagonal: 5,
		Right:             widthTiles,
		Bottom:            heightTiles,
	}
}

type position struct {
	x, y int
	z    int8
}

// scoredPosition is one entry of the search frontier: f-val, g-val,
// arrival direction, position, and the predecessor it was reached from.
type scoredPosition struct {
	fval, gval int64
	dir        uint8
	pos        position
	src        position
}

// frontier is a min-heap on fval, matching the reversed Ord the original
// implementation gives ScoredPosition to turn a max-heap into a min-heap.
type frontier []scoredPosition

func (f frontier) Len() int            { return len(f) }
func (f frontier) Less(i, j int) bool  { return f[i].fval < f[j].fval }
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(scoredPosition)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

func distance(fn DistanceFunc, dx, dy int64, direct, diagonal int64) int64 {
	switch fn {
	case DistManhattan:
		return (dx + dy) * direct
	case DistChebyshev:
		return maxI64(dx, dy) * direct
	case DistEuclidean:
		return int64(math.Sqrt(float64(dx*dx+dy*dy))) * direct
	default: // DistDiagonal
		return direct*(dx+dy) + (diagonal-2*direct)*minI64(dx, dy)
	}
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func absInt(v int) int64 {
	if v < 0 {
		return int64(-v)
	}
	return int64(v)
}

// stepCacheKey caches one (position, direction) step test across repeated
// A* expansions of the same node.
type stepCacheKey struct {
	x, y int
	z    int8
	dir  uint8
}

// TraceAStar searches for the lowest-cost path from (sx,sy,sz) to
// (dx,dy,dz), entering the start facing sdir. With AllPoints it returns
// every visited node instead of a reconstructed path.
//
// Path reconstruction includes the destination node explicitly: best_pos
// itself is emitted in addition to each back_path predecessor, so a path
// of n steps yields n+1 points (both endpoints included), matching the
// scenario tables in spec.md section 8.
func TraceAStar(o *Oracle, sx, sy int, sz int8, sdir uint8, dx, dy int, dz int8, opts TraceOptions) ([]Point, error) {
	var open frontier
	heap.Init(&open)

	visited := make(map[position]int64)
	backPath := make(map[position]position)
	cache := make(map[stepCacheKey]struct {
		z  int8
		ok bool
	})

	hFunc := func(p position) int64 {
		ddx := absInt(dx - p.x)
		ddy := absInt(dy - p.y)
		return distance(opts.HeuristicDistance, ddx, ddy, opts.HeuristicStraight, opts.HeuristicDiagonal)
	}

	checkStep := func(x, y int, z int8, dir uint8) (int8, bool, error) {
		tx, ty := MoveTo(x, y, dir)
		if tx < opts.Left || tx >= opts.Right || ty < opts.Top || ty >= opts.Bottom {
			return 0, false, nil
		}
		key := stepCacheKey{x, y, z, dir}
		if c, ok := cache[key]; ok {
			return c.z, c.ok, nil
		}
		rz, rok, err := o.TestStepSingle(x, y, z, dir)
		if err != nil {
			return 0, false, err
		}
		cache[key] = struct {
			z  int8
			ok bool
		}{rz, rok}
		return rz, rok, nil
	}

	start := position{sx, sy, sz}
	startG := int64(0)
	heap.Push(&open, scoredPosition{fval: startG + hFunc(start), gval: startG, dir: sdir, pos: start, src: position{-1, -1, -1}})

	var points []Point
	bestDist := int64(math.MaxInt64)
	var bestPos position
	haveBest := false

	for open.Len() > 0 {
		curr := heap.Pop(&open).(scoredPosition)

		if _, ok := visited[curr.pos]; ok {
			continue
		}
		visited[curr.pos] = curr.gval
		backPath[curr.pos] = curr.src

		ddx := absInt(dx - curr.pos.x)
		ddy := absInt(dy - curr.pos.y)
		ddz := absInt(int(dz) - int(curr.pos.z))
		dmax := maxI64(ddx, maxI64(ddy, ddz))

		if dmax < bestDist {
			bestPos = curr.pos
			bestDist = dmax
			haveBest = true
		}

		if ddx <= int64(opts.AccuracyX) && ddy <= int64(opts.AccuracyY) && ddz <= int64(opts.AccuracyZ) {
			break
		}

		type candidate struct {
			dir uint8
			z   int8
			ok  bool
		}
		cardinals := [4]candidate{}
		for i, d := range [4]uint8{DirN, DirE, DirS, DirW} {
			z, ok, err := checkStep(curr.pos.x, curr.pos.y, curr.pos.z, d)
			if err != nil {
				// A failed probe counts as "not walkable" so the search still
				// ends with its best-effort path.
				o.log.Debug("cardinal step probe failed, treating as not walkable", "x", curr.pos.x, "y", curr.pos.y, "z", curr.pos.z, "dir", d, "err", err)
			}
			cardinals[i] = candidate{d, z, ok}
		}

		var steps [8]candidate
		steps[0], steps[2], steps[4], steps[6] = cardinals[0], cardinals[1], cardinals[2], cardinals[3]

		if opts.AllowDiagonalMove {
			diag := func(a, b candidate, dir uint8) candidate {
				if !a.ok || !b.ok {
					return candidate{dir: dir}
				}
				z, ok, err := checkStep(curr.pos.x, curr.pos.y, curr.pos.z, dir)
				if err != nil {
					// Diagonal probes degrade to "not walkable" rather than aborting
					// the search, like the cardinal loop above; log so a real
					// asset-decode failure here doesn't vanish silently.
					o.log.Debug("diagonal step probe failed, treating as not walkable", "x", curr.pos.x, "y", curr.pos.y, "z", curr.pos.z, "dir", dir, "err", err)
				}
				return candidate{dir, z, ok}
			}
			steps[1] = diag(cardinals[0], cardinals[1], DirNE)
			steps[3] = diag(cardinals[2], cardinals[1], DirSE)
			steps[5] = diag(cardinals[2], cardinals[3], DirSW)
			steps[7] = diag(cardinals[0], cardinals[3], DirNW)
		} else {
			for _, i := range [4]int{1, 3, 5, 7} {
				steps[i] = candidate{dir: uint8(i)}
			}
		}

		for _, s := range steps {
			if !s.ok {
				continue
			}
			destX, destY := MoveTo(curr.pos.x, curr.pos.y, s.dir)
			destPos := position{destX, destY, s.z}
			if _, ok := visited[destPos]; ok {
				continue
			}

			base := opts.CostMoveStraight
			if s.dir&1 != 0 {
				base = opts.CostMoveDiagonal
			}
			turn := int64(0)
			if s.dir != curr.dir {
				turn = opts.CostTurn
			}
			destG := curr.gval + base + turn
			if destG > opts.CostLimit {
				continue
			}

			destF := destG + hFunc(destPos)
			heap.Push(&open, scoredPosition{fval: destF, gval: destG, dir: s.dir, pos: destPos, src: curr.pos})
		}
	}

	if opts.AllPoints {
		for p, g := range visited {
			points = append(points, Point{X: p.x, Y: p.y, Z: p.z, W: g})
		}
		return points, nil
	}

	if !haveBest {
		return nil, nil
	}

	var rev []Point
	curr := bestPos
	for {
		rev = append(rev, Point{X: curr.x, Y: curr.y, Z: curr.z})
		if curr == start {
			break
		}
		curr = backPath[curr]
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev, nil
}
