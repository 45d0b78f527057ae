// Package httpapi is the JSON/HTTP facade over a world.Model: a single
// tagged-union request/response pair dispatched by net/http, per spec.md
// section 6.2.
package httpapi

import (
	"github.com/kelindar/uopath/pathfind"
	"github.com/kelindar/uopath/world"
)

// Item mirrors world.TopLevelItem on the wire.
type Item struct {
	World     uint8  `json:"world"`
	Serial    uint32 `json:"serial"`
	Graphic   uint32 `json:"graphic"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Z         int8   `json:"z"`
	Timestamp uint64 `json:"timestamp,omitempty"`
}

func itemFromModel(it world.TopLevelItem) Item {
	return Item{World: it.World, Serial: it.Serial, Graphic: it.Graphic, X: it.X, Y: it.Y, Z: it.Z, Timestamp: it.Timestamp}
}

func (i Item) toModel() world.TopLevelItem {
	return world.TopLevelItem{World: i.World, Serial: i.Serial, Graphic: i.Graphic, X: i.X, Y: i.Y, Z: i.Z, Timestamp: i.Timestamp}
}

// Point mirrors pathfind.Point on the wire.
type Point struct {
	X int   `json:"x"`
	Y int   `json:"y"`
	Z int8  `json:"z"`
	W int64 `json:"w"`
}

func pointFromPathfind(p pathfind.Point) Point {
	return Point{X: p.X, Y: p.Y, Z: p.Z, W: p.W}
}

func (p Point) toPathfind() pathfind.Point {
	return pathfind.Point{X: p.X, Y: p.Y, Z: p.Z, W: p.W}
}

// TraceOptions mirrors pathfind.TraceOptions on the wire. Every field is a
// pointer so absence (nil) selects the core's default, per spec.md section
// 6.2: "All fields are optional; absence selects the default."
type TraceOptions struct {
	AccuracyX *int `json:"accuracy_x,omitempty"`
	AccuracyY *int `json:"accuracy_y,omitempty"`
	AccuracyZ *int `json:"accuracy_z,omitempty"`

	AllowDiagonalMove *bool `json:"allow_diagonal_move,omitempty"`

	CostLimit        *int64 `json:"cost_limit,omitempty"`
	CostTurn         *int64 `json:"cost_turn,omitempty"`
	CostMoveStraight *int64 `json:"cost_move_straight,omitempty"`
	CostMoveDiagonal *int64 `json:"cost_move_diagonal,omitempty"`

	HeuristicDistance *string `json:"heuristic_distance,omitempty"`
	HeuristicStraight *int64  `json:"heuristic_straight,omitempty"`
	HeuristicDiagonal *int64  `json:"heuristic_diagonal,omitempty"`

	Left   *int `json:"left,omitempty"`
	Top    *int `json:"top,omitempty"`
	Right  *int `json:"right,omitempty"`
	Bottom *int `json:"bottom,omitempty"`

	AllPoints *bool `json:"all_points,omitempty"`

	Walkable *uint64 `json:"walkable,omitempty"`
	Ignore   *uint64 `json:"ignore,omitempty"`
}

var heuristicNames = map[string]pathfind.DistanceFunc{
	"manhattan": pathfind.DistManhattan,
	"chebyshev": pathfind.DistChebyshev,
	"diagonal":  pathfind.DistDiagonal,
	"euclidean": pathfind.DistEuclidean,
}

// resolve overlays the wire options onto defaults computed for a world of
// the given extent.
func (o *TraceOptions) resolve(widthTiles, heightTiles int) pathfind.TraceOptions {
	opts := pathfind.NewTraceOptions(widthTiles, heightTiles)
	if o == nil {
		return opts
	}

	setInt(&opts.AccuracyX, o.AccuracyX)
	setInt(&opts.AccuracyY, o.AccuracyY)
	setInt(&opts.AccuracyZ, o.AccuracyZ)
	if o.AllowDiagonalMove != nil {
		opts.AllowDiagonalMove = *o.AllowDiagonalMove
	}
	setI64(&opts.CostLimit, o.CostLimit)
	setI64(&opts.CostTurn, o.CostTurn)
	setI64(&opts.CostMoveStraight, o.CostMoveStraight)
	if o.CostMoveDiagonal != nil {
		opts.CostMoveDiagonal = *o.CostMoveDiagonal
	} else {
		opts.CostMoveDiagonal = opts.CostMoveStraight
	}
	if o.HeuristicDistance != nil {
		if fn, ok := heuristicNames[*o.HeuristicDistance]; ok {
			opts.HeuristicDistance = fn
		}
	}
	setI64(&opts.HeuristicStraight, o.HeuristicStraight)
	if o.HeuristicDiagonal != nil {
		opts.HeuristicDiagonal = *o.HeuristicDiagonal
	} else {
		opts.HeuristicDiagonal = opts.HeuristicStraight
	}
	setInt(&opts.Left, o.Left)
	setInt(&opts.Top, o.Top)
	setInt(&opts.Right, o.Right)
	setInt(&opts.Bottom, o.Bottom)
	if o.AllPoints != nil {
		opts.AllPoints = *o.AllPoints
	}
	if o.Walkable != nil {
		opts.Walkable = *o.Walkable
	}
	if o.Ignore != nil {
		opts.Ignore = *o.Ignore
	}
	return opts
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setI64(dst *int64, src *int64) {
	if src != nil {
		*dst = *src
	}
}

// Request is the tagged-union request body, dispatched on Kind.
type Request struct {
	Kind string `json:"kind"`

	FileName string `json:"file_name,omitempty"`

	Items   []Item   `json:"items,omitempty"`
	Serials []uint32 `json:"serials,omitempty"`

	World *uint8 `json:"world,omitempty"`

	Left   *int `json:"left,omitempty"`
	Top    *int `json:"top,omitempty"`
	Right  *int `json:"right,omitempty"`
	Bottom *int `json:"bottom,omitempty"`

	SX *int  `json:"sx,omitempty"`
	SY *int  `json:"sy,omitempty"`
	SZ *int8 `json:"sz,omitempty"`
	DX *int  `json:"dx,omitempty"`
	DY *int  `json:"dy,omitempty"`
	DZ *int8 `json:"dz,omitempty"`

	Options *TraceOptions `json:"options,omitempty"`

	Color  *int32  `json:"color,omitempty"`
	Points []Point `json:"points,omitempty"`
}

// Response is the tagged-union reply, mirroring ApiResponse in
// original_source's http/server.rs.
type Response struct {
	Kind string `json:"kind"`

	Error string `json:"error,omitempty"`

	Items  []Item  `json:"items,omitempty"`
	Points []Point `json:"points,omitempty"`

	// Image is never populated by Server: RenderArea writes the PNG
	// directly as the HTTP response body instead (see server.go), matching
	// original_source's special-cased RenderReply.
	Image []byte `json:"image,omitempty"`
}

func errorResponse(err error) Response {
	return Response{Kind: "error", Error: err.Error()}
}
