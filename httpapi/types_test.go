package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelindar/uopath/pathfind"
)

func TestTraceOptionsResolveDefaults(t *testing.T) {
	var wire *TraceOptions
	opts := wire.resolve(100, 200)

	assert.Equal(t, int64(1), opts.CostTurn)
	assert.Equal(t, int64(1), opts.CostMoveStraight)
	assert.Equal(t, opts.CostMoveStraight, opts.CostMoveDiagonal)
	assert.Equal(t, pathfind.DistDiagonal, opts.HeuristicDistance)
	assert.Equal(t, 100, opts.Right)
	assert.Equal(t, 200, opts.Bottom)
}

func TestTraceOptionsResolveOverrides(t *testing.T) {
	straight := int64(3)
	diag := "euclidean"
	allow := true
	wire := &TraceOptions{
		CostMoveStraight:  &straight,
		HeuristicDistance: &diag,
		AllowDiagonalMove: &allow,
	}

	opts := wire.resolve(50, 50)
	assert.Equal(t, int64(3), opts.CostMoveStraight)
	assert.Equal(t, int64(3), opts.CostMoveDiagonal) // defaults to straight when unset
	assert.Equal(t, pathfind.DistEuclidean, opts.HeuristicDistance)
	assert.True(t, opts.AllowDiagonalMove)
}

func TestItemRoundTrip(t *testing.T) {
	wire := Item{World: 1, Serial: 7, Graphic: 0x14001, X: 500, Y: 500, Z: 0}
	back := itemFromModel(wire.toModel())
	assert.Equal(t, wire, back)
}
