package world

import (
	"errors"

	"github.com/kelindar/uopath"
)

// ErrUnknownWorld is returned when a request names a world id not probed
// (and found present) at construction.
var ErrUnknownWorld = errors.New("world: unknown or absent world id")

// ErrInvariant marks a data error discovered while decoding an asset file
// (a size not a multiple of its record size, an unresolvable UOP hash): a
// programmer/data error that aborts the load of that world rather than
// partially populating it. Re-exports ultima.ErrInvariant so errors.Is
// matches it from either package.
var ErrInvariant = ultima.ErrInvariant
