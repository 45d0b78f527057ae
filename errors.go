package ultima

import "errors"

// ErrInvariant marks a data error discovered while decoding an asset file
// (a size not a multiple of its record size, an unresolvable format): a
// programmer/data error that aborts the load of that record rather than
// guessing at its layout.
var ErrInvariant = errors.New("ultima: asset invariant violated")
