package scanner

import "github.com/ceyewan/scout/xerrors"

var errInvalidDepth = xerrors.New("scanner: max_depth must be non-negative")
