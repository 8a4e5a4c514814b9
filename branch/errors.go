package branch

import (
	"fmt"

	"github.com/mezonai/forktips/block"
)

// DuplicateTipError reports two tracked branches headed by the same block. It
// means some mutation bypassed the registry and is never recoverable.
type DuplicateTipError struct {
	Hash   block.Hash
	First  int
	Second int
}

func (e *DuplicateTipError) Error() string {
	return fmt.Sprintf("duplicate tip hash %s at branches %d and %d", e.Hash, e.First, e.Second)
}
