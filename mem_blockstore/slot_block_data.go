package mem_blockstore

import (
	"github.com/mezonai/forktips/block"
)

type SlotBlockData struct {
	primary   *block.Block                // the block that first arrives for the slot
	competing map[block.Hash]*block.Block // later blocks of the same slot, i.e. other forks
}

func NewSlotBlockData() *SlotBlockData {
	return &SlotBlockData{
		primary:   nil,
		competing: make(map[block.Hash]*block.Block),
	}
}

func (s *SlotBlockData) AddBlock(blk *block.Block) {
	if s.primary != nil && s.primary.Hash() != blk.Hash() {
		s.competing[blk.Hash()] = blk
		return
	}
	s.primary = blk
}

func (s *SlotBlockData) GetPrimaryBlock() *block.Block {
	return s.primary
}

// IsContested reports whether more than one fork produced a block for the slot.
func (s *SlotBlockData) IsContested() bool {
	return len(s.competing) > 0
}

func (s *SlotBlockData) Len() int {
	if s.primary == nil {
		return 0
	}
	return 1 + len(s.competing)
}

func (s *SlotBlockData) GetBlock(blockHash block.Hash) *block.Block {
	if s.primary != nil && s.primary.Hash() == blockHash {
		return s.primary
	}
	return s.competing[blockHash]
}
