package mem_blockstore

import (
	"fmt"
	"sync"

	"github.com/mezonai/forktips/block"
	"github.com/mezonai/forktips/logx"
)

// MemBlockStore keeps the blocks offered to the registry, indexed by slot, so tips
// can be resolved back to their headers and fixture names.
type MemBlockStore struct {
	mu        sync.RWMutex
	blockData map[uint64]*SlotBlockData // slot -> SlotBlockData
	names     map[block.Hash]string
}

func NewMemBlockStore() *MemBlockStore {
	return &MemBlockStore{
		blockData: make(map[uint64]*SlotBlockData),
		names:     make(map[block.Hash]string),
	}
}

func (mbs *MemBlockStore) getSlotBlockData(slot uint64) *SlotBlockData {
	slotBlockData, exists := mbs.blockData[slot]
	if !exists {
		slotBlockData = NewSlotBlockData()
		mbs.blockData[slot] = slotBlockData
	}
	return slotBlockData
}

func (mbs *MemBlockStore) AddBlock(name string, blk *block.Block) {
	mbs.mu.Lock()
	defer mbs.mu.Unlock()

	slotBlockData := mbs.getSlotBlockData(blk.Slot)
	slotBlockData.AddBlock(blk)
	if name != "" {
		mbs.names[blk.Hash()] = name
	}

	if slotBlockData.IsContested() {
		logx.Debug("MEM_BLOCKSTORE", fmt.Sprintf("Slot %d has %d competing blocks", blk.Slot, slotBlockData.Len()))
	}
}

func (mbs *MemBlockStore) GetBlock(slot uint64, blockHash block.Hash) *block.Block {
	mbs.mu.RLock()
	defer mbs.mu.RUnlock()

	if slotBlockData, exists := mbs.blockData[slot]; exists {
		return slotBlockData.GetBlock(blockHash)
	}
	return nil
}

// GetParentBlock searches the slots below slot for the block hashed prevHash.
func (mbs *MemBlockStore) GetParentBlock(slot uint64, prevHash block.Hash) *block.Block {
	mbs.mu.RLock()
	defer mbs.mu.RUnlock()

	for s := slot; s > 0; s-- {
		if slotBlockData, exists := mbs.blockData[s-1]; exists {
			if blk := slotBlockData.GetBlock(prevHash); blk != nil {
				return blk
			}
		}
	}
	return nil
}

// NameOf returns the fixture name of a block, or its short hash if it has none.
func (mbs *MemBlockStore) NameOf(hash block.Hash) string {
	mbs.mu.RLock()
	defer mbs.mu.RUnlock()

	if name, ok := mbs.names[hash]; ok {
		return name
	}
	return hash.Short()
}

// ContestedSlots returns the number of slots holding more than one block.
func (mbs *MemBlockStore) ContestedSlots() int {
	mbs.mu.RLock()
	defer mbs.mu.RUnlock()

	n := 0
	for _, slotBlockData := range mbs.blockData {
		if slotBlockData.IsContested() {
			n++
		}
	}
	return n
}
