package mem_blockstore

import (
	"testing"
	"time"

	"github.com/mezonai/forktips/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemBlockStore(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	genesis := block.AssembleBlockAt(0, block.GenesisHash, "l1", ts)
	a1 := block.AssembleBlockAt(1, genesis.Hash(), "l1", ts)
	b1 := block.AssembleBlockAt(1, genesis.Hash(), "l2", ts)
	a3 := block.AssembleBlockAt(3, a1.Hash(), "l1", ts)

	mbs := NewMemBlockStore()
	mbs.AddBlock("genesis", genesis)
	mbs.AddBlock("a1", a1)
	mbs.AddBlock("b1", b1)
	mbs.AddBlock("", a3)

	assert.Equal(t, a1, mbs.GetBlock(1, a1.Hash()))
	assert.Equal(t, b1, mbs.GetBlock(1, b1.Hash()))
	assert.Nil(t, mbs.GetBlock(2, a1.Hash()))

	// Slot 2 is empty; the search walks down to slot 1.
	require.Equal(t, a1, mbs.GetParentBlock(a3.Slot, a3.PrevHash))
	assert.Equal(t, genesis, mbs.GetParentBlock(a1.Slot, a1.PrevHash))
	assert.Nil(t, mbs.GetParentBlock(genesis.Slot, genesis.PrevHash))

	assert.Equal(t, "a1", mbs.NameOf(a1.Hash()))
	assert.Equal(t, a3.Hash().Short(), mbs.NameOf(a3.Hash()))
	assert.Equal(t, 1, mbs.ContestedSlots())
}

func TestSlotBlockData(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	a := block.AssembleBlockAt(5, block.GenesisHash, "l1", ts)
	b := block.AssembleBlockAt(5, block.GenesisHash, "l2", ts)

	s := NewSlotBlockData()
	assert.Equal(t, 0, s.Len())

	s.AddBlock(a)
	s.AddBlock(a)
	assert.False(t, s.IsContested())
	assert.Equal(t, a, s.GetPrimaryBlock())

	s.AddBlock(b)
	assert.True(t, s.IsContested())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, b, s.GetBlock(b.Hash()))
	assert.Equal(t, a, s.GetPrimaryBlock())
}
