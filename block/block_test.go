package block

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssembleBlockDeterministic(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	a := AssembleBlockAt(1, GenesisHash, "leader-1", ts)
	b := AssembleBlockAt(1, GenesisHash, "leader-1", ts)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Hash().IsZero())
	assert.True(t, a.IsGenesis())
}

func TestAssembleBlockHashCoversHeader(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	base := AssembleBlockAt(1, GenesisHash, "leader-1", ts)

	cases := map[string]*Block{
		"slot":      AssembleBlockAt(2, GenesisHash, "leader-1", ts),
		"parent":    AssembleBlockAt(1, base.Hash(), "leader-1", ts),
		"leader":    AssembleBlockAt(1, GenesisHash, "leader-2", ts),
		"timestamp": AssembleBlockAt(1, GenesisHash, "leader-1", ts.Add(time.Nanosecond)),
	}
	for name, other := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotEqual(t, base.Hash(), other.Hash())
		})
	}
}

func TestChildReferencesParent(t *testing.T) {
	parent := AssembleBlock(1, GenesisHash, "leader-1")
	child := AssembleBlock(2, parent.Hash(), "leader-1")

	assert.Equal(t, parent.Hash(), child.ParentHash())
	assert.False(t, child.IsGenesis())
	assert.Equal(t, child.BlockHash.String(), child.HashString())
	assert.Len(t, child.Hash().Short(), 19)
}
