package events

import (
	"testing"
	"time"

	"github.com/mezonai/forktips/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	eventBus := NewEventBus()

	id, eventChan := eventBus.Subscribe()
	require.True(t, eventBus.HasSubscriber(id))
	assert.Equal(t, 1, eventBus.GetTotalSubscriptions())

	genesis := block.AssembleBlock(0, block.GenesisHash, "leader")
	eventBus.Publish(NewBranchCreated(genesis, 1))

	select {
	case received := <-eventChan:
		assert.Equal(t, EventBranchCreated, received.Type())
		assert.Equal(t, genesis.Hash(), received.TipHash())
		created, ok := received.(*BranchCreated)
		require.True(t, ok)
		assert.Equal(t, 1, created.BranchCount())
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for event")
	}

	assert.True(t, eventBus.Unsubscribe(id))
	assert.Equal(t, 0, eventBus.GetTotalSubscriptions())
	assert.False(t, eventBus.Unsubscribe(id))

	_, open := <-eventChan
	assert.False(t, open, "channel should be closed after unsubscribe")
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	eventBus := NewEventBusWithBuffer(1)
	_, eventChan := eventBus.Subscribe()

	a := block.AssembleBlock(1, block.GenesisHash, "leader")
	b := block.AssembleBlock(2, a.Hash(), "leader")

	eventBus.Publish(NewBranchExtended(a))
	eventBus.Publish(NewBranchExtended(b))

	require.Len(t, eventChan, 1)
	assert.Equal(t, a.Hash(), (<-eventChan).TipHash())
}

func TestBranchEvents(t *testing.T) {
	a := block.AssembleBlock(1, block.GenesisHash, "leader")
	b := block.AssembleBlock(2, a.Hash(), "leader")

	extended := NewBranchExtended(b)
	assert.Equal(t, EventBranchExtended, extended.Type())
	assert.Equal(t, a.Hash(), extended.ParentHash())
	assert.False(t, extended.Timestamp().IsZero())

	updated := NewBranchUpdated(b, a)
	assert.Equal(t, EventBranchUpdated, updated.Type())
	assert.Equal(t, b.Hash(), updated.TipHash())
	assert.Equal(t, a.Hash(), updated.PreviousHash())
}

func TestPublishWithoutSubscribers(t *testing.T) {
	eventBus := NewEventBusWithBuffer(0)
	assert.NotPanics(t, func() {
		eventBus.Publish(NewBranchCreated(block.AssembleBlock(0, block.GenesisHash, "leader"), 1))
	})
}
