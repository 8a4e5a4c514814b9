package branch

import (
	"sync"
	"time"

	"github.com/mezonai/forktips/block"
	"github.com/mezonai/forktips/events"
	"github.com/mezonai/forktips/monitoring"
)

// tipData is the mutable head of one fork.
type tipData struct {
	reference   block.Ref
	lastUpdated time.Time
}

func newTipData(reference block.Ref) tipData {
	return tipData{
		reference:   reference,
		lastUpdated: time.Now(),
	}
}

// update replaces the tip and returns the previous one.
func (d *tipData) update(reference block.Ref) block.Ref {
	old := d.reference
	d.reference = reference
	d.lastUpdated = time.Now()
	return old
}

func (d *tipData) continueWith(candidate block.Ref) bool {
	if d.reference.Hash() != candidate.ParentHash() {
		return false
	}
	d.update(candidate)
	return true
}

type branchCell struct {
	mu       sync.RWMutex
	data     tipData
	eventBus *events.EventBus
}

// Branch is a handle on one fork tip. Handles are cheap to clone and every clone
// observes the same tip; the tip lock is private to the branch and is never held
// together with anything but the registry lock taken before it.
type Branch struct {
	cell *branchCell
}

func New(reference block.Ref) *Branch {
	return &Branch{
		cell: &branchCell{data: newTipData(reference)},
	}
}

func newWithEventBus(reference block.Ref, eventBus *events.EventBus) *Branch {
	b := New(reference)
	b.cell.eventBus = eventBus
	return b
}

// Tip returns the block the branch currently points to.
func (b *Branch) Tip() block.Ref {
	b.cell.mu.RLock()
	defer b.cell.mu.RUnlock()
	return b.cell.data.reference
}

// LastUpdated returns when the tip was last replaced.
func (b *Branch) LastUpdated() time.Time {
	b.cell.mu.RLock()
	defer b.cell.mu.RUnlock()
	return b.cell.data.lastUpdated
}

// Update unconditionally moves the tip to reference and returns the previous tip.
// This is the fast path for a producer extending its own branch; it does not
// touch the registry.
func (b *Branch) Update(reference block.Ref) block.Ref {
	b.cell.mu.Lock()
	old := b.cell.data.update(reference)
	eventBus := b.cell.eventBus
	b.cell.mu.Unlock()

	monitoring.IncreaseDirectUpdateCount()
	if eventBus != nil {
		eventBus.Publish(events.NewBranchUpdated(reference, old))
	}
	return old
}

// TryExtend moves the tip to candidate if candidate's parent is the current tip.
// Comparison and update happen under one exclusive lock.
func (b *Branch) TryExtend(candidate block.Ref) bool {
	b.cell.mu.Lock()
	defer b.cell.mu.Unlock()
	return b.cell.data.continueWith(candidate)
}

func (b *Branch) Clone() *Branch {
	return &Branch{cell: b.cell}
}

// SameAs reports whether both handles share the same tip.
func (b *Branch) SameAs(other *Branch) bool {
	return other != nil && b.cell == other.cell
}

// attachEventBus sets the bus used by Update if the branch has none yet.
func (b *Branch) attachEventBus(eventBus *events.EventBus) {
	if eventBus == nil {
		return
	}
	b.cell.mu.Lock()
	defer b.cell.mu.Unlock()
	if b.cell.eventBus == nil {
		b.cell.eventBus = eventBus
	}
}
