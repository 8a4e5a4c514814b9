package branch

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mezonai/forktips/block"
	"github.com/mezonai/forktips/events"
	"github.com/mezonai/forktips/logx"
	"github.com/mezonai/forktips/monitoring"
	"golang.org/x/sync/errgroup"
)

type RegistryConfig struct {
	// FanoutLimit bounds the goroutines trying a candidate against the tips.
	// Zero means one goroutine per tracked branch.
	FanoutLimit int
	// VerifyTips checks for duplicate tips after every ApplyOrCreate and panics
	// on a violation.
	VerifyTips bool
}

func DefaultRegistryConfig() *RegistryConfig {
	return &RegistryConfig{
		FanoutLimit: 0,
		VerifyTips:  false,
	}
}

// Registry tracks every known fork tip. ApplyOrCreate calls are serialized by the
// registry lock, which keeps tips pairwise distinct.
type Registry struct {
	mu       sync.RWMutex
	branches []*Branch
	config   *RegistryConfig
	eventBus *events.EventBus
}

// NewRegistry creates an empty registry. eventBus may be nil.
func NewRegistry(eventBus *events.EventBus, config *RegistryConfig) *Registry {
	if config == nil {
		config = DefaultRegistryConfig()
	}
	return &Registry{
		config:   config,
		eventBus: eventBus,
	}
}

// Add appends a branch without checking its tip against the others.
func (r *Registry) Add(b *Branch) {
	b.attachEventBus(r.eventBus)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(b)
}

func (r *Registry) add(b *Branch) {
	r.branches = append(r.branches, b)
	monitoring.SetBranchCount(len(r.branches))
}

// ApplyOrCreate places a validated candidate: the branch whose tip is the
// candidate's parent is advanced and returned, otherwise a new branch headed by
// the candidate is added and returned.
func (r *Registry) ApplyOrCreate(candidate block.Ref) *Branch {
	start := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if b := r.apply(candidate); b != nil {
		logx.Debug("REGISTRY", fmt.Sprintf("Extended branch | tip=%s | parent=%s", candidate.Hash().Short(), candidate.ParentHash().Short()))
		r.verifyLocked()
		monitoring.RecordApply(monitoring.ApplyExtended, time.Since(start))
		if r.eventBus != nil {
			r.eventBus.Publish(events.NewBranchExtended(candidate))
		}
		return b.Clone()
	}

	b := newWithEventBus(candidate, r.eventBus)
	r.add(b)
	logx.Info("REGISTRY", fmt.Sprintf("Created branch | tip=%s | parent=%s | branches=%d", candidate.Hash().Short(), candidate.ParentHash().Short(), len(r.branches)))
	r.verifyLocked()
	monitoring.RecordApply(monitoring.ApplyCreated, time.Since(start))
	if r.eventBus != nil {
		r.eventBus.Publish(events.NewBranchCreated(candidate, len(r.branches)))
	}
	return b.Clone()
}

// apply races TryExtend over every branch. Distinct tips mean at most one can win.
// Must be called with the registry lock held for writing.
func (r *Registry) apply(candidate block.Ref) *Branch {
	if len(r.branches) == 0 {
		return nil
	}

	var (
		g       errgroup.Group
		winner  atomic.Pointer[Branch]
		winners atomic.Int32
	)
	if r.config.FanoutLimit > 0 {
		g.SetLimit(r.config.FanoutLimit)
	}
	for _, b := range r.branches {
		g.Go(func() error {
			if b.TryExtend(candidate) {
				winners.Add(1)
				winner.CompareAndSwap(nil, b)
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := winners.Load(); n > 1 {
		logx.Error("REGISTRY", fmt.Sprintf("Candidate extended %d branches | tip=%s", n, candidate.Hash().Short()))
	}
	return winner.Load()
}

func (r *Registry) verifyLocked() {
	if !r.config.VerifyTips {
		return
	}
	if err := r.verifyDistinctTipsLocked(); err != nil {
		logx.Error("REGISTRY", err.Error())
		panic(err)
	}
}

// Snapshot returns the current tip of every branch, in insertion order. Tips are
// read one by one, so a direct Update racing the snapshot may or may not be seen.
func (r *Registry) Snapshot() []block.Ref {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tips := make([]block.Ref, len(r.branches))
	for i, b := range r.branches {
		tips[i] = b.Tip()
	}
	return tips
}

// Branches returns handles on every tracked branch, in insertion order.
func (r *Registry) Branches() []*Branch {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Branch, len(r.branches))
	for i, b := range r.branches {
		out[i] = b.Clone()
	}
	return out
}

// Find returns the branch currently headed by hash.
func (r *Registry) Find(hash block.Hash) (*Branch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.branches {
		if b.Tip().Hash() == hash {
			return b.Clone(), true
		}
	}
	return nil, false
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.branches)
}

// VerifyDistinctTips returns a *DuplicateTipError if two branches share a tip.
func (r *Registry) VerifyDistinctTips() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.verifyDistinctTipsLocked()
}

func (r *Registry) verifyDistinctTipsLocked() error {
	seen := make(map[block.Hash]int, len(r.branches))
	for i, b := range r.branches {
		hash := b.Tip().Hash()
		if first, exists := seen[hash]; exists {
			return &DuplicateTipError{Hash: hash, First: first, Second: i}
		}
		seen[hash] = i
	}
	return nil
}
