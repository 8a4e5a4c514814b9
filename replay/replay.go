package replay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mezonai/forktips/block"
	"github.com/mezonai/forktips/branch"
	"github.com/mezonai/forktips/config"
	"github.com/mezonai/forktips/exception"
	"github.com/mezonai/forktips/logx"
	"github.com/mezonai/forktips/mem_blockstore"
	"github.com/pkg/errors"
)

// TipView is one tracked branch as printed by the CLI.
type TipView struct {
	Name        string    `json:"name"`
	Hash        string    `json:"hash"`
	Parent      string    `json:"parent"`
	Slot        uint64    `json:"slot"`
	Leader      string    `json:"leader"`
	LastUpdated time.Time `json:"last_updated"`
}

type namedBlock struct {
	name string
	blk  *block.Block
}

// Replayer feeds a chain fixture into a registry, parents before children.
type Replayer struct {
	registry *branch.Registry
	store    *mem_blockstore.MemBlockStore
	levels   [][]namedBlock
	byName   map[string]*block.Block
}

// New assembles the fixture's blocks with timestamp ts and groups them by depth.
func New(registry *branch.Registry, store *mem_blockstore.MemBlockStore, chain *config.ChainConfig, ts time.Time) (*Replayer, error) {
	if err := chain.Validate(); err != nil {
		return nil, err
	}

	children := make(map[string][]config.ChainBlock)
	var current []config.ChainBlock
	for _, b := range chain.Blocks {
		if b.Parent == "" {
			current = append(current, b)
		} else {
			children[b.Parent] = append(children[b.Parent], b)
		}
	}

	r := &Replayer{
		registry: registry,
		store:    store,
		byName:   make(map[string]*block.Block, len(chain.Blocks)),
	}
	seen := make(map[block.Hash]string, len(chain.Blocks))
	for len(current) > 0 {
		level := make([]namedBlock, 0, len(current))
		var next []config.ChainBlock
		for _, cb := range current {
			prevHash := block.GenesisHash
			if cb.Parent != "" {
				parent := r.byName[cb.Parent]
				if cb.Slot <= parent.Slot {
					return nil, errors.Errorf("block %q at slot %d is not after its parent %q at slot %d", cb.Name, cb.Slot, cb.Parent, parent.Slot)
				}
				prevHash = parent.Hash()
			}
			blk := block.AssembleBlockAt(cb.Slot, prevHash, cb.Leader, ts)
			if other, exists := seen[blk.Hash()]; exists {
				return nil, errors.Errorf("blocks %q and %q have identical headers", other, cb.Name)
			}
			seen[blk.Hash()] = cb.Name
			r.byName[cb.Name] = blk
			level = append(level, namedBlock{name: cb.Name, blk: blk})
			next = append(next, children[cb.Name]...)
		}
		r.levels = append(r.levels, level)
		current = next
	}
	return r, nil
}

// Block returns the fixture block called name.
func (r *Replayer) Block(name string) (*block.Block, bool) {
	blk, ok := r.byName[name]
	return blk, ok
}

// Run offers every block to the registry. With concurrent set, blocks of the same
// depth are offered from separate goroutines.
func (r *Replayer) Run(ctx context.Context, concurrent bool) error {
	for depth, level := range r.levels {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "replay interrupted at depth %d", depth)
		}
		if !concurrent {
			for _, nb := range level {
				r.place(nb)
			}
			continue
		}

		var wg sync.WaitGroup
		for _, nb := range level {
			wg.Add(1)
			exception.SafeGo("replay-"+nb.name, func() {
				defer wg.Done()
				r.place(nb)
			})
		}
		wg.Wait()
	}

	if err := r.registry.VerifyDistinctTips(); err != nil {
		return errors.Wrap(err, "registry invariant broken after replay")
	}
	logx.Info("REPLAY", fmt.Sprintf("Replayed %d blocks into %d branches", len(r.byName), r.registry.Len()))
	return nil
}

func (r *Replayer) place(nb namedBlock) {
	r.store.AddBlock(nb.name, nb.blk)
	r.registry.ApplyOrCreate(nb.blk)
}

// Produce extends the branch currently headed by tipName with count new blocks by
// leader, going through the branch handle directly rather than the registry.
func (r *Replayer) Produce(ctx context.Context, tipName, leader string, count int) (*branch.Branch, error) {
	head, ok := r.byName[tipName]
	if !ok {
		return nil, errors.Errorf("unknown block %q", tipName)
	}
	mine, ok := r.registry.Find(head.Hash())
	if !ok {
		return nil, errors.Errorf("block %q is not a branch tip", tipName)
	}

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return mine, errors.Wrapf(err, "production interrupted after %d blocks", i)
		}
		tip, ok := mine.Tip().(*block.Block)
		if !ok {
			return mine, errors.Errorf("branch tip %s is not an assembled block", mine.Tip().Hash().Short())
		}
		next := block.AssembleBlock(tip.Slot+1, tip.Hash(), leader)
		r.store.AddBlock("", next)
		mine.Update(next)
	}
	logx.Info("REPLAY", fmt.Sprintf("Produced %d blocks on top of %s", count, tipName))
	return mine, nil
}

// Tips describes every tracked branch in registry order.
func (r *Replayer) Tips() []TipView {
	branches := r.registry.Branches()
	views := make([]TipView, 0, len(branches))
	for _, b := range branches {
		tip := b.Tip()
		view := TipView{
			Name:        r.store.NameOf(tip.Hash()),
			Hash:        tip.Hash().String(),
			Parent:      r.store.NameOf(tip.ParentHash()),
			LastUpdated: b.LastUpdated(),
		}
		if tip.ParentHash().IsZero() {
			view.Parent = ""
		}
		if blk, ok := tip.(*block.Block); ok {
			view.Slot = blk.Slot
			view.Leader = blk.LeaderID
		}
		views = append(views, view)
	}
	return views
}
