package events

import (
	"time"

	"github.com/mezonai/forktips/block"
)

// EventType is an enum-like string type for branch registry events
type EventType string

const (
	EventBranchCreated  EventType = "BranchCreated"
	EventBranchExtended EventType = "BranchExtended"
	EventBranchUpdated  EventType = "BranchUpdated"
)

// BranchEvent represents a change to one of the tracked fork tips
type BranchEvent interface {
	Type() EventType
	Timestamp() time.Time
	TipHash() block.Hash
	ParentHash() block.Hash
}

type branchEvent struct {
	eventType  EventType
	tipHash    block.Hash
	parentHash block.Hash
	timestamp  time.Time
}

func (e *branchEvent) Type() EventType {
	return e.eventType
}

func (e *branchEvent) Timestamp() time.Time {
	return e.timestamp
}

func (e *branchEvent) TipHash() block.Hash {
	return e.tipHash
}

func (e *branchEvent) ParentHash() block.Hash {
	return e.parentHash
}

// BranchCreated is published when a candidate matched no tip and started a new branch.
type BranchCreated struct {
	branchEvent
	branchCount int
}

func NewBranchCreated(tip block.Ref, branchCount int) *BranchCreated {
	return &BranchCreated{
		branchEvent: branchEvent{
			eventType:  EventBranchCreated,
			tipHash:    tip.Hash(),
			parentHash: tip.ParentHash(),
			timestamp:  time.Now(),
		},
		branchCount: branchCount,
	}
}

// BranchCount is the registry size right after the branch was added.
func (e *BranchCreated) BranchCount() int {
	return e.branchCount
}

// BranchExtended is published when a candidate advanced an existing tip through the registry.
type BranchExtended struct {
	branchEvent
}

func NewBranchExtended(tip block.Ref) *BranchExtended {
	return &BranchExtended{
		branchEvent: branchEvent{
			eventType:  EventBranchExtended,
			tipHash:    tip.Hash(),
			parentHash: tip.ParentHash(),
			timestamp:  time.Now(),
		},
	}
}

// BranchUpdated is published when a tip was replaced directly on its handle.
type BranchUpdated struct {
	branchEvent
	previousHash block.Hash
}

func NewBranchUpdated(tip block.Ref, previous block.Ref) *BranchUpdated {
	return &BranchUpdated{
		branchEvent: branchEvent{
			eventType:  EventBranchUpdated,
			tipHash:    tip.Hash(),
			parentHash: tip.ParentHash(),
			timestamp:  time.Now(),
		},
		previousHash: previous.Hash(),
	}
}

func (e *BranchUpdated) PreviousHash() block.Hash {
	return e.previousHash
}
