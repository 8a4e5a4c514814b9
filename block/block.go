package block

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/mezonai/forktips/common"
	"github.com/mezonai/forktips/stringutil"
)

type Hash [32]byte

// GenesisHash is the parent hash carried by a genesis block.
var GenesisHash = Hash{}

func (h Hash) String() string {
	return common.EncodeBytesToBase58(h[:])
}

// Short is the abbreviated form used in log lines.
func (h Hash) Short() string {
	return stringutil.ShortenLog(h.String())
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Ref is a validated block as seen by the fork registry. Implementations must be
// immutable once handed out; they are shared by pointer between branches, the
// registry and callers.
type Ref interface {
	Hash() Hash
	ParentHash() Hash
}

type Block struct {
	Slot      uint64    // Slot number
	PrevHash  Hash      // Hash of the parent block
	LeaderID  string    // ID of the leader that produced this block
	Timestamp time.Time // Assembly time
	BlockHash Hash
}

func AssembleBlock(slot uint64, prevHash Hash, leaderID string) *Block {
	return AssembleBlockAt(slot, prevHash, leaderID, time.Now())
}

// AssembleBlockAt is AssembleBlock with a fixed timestamp, so the hash is reproducible.
func AssembleBlockAt(slot uint64, prevHash Hash, leaderID string, ts time.Time) *Block {
	b := &Block{
		Slot:      slot,
		PrevHash:  prevHash,
		LeaderID:  leaderID,
		Timestamp: ts,
	}
	b.BlockHash = b.computeHash()
	return b
}

func (b *Block) computeHash() Hash {
	h := sha256.New()
	// Slot
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, b.Slot)
	h.Write(buf)
	// PrevHash
	h.Write(b.PrevHash[:])
	// LeaderID
	h.Write([]byte(b.LeaderID))
	// Timestamp (UnixNano)
	binary.BigEndian.PutUint64(buf, uint64(b.Timestamp.UnixNano()))
	h.Write(buf)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func (b *Block) Hash() Hash {
	return b.BlockHash
}

func (b *Block) ParentHash() Hash {
	return b.PrevHash
}

func (b *Block) HashString() string {
	return b.BlockHash.String()
}

func (b *Block) IsGenesis() bool {
	return b.PrevHash.IsZero()
}

var _ Ref = (*Block)(nil)
