package branch

import (
	"crypto/sha256"
	"io"
	"os"
	"testing"

	"github.com/mezonai/forktips/block"
	"github.com/mezonai/forktips/logx"
)

func TestMain(m *testing.M) {
	logx.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// ref is a named block: its hash is derived from the name so scenarios can be
// written as "B on top of A".
type ref struct {
	name   string
	hash   block.Hash
	parent block.Hash
}

func (r *ref) Hash() block.Hash       { return r.hash }
func (r *ref) ParentHash() block.Hash { return r.parent }

func h(name string) block.Hash {
	return block.Hash(sha256.Sum256([]byte(name)))
}

func mkRef(name, parent string) *ref {
	return &ref{name: name, hash: h(name), parent: h(parent)}
}

func tipHashes(tips []block.Ref) []block.Hash {
	out := make([]block.Hash, len(tips))
	for i, tip := range tips {
		out[i] = tip.Hash()
	}
	return out
}

func hashesOf(names ...string) []block.Hash {
	out := make([]block.Hash, len(names))
	for i, name := range names {
		out[i] = h(name)
	}
	return out
}
