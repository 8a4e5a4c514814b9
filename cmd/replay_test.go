package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mezonai/forktips/jsonx"
	"github.com/mezonai/forktips/logx"
	"github.com/mezonai/forktips/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logx.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func setReplayFlags(t *testing.T, chain, cfg string) {
	t.Helper()
	dir := t.TempDir()
	replayChainPath = filepath.Join(dir, "chain.yml")
	replayConfigPath = filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(replayChainPath, []byte(chain), 0o644))
	require.NoError(t, os.WriteFile(replayConfigPath, []byte(cfg), 0o644))
	replayConcurrent = false
	replayProduceOn = ""
	replayProduceN = 3
	replayLeader = "local"
	replayHold = false
}

const testChain = `
chain:
  blocks:
    - { name: genesis, slot: 0, leader: a }
    - { name: a1, parent: genesis, slot: 1, leader: a }
    - { name: b1, parent: genesis, slot: 1, leader: b }
`

const testConfig = `
[registry]
verify_tips = true
`

func TestRunReplayPrintsTips(t *testing.T) {
	setReplayFlags(t, testChain, testConfig)

	var out bytes.Buffer
	require.NoError(t, runReplay(context.Background(), &out))

	var tips []replay.TipView
	require.NoError(t, jsonx.Unmarshal(out.Bytes(), &tips))
	require.Len(t, tips, 2)
	assert.ElementsMatch(t, []string{"a1", "b1"}, []string{tips[0].Name, tips[1].Name})
}

func TestRunReplayProduce(t *testing.T) {
	setReplayFlags(t, testChain, testConfig)
	replayConcurrent = true
	replayProduceOn = "b1"
	replayProduceN = 2

	var out bytes.Buffer
	require.NoError(t, runReplay(context.Background(), &out))

	var tips []replay.TipView
	require.NoError(t, jsonx.Unmarshal(out.Bytes(), &tips))
	require.Len(t, tips, 2)

	var slots []uint64
	for _, tip := range tips {
		slots = append(slots, tip.Slot)
	}
	assert.ElementsMatch(t, []uint64{1, 3}, slots)
}

func TestRunReplayBadChain(t *testing.T) {
	setReplayFlags(t, "chain:\n  blocks: []\n", testConfig)
	err := runReplay(context.Background(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "no blocks")
}
