package jsonx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tipView struct {
	Name string `json:"name"`
	Slot uint64 `json:"slot"`
}

func TestMarshalMatchesStdlibTags(t *testing.T) {
	data, err := Marshal(tipView{Name: "a3", Slot: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a3","slot":3}`, string(data))

	var out tipView
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, tipView{Name: "a3", Slot: 3}, out)
}

func TestWriteIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIndented(&buf, []tipView{{Name: "b3", Slot: 3}}))
	assert.JSONEq(t, `[{"name":"b3","slot":3}]`, buf.String())
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("}\n]\n")))

	pretty, err := MarshalIndent(tipView{Name: "c1", Slot: 1}, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"name\": \"c1\"")
}
