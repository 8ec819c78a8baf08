package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoActorYAML = `
bounds:
  maxStackSize: 1048576
  maxHashSize: 1048576
  throughputBound: 2.0
actors:
  - name: A
    kind: plain
    execTimes: [1]
    ports:
      - name: out0
        dir: out
        rates: [2]
  - name: B
    kind: plain
    execTimes: [1]
    ports:
      - name: in0
        dir: in
        rates: [2]
channels:
  - src: {actor: A, port: out0}
    dst: {actor: B, port: in0}
    initialTokens: 2
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAssemblesGraphAndBounds(t *testing.T) {
	path := writeFixture(t, twoActorYAML)

	g, bounds, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, g.NumActors())
	assert.Equal(t, 1, g.NumChannels())
	assert.Equal(t, 1048576, bounds.MaxStackSize)
	assert.InDelta(t, 2.0, bounds.ThroughputBound, 1e-9)
}

func TestLoadRejectsUnknownChannelEndpoint(t *testing.T) {
	path := writeFixture(t, `
actors:
  - name: A
    kind: plain
channels:
  - src: {actor: A, port: missing}
    dst: {actor: A, port: missing}
`)
	_, _, err := Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoadDefaultsThroughputBoundToInfinity(t *testing.T) {
	path := writeFixture(t, `
actors:
  - name: A
    kind: plain
`)
	_, bounds, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, bounds.ThroughputBound > 1e300)
}
