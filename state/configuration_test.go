package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleConfig() *Configuration {
	c := New(1, 1)
	c.GlbClk = 3
	c.Actors[0] = ActorState{Phase: 1, ExecPos: 1, Firings: []Firing{{Remaining: 2, Phase: 0}}}
	c.Channels[0] = ChannelState{Tokens: 4, Space: 0, SrcRatePos: 1, DstRatePos: 0}
	return c
}

func TestConfigurationEqualReflexive(t *testing.T) {
	c := sampleConfig()
	assert.True(t, c.Equal(c.Clone()))
}

func TestConfigurationEqualDetectsDifference(t *testing.T) {
	c := sampleConfig()
	other := c.Clone()
	other.GlbClk++
	assert.False(t, c.Equal(other))
}

func TestConfigurationHashIsPureAndCollidesOnEqual(t *testing.T) {
	c := sampleConfig()
	other := c.Clone()
	assert.Equal(t, c.Hash(1024), other.Hash(1024))
	assert.Equal(t, c.Hash(1024), c.Hash(1024))
}

func TestConfigurationHashWithinTableBounds(t *testing.T) {
	c := sampleConfig()
	h := c.Hash(1024)
	assert.Less(t, h, uint64(1024))
}

func TestConfigurationCloneIsIndependent(t *testing.T) {
	c := sampleConfig()
	clone := c.Clone()
	clone.Actors[0].Firings[0].Remaining = 99
	assert.NotEqual(t, c.Actors[0].Firings[0].Remaining, clone.Actors[0].Firings[0].Remaining)
}
