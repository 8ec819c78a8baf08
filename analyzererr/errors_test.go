package analyzererr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesSentinel(t *testing.T) {
	err := New(Deadlock, "no actor fired")
	assert.True(t, errors.Is(err, ErrDeadlock))
	assert.False(t, errors.Is(err, ErrNonErgodic))
}

func TestErrorWrapUnwraps(t *testing.T) {
	cause := errors.New("zero pivot")
	err := Wrap(SingularSystem, "elimination failed", cause)
	assert.True(t, errors.Is(err, ErrSingularSystem))
	assert.ErrorIs(t, err, cause)
}
