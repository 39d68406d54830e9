package signalbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetChildClearChildRoundTrip(t *testing.T) {
	SetChild(1234)
	assert.EqualValues(t, 1234, childPID.Load())

	ClearChild()
	assert.EqualValues(t, noChild, childPID.Load())
}

func TestRegisterIsIdempotent(t *testing.T) {
	registered.Store(false)
	Register()
	assert.True(t, registered.Load())
	Register() // second call must not panic or double-install
	assert.True(t, registered.Load())
}
