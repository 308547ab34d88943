package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockResultThemedCommands(t *testing.T) {
	systems := map[string]int{"shields": 73}

	res := MockResult("damage report", systems)
	assert.Equal(t, "Damage report: Shields at 73%. Radiation levels nominal.", res.Response)

	res = MockResult("scan the nebula", systems)
	assert.Contains(t, res.Response, "Scanning")

	res = MockResult("beam me up", systems)
	assert.Contains(t, res.Response, "Transporter")
}

func TestMockResultDeterministicFiller(t *testing.T) {
	systems := map[string]int{}
	a := MockResult("do something unusual", systems)
	b := MockResult("do something unusual", systems)
	assert.Equal(t, a.Response, b.Response)
	assert.Empty(t, a.Updates)
}
