package main

import (
	"bytes"
	"testing"

	"github.com/milk9111/firstperson/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedInput(t *testing.T) {
	s := newScriptedInput(&RunCmd{
		Forward:     true,
		Strafe:      1,
		Jump:        []int{10, 11, 20},
		CrouchFrom:  5,
		CrouchUntil: 8,
	})

	in := s.at(0)
	assert.InDelta(t, 1, in.Move.Len(), 1e-12, "diagonal normalised")
	assert.False(t, in.Crouching)
	assert.False(t, in.Jump)

	assert.True(t, s.at(5).Crouching)
	assert.True(t, s.at(7).Crouching)
	assert.False(t, s.at(8).Crouching)

	assert.True(t, s.at(10).JumpPressed)
	assert.True(t, s.at(11).Jump)
	assert.False(t, s.at(11).JumpPressed, "held, not pressed")
	assert.True(t, s.at(20).JumpPressed)
}

func TestExecuteFlatLevel(t *testing.T) {
	cmd := &RunCmd{Level: "levels/flat.yaml", Ticks: 90, Every: 0, Forward: true, CrouchFrom: -1, CrouchUntil: -1}
	var out bytes.Buffer

	require.NoError(t, cmd.Execute(config.Default(), &out))

	report := out.String()
	assert.Contains(t, report, "level levels/flat.yaml: 1 bodies")
	assert.Contains(t, report, "unset -> standing")
	assert.Contains(t, report, "standing -> moving")
	assert.Contains(t, report, "final:")
}

func TestExecuteRejectsMissingLevel(t *testing.T) {
	cmd := &RunCmd{Level: "levels/nowhere.yaml", Ticks: 1}
	assert.Error(t, cmd.Execute(config.Default(), &bytes.Buffer{}))
}
