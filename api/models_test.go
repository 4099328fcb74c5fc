package api_test

import (
	"testing"

	"github.com/lookbusy1344/arm-lifter/api"
	"github.com/lookbusy1344/arm-lifter/arm32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireInstruction_ToInstructionInfo_RegisterOperands(t *testing.T) {
	wire := api.WireInstruction{
		Address:   0x8000,
		ByteLen:   4,
		Opcode:    "ADD",
		Condition: "AL",
		SetFlags:  true,
		Operands: []api.WireOperand{
			{Kind: "reg", Reg: "R0"},
			{Kind: "reg", Reg: "R1"},
			{Kind: "imm", Imm: 4},
		},
	}

	inst, err := wire.ToInstructionInfo()
	require.NoError(t, err)
	assert.Equal(t, arm32.OpADD, inst.Opcode)
	assert.Equal(t, arm32.CondAL, inst.Condition)
	assert.True(t, inst.SetFlags)
	require.Len(t, inst.Operands, 3)
	assert.Equal(t, arm32.OperRegister, inst.Operands[0].Kind)
	assert.Equal(t, arm32.OperImmediate, inst.Operands[2].Kind)
	assert.Equal(t, int64(4), inst.Operands[2].Imm)
}

func TestWireInstruction_ToInstructionInfo_UnknownOpcode(t *testing.T) {
	wire := api.WireInstruction{Opcode: "NOTANOPCODE"}

	_, err := wire.ToInstructionInfo()
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrInvalidWireField)
}

func TestWireInstruction_ToInstructionInfo_UnknownRegister(t *testing.T) {
	wire := api.WireInstruction{
		Opcode:   "MOV",
		Operands: []api.WireOperand{{Kind: "reg", Reg: "R99"}},
	}

	_, err := wire.ToInstructionInfo()
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrInvalidWireField)
}

func TestToInstructionInfos_ReportsOffendingIndex(t *testing.T) {
	wire := []api.WireInstruction{
		{Opcode: "MOV", Operands: []api.WireOperand{{Kind: "reg", Reg: "R0"}}},
		{Opcode: "GARBAGE"},
	}

	_, err := api.ToInstructionInfos(wire)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instruction 1")
}
