package arm32

import (
	"fmt"

	"github.com/lookbusy1344/arm-lifter/ir"
)

// VFP emitters. Memory traffic (VLDR/VSTR/VPUSH/VPOP) is lifted like any
// other load/store, addressing a dedicated Sn/Dn variable namespace; VFP
// arithmetic is explicitly out of scope and is lowered to a single
// SideEffect(UnsupportedFP) marker instead of modeling IEEE 754 semantics.

// simdVar names the long-lived variable holding a single- or
// double-precision VFP register's value.
func simdVar(reg SIMDReg) ir.Var {
	if reg.Double {
		return ir.Var{Name: fmt.Sprintf("D%d", reg.Index), Width: 64}
	}
	return ir.Var{Name: fmt.Sprintf("S%d", reg.Index), Width: 32}
}

// EmitVFPMem lowers VLDR or VSTR. Operands are (SIMD, Memory).
func EmitVFPMem(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 2 || inst.Operands[1].Kind != OperMemory {
		return liftErr(inst, ErrInvalidOperand, "%s expects (SIMD, Memory)", inst.Opcode)
	}
	reg := inst.Operands[0].SIMD
	v := simdVar(reg)
	mem := TranslateMemOperand(ctxt, inst.Address, inst.Operands[1].Mem)

	if inst.Opcode == OpVLDR {
		b.Put(v, ir.LoadLE(v.Width, mem.AccessAddr))
	} else {
		b.Store(mem.AccessAddr, ir.VarE(v))
	}
	if mem.Writeback != nil {
		mem.Writeback(b)
	}
	return nil
}

// EmitVFPStack lowers VPUSH or VPOP: a block transfer of SIMD registers
// to/from the core stack pointer, word-aligned per register width.
func EmitVFPStack(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	if len(inst.Operands) != 1 || inst.Operands[0].Kind != OperSIMD {
		return liftErr(inst, ErrInvalidOperand, "%s expects a SIMD register list", inst.Opcode)
	}
	list := inst.Operands[0].SIMDList
	if len(list) == 0 {
		return liftErr(inst, ErrInvalidOperand, "%s: empty register list", inst.Opcode)
	}

	var totalBytes uint64
	for _, r := range list {
		if r.Double {
			totalBytes += 8
		} else {
			totalBytes += 4
		}
	}

	sp := ctxt.RegVar(ir.SP)
	isPush := inst.Opcode == OpVPUSH

	if isPush {
		base := ir.Sub(ir.VarE(sp), constW(32, totalBytes))
		b.Put(sp, base)
		offset := uint64(0)
		for _, r := range list {
			v := simdVar(r)
			addr := ir.Add(ir.VarE(sp), constW(32, offset))
			b.Store(addr, ir.VarE(v))
			if r.Double {
				offset += 8
			} else {
				offset += 4
			}
		}
		return nil
	}

	offset := uint64(0)
	for _, r := range list {
		v := simdVar(r)
		addr := ir.Add(ir.VarE(sp), constW(32, offset))
		b.Put(v, ir.LoadLE(v.Width, addr))
		if r.Double {
			offset += 8
		} else {
			offset += 4
		}
	}
	b.Put(sp, ir.Add(ir.VarE(sp), constW(32, totalBytes)))
	return nil
}

// EmitVFPArith lowers any VFP arithmetic/compare/convert opcode
// (VADD/VMUL/VDIV/VMOV/VCMP/VCVT/VMLS) to a single unsupported-FP side
// effect; no register or memory state is modeled.
func EmitVFPArith(b *ir.Builder, ctxt ir.TranslationContext, inst *InstructionInfo) error {
	b.SideEffect(ir.SideEffectUnsupportedFP)
	return nil
}
