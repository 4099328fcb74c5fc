package ir

// RegisterFile is the default TranslationContext: a fixed name/width
// mapping for ARM32's architectural registers and PSRs, paired with a
// TempAllocator scoped to one translation.
type RegisterFile struct {
	mode  Mode
	temps *TempAllocator
}

// NewRegisterFile returns a context for translating one instruction (or a
// run of instructions sharing one temp-id space) in the given mode.
func NewRegisterFile(mode Mode) *RegisterFile {
	return &RegisterFile{mode: mode, temps: NewTempAllocator()}
}

// RegVar returns the width-32 Var handle for reg. R0-R12, SP, LR, PC, CPSR,
// SPSR, and FPSCR are all plain 32-bit variables named after the register.
func (r *RegisterFile) RegVar(reg RegID) Var {
	return Var{Name: reg.String(), Width: 32}
}

// OperatingMode reports the mode this context was constructed with.
func (r *RegisterFile) OperatingMode() Mode { return r.mode }

// Temp mints a fresh temporary from this context's allocator.
func (r *RegisterFile) Temp(width int) Var { return r.temps.New(width) }

// ForInstruction returns a new context sharing this one's mode but with its
// own fresh TempAllocator, so translating a batch of instructions never
// collides temp ids across instructions.
func (r *RegisterFile) ForInstruction() *RegisterFile {
	return NewRegisterFile(r.mode)
}

var _ TranslationContext = (*RegisterFile)(nil)
