package ir

import "testing"

func TestRegisterFile_RegVarStable(t *testing.T) {
	rf := NewRegisterFile(ModeARM)
	a := rf.RegVar(R0)
	b := rf.RegVar(R0)
	if a != b {
		t.Errorf("RegVar(R0) not stable: %v vs %v", a, b)
	}
	if a.Width != 32 {
		t.Errorf("expected width 32, got %d", a.Width)
	}
}

func TestRegisterFile_TempsDistinct(t *testing.T) {
	rf := NewRegisterFile(ModeARM)
	t1 := rf.Temp(32)
	t2 := rf.Temp(32)
	if t1 == t2 {
		t.Errorf("expected distinct temps, got %v twice", t1)
	}
}

func TestRegisterFile_ForInstructionResetsTemps(t *testing.T) {
	rf := NewRegisterFile(ModeThumb)
	first := rf.Temp(32)
	next := rf.ForInstruction()
	second := next.Temp(32)
	if first != second {
		t.Errorf("expected fresh allocator to restart numbering: %v vs %v", first, second)
	}
	if next.OperatingMode() != ModeThumb {
		t.Errorf("expected mode to carry over, got %v", next.OperatingMode())
	}
}
