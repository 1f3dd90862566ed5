package coredef

import (
	"testing"

	"github.com/lancelot2112/soccore/isa"
)

// TestPowerPCMixedStream exercises spec.md §8 scenario 1: a mixed
// 32-bit/16-bit instruction stream disassembles to two instructions,
// the 32-bit "addi" followed by the 16-bit VLE "se_b".
func TestPowerPCMixedStream(t *testing.T) {
	m, err := PowerPC()
	if err != nil {
		t.Fatalf("PowerPC(): %v", err)
	}

	d := isa.NewDisassembly(m)
	bytes := []byte{0x38, 0x00, 0x00, 0x00, 0xE8, 0x00}
	listing, err := d.DisassembleFrom(bytes, 0x1000)
	if err != nil {
		t.Fatalf("DisassembleFrom: %v", err)
	}
	if len(listing) != 2 {
		t.Fatalf("expected 2 instructions, got %d: %+v", len(listing), listing)
	}

	addi := listing[0]
	if addi.Address != 0x1000 || addi.Mnemonic != "addi" {
		t.Errorf("addi: got address=0x%X mnemonic=%q", addi.Address, addi.Mnemonic)
	}
	wantOperands := []string{"r0", "r0", "0x0000"}
	if len(addi.Operands) != len(wantOperands) {
		t.Fatalf("addi operands: got %v want %v", addi.Operands, wantOperands)
	}
	for i, want := range wantOperands {
		if addi.Operands[i] != want {
			t.Errorf("addi operand[%d] = %q, want %q", i, addi.Operands[i], want)
		}
	}
	if addi.Display != "r0, r0, 0x0000" {
		t.Errorf("addi display = %q, want %q", addi.Display, "r0, r0, 0x0000")
	}

	seB := listing[1]
	if seB.Address != 0x1004 || seB.Mnemonic != "se_b" {
		t.Errorf("se_b: got address=0x%X mnemonic=%q", seB.Address, seB.Mnemonic)
	}
	if seB.Display != "0x000" {
		t.Errorf("se_b display = %q, want %q", seB.Display, "0x000")
	}
}
