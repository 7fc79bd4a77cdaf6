package engine

import "testing"

func TestPackPtrLen(t *testing.T) {
	tests := []struct {
		ptr, length uint32
	}{
		{0, 0},
		{1, 0},
		{0, 1},
		{0x10000, 42},
		{0xFFFFFFFF, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		packed := packPtrLen(tt.ptr, tt.length)
		ptr, length := unpackPtrLen(packed)
		if ptr != tt.ptr || length != tt.length {
			t.Errorf("unpack(pack(%d, %d)) = (%d, %d)", tt.ptr, tt.length, ptr, length)
		}
	}
}

func TestRequiredExports(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range requiredExports {
		if seen[name] {
			t.Errorf("duplicate required export %q", name)
		}
		seen[name] = true
	}
	for _, name := range []string{ExportParseSettings, ExportFormat, ExportLastError} {
		if !seen[name] {
			t.Errorf("%q should be required", name)
		}
	}
}
