package table

import "testing"

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"NAME", "ADDRESS"},
		{"3ds", "10.0.0.7"},
		{"switch", "192.168.1.20"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"NAME         ADDRESS",
		"3ds         10.0.0.7",
		"switch  192.168.1.20",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFormatMeasuresCells(t *testing.T) {
	got := Format([][]string{{"日本", "a"}, {"abc", "b"}}, nil)
	if got[0] != "日本  a" || got[1] != "abc   b" {
		t.Fatalf("unexpected wide-rune layout %q", got)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil, nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
