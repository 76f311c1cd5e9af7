package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Category", "Accuracy", "Correct"}
	rows := [][]string{
		{"fast_attack", "97.50%", "12"},
		{"charged_move", "8.00%", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Category     Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "fast_attack    97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "charged_move    8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "N"}, [][]string{{"ポケモン", "1"}, {"Abra", "2"}}, nil)
	if lines[1] != "ポケモン 1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "Abra     2" {
		t.Fatalf("unexpected padded row: %q", lines[2])
	}
}
