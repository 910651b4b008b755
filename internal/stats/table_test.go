package stats

import "testing"

func TestRenderTableAlignsColumns(t *testing.T) {
	cols := []tableColumn{
		{Title: "When"},
		{Title: "Rounds", Right: true},
		{Title: "Rate", Right: true},
	}
	rows := [][]string{
		{"2025-03-01 12:00", "7", "71.43%"},
		{"2025-03-01 13:30", "12", "8.33%"},
	}

	lines := renderTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "When             Rounds   Rate" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "2025-03-01 12:00      7 71.43%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "2025-03-01 13:30     12  8.33%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderTableShortRow(t *testing.T) {
	cols := []tableColumn{
		{Title: "When"},
		{Title: "Rounds", Right: true},
	}
	lines := renderTable(cols, [][]string{{"2025-03-01 12:00"}})
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "2025-03-01 12:00       " {
		t.Fatalf("expected a missing cell to pad to the column width, got %q", lines[1])
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if lines := renderTable(nil, nil); lines != nil {
		t.Fatalf("expected no lines, got %v", lines)
	}
}
