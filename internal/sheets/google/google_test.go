package google

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sanjaii1/grow-financial-goals-sub000/internal/core"
	ports "github.com/sanjaii1/grow-financial-goals-sub000/internal/sheets"
)

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Transactions", 2025, "2025 Transactions"},
		{"  Transactions  ", 2025, "2025 Transactions"},
		{"2024 Transactions", 2025, "2024 Transactions"},
		{"", 2025, ""},
		{"1899 Ledger", 2025, "2025 1899 Ledger"},
		{"2025Ledger", 2025, "2025 2025Ledger"},
	}

	for i, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("case %d: yearPrefixedName(%q, %d) = %q, want %q", i, tt.base, tt.year, got, tt.want)
		}
	}
}

func TestRowValues(t *testing.T) {
	row := ports.Row{
		Kind:        "expense",
		Date:        core.NewDate(2025, 1, 15),
		Description: "Groceries",
		Amount:      core.Money{Cents: 1250},
		Category:    "Food",
	}

	values := rowValues(row)
	if len(values) != 5 {
		t.Fatalf("rowValues() returned %d cells, want 5", len(values))
	}
	if values[0] != "2025-01-15" {
		t.Errorf("date cell = %v, want 2025-01-15", values[0])
	}
	if values[1] != "expense" {
		t.Errorf("kind cell = %v, want expense", values[1])
	}
	if values[2] != "Groceries" {
		t.Errorf("description cell = %v, want Groceries", values[2])
	}
	if values[3] != 12.50 {
		t.Errorf("amount cell = %v, want 12.50", values[3])
	}
	if values[4] != "Food" {
		t.Errorf("category cell = %v, want Food", values[4])
	}
}

func TestReadCredential(t *testing.T) {
	tmpDir := t.TempDir()
	credFile := filepath.Join(tmpDir, "client.json")
	if err := os.WriteFile(credFile, []byte(`{"from":"file"}`), 0600); err != nil {
		t.Fatalf("write credential file: %v", err)
	}

	t.Run("inline wins over file", func(t *testing.T) {
		data, err := readCredential(`{"from":"inline"}`, credFile)
		if err != nil {
			t.Fatalf("readCredential() error = %v", err)
		}
		if string(data) != `{"from":"inline"}` {
			t.Errorf("readCredential() = %s, want inline JSON", data)
		}
	})

	t.Run("falls back to file", func(t *testing.T) {
		data, err := readCredential("", credFile)
		if err != nil {
			t.Fatalf("readCredential() error = %v", err)
		}
		if string(data) != `{"from":"file"}` {
			t.Errorf("readCredential() = %s, want file contents", data)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := readCredential("", filepath.Join(tmpDir, "nope.json")); err == nil {
			t.Error("readCredential() error = nil, want read error")
		}
	})

	t.Run("nothing configured is an error", func(t *testing.T) {
		if _, err := readCredential("", ""); err == nil {
			t.Error("readCredential() error = nil, want error")
		}
	})
}
