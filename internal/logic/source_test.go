package logic

import "testing"

func TestNewSources(t *testing.T) {
	tests := []struct {
		backupInput string
		wantPrimary Source
		wantBackup  Source
		wantErr     bool
	}{
		{"B", SourceA, SourceB, false},
		{"A", SourceB, SourceA, false},
		{"b", SourceA, SourceB, false}, // case-insensitive
		{"a", SourceB, SourceA, false},
		{"C", "", "", true},
		{"", "", "", true},
		{"AB", "", "", true},
	}

	for _, tt := range tests {
		s, err := NewSources(tt.backupInput)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewSources(%q): expected error, got %+v", tt.backupInput, s)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewSources(%q): unexpected error: %v", tt.backupInput, err)
			continue
		}
		if s.Primary != tt.wantPrimary {
			t.Errorf("NewSources(%q): primary = %q, want %q", tt.backupInput, s.Primary, tt.wantPrimary)
		}
		if s.Backup != tt.wantBackup {
			t.Errorf("NewSources(%q): backup = %q, want %q", tt.backupInput, s.Backup, tt.wantBackup)
		}
		if s.Primary == s.Backup {
			t.Errorf("NewSources(%q): primary and backup must differ", tt.backupInput)
		}
	}
}

func TestForPin(t *testing.T) {
	s, err := NewSources("B")
	if err != nil {
		t.Fatalf("NewSources: %v", err)
	}

	// Pin high means the primary source is on air.
	if got := s.ForPin(true); got != SourceA {
		t.Errorf("ForPin(true) = %q, want %q", got, SourceA)
	}
	if got := s.ForPin(false); got != SourceB {
		t.Errorf("ForPin(false) = %q, want %q", got, SourceB)
	}

	// With backup on A the mapping flips.
	s, err = NewSources("A")
	if err != nil {
		t.Fatalf("NewSources: %v", err)
	}
	if got := s.ForPin(true); got != SourceB {
		t.Errorf("ForPin(true) = %q, want %q", got, SourceB)
	}
	if got := s.ForPin(false); got != SourceA {
		t.Errorf("ForPin(false) = %q, want %q", got, SourceA)
	}
}
