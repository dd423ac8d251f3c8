package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderSequence(t *testing.T) {
	f := NewFakeReader(true, true, false)

	want := []bool{true, true, false}
	for i, w := range want {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("sample %d: got %v, want %v", i, got, w)
		}
	}

	// Exhausted samples repeat the last value.
	for i := 0; i < 3; i++ {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("repeat %d: unexpected error: %v", i, err)
		}
		if got != false {
			t.Errorf("repeat %d: got %v, want false", i, got)
		}
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader()
	if _, err := f.Read(); err == nil {
		t.Error("expected error when no samples configured")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader(true)
	f.ReadError = errors.New("boom")
	if _, err := f.Read(); err == nil {
		t.Error("expected configured read error")
	}
}

func TestFakeReaderScriptedErrors(t *testing.T) {
	f := NewFakeReader(true, false, false)
	f.Errors = []error{nil, errors.New("boom"), nil}

	if got, err := f.Read(); err != nil || got != true {
		t.Fatalf("call 0 = (%v, %v), want (true, nil)", got, err)
	}
	if _, err := f.Read(); err == nil {
		t.Fatal("call 1: expected scripted error")
	}
	// The failing call consumes its slot; the script then succeeds.
	if got, err := f.Read(); err != nil || got != false {
		t.Fatalf("call 2 = (%v, %v), want (false, nil)", got, err)
	}
	if got, err := f.Read(); err != nil || got != false {
		t.Fatalf("call 3 = (%v, %v), want (false, nil)", got, err)
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewFakeReader(true, false)
	f.Read()
	f.Read()
	f.Close()

	f.Reset()
	if f.Closed {
		t.Error("Reset should clear Closed")
	}
	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != true {
		t.Error("Reset should rewind to the first sample")
	}
}

func TestLineOffset(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"GPIO2", 2, false},
		{"GPIO17", 17, false},
		{"GPIO27", 27, false},
		{"gpio4", 4, false}, // case-insensitive
		{"GPIO0", 0, true},  // reserved for HAT EEPROM
		{"GPIO1", 0, true},
		{"GPIO28", 0, true},
		{"D18", 0, true},
		{"GPIO", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := LineOffset(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("LineOffset(%q): expected error, got %d", tt.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("LineOffset(%q): unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("LineOffset(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}
