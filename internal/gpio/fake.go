package gpio

import "errors"

// FakeReader is a test double that returns scripted pin levels.
type FakeReader struct {
	// Samples contains scripted pin levels to return.
	// Each call to Read() consumes the next sample.
	Samples []bool

	// Errors scripts per-call failures: call n fails with Errors[n] when
	// that entry is non-nil. Calls past the script succeed.
	Errors []error

	// ReadError, if set, will be returned by every Read()
	ReadError error

	// Closed tracks if Close was called
	Closed bool

	// calls counts Read() invocations
	calls int
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples ...bool) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample or error.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (bool, error) {
	call := f.calls
	f.calls++

	if f.ReadError != nil {
		return false, f.ReadError
	}
	if call < len(f.Errors) && f.Errors[call] != nil {
		return false, f.Errors[call]
	}

	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}
	if call >= len(f.Samples) {
		call = len(f.Samples) - 1
	}
	return f.Samples[call], nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.calls = 0
	f.Closed = false
}
