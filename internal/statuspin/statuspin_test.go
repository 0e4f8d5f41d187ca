package statuspin

import "testing"

// TestOpen exercises the real GPIO path; this only succeeds on actual
// GPIO-capable hardware, so any initialisation failure is a skip.
func TestOpen(t *testing.T) {
	p, err := Open(17)
	if err != nil {
		t.Skip(err)
	}
	defer p.Close()

	if err := p.Success(); err != nil {
		t.Errorf("Success() error = %v", err)
	}
	if err := p.Failure(); err != nil {
		t.Errorf("Failure() error = %v", err)
	}
}
