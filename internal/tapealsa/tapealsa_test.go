package tapealsa

import (
	"bytes"
	"testing"

	"github.com/ausocean/utils/logging"
)

// TestRecord exercises the real capture path; not all testing
// environments have an ALSA device available, so any open/negotiate
// failure is treated as a skip rather than a failure.
func TestRecord(t *testing.T) {
	l := logging.New(logging.Debug, &bytes.Buffer{}, true)

	samples, rate, err := Record(0.1, l)
	if err != nil {
		t.Skip(err)
	}
	if rate <= 0 {
		t.Errorf("negotiated rate = %d, want > 0", rate)
	}
	if len(samples) == 0 {
		t.Error("expected some captured samples")
	}
}
