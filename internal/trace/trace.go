// Package trace implements the core's verbose adaptive-decision tracing,
// gated by the QUILL_VM_TRACE environment variable. When the variable
// is unset the engine runs silently.
package trace

import (
	"log"
	"os"
)

// Tracer writes bracketed-tag trace lines ([DEBUG]/[INFO]) through a
// per-engine log.Logger.
type Tracer struct {
	enabled bool
	quiet   bool
	logger  *log.Logger
}

// New returns a Tracer. Tracing is enabled whenever QUILL_VM_TRACE is
// set, even to an empty value.
func New(engineID string) *Tracer {
	_, enabled := os.LookupEnv("QUILL_VM_TRACE")
	return &Tracer{
		enabled: enabled,
		logger:  log.New(os.Stderr, "[quill "+engineID+"] ", log.Ltime),
	}
}

// SetQuiet force-suppresses tracing regardless of the environment,
// backing the engine's clean-output mode.
func (t *Tracer) SetQuiet(quiet bool) { t.quiet = quiet }

func (t *Tracer) Enabled() bool { return t != nil && t.enabled && !t.quiet }

func (t *Tracer) Debugf(format string, args ...any) {
	if t.Enabled() {
		t.logger.Printf("[DEBUG] "+format, args...)
	}
}

func (t *Tracer) Infof(format string, args ...any) {
	if t.Enabled() {
		t.logger.Printf("[INFO] "+format, args...)
	}
}
