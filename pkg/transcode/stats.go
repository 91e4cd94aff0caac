package transcode

import "fmt"

// Stats counts what happened to the input during a run.
type Stats struct {
	Lines       int
	Definitions int
	Sections    int
	Guards      int
	// Skipped counts #define lines no rule recognised.
	Skipped int
	Ignored int
}

func (s Stats) LogContext() []interface{} {
	return []interface{}{
		"lines", s.Lines,
		"definitions", s.Definitions,
		"sections", s.Sections,
		"guards", s.Guards,
		"skipped", s.Skipped,
		"ignored", s.Ignored,
	}
}

// Check returns ErrSkippedDefines if any #define line was dropped.
func (s Stats) Check() error {
	if s.Skipped > 0 {
		return fmt.Errorf("%d skipped: %w", s.Skipped, ErrSkippedDefines)
	}
	return nil
}
