// Package progress provides the stderr progress reporter shared by the
// sdkcheck command-line tools. Stdout stays free for diagnostics and
// machine-readable output.
package progress

import (
	"fmt"
	"os"
	"time"
)

// Progress prints messages with an elapsed-time prefix. Safe for
// concurrent use; each line is a single write.
type Progress struct {
	start   time.Time
	verbose bool
}

func New(verbose bool) *Progress {
	return &Progress{start: time.Now(), verbose: verbose}
}

// Log prints a message with an elapsed-time prefix.
func (p *Progress) Log(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[%6.2fs] %s\n", time.Since(p.start).Seconds(), fmt.Sprintf(format, args...))
}

// Verbose prints only when verbose mode is enabled.
func (p *Progress) Verbose(format string, args ...any) {
	if p.verbose {
		p.Log(format, args...)
	}
}
