package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// dateFlag is a pflag.Value for day-granular dates. Analysis commands take
// --today overrides through it so runs replay deterministically; due and
// target dates use it too. Parsed dates sit at midnight UTC, matching how
// the engine anchors every schedule.
type dateFlag struct {
	t   time.Time
	set bool
}

var _ pflag.Value = (*dateFlag)(nil)

func (f *dateFlag) String() string {
	if !f.set {
		return ""
	}
	return f.t.Format(dateLayout)
}

func (f *dateFlag) Set(s string) error {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	f.t = t
	f.set = true
	return nil
}

func (f *dateFlag) Type() string { return "date" }

// Ptr returns the parsed date, or nil when the flag was never set.
func (f *dateFlag) Ptr() *time.Time {
	if !f.set {
		return nil
	}
	t := f.t
	return &t
}

// Time returns the parsed date, zero when the flag was never set.
func (f *dateFlag) Time() time.Time { return f.t }
