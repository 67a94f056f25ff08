// Package features turns raw ledger rows into the numeric matrices consumed
// by the trained models. Every transformation here must reproduce the one
// used at training time exactly: same date handling, same encoding, same
// column order.
package features

import "fmt"

// Diagnostics collects non-fatal pipeline warnings (unparseable dates,
// unseen categories). Recoverable conditions never abort an invocation;
// they are batched here and logged once by the caller.
type Diagnostics struct {
	warnings []string
}

// Warnf records one batched warning.
func (d *Diagnostics) Warnf(format string, args ...interface{}) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns the recorded warnings in order.
func (d *Diagnostics) Warnings() []string {
	return d.warnings
}

// Empty reports whether no warnings were recorded.
func (d *Diagnostics) Empty() bool {
	return len(d.warnings) == 0
}
