// Package timeparse turns free-text Korean time, interval, and schedule
// expressions into concrete instants and recurrence descriptors.
//
// Each parser evaluates an explicit ordered list of patterns where the first
// match owns the input. Failure is a sentinel return, never an error: an
// unparseable expression is a rejected user input, not a system fault.
// Several quirks of the numeric patterns (digit-run capture that ignores
// signs and decimal points, the optional 간 in 시간) are part of the
// product's behavior and are kept on purpose.
package timeparse
