// Package recurrence models reminder repetition policies and computes fire times.
//
// A Recurrence is either none (one-off), a fixed Interval, or a calendar
// Schedule. Next computes upcoming occurrences for calendar schedules,
// AdvanceInterval steps interval recurrences from their previous due time.
package recurrence
