// Package core holds the pure decision logic for admission control: the
// three strategy algorithms, the per-user state record, and the
// escalation state machine.
//
// Nothing in this package locks or performs I/O. Every function is a
// total function of (state, config, now); the admission controller in
// pkg/floodgate owns the critical section and the clock, and hands the
// same observed "now" to every step of a single check.
package core
