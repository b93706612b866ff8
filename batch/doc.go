// Package batch runs a matcher over many structures on a bounded pool of
// goroutines.
//
// Every fit reads only its own pair, so work is split without locks:
// Prepare normalizes each structure once, Pairwise evaluates one row of the
// upper triangle per task, and Group runs the sequential representative
// scan of matcher.Group independently per composition bucket. Results are
// identical to the sequential matcher calls regardless of scheduling.
//
// Cancellation is honoured between units of work: once ctx is done no new
// pair is started and the call returns ctx.Err().
package batch
