// Package pipeline composes engines into one deterministic run.
//
// Execution is single-threaded and synchronous per request: one Runtime
// and one evolving Field are threaded through the engine list, and no
// engine starts before the previous output is fully materialized.
// Independent requests use independent Runtimes and may run concurrently.
package pipeline
