// Package engine holds the field transform family.
//
// Design:
//   - Each engine is a pure function Field x Params (x Runtime) -> Field;
//     inputs are never mutated, outputs are newly owned.
//   - Parameters validate at construction, never mid-computation.
//   - Engines that need randomness consume the Runtime stream in a
//     documented order; the rest are deterministic integrators.
//   - Dispatch by name goes through the factory registry (engine.go);
//     engines register themselves in init().
package engine
