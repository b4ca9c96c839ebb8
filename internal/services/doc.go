// Package services defines shared utilities consumed by the pipeline stages
// and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp video identifiers, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that tag failures with a
//     classification the CLI can translate into exit behaviour.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
