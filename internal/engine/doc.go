// Package engine is the TKF91 alignment scorer. It never imports app,
// writers, cli or request; keep it domain-only.
//
// External outputs must not depend on the internal shape here; use pkg/api
// for stable wire types (JSON/JSONL v1).
package engine
