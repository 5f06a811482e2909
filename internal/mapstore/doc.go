// Package mapstore persists, revalidates and caches the process-wide
// mapping.
//
// Lifecycle:
//   - Load returns the cached mapping, or resolves one: read the persisted
//     file, validate it against the current catalog, re-infer when it is
//     absent or stale, persist the inferred result and cache it. Concurrent
//     first loads share one resolution.
//   - Save persists an operator-supplied mapping and replaces the cache.
//   - Reset re-infers unconditionally, persists and replaces the cache.
//
// The cache is replaced only after a successful write.
package mapstore
