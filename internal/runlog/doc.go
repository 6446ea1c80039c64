// Package runlog provides a SQLite ledger of batch run outcomes.
//
// The ledger is append-only:
//   - Runs: one row per recorded batch, with its summary
//   - Run results: one row per case, with the failed findings as JSON
//
// Payload text is never stored. Run ids are UUIDv7, so listing by recorded
// time and id is stable for runs recorded in the same second.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package runlog
