// Package pagination owns the fetch state of a paged list and the intents
// that change it: initial fetch, refresh, load-more and the retries.
//
// The package contains:
//   - Params: page size and headless page limit validation
//   - Query: the stateful query object holding loaded pages and a per-kind
//     state machine (Idle, Fetching, Settled) with monotonic request tokens
//   - Controller: the intent layer that guards redundant fetches, logs
//     failures and never lets an error escape as an unhandled fault
//   - Summary: counts for status bars and plain output
//
// Fetches run as Bubble Tea commands. A command captures immutable values,
// calls the data source and returns a FetchSettledMsg, which the owner of the
// Controller feeds back through Update on the event loop. Controller state is
// only mutated from Update, so no locking is needed.
package pagination
