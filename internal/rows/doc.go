// Package rows derives the ordered sequence of renderable rows for a list
// membership view from its fetch state.
//
// The derivation is a pure function: given whether a fetch has completed,
// whether one is in flight, whether the last fetch failed and the pages loaded
// so far, Classify returns the rows in display order. Status rows (loading,
// empty, error, load-more error) are distinct Kinds rather than marker values,
// so renderers dispatch on Kind.
//
// Ordering rules:
//   - Before any fetch has completed the result is [Loading] while fetching
//     and empty otherwise.
//   - After a fetch has completed, an empty first page yields [Empty], preceded
//     by Error when the fetch failed.
//   - Otherwise every member of every page is emitted in fetch order, followed
//     by LoadMoreError when the fetch failed.
package rows
