// Package source provides the paged data sources behind the members view.
//
// A ListSource serves pages of any list by URI and opaque cursor. Bind
// narrows one to a single list and page size so it can back a
// pagination.Query. Implementations:
//   - Memory: fixed in-memory lists, used by tests and the demo
//   - sqlite.Store: the persistent store (sub-package)
//   - CachingSource: wraps another source with the file page cache
//   - Flaky: fault injection for demos and tests
package source
