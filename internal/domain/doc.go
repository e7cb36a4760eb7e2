// Package domain holds the value types shared by the list membership client:
// members, list identities, viewers and fetched pages.
//
// Values in this package are immutable once constructed by a data source.
// Pages are kept in fetch order by consumers and are never reordered or
// deduplicated here.
package domain
