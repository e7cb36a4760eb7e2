// Package membership decides who may edit a list's membership and provides
// the edit surface the TUI opens for a member row.
package membership

import "github.com/rshade/listmembers/internal/domain"

// CanEditMembership reports whether viewer owns list. A nil viewer (signed
// out) or a list whose metadata has not loaded yet is never an owner. IDs are
// compared exactly; an empty viewer ID never matches.
func CanEditMembership(list *domain.ListIdentity, viewer *domain.Viewer) bool {
	if list == nil || viewer == nil || viewer.ID == "" {
		return false
	}
	return viewer.ID == list.CreatorID
}

// ShowEditAffordance reports whether a member row exposes the edit action.
func ShowEditAffordance(list *domain.ListIdentity, viewer *domain.Viewer, m domain.Member) bool {
	return m.EditEligible && CanEditMembership(list, viewer)
}
