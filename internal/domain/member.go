package domain

import "strings"

// Member is a single entry in a list, referencing a profile.
type Member struct {
	// ID is the unique identity of the member profile (DID-like).
	ID string `json:"id"`

	// Handle is the display handle, without the leading "@".
	Handle string `json:"handle"`

	// DisplayName is the profile display name. May be empty.
	DisplayName string `json:"display_name,omitempty"`

	// Description is the profile bio, rendered as markdown in the detail pane.
	Description string `json:"description,omitempty"`

	// EditEligible reports whether the list owner may edit this membership.
	EditEligible bool `json:"edit_eligible"`
}

// Title returns the display name, falling back to the handle.
func (m Member) Title() string {
	if name := strings.TrimSpace(m.DisplayName); name != "" {
		return name
	}
	return m.Handle
}

// AtHandle returns the handle prefixed with "@".
func (m Member) AtHandle() string {
	if m.Handle == "" {
		return ""
	}
	return "@" + m.Handle
}

// ListIdentity identifies the list being viewed.
type ListIdentity struct {
	URI           string `json:"uri"`
	Name          string `json:"name"`
	CreatorID     string `json:"creator_id"`
	CreatorHandle string `json:"creator_handle,omitempty"`
}

// Viewer is the signed-in identity of the current session.
type Viewer struct {
	ID     string `json:"id"`
	Handle string `json:"handle,omitempty"`
}

// Page is one fetched page of list members plus list metadata.
type Page struct {
	Members []Member     `json:"members"`
	List    ListIdentity `json:"list"`

	// NextCursor is the opaque cursor for the following page. Empty means
	// there is no further page.
	NextCursor string `json:"next_cursor,omitempty"`
}

// HasNext reports whether another page can be fetched after this one.
func (p Page) HasNext() bool {
	return p.NextCursor != ""
}
