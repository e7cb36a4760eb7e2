package pagination

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/listmembers/internal/domain"
)

// Summary contains counts about the loaded pages.
type Summary struct {
	LoadedMembers int  `json:"loaded_members" yaml:"loaded_members"`
	LoadedPages   int  `json:"loaded_pages"   yaml:"loaded_pages"`
	HasMore       bool `json:"has_more"       yaml:"has_more"`
	Refreshing    bool `json:"refreshing"     yaml:"refreshing"`
}

// NewSummary builds a Summary from loaded pages and the fetch state.
func NewSummary(pages []domain.Page, state FetchState) Summary {
	members := 0
	for _, p := range pages {
		members += len(p.Members)
	}
	return Summary{
		LoadedMembers: members,
		LoadedPages:   len(pages),
		HasMore:       state.HasNextPage,
		Refreshing:    state.IsRefreshing,
	}
}

// String renders the summary for status bars, e.g. "1,250 members · more available".
func (s Summary) String() string {
	p := message.NewPrinter(language.English)

	noun := "members"
	if s.LoadedMembers == 1 {
		noun = "member"
	}
	out := p.Sprintf("%d %s", s.LoadedMembers, noun)
	if s.HasMore {
		out += " · more available"
	}
	if s.Refreshing {
		out += " · refreshing"
	}
	return out
}
