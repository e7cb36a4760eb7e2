package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMember_Title(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		want   string
	}{
		{name: "display name", member: Member{Handle: "alice.test", DisplayName: "Alice"}, want: "Alice"},
		{name: "blank display name falls back", member: Member{Handle: "bob.test", DisplayName: "  "}, want: "bob.test"},
		{name: "empty display name falls back", member: Member{Handle: "carol.test"}, want: "carol.test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.member.Title())
		})
	}
}

func TestMember_AtHandle(t *testing.T) {
	assert.Equal(t, "@alice.test", Member{Handle: "alice.test"}.AtHandle())
	assert.Empty(t, Member{}.AtHandle())
}

func TestPage_HasNext(t *testing.T) {
	assert.True(t, Page{NextCursor: "abc"}.HasNext())
	assert.False(t, Page{}.HasNext())
}
