package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	orig := [3]string{version, gitCommit, buildDate}
	t.Cleanup(func() { version, gitCommit, buildDate = orig[0], orig[1], orig[2] })

	tests := []struct {
		name   string
		commit string
		date   string
		want   string
	}{
		{name: "version only", want: "v1.2.3"},
		{name: "with commit", commit: "abc123", want: "v1.2.3 (abc123)"},
		{name: "with commit and date", commit: "abc123", date: "2026-01-02", want: "v1.2.3 (abc123, 2026-01-02)"},
		{name: "date without commit", date: "2026-01-02", want: "v1.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, gitCommit, buildDate = "v1.2.3", tt.commit, tt.date
			assert.Equal(t, tt.want, String())
		})
	}
}

func TestGetVersionDefault(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
}
