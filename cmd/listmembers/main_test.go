package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/listmembers/internal/cli"
	"github.com/rshade/listmembers/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.String())
		require.NotNil(t, root)
		assert.Equal(t, "listmembers", root.Use)
		assert.Equal(t, version.String(), root.Version)
	})

	t.Run("run function exists", func(_ *testing.T) {
		_ = run
	})
}
