package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/listmembers/internal/cli"
	"github.com/rshade/listmembers/internal/config"
)

// setupHome points the config directory at a temp dir and resets global state.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("LISTMEMBERS_HOME", home)
	t.Setenv("LISTMEMBERS_LOG_LEVEL", "error")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// execute runs the root command and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetGlobalConfigForTest()

	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func seedList(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := execute(t, append([]string{"seed"}, args...)...)
	require.NoError(t, err)
	uris := strings.Fields(out)
	require.NotEmpty(t, uris)
	return uris[0]
}

func TestRootCmd_Help(t *testing.T) {
	setupHome(t)

	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"members", "seed", "cache", "config"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootCmd_Version(t *testing.T) {
	setupHome(t)

	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
}

func TestSeed_CreatesLists(t *testing.T) {
	setupHome(t)

	out, _, err := execute(t, "seed", "--lists", "3", "--members", "5", "--owner", "did:plc:alice")
	require.NoError(t, err)

	uris := strings.Fields(out)
	require.Len(t, uris, 3)
	for _, uri := range uris {
		assert.True(t, strings.HasPrefix(uri, "at://did:plc:alice/app.bsky.graph.list/"), uri)
	}
}

func TestSeed_RejectsBadFlags(t *testing.T) {
	setupHome(t)

	_, _, err := execute(t, "seed", "--lists", "0")
	require.Error(t, err)

	_, _, err = execute(t, "seed", "--members", "-1")
	require.Error(t, err)
}

func TestMembers_PlainAllPages(t *testing.T) {
	setupHome(t)
	uri := seedList(t, "--members", "7", "--owner", "did:plc:alice")

	out, _, err := execute(t, "members", uri, "--plain", "--page-size", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Demo list")
	assert.Contains(t, out, "Member 1 @member1.test")
	assert.Contains(t, out, "Member 7 @member7.test")
	assert.Contains(t, out, "7 members")
	assert.NotContains(t, out, "more available")
	assert.NotContains(t, out, "[e] edit")
}

func TestMembers_PlainMaxPages(t *testing.T) {
	setupHome(t)
	uri := seedList(t, "--members", "10")

	out, _, err := execute(t, "members", uri, "--plain", "--page-size", "3", "--max-pages", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Member 6 @member6.test")
	assert.NotContains(t, out, "Member 7 @member7.test")
	assert.Contains(t, out, "6 members · more available")
}

func TestMembers_PlainOwnerSeesEditAffordance(t *testing.T) {
	setupHome(t)
	uri := seedList(t, "--members", "3", "--owner", "did:plc:alice")

	out, _, err := execute(t, "members", uri, "--plain", "--viewer", "did:plc:alice")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	var editable int
	for _, l := range lines {
		if strings.Contains(l, "[e] edit") {
			editable++
		}
	}
	// Every third seeded member is not edit-eligible.
	assert.Equal(t, 2, editable)
}

func TestMembers_PlainEmptyList(t *testing.T) {
	setupHome(t)
	uri := seedList(t, "--members", "0")

	out, _, err := execute(t, "members", uri, "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "This list is empty.")
	assert.Contains(t, out, "0 members")
}

func TestMembers_PlainUnknownList(t *testing.T) {
	setupHome(t)

	out, _, err := execute(t, "members", "at://did:plc:nobody/app.bsky.graph.list/missing", "--plain")
	require.ErrorIs(t, err, cli.ErrFetchFailed)
	assert.Contains(t, out, "We're sorry! But something went wrong.")
	assert.Contains(t, out, "This list is empty.")
}

func TestMembers_InvalidPageSize(t *testing.T) {
	setupHome(t)

	_, _, err := execute(t, "members", "at://x", "--plain", "--page-size", "500")
	require.Error(t, err)
}

func TestMembers_RequiresListURI(t *testing.T) {
	setupHome(t)

	_, _, err := execute(t, "members")
	require.Error(t, err)
}

func TestCache_StatsAndClear(t *testing.T) {
	home := setupHome(t)
	uri := seedList(t, "--members", "4")

	_, _, err := execute(t, "members", uri, "--plain", "--page-size", "2")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(home, "cache"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	_, stderr, err := execute(t, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Entries:   2")

	_, stderr, err = execute(t, "cache", "clear", "--list", "at://other")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Removed 0 cached page(s)")

	_, stderr, err = execute(t, "cache", "clear", "--list", uri)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Removed 2 cached page(s)")

	_, stderr, err = execute(t, "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Removed 0 expired page(s)")
}

func TestCache_Disabled(t *testing.T) {
	setupHome(t)
	t.Setenv("LISTMEMBERS_CACHE_ENABLED", "false")

	_, stderr, err := execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Cache is disabled")
}

func TestConfig_InitAndValidate(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, "config.yaml")

	_, stderr, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Configuration initialized at "+path)
	require.FileExists(t, path)

	_, _, err = execute(t, "config", "init")
	require.ErrorIs(t, err, cli.ErrConfigExists)

	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)

	_, stderr, err = execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Configuration is valid")
}

func TestConfig_ValidateRejectsBadFile(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  page_size: 0\n"), 0o600))

	_, _, err := execute(t, "config", "validate", "--config", path)
	require.ErrorIs(t, err, config.ErrInvalidPageSize)
}

func TestMembers_BadConfigFails(t *testing.T) {
	home := setupHome(t)
	path := filepath.Join(home, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0o600))

	_, _, err := execute(t, "--config", path, "seed")
	require.ErrorIs(t, err, config.ErrInvalidLogFormat)
}
