package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWorkspace writes a config file pointing every path at a temp
// directory and returns the config path plus the directory.
func newWorkspace(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("database_path: %s\nlegacy_path: %s\ndownloads_dir: %s\n",
		filepath.Join(dir, "cardwise.db"),
		filepath.Join(dir, "legacy.json"),
		filepath.Join(dir, "downloads"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path, dir
}

// runCLI executes one command against the workspace. Each call builds
// a fresh root command, the way a real invocation would.
func runCLI(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestCardLifecycle(t *testing.T) {
	cfg, _ := newWorkspace(t)

	out, err := runCLI(t, cfg, "cards", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No cards yet")

	out, err = runCLI(t, cfg, "cards", "add", "--name", "Everyday", "--issuer", "Amex")
	require.NoError(t, err)
	assert.Contains(t, out, "Added card")

	out, err = runCLI(t, cfg, "cards", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Everyday (Amex)")
	assert.Contains(t, out, "1% cashback")
}

func TestCardsAddFromTiersFile(t *testing.T) {
	cfg, dir := newWorkspace(t)

	tiers := `[{"rate": 4, "unit": "cashback", "category": "Dining", "method": "any", "capPeriod": "none"}]`
	tiersPath := filepath.Join(dir, "tiers.json")
	require.NoError(t, os.WriteFile(tiersPath, []byte(tiers), 0o644))

	_, err := runCLI(t, cfg, "cards", "add", "--name", "Gold", "--tiers-file", tiersPath)
	require.NoError(t, err)

	out, err := runCLI(t, cfg, "cards", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "4% cashback on Dining")
}

func TestRecommendFlow(t *testing.T) {
	cfg, dir := newWorkspace(t)

	tiers := `[{"rate": 3, "unit": "cashback", "category": "Groceries", "method": "any", "capPeriod": "none"}]`
	tiersPath := filepath.Join(dir, "tiers.json")
	require.NoError(t, os.WriteFile(tiersPath, []byte(tiers), 0o644))

	_, err := runCLI(t, cfg, "cards", "add", "--name", "Grocery Card", "--tiers-file", tiersPath)
	require.NoError(t, err)

	out, err := runCLI(t, cfg, "recommend", "--category", "groceries", "--amount", "120")
	require.NoError(t, err)
	assert.Contains(t, out, "Grocery Card")
	assert.Contains(t, out, "3.00%")
}

func TestRecommendWithoutCards(t *testing.T) {
	cfg, _ := newWorkspace(t)

	_, err := runCLI(t, cfg, "recommend", "--category", "dining", "--amount", "50")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestPayFlow(t *testing.T) {
	cfg, _ := newWorkspace(t)

	_, err := runCLI(t, cfg, "cards", "add", "--name", "Everyday")
	require.NoError(t, err)

	out, err := runCLI(t, cfg, "pay", "add", "--amount", "42.50", "--category", "dining", "--card", "Everyday")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded $42.50")

	out, err = runCLI(t, cfg, "pay", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "dining")
	assert.Contains(t, out, "Everyday")
}

func TestExportImportRoundTrip(t *testing.T) {
	cfg, dir := newWorkspace(t)

	_, err := runCLI(t, cfg, "cards", "add", "--name", "Everyday")
	require.NoError(t, err)

	out, err := runCLI(t, cfg, "export", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	matches, err := filepath.Glob(filepath.Join(dir, "cardwise-backup-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// Wipe and restore.
	_, err = runCLI(t, cfg, "reset", "--yes")
	require.NoError(t, err)

	out, err = runCLI(t, cfg, "cards", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No cards yet")

	_, err = runCLI(t, cfg, "import", matches[0])
	require.NoError(t, err)

	out, err = runCLI(t, cfg, "cards", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Everyday")
}

func TestManualLinkAndSync(t *testing.T) {
	cfg, dir := newWorkspace(t)

	_, err := runCLI(t, cfg, "cards", "add", "--name", "Everyday")
	require.NoError(t, err)

	out, err := runCLI(t, cfg, "link", "--manual", "wallet.json")
	require.NoError(t, err)
	assert.Contains(t, out, "manual sync")

	out, err = runCLI(t, cfg, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "downloads")

	_, err = os.Stat(filepath.Join(dir, "downloads", "wallet.json"))
	require.NoError(t, err)

	// Pull has nothing to read back from a manual link.
	_, err = runCLI(t, cfg, "pull", "--force")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestNativeLinkSyncPull(t *testing.T) {
	cfg, dir := newWorkspace(t)

	_, err := runCLI(t, cfg, "cards", "add", "--name", "Everyday")
	require.NoError(t, err)

	backup := filepath.Join(dir, "wallet.json")
	_, err = runCLI(t, cfg, "link", backup)
	require.NoError(t, err)

	_, err = runCLI(t, cfg, "sync")
	require.NoError(t, err)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Everyday")

	out, err := runCLI(t, cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "wallet.json")
	assert.Contains(t, out, "native")

	_, err = runCLI(t, cfg, "pull", "--force")
	require.NoError(t, err)

	out, err = runCLI(t, cfg, "unlink")
	require.NoError(t, err)
	assert.Contains(t, out, "Unlinked")
}

func TestSyncWithoutLink(t *testing.T) {
	cfg, _ := newWorkspace(t)

	_, err := runCLI(t, cfg, "sync")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestStatusJSON(t *testing.T) {
	cfg, _ := newWorkspace(t)

	out, err := runCLI(t, cfg, "--format", "json", "status")
	require.NoError(t, err)
	assert.Contains(t, out, `"backup"`)
	assert.Contains(t, out, `"storage"`)
}
