package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milk9111/categories/category"
	"github.com/milk9111/categories/config"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	app    *app
	out    *syncBuffer
	asset  string
	copied []string
}

func newHarness(t *testing.T, names ...string) *harness {
	t.Helper()
	asset := filepath.Join(t.TempDir(), "category", "categories.yaml")
	if names != nil {
		table, err := category.NewTable(names...)
		require.NoError(t, err)
		require.NoError(t, table.Save(asset))
	}

	h := &harness{out: &syncBuffer{}, asset: asset}
	h.app = newApp(config.Default(), zap.NewNop(), h.out)
	h.app.copyFn = func(s string) error {
		h.copied = append(h.copied, s)
		return nil
	}
	return h
}

func (h *harness) run(ctx context.Context, args ...string) error {
	argv := append([]string{"categories", "--asset", h.asset}, args...)
	return h.app.rootCommand().Run(ctx, argv)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestViewCommand(t *testing.T) {
	h := newHarness(t, "Player", "Enemy", "Item")
	require.NoError(t, h.run(context.Background(), "view"))

	out := h.out.String()
	assert.Contains(t, out, "guid:")
	assert.Regexp(t, `0\s+1\s+Player`, out)
	assert.Regexp(t, `1\s+2\s+Enemy`, out)
	assert.Regexp(t, `2\s+4\s+Item`, out)
}

func TestViewMissingAsset(t *testing.T) {
	h := newHarness(t)
	err := h.run(context.Background(), "view")
	assert.ErrorIs(t, err, category.ErrConfigurationMissing)
}

func TestNewCommand(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(context.Background(), "new", "Player", "Enemy"))

	table, err := category.LoadTable(h.asset)
	require.NoError(t, err)
	assert.Equal(t, []string{"Player", "Enemy"}, table.Names())

	assert.Error(t, h.run(context.Background(), "new", "Other"))
	require.NoError(t, h.run(context.Background(), "new", "--force", "Other"))

	table, err = category.LoadTable(h.asset)
	require.NoError(t, err)
	assert.Equal(t, []string{"Other"}, table.Names())
}

func TestNewCommandSeedsDefaults(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(context.Background(), "new"))

	table, err := category.LoadTable(h.asset)
	require.NoError(t, err)
	defaults, err := category.DefaultNames()
	require.NoError(t, err)
	assert.Equal(t, defaults, table.Names())
}

func TestAddRemoveCommands(t *testing.T) {
	h := newHarness(t, "Player")
	before, err := category.LoadTable(h.asset)
	require.NoError(t, err)

	require.NoError(t, h.run(context.Background(), "add", "Enemy", "Item"))
	table, err := category.LoadTable(h.asset)
	require.NoError(t, err)
	assert.Equal(t, []string{"Player", "Enemy", "Item"}, table.Names())
	assert.Equal(t, before.GUID(), table.GUID())

	assert.ErrorIs(t, h.run(context.Background(), "add", "Enemy"), category.ErrInvalidTable)

	require.NoError(t, h.run(context.Background(), "remove", "Enemy"))
	table, err = category.LoadTable(h.asset)
	require.NoError(t, err)
	assert.Equal(t, []string{"Player", "Item"}, table.Names())

	assert.ErrorIs(t, h.run(context.Background(), "remove", "Door"), category.ErrUnknownCategory)
	assert.Error(t, h.run(context.Background(), "remove"))
}

func TestEditMissingAssetFails(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.run(context.Background(), "add", "Enemy"), category.ErrConfigurationMissing)
	assert.ErrorIs(t, h.run(context.Background(), "remove", "Enemy"), category.ErrConfigurationMissing)

	_, err := os.Stat(h.asset)
	assert.True(t, os.IsNotExist(err), "no asset should be written")
}

func TestMaskCommand(t *testing.T) {
	h := newHarness(t, "Player", "Enemy", "Item")
	require.NoError(t, h.run(context.Background(), "mask", "--copy", "Player", "Item"))

	assert.Equal(t, "5 (0b101)\n", h.out.String())
	assert.Equal(t, []string{"5"}, h.copied)

	assert.ErrorIs(t, h.run(context.Background(), "mask", "Door"), category.ErrUnknownCategory)
}

func TestDecodeCommand(t *testing.T) {
	h := newHarness(t, "Player", "Enemy", "Item")
	require.NoError(t, h.run(context.Background(), "decode", "0x0b"))

	out := h.out.String()
	assert.True(t, strings.HasPrefix(out, "Player\nEnemy\n"), out)
	assert.Contains(t, out, "bits past the table (ignored): 0b1000")

	assert.Error(t, h.run(context.Background(), "decode", "lots"))
}

const testScene = `entities:
  - name: hero
    categories: [Player]
  - name: grunt
    categories: [Enemy]
  - name: sleeper
    categories: [Enemy]
    inactive: true
  - name: chest
    mask: 4
`

func TestQueryCommand(t *testing.T) {
	h := newHarness(t, "Player", "Enemy", "Item")
	scene := writeFile(t, "scene.yaml", testScene)

	require.NoError(t, h.run(context.Background(), "query", "--scene", scene, "Enemy"))
	assert.Equal(t, "first: grunt\nall (1): grunt\n", h.out.String())

	h.out = &syncBuffer{}
	h.app.out = h.out
	require.NoError(t, h.run(context.Background(), "query", "--scene", scene, "--include-inactive", "Enemy"))
	assert.Equal(t, "first: grunt\nall (2): grunt, sleeper\n", h.out.String())

	h.out = &syncBuffer{}
	h.app.out = h.out
	require.NoError(t, h.run(context.Background(), "query", "--scene", scene, "Hazard"))
	assert.Equal(t, "first: none\nall (0): \n", h.out.String())
}

func TestQueryCommandBadScene(t *testing.T) {
	h := newHarness(t, "Player")
	scene := writeFile(t, "scene.yaml", "entities:\n  - name: x\n    categories: [Door]\n")
	assert.ErrorIs(t, h.run(context.Background(), "query", "--scene", scene, "Player"), category.ErrUnknownCategory)
}

func TestScriptCommand(t *testing.T) {
	h := newHarness(t, "Player", "Enemy", "Item")
	scene := writeFile(t, "scene.yaml", testScene)
	script := writeFile(t, "count.tengo", `result := {enemies: len(categories.find_all("Enemy", true)), items: len(categories.find_all("Item"))}`)

	require.NoError(t, h.run(context.Background(), "script", "--scene", scene, script))
	assert.YAMLEq(t, "enemies: 2\nitems: 1\n", h.out.String())

	failing := writeFile(t, "fail.tengo", `result := error("nope")`)
	assert.Error(t, h.run(context.Background(), "script", "--scene", scene, failing))
}

func TestWatchCommand(t *testing.T) {
	h := newHarness(t, "Player")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.run(ctx, "watch") }()

	table, err := category.NewTable("Player", "Zone")
	require.NoError(t, err)

	// The watcher starts asynchronously; keep rewriting until it reports.
	require.Eventually(t, func() bool {
		if err := table.Save(h.asset); err != nil {
			return false
		}
		return strings.Contains(h.out.String(), "Zone")
	}, 5*time.Second, 150*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
