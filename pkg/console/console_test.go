package console

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/miketth/presetboard/pkg/presetboard"
	"codeberg.org/miketth/presetboard/pkg/presetstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newConsole(t *testing.T) (*Console, *presetboard.Store) {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()

	store := presetboard.NewStore(memory.NewBackend(), log)
	_, err := store.Load()
	require.NoError(t, err)

	return New(store, presetboard.NewSwitcher(store, log), log), store
}

func exec(t *testing.T, c *Console, line string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := c.ExecLine(&out, line)
	return out.String(), err
}

func TestList(t *testing.T) {
	c, _ := newConsole(t)

	out, err := exec(t, c, "list")
	require.NoError(t, err)
	assert.Equal(t, "  Work\n  School\n  Gaming\n  Relax\n", out)

	_, err = exec(t, c, "switch Gaming")
	require.NoError(t, err)

	out, err = exec(t, c, "list")
	require.NoError(t, err)
	assert.Equal(t, "  Work\n  School\n* Gaming\n  Relax\n", out)
}

func TestShow(t *testing.T) {
	c, _ := newConsole(t)

	out, err := exec(t, c, "show Gaming")
	require.NoError(t, err)
	assert.Equal(t, "Preset: Gaming\n"+
		"Description: Gaming and entertainment workspace\n\n"+
		"Apps to open:\n"+
		"  • Steam\n  • Discord\n  • Spotify\n  • Safari\n\n"+
		"Close previous apps: No\n", out)

	out, err = exec(t, c, "show Nope")
	assert.ErrorIs(t, err, ErrFailed)
	assert.Equal(t, "Unknown preset: Nope\n", out)
}

func TestSwitch(t *testing.T) {
	c, _ := newConsole(t)

	out, err := exec(t, c, "switch Gaming")
	require.NoError(t, err)
	assert.Equal(t, "🚀 Switching to preset: Gaming\n"+
		"📱 Opening apps: Steam, Discord, Spotify, Safari\n"+
		"💡 Description: Gaming and entertainment workspace\n"+
		"Switched to Gaming preset successfully!\n", out)

	out, err = exec(t, c, "switch Work")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "🔄 Closing apps from previous preset: Gaming", lines[0])
	assert.Equal(t, "🚀 Switching to preset: Work", lines[1])
}

func TestSwitchUnknown(t *testing.T) {
	c, _ := newConsole(t)

	out, err := exec(t, c, "switch Nope")
	assert.ErrorIs(t, err, ErrFailed)
	assert.Equal(t, "Failed to switch preset\n", out)
}

func TestAdd(t *testing.T) {
	c, store := newConsole(t)

	out, err := exec(t, c, `add "Deep Work" "Focus time" "Safari, , Notes ,Terminal"`)
	require.NoError(t, err)
	assert.Equal(t, "Preset 'Deep Work' added successfully!\n", out)

	p, ok := store.Get("Deep Work")
	require.True(t, ok)
	assert.Equal(t, presetboard.Preset{
		Description:   "Focus time",
		Apps:          []string{"Safari", "Notes", "Terminal"},
		ClosePrevious: true,
	}, p)

	_, err = exec(t, c, `add -close-previous=false Chill "Just chill" Music`)
	require.NoError(t, err)
	p, _ = store.Get("Chill")
	assert.False(t, p.ClosePrevious)
}

func TestAddRejectsEmptyFields(t *testing.T) {
	c, store := newConsole(t)

	for _, line := range []string{
		`add "  " desc Safari`,
		`add Name "   " Safari`,
		`add Name desc " , ,"`,
	} {
		out, err := exec(t, c, line)
		assert.ErrorIs(t, err, ErrFailed, line)
		assert.Equal(t, "Please fill in all fields!\n", out, line)
	}
	assert.Equal(t, 4, store.Presets().Len())
}

func TestAddUsage(t *testing.T) {
	c, _ := newConsole(t)

	_, err := exec(t, c, "add OnlyName")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = exec(t, c, "add -bogus X Y Z")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestDelete(t *testing.T) {
	c, store := newConsole(t)

	out, err := exec(t, c, "delete School")
	require.NoError(t, err)
	assert.Equal(t, "Deleted preset: School\n", out)
	_, ok := store.Get("School")
	assert.False(t, ok)

	out, err = exec(t, c, "delete School")
	assert.ErrorIs(t, err, ErrFailed)
	assert.Equal(t, "Failed to delete preset!\n", out)
}

func TestExecMisc(t *testing.T) {
	c, _ := newConsole(t)

	out, err := exec(t, c, "")
	assert.NoError(t, err)
	assert.Empty(t, out)

	out, err = exec(t, c, "help")
	assert.NoError(t, err)
	assert.Contains(t, out, "switch NAME")

	_, err = exec(t, c, "quit")
	assert.ErrorIs(t, err, ErrQuit)

	out, err = exec(t, c, "dance")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out, `unknown command "dance"`)

	_, err = exec(t, c, "show")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = exec(t, c, `show "unterminated`)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestParseApps(t *testing.T) {
	assert.Equal(t, []string{"Safari", "Mail", "Notes"}, ParseApps("Safari, Mail, Notes"))
	assert.Equal(t, []string{"A", "A"}, ParseApps("A,A"))
	assert.Nil(t, ParseApps(" , "))
}

func TestProcessLines(t *testing.T) {
	c, _ := newConsole(t)
	input := "switch Work\nbogus\nswitch School\nquit\nswitch Relax\n"

	var out bytes.Buffer
	err := c.ProcessLines(context.Background(), NewReader(strings.NewReader(input)), &out, "")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "🔄 Closing apps from previous preset: Work")
	assert.Contains(t, out.String(), `unknown command "bogus"`)
	assert.NotContains(t, out.String(), "Relax")

	current, _ := c.switcher.Session().Current()
	assert.Equal(t, "School", current)
}

func TestProcessLinesPromptAndEOF(t *testing.T) {
	c, _ := newConsole(t)

	var out bytes.Buffer
	err := c.ProcessLines(context.Background(), NewReader(strings.NewReader("list")), &out, "> ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "> "))
	assert.Contains(t, out.String(), "  Work\n")
}

type blockingReader struct{}

func (blockingReader) ReadLine() (string, error) {
	select {}
}

func TestProcessLinesCancelled(t *testing.T) {
	c, _ := newConsole(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.ProcessLines(ctx, blockingReader{}, &bytes.Buffer{}, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServe(t *testing.T) {
	c, _ := newConsole(t)
	socket := filepath.Join(t.TempDir(), "console.sock")
	listener, err := net.Listen("unix", socket)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx, listener) }()

	conn, err := net.Dial("unix", socket)
	require.NoError(t, err)
	_, err = conn.Write([]byte("switch Relax\nquit\n"))
	require.NoError(t, err)

	reader := NewReader(conn)
	var lines []string
	for {
		line, err := reader.ReadLine()
		if err != nil {
			break
		}
		lines = append(lines, line)
	}
	_ = conn.Close()
	require.NotEmpty(t, lines)
	assert.Equal(t, "🚀 Switching to preset: Relax", lines[0])
	assert.Equal(t, "Switched to Relax preset successfully!", lines[len(lines)-1])

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
