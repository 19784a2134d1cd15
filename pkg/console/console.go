package console

import (
	"codeberg.org/miketth/presetboard/pkg/presetboard"
	"errors"
	"flag"
	"fmt"
	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
	"io"
	"strings"
)

var (
	// ErrQuit is returned by Exec for the quit and exit commands.
	ErrQuit = errors.New("quit")
	// ErrFailed marks a command that ran but did not succeed, such as
	// switching to an unknown preset.
	ErrFailed = errors.New("command failed")
	ErrUsage  = errors.New("usage error")
)

const helpText = `Commands:
  list                                         list presets, * marks the current one
  show NAME                                    show a preset
  switch NAME                                  switch to a preset
  add [-close-previous=BOOL] NAME DESC APPS    add or replace a preset, APPS is comma-separated
  delete NAME                                  delete a preset
  help                                         show this help
  quit                                         leave the console
`

// Console runs preset commands against a store and a switcher.
type Console struct {
	store    *presetboard.Store
	switcher *presetboard.Switcher
	log      *zap.SugaredLogger
}

func New(store *presetboard.Store, switcher *presetboard.Switcher, log *zap.SugaredLogger) *Console {
	return &Console{
		store:    store,
		switcher: switcher,
		log:      log,
	}
}

// ExecLine tokenizes line with shell quoting rules and executes it.
func (c *Console) ExecLine(out io.Writer, line string) error {
	args, err := shellwords.Parse(line)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return fmt.Errorf("parse %q: %w", line, ErrUsage)
	}

	return c.Exec(out, args)
}

// Exec runs a single command. Results and user-facing errors are written to out.
func (c *Console) Exec(out io.Writer, args []string) error {
	if len(args) == 0 {
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list", "ls":
		return c.list(out)
	case "show":
		return c.withName(out, cmd, rest, c.show)
	case "switch":
		return c.withName(out, cmd, rest, c.switchTo)
	case "add":
		return c.add(out, rest)
	case "delete", "rm":
		return c.withName(out, cmd, rest, c.delete)
	case "help":
		fmt.Fprint(out, helpText)
		return nil
	case "quit", "exit":
		return ErrQuit
	}

	fmt.Fprintf(out, "unknown command %q, try help\n", cmd)
	return fmt.Errorf("command %q: %w", cmd, ErrUsage)
}

func (c *Console) withName(out io.Writer, cmd string, args []string, fn func(io.Writer, string) error) error {
	if len(args) != 1 {
		fmt.Fprintf(out, "usage: %s NAME\n", cmd)
		return fmt.Errorf("%s: %w", cmd, ErrUsage)
	}
	return fn(out, args[0])
}

func (c *Console) list(out io.Writer) error {
	current, active := c.switcher.Session().Current()
	for _, name := range c.store.Presets().Names() {
		marker := " "
		if active && name == current {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, name)
	}
	return nil
}

func (c *Console) show(out io.Writer, name string) error {
	preset, ok := c.store.Get(name)
	if !ok {
		fmt.Fprintf(out, "Unknown preset: %s\n", name)
		return fmt.Errorf("show %q: %w", name, ErrFailed)
	}

	fmt.Fprint(out, FormatPreset(name, preset))
	return nil
}

// FormatPreset renders a preset the way the show command prints it.
func FormatPreset(name string, preset presetboard.Preset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Preset: %s\n", name)
	fmt.Fprintf(&b, "Description: %s\n\n", preset.Description)
	b.WriteString("Apps to open:\n")
	for _, app := range preset.Apps {
		fmt.Fprintf(&b, "  • %s\n", app)
	}

	closePrevious := "No"
	if preset.ClosePrevious {
		closePrevious = "Yes"
	}
	fmt.Fprintf(&b, "\nClose previous apps: %s\n", closePrevious)

	return b.String()
}

func (c *Console) switchTo(out io.Writer, name string) error {
	notes, ok := c.switcher.Switch(name)
	if !ok {
		fmt.Fprintln(out, "Failed to switch preset")
		return fmt.Errorf("switch to %q: %w", name, ErrFailed)
	}

	for _, note := range notes {
		fmt.Fprintln(out, note.String())
	}
	fmt.Fprintf(out, "Switched to %s preset successfully!\n", name)
	return nil
}

func (c *Console) add(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(out)
	closePrevious := fs.Bool("close-previous", true, "close apps of the previous preset when switching to this one")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("add: %w", ErrUsage)
	}

	if fs.NArg() != 3 {
		fmt.Fprintln(out, "usage: add [-close-previous=BOOL] NAME DESCRIPTION APPS")
		return fmt.Errorf("add: %w", ErrUsage)
	}

	name := strings.TrimSpace(fs.Arg(0))
	description := strings.TrimSpace(fs.Arg(1))
	apps := ParseApps(fs.Arg(2))
	if name == "" || description == "" || len(apps) == 0 {
		fmt.Fprintln(out, "Please fill in all fields!")
		return fmt.Errorf("add: %w", ErrFailed)
	}

	err := c.store.Add(name, presetboard.Preset{
		Description:   description,
		Apps:          apps,
		ClosePrevious: *closePrevious,
	})
	if err != nil {
		c.log.Errorw("failed to add preset", "name", name, "error", err)
		fmt.Fprintf(out, "error: failed to add preset: %v\n", err)
		return fmt.Errorf("add %q: %w", name, err)
	}

	fmt.Fprintf(out, "Preset '%s' added successfully!\n", name)
	return nil
}

// ParseApps splits a comma-separated app list, trimming entries and dropping
// blank ones.
func ParseApps(s string) []string {
	var apps []string
	for _, app := range strings.Split(s, ",") {
		app = strings.TrimSpace(app)
		if app != "" {
			apps = append(apps, app)
		}
	}
	return apps
}

func (c *Console) delete(out io.Writer, name string) error {
	deleted, err := c.store.Delete(name)
	if err != nil {
		c.log.Errorw("failed to delete preset", "name", name, "error", err)
		fmt.Fprintf(out, "error: failed to delete preset: %v\n", err)
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if !deleted {
		fmt.Fprintln(out, "Failed to delete preset!")
		return fmt.Errorf("delete %q: %w", name, ErrFailed)
	}

	fmt.Fprintf(out, "Deleted preset: %s\n", name)
	return nil
}
