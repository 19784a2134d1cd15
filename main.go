package main

import (
	"codeberg.org/miketth/presetboard/pkg/config"
	"codeberg.org/miketth/presetboard/pkg/console"
	"codeberg.org/miketth/presetboard/pkg/logging"
	"codeberg.org/miketth/presetboard/pkg/presetboard"
	"codeberg.org/miketth/presetboard/pkg/presetstore/json"
	"codeberg.org/miketth/presetboard/pkg/presetstore/memory"
	"codeberg.org/miketth/presetboard/pkg/presetstore/sqlite"
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"io/fs"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {
	err := run()
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml (default: XDG config dir)")
	storeKind := flag.String("store", "", "preset store backend: json, sqlite or memory")
	storePath := flag.String("path", "", "path to the preset store file")
	socketPath := flag.String("socket", "", "serve the console on this unix socket")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.Store = config.StoreKind(*storeKind)
		case "path":
			cfg.Path = *storePath
		case "socket":
			cfg.Socket = *socketPath
		case "debug":
			cfg.Debug = *debug
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	backend, closeBackend, err := openBackend(cfg, log)
	if err != nil {
		return fmt.Errorf("open preset store: %w", err)
	}
	defer closeBackend()

	store := presetboard.NewStore(backend, log)
	result, err := store.Load()
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}
	logLoadResult(log, result)

	sw := presetboard.NewSwitcher(store, log)
	con := console.New(store, sw, log)

	if flag.NArg() > 0 {
		err := con.Exec(os.Stdout, flag.Args())
		if err != nil && !errors.Is(err, console.ErrQuit) {
			return err
		}
		return nil
	}

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Socket == "" {
		prompt := ""
		if isatty.IsTerminal(os.Stdin.Fd()) {
			prompt = "> "
		}

		err := con.ProcessLines(ctx, console.NewReader(os.Stdin), os.Stdout, prompt)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("process lines: %w", err)
		}
		return nil
	}

	return serve(ctx, con, cfg.Socket, log)
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] [command args...]\n\n", os.Args[0])
	fmt.Fprintln(out, "Without a command, an interactive console reads commands from stdin.")
	fmt.Fprintln(out, "Commands: list, show NAME, switch NAME, add [-close-previous=BOOL] NAME DESC APPS, delete NAME")
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path, false)
	}

	path, err := config.DefaultFile()
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path, true)
}

func openBackend(cfg config.Config, log *zap.SugaredLogger) (presetboard.Backend, func(), error) {
	noop := func() {}

	if cfg.Store == config.StoreMemory {
		return memory.NewBackend(), noop, nil
	}

	path, err := cfg.StorePath()
	if err != nil {
		return nil, nil, err
	}
	log.Debugw("opening preset store", "store", cfg.Store, "path", path)

	if cfg.Store == config.StoreSQLite {
		backend := sqlite.NewBackend(path, log)
		return backend, func() {
			if err := backend.Close(); err != nil {
				log.Warnw("failed to close preset database", "error", err)
			}
		}, nil
	}

	return json.NewBackend(path), noop, nil
}

func logLoadResult(log *zap.SugaredLogger, result presetboard.LoadResult) {
	reason := result.DefaultedDueTo
	switch {
	case reason == nil:
		log.Debugw("presets loaded", "count", result.Presets.Len())
	case errors.Is(reason, fs.ErrNotExist), errors.Is(reason, presetboard.ErrUninitialized):
		log.Infow("created default presets", "count", result.Presets.Len())
	default:
		log.Warnw("preset store unreadable, replaced with defaults", "reason", reason)
	}
}

func serve(ctx context.Context, con *console.Console, socketPath string, log *zap.SugaredLogger) error {
	if err := os.Remove(socketPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.Infow("started presetboard", "socket", socketPath)

	errChan := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		err := con.Serve(ctx, listener)
		if err != nil {
			errChan <- fmt.Errorf("serve console: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		err := systemdNotifyLoop(ctx)
		if err != nil {
			errChan <- fmt.Errorf("systemd notify: %w", err)
		}
	}()

	err = <-errChan
	switch {
	case errors.Is(err, context.Canceled):
		log.Info("shutting down")
		wg.Wait()
		return nil
	case err != nil:
		return err
	}

	return nil
}

func systemdNotifyLoop(ctx context.Context) error {
	// tell systemd that we're ready
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("notify systemd: %w", err)
	}
	if !supported {
		return nil
	}

	// set funky message
	_, _ = daemon.SdNotify(false, "STATUS=Waiting for preset commands")

	// notify watchdog
	t, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("check watchdog: %w", err)
	}
	// if watchdog is not enabled, we don't need to notify it
	if t == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-time.After(t / 2):
			_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			if err != nil {
				return fmt.Errorf("notify watchdog: %w", err)
			}
		}
	}
}
