package sqlite

import (
	"codeberg.org/miketth/presetboard/pkg/presetboard"
	"codeberg.org/miketth/presetboard/pkg/presetstore/sqlite/migrations"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"io/fs"
	"os"
	"sync"
)

// Backend stores presets in a sqlite database. Read reports
// presetboard.ErrUninitialized until the first Write. The database is opened
// and migrated on first use, so a broken file surfaces as a Read error.
type Backend struct {
	filename string
	log      *zap.SugaredLogger

	lock    sync.Mutex
	db      *sql.DB
	querier *Queries
}

func NewBackend(filename string, log *zap.SugaredLogger) *Backend {
	return &Backend{
		filename: filename,
		log:      log,
	}
}

// open must be called with b.lock held.
func (b *Backend) open() error {
	if b.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite3", b.filename)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db, b.log); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate: %w", err)
	}

	b.db = db
	b.querier = New(db)
	return nil
}

// recreate replaces an unusable database file with a fresh one.
func (b *Backend) recreate() error {
	if err := os.Remove(b.filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove broken db: %w", err)
	}
	return b.open()
}

func (b *Backend) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	b.querier = nil
	return err
}

func (b *Backend) Read() (*presetboard.Presets, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if err := b.open(); err != nil {
		return nil, err
	}

	ctx := context.Background()

	initialized, err := b.querier.IsInitialized(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}
	if !initialized {
		return nil, presetboard.ErrUninitialized
	}

	rows, err := b.querier.ListPresets(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}

	presets := presetboard.NewPresets()
	for _, row := range rows {
		var apps []string
		if err := json.Unmarshal([]byte(row.Apps), &apps); err != nil {
			return nil, fmt.Errorf("decode apps of %q: %w", row.Name, err)
		}

		presets.Set(row.Name, presetboard.Preset{
			Description:   row.Description,
			Apps:          apps,
			ClosePrevious: row.ClosePrevious,
		})
	}

	return presets, nil
}

// Write replaces every stored preset in a single transaction. A database
// that cannot be opened or migrated is replaced by a new one first.
func (b *Backend) Write(presets *presetboard.Presets) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if err := b.open(); err != nil {
		b.log.Warnw("preset database unusable, recreating it", "path", b.filename, "error", err)
		if err := b.recreate(); err != nil {
			return err
		}
	}

	ctx := context.Background()

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := b.querier.WithTx(tx)
	if err := q.DeleteAllPresets(ctx); err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}

	for i, name := range presets.Names() {
		preset, _ := presets.Get(name)

		apps, err := json.Marshal(preset.Apps)
		if err != nil {
			return fmt.Errorf("encode apps of %q: %w", name, err)
		}

		if err := q.InsertPreset(ctx, Preset{
			Name:          name,
			Position:      int64(i),
			Description:   preset.Description,
			Apps:          string(apps),
			ClosePrevious: preset.ClosePrevious,
		}); err != nil {
			return fmt.Errorf("sqlite insert %q: %w", name, err)
		}
	}

	if err := q.MarkInitialized(ctx); err != nil {
		return fmt.Errorf("sqlite update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
