package sqlite

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Preset struct {
	Name          string
	Position      int64
	Description   string
	Apps          string
	ClosePrevious bool
}

const isInitialized = `select count(*) > 0 from store_state`

func (q *Queries) IsInitialized(ctx context.Context) (bool, error) {
	row := q.db.QueryRowContext(ctx, isInitialized)
	var initialized bool
	err := row.Scan(&initialized)
	return initialized, err
}

const markInitialized = `insert into store_state (id, initialized_at) values (1, datetime('now'))
on conflict (id) do nothing`

func (q *Queries) MarkInitialized(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, markInitialized)
	return err
}

const listPresets = `select name, position, description, apps, close_previous from presets order by position`

func (q *Queries) ListPresets(ctx context.Context) ([]Preset, error) {
	rows, err := q.db.QueryContext(ctx, listPresets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Preset
	for rows.Next() {
		var i Preset
		if err := rows.Scan(&i.Name, &i.Position, &i.Description, &i.Apps, &i.ClosePrevious); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

const deleteAllPresets = `delete from presets`

func (q *Queries) DeleteAllPresets(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllPresets)
	return err
}

const insertPreset = `insert into presets (name, position, description, apps, close_previous)
values (?, ?, ?, ?, ?)`

func (q *Queries) InsertPreset(ctx context.Context, arg Preset) error {
	_, err := q.db.ExecContext(ctx, insertPreset, arg.Name, arg.Position, arg.Description, arg.Apps, arg.ClosePrevious)
	return err
}

const dumpTables = `select sql from sqlite_master where type = 'table' order by name`

func (q *Queries) DumpTables(ctx context.Context) ([]*string, error) {
	return q.dumpStatements(ctx, dumpTables)
}

const dumpRest = `select sql from sqlite_master where type <> 'table' order by name`

func (q *Queries) DumpRest(ctx context.Context) ([]*string, error) {
	return q.dumpStatements(ctx, dumpRest)
}

func (q *Queries) dumpStatements(ctx context.Context, query string) ([]*string, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*string
	for rows.Next() {
		var statement *string
		if err := rows.Scan(&statement); err != nil {
			return nil, err
		}
		items = append(items, statement)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
