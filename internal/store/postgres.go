package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// PostgresStore keeps each collection as one JSONB row. Commits lock both rows
// with SELECT ... FOR UPDATE (always in the same order) so concurrent writers
// queue behind each other.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func AutoMigrate(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS collections (
          name       TEXT PRIMARY KEY,
          data       JSONB NOT NULL DEFAULT '[]'::jsonb,
          updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `)
	if err != nil {
		log.Printf("migrate playlist-hub: %v", err)
		return err
	}

	if _, err := db.Exec(ctx, `
      INSERT INTO collections (name) VALUES ($1), ($2)
      ON CONFLICT (name) DO NOTHING
    `, CollectionPlaylists, CollectionModerationLog); err != nil {
		return err
	}
	return nil
}

var readOnlyTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

func (s *PostgresStore) Read(ctx context.Context) (*Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, readOnlyTx)
	if err != nil {
		return nil, fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback(ctx)

	snap, err := loadSnapshot(ctx, tx, false)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit read: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) Commit(ctx context.Context, fn Mutator) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer tx.Rollback(ctx)

	snap, err := loadSnapshot(ctx, tx, true)
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}

	playlists, moderationLog, err := encodeCollections(snap)
	if err != nil {
		return err
	}
	for _, c := range []struct {
		name string
		data []byte
	}{
		{CollectionPlaylists, playlists},
		{CollectionModerationLog, moderationLog},
	} {
		tag, err := tx.Exec(ctx, `
            UPDATE collections
            SET data = $1, updated_at = now()
            WHERE name = $2
        `, c.data, c.name)
		if err != nil {
			return fmt.Errorf("write %s: %w", c.name, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("write %s: collection row missing, run migrations", c.name)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return nil }

func loadSnapshot(ctx context.Context, tx pgx.Tx, lock bool) (*Snapshot, error) {
	query := `SELECT data FROM collections WHERE name = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	snap := &Snapshot{}
	for _, c := range []struct {
		name string
		dst  any
	}{
		{CollectionPlaylists, &snap.Playlists},
		{CollectionModerationLog, &snap.ModerationLog},
	} {
		var data []byte
		err := tx.QueryRow(ctx, query, c.name).Scan(&data)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c.name, err)
		}
		if err := decodeCollection(c.name, data, c.dst); err != nil {
			return nil, err
		}
	}
	snap.normalize()
	return snap, nil
}
