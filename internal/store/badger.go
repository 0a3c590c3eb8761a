package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

const maxCommitAttempts = 64

// BadgerConfig configures the embedded Badger backing.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path       string
	InMemory   bool
	SyncWrites bool
	// Logger receives Badger's own log output. Nil silences it.
	Logger *slog.Logger
}

// BadgerStore keeps each collection under its own key. Commits run in a Badger
// read-write transaction and are retried on ErrConflict, so a concurrent
// writer never silently overwrites another.
type BadgerStore struct {
	db *badger.DB
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger path is required")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger.With("component", "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Read(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var snap *Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		snap, err = readSnapshot(txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *BadgerStore) Commit(ctx context.Context, fn Mutator) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.Update(func(txn *badger.Txn) error {
			snap, err := readSnapshot(txn)
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
			if err := txn.Set([]byte(CollectionPlaylists), playlists); err != nil {
				return err
			}
			return txn.Set([]byte(CollectionModerationLog), moderationLog)
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxCommitAttempts {
			continue
		}
		return err
	}
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func readSnapshot(txn *badger.Txn) (*Snapshot, error) {
	snap := &Snapshot{}
	for _, c := range []struct {
		name string
		dst  any
	}{
		{CollectionPlaylists, &snap.Playlists},
		{CollectionModerationLog, &snap.ModerationLog},
	} {
		item, err := txn.Get([]byte(c.name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c.name, err)
		}
		data, err := item.ValueCopy(nil)
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
