// Package store persists the playlist and moderation-log collections behind a
// whole-collection transactional contract: readers see the latest committed
// snapshot, writers apply a mutator to a private copy that is committed
// atomically or not at all.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"playlist-hub/internal/model"
)

const (
	CollectionPlaylists     = "playlists"
	CollectionModerationLog = "moderationLog"
)

type Snapshot struct {
	Playlists     []model.Playlist `json:"playlists"`
	ModerationLog []model.LogEntry `json:"moderationLog"`
}

// Mutator changes a snapshot in place. Returning an error aborts the commit.
// Backings with optimistic concurrency may run a mutator more than once, each
// time against a fresh snapshot, so it must not have side effects beyond the
// snapshot and its own captured results.
type Mutator func(*Snapshot) error

type Store interface {
	// Read returns the latest committed snapshot. Callers must not modify it.
	Read(ctx context.Context) (*Snapshot, error)
	// Commit serializes fn against all other commits.
	Commit(ctx context.Context, fn Mutator) error
	Close() error
}

func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Playlists:     make([]model.Playlist, len(s.Playlists)),
		ModerationLog: append([]model.LogEntry{}, s.ModerationLog...),
	}
	for i, p := range s.Playlists {
		out.Playlists[i] = p.Clone()
	}
	return out
}

// FindPlaylist returns the index of creator's playlist called name, or -1.
func (s *Snapshot) FindPlaylist(creator, name string) int {
	for i, p := range s.Playlists {
		if p.Creator == creator && p.Name == name {
			return i
		}
	}
	return -1
}

func (s *Snapshot) CountOwnedBy(creator string) int {
	n := 0
	for _, p := range s.Playlists {
		if p.Creator == creator {
			n++
		}
	}
	return n
}

func (s *Snapshot) normalize() {
	if s.Playlists == nil {
		s.Playlists = []model.Playlist{}
	}
	if s.ModerationLog == nil {
		s.ModerationLog = []model.LogEntry{}
	}
}

func encodeCollections(s *Snapshot) (playlists, moderationLog []byte, err error) {
	s.normalize()
	if playlists, err = json.Marshal(s.Playlists); err != nil {
		return nil, nil, fmt.Errorf("encode %s: %w", CollectionPlaylists, err)
	}
	if moderationLog, err = json.Marshal(s.ModerationLog); err != nil {
		return nil, nil, fmt.Errorf("encode %s: %w", CollectionModerationLog, err)
	}
	return playlists, moderationLog, nil
}

func decodeCollection(name string, data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
