// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds the in-memory canonical copy of the site's posts and
// magazines, the views derived from them, and the mutations that round-trip
// through the remote API before touching local state.
package store

import (
	"context"
	"sync"

	"revista/internal/content"
	"revista/internal/models"
	"revista/internal/taxonomy"
)

// Collection identifies one of the two synchronized collections.
type Collection string

const (
	CollectionPosts     Collection = "posts"
	CollectionMagazines Collection = "magazines"
)

// SyncStatus reports the remote synchronization state of a collection.
type SyncStatus struct {
	Syncing bool   `json:"syncing"`
	Error   string `json:"error,omitempty"`
}

// Remote is the write side of the content API.
type Remote interface {
	CreateArticle(ctx context.Context, payload content.Raw) (content.Raw, error)
	UpdateArticle(ctx context.Context, id string, payload content.Raw) (content.Raw, error)
	DeleteArticle(ctx context.Context, id string) error
	CreateMagazine(ctx context.Context, payload content.Raw) (content.Raw, error)
	UpdateMagazine(ctx context.Context, id string, payload content.Raw) (content.Raw, error)
	DeleteMagazine(ctx context.Context, id string) error
}

// Snapshot is an immutable view of the store, rebuilt once per state change.
// Callers must not modify its slices.
type Snapshot struct {
	Version      uint64
	Posts        []models.Post
	Publications []models.Post
	Activities   []models.Post
	Categories   []models.Category
	Magazines    []models.Magazine
	PostSync     SyncStatus
	MagazineSync SyncStatus
}

// ContentStore serializes all transitions of the post and magazine
// collections and serves derived views from a memoized snapshot.
type ContentStore struct {
	remote Remote

	mu           sync.RWMutex
	posts        []models.Post
	magazines    []models.Magazine
	postSync     SyncStatus
	magazineSync SyncStatus
	snap         *Snapshot

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Collection)
}

// NewContentStore creates a store seeded with the given posts and magazines.
// remote may be nil for a read-only store; mutations then fail.
func NewContentStore(remote Remote, posts []models.Post, magazines []models.Magazine) *ContentStore {
	s := &ContentStore{
		remote: remote,
		subs:   make(map[int]func(Collection)),
	}
	s.posts = ReducePosts(nil, PostAction{Type: ActionInit, Posts: posts})
	s.magazines = ReduceMagazines(nil, MagazineAction{Type: ActionInit, Magazines: magazines})
	s.rebuild()
	return s
}

// rebuild recomputes the snapshot. Caller must hold mu for writing.
func (s *ContentStore) rebuild() {
	var version uint64 = 1
	if s.snap != nil {
		version = s.snap.Version + 1
	}
	publications := make([]models.Post, 0, len(s.posts))
	activities := make([]models.Post, 0)
	for _, p := range s.posts {
		if p.IsActivity {
			activities = append(activities, p)
		} else {
			publications = append(publications, p)
		}
	}
	s.snap = &Snapshot{
		Version:      version,
		Posts:        s.posts,
		Publications: publications,
		Activities:   activities,
		Categories:   taxonomy.Build(s.posts),
		Magazines:    s.magazines,
		PostSync:     s.postSync,
		MagazineSync: s.magazineSync,
	}
}

// Snapshot returns the current immutable snapshot.
func (s *ContentStore) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers fn to be called after every state change with the
// collection that changed. The returned func removes the subscription.
func (s *ContentStore) Subscribe(fn func(Collection)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *ContentStore) notify(c Collection) {
	s.subMu.Lock()
	fns := make([]func(Collection), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// DispatchPosts applies a to the post collection.
func (s *ContentStore) DispatchPosts(a PostAction) {
	s.DispatchPostsIf(a, nil)
}

// DispatchPostsIf applies a only when keep, evaluated under the store lock,
// reports true. A nil keep always applies. It reports whether a was applied.
func (s *ContentStore) DispatchPostsIf(a PostAction, keep func() bool) bool {
	s.mu.Lock()
	if keep != nil && !keep() {
		s.mu.Unlock()
		return false
	}
	s.posts = ReducePosts(s.posts, a)
	s.rebuild()
	s.mu.Unlock()
	s.notify(CollectionPosts)
	return true
}

// DispatchMagazines applies a to the magazine collection.
func (s *ContentStore) DispatchMagazines(a MagazineAction) {
	s.DispatchMagazinesIf(a, nil)
}

// DispatchMagazinesIf is the magazine counterpart of DispatchPostsIf.
func (s *ContentStore) DispatchMagazinesIf(a MagazineAction, keep func() bool) bool {
	s.mu.Lock()
	if keep != nil && !keep() {
		s.mu.Unlock()
		return false
	}
	s.magazines = ReduceMagazines(s.magazines, a)
	s.rebuild()
	s.mu.Unlock()
	s.notify(CollectionMagazines)
	return true
}

// SetSyncing flags whether a fetch of c is in flight.
func (s *ContentStore) SetSyncing(c Collection, syncing bool) {
	s.updateSync(c, func(st *SyncStatus) { st.Syncing = syncing })
}

// SetSyncError records msg as the last sync failure of c. An empty msg
// clears it.
func (s *ContentStore) SetSyncError(c Collection, msg string) {
	s.updateSync(c, func(st *SyncStatus) { st.Error = msg })
}

// SyncStatus returns the sync state of c.
func (s *ContentStore) SyncStatus(c Collection) SyncStatus {
	snap := s.Snapshot()
	if c == CollectionMagazines {
		return snap.MagazineSync
	}
	return snap.PostSync
}

func (s *ContentStore) updateSync(c Collection, fn func(*SyncStatus)) {
	s.mu.Lock()
	st := &s.postSync
	if c == CollectionMagazines {
		st = &s.magazineSync
	}
	before := *st
	fn(st)
	changed := before != *st
	if changed {
		s.rebuild()
	}
	s.mu.Unlock()
}
