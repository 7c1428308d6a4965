// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package syncer keeps the content store in step with the remote API. Each
// collection has at most one live fetch; starting a new one cancels the
// previous, and a cancelled or superseded fetch never touches the store.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"revista/internal/content"
	"revista/internal/store"
)

// Messages recorded on the store when a fetch fails.
const (
	PostsActivationError     = "No se pudo sincronizar con la base de datos. Mostrando datos locales."
	MagazinesActivationError = "No se pudo sincronizar las revistas con la base de datos."
	PostsRefreshError        = "No se pudo sincronizar con la base de datos."
	MagazinesRefreshError    = "No se pudo sincronizar las revistas."
)

// ErrSuperseded is returned by Refresh when its fetch was cancelled before
// it could dispatch. It matches context.Canceled.
var ErrSuperseded = fmt.Errorf("sync superseded: %w", context.Canceled)

// Fetcher is the read side of the content API.
type Fetcher interface {
	ListArticles(ctx context.Context) ([]content.Raw, error)
	ListMagazines(ctx context.Context) ([]content.Raw, error)
}

// loop tracks the live fetch of one collection.
type loop struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// begin cancels any in-flight fetch and returns the context and generation
// of a new one.
func (l *loop) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.cancel = cancel
	return ctx, l.gen
}

// current reports whether gen is still the live fetch.
func (l *loop) current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen == gen
}

// end releases the fetch's context if it is still the live one.
func (l *loop) end(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen == gen && l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// stop cancels the live fetch and invalidates its generation.
func (l *loop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}

// Controller drives fetches of both collections into a store.
type Controller struct {
	store     *store.ContentStore
	fetcher   Fetcher
	posts     loop
	magazines loop
	wg        sync.WaitGroup
}

// New creates a controller that feeds s from f.
func New(s *store.ContentStore, f Fetcher) *Controller {
	return &Controller{store: s, fetcher: f}
}

func (c *Controller) loopFor(col store.Collection) *loop {
	if col == store.CollectionMagazines {
		return &c.magazines
	}
	return &c.posts
}

// Activate starts a background fetch of both collections. Failures are
// recorded on the store; nothing is returned.
func (c *Controller) Activate(ctx context.Context) {
	c.ActivateCollection(ctx, store.CollectionPosts)
	c.ActivateCollection(ctx, store.CollectionMagazines)
}

// ActivateCollection starts a background fetch of one collection.
func (c *Controller) ActivateCollection(ctx context.Context, col store.Collection) {
	fctx, gen := c.loopFor(col).begin(ctx)
	c.store.SetSyncing(col, true)
	msg := PostsActivationError
	if col == store.CollectionMagazines {
		msg = MagazinesActivationError
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.sync(fctx, col, gen, msg)
	}()
}

// Deactivate cancels every in-flight fetch. Cancelled fetches leave the
// store and its sync errors untouched.
func (c *Controller) Deactivate() {
	c.posts.stop()
	c.magazines.stop()
	c.store.SetSyncing(store.CollectionPosts, false)
	c.store.SetSyncing(store.CollectionMagazines, false)
}

// Wait blocks until every background fetch has returned.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Refresh fetches one collection and waits for the result. It supersedes
// any fetch already in flight for that collection.
func (c *Controller) Refresh(ctx context.Context, col store.Collection) error {
	fctx, gen := c.loopFor(col).begin(ctx)
	c.store.SetSyncing(col, true)
	msg := PostsRefreshError
	if col == store.CollectionMagazines {
		msg = MagazinesRefreshError
	}
	return c.sync(fctx, col, gen, msg)
}

// RefreshAll refreshes both collections concurrently. Both refreshes run
// to completion; the first error is returned.
func (c *Controller) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.Refresh(ctx, store.CollectionPosts) })
	g.Go(func() error { return c.Refresh(ctx, store.CollectionMagazines) })
	return g.Wait()
}

// Run activates both collections now and again every interval until ctx
// is done, then cancels whatever is still in flight.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	c.Activate(ctx)
	if interval <= 0 {
		<-ctx.Done()
		c.Deactivate()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Activate(ctx)
		case <-ctx.Done():
			c.Deactivate()
			return
		}
	}
}

// sync performs one fetch of col under generation gen. failMsg is recorded
// on a genuine failure.
func (c *Controller) sync(ctx context.Context, col store.Collection, gen uint64, failMsg string) error {
	l := c.loopFor(col)
	defer l.end(gen)

	live := func() bool { return l.current(gen) && ctx.Err() == nil }

	var (
		applied bool
		err     error
	)
	switch col {
	case store.CollectionMagazines:
		var raws []content.Raw
		raws, err = c.fetcher.ListMagazines(ctx)
		if err == nil {
			applied = c.store.DispatchMagazinesIf(store.MagazineAction{
				Type:      store.ActionInit,
				Magazines: content.NormalizeMagazines(raws),
			}, live)
		}
	default:
		var raws []content.Raw
		raws, err = c.fetcher.ListArticles(ctx)
		if err == nil {
			applied = c.store.DispatchPostsIf(store.PostAction{
				Type:  store.ActionInit,
				Posts: content.NormalizePosts(raws),
			}, live)
		}
	}

	// A fetch cancelled by its own caller is still the live one and must
	// not leave the collection marked as syncing.
	if l.current(gen) {
		c.store.SetSyncing(col, false)
	}
	if errors.Is(err, context.Canceled) || (err == nil && !applied) || (err != nil && !live()) {
		slog.Debug("sync cancelled", "collection", col)
		return ErrSuperseded
	}

	if err != nil {
		slog.Error("sync failed", "collection", col, "error", err)
		c.store.SetSyncError(col, failMsg)
		return fmt.Errorf("sync %s: %w", col, err)
	}
	c.store.SetSyncError(col, "")
	slog.Info("sync complete", "collection", col)
	return nil
}
