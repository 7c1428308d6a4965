// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"revista/internal/content"
	"revista/internal/models"
)

// ErrReadOnly is returned by mutations on a store built without a Remote.
var ErrReadOnly = errors.New("store: no remote configured")

// Mutations change the collection only after the API confirms. When the
// API rejects a write, the returned error wraps the *api.Error it answered
// with: errors.As recovers the server's status and message unchanged, and
// Error() prefixes the operation, as in "delete magazine: <message>".

// AddPost normalizes input, creates it on the API and, once the API
// confirms, adds the server's version to the collection. A rejection
// wraps the API's *api.Error.
func (s *ContentStore) AddPost(ctx context.Context, input content.Raw) (*models.Post, error) {
	if s.remote == nil {
		return nil, ErrReadOnly
	}
	prepared := content.CreatePost(input)
	saved, err := s.remote.CreateArticle(ctx, content.ArticlePayload(prepared))
	if err != nil {
		slog.Error("failed saving article", "error", err)
		return nil, fmt.Errorf("add post: %w", err)
	}
	post := content.CreatePost(confirmed(saved, content.PostRaw(prepared), ""))
	s.DispatchPosts(PostAction{Type: ActionAdd, Post: post})
	s.SetSyncError(CollectionPosts, "")
	return post, nil
}

// UpdatePost replaces the post with the given id after the API confirms.
func (s *ContentStore) UpdatePost(ctx context.Context, id string, input content.Raw) (*models.Post, error) {
	if s.remote == nil {
		return nil, ErrReadOnly
	}
	prepared := content.CreatePost(withKey(input, "id", id))
	saved, err := s.remote.UpdateArticle(ctx, id, content.ArticlePayload(prepared))
	if err != nil {
		slog.Error("failed updating article", "id", id, "error", err)
		return nil, fmt.Errorf("update post: %w", err)
	}
	post := content.CreatePost(confirmed(saved, content.PostRaw(prepared), id))
	s.DispatchPosts(PostAction{Type: ActionUpdate, Post: post})
	s.SetSyncError(CollectionPosts, "")
	return post, nil
}

// DeletePost removes the post with the given id after the API confirms.
// A rejection wraps the API's *api.Error.
func (s *ContentStore) DeletePost(ctx context.Context, id string) error {
	if s.remote == nil {
		return ErrReadOnly
	}
	if err := s.remote.DeleteArticle(ctx, id); err != nil {
		slog.Error("failed deleting article", "id", id, "error", err)
		return fmt.Errorf("delete post: %w", err)
	}
	s.DispatchPosts(PostAction{Type: ActionDelete, ID: id})
	s.SetSyncError(CollectionPosts, "")
	return nil
}

// AddMagazine normalizes input, creates it on the API and adds the server's
// version to the collection.
func (s *ContentStore) AddMagazine(ctx context.Context, input content.Raw) (*models.Magazine, error) {
	if s.remote == nil {
		return nil, ErrReadOnly
	}
	prepared := content.NormalizeMagazineInput(input)
	saved, err := s.remote.CreateMagazine(ctx, content.MagazinePayload(prepared))
	if err != nil {
		slog.Error("failed saving magazine", "error", err)
		return nil, fmt.Errorf("add magazine: %w", err)
	}
	mag := content.NormalizeMagazineInput(confirmed(saved, content.MagazineRaw(prepared), ""))
	s.DispatchMagazines(MagazineAction{Type: ActionAdd, Magazine: mag})
	s.SetSyncError(CollectionMagazines, "")
	return mag, nil
}

// UpdateMagazine replaces the magazine with the given id after the API
// confirms.
func (s *ContentStore) UpdateMagazine(ctx context.Context, id string, input content.Raw) (*models.Magazine, error) {
	if s.remote == nil {
		return nil, ErrReadOnly
	}
	prepared := content.NormalizeMagazineInput(withKey(input, "id", id))
	saved, err := s.remote.UpdateMagazine(ctx, id, content.MagazinePayload(prepared))
	if err != nil {
		slog.Error("failed updating magazine", "id", id, "error", err)
		return nil, fmt.Errorf("update magazine: %w", err)
	}
	mag := content.NormalizeMagazineInput(confirmed(saved, content.MagazineRaw(prepared), id))
	s.DispatchMagazines(MagazineAction{Type: ActionUpdate, Magazine: mag})
	s.SetSyncError(CollectionMagazines, "")
	return mag, nil
}

// DeleteMagazine removes the magazine with the given id after the API
// confirms. A rejection wraps the API's *api.Error and leaves the
// magazine in place.
func (s *ContentStore) DeleteMagazine(ctx context.Context, id string) error {
	if s.remote == nil {
		return ErrReadOnly
	}
	if err := s.remote.DeleteMagazine(ctx, id); err != nil {
		slog.Error("failed deleting magazine", "id", id, "error", err)
		return fmt.Errorf("delete magazine: %w", err)
	}
	s.DispatchMagazines(MagazineAction{Type: ActionDelete, ID: id})
	s.SetSyncError(CollectionMagazines, "")
	return nil
}

// confirmed picks the record to store after a successful write: the
// server's response, or the locally prepared record when the response was
// empty. An update keeps its id when the response omits one.
func confirmed(saved, prepared content.Raw, id string) content.Raw {
	if len(saved) == 0 {
		return prepared
	}
	if id != "" && blank(saved["id"]) {
		return withKey(saved, "id", id)
	}
	return saved
}

func withKey(raw content.Raw, key string, value any) content.Raw {
	out := make(content.Raw, len(raw)+1)
	maps.Copy(out, raw)
	out[key] = value
	return out
}

func blank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	}
	return false
}
