// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"slices"

	"revista/internal/models"
)

// ActionType names a state transition of a collection.
type ActionType string

const (
	ActionInit   ActionType = "INIT"
	ActionAdd    ActionType = "ADD"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
)

// PostAction is one transition of the post collection. INIT reads Posts,
// ADD and UPDATE read Post, DELETE reads ID.
type PostAction struct {
	Type  ActionType
	Posts []models.Post
	Post  *models.Post
	ID    string
}

// MagazineAction is one transition of the magazine collection.
type MagazineAction struct {
	Type      ActionType
	Magazines []models.Magazine
	Magazine  *models.Magazine
	ID        string
}

// ReducePosts applies a to state and returns the new collection sorted by
// descending publish date. state is never modified. ADD replaces an entry
// that already carries the same id; UPDATE of an unknown id is a no-op.
func ReducePosts(state []models.Post, a PostAction) []models.Post {
	var next []models.Post
	switch a.Type {
	case ActionInit:
		next = slices.Clone(a.Posts)
	case ActionAdd:
		if a.Post == nil {
			return state
		}
		next = make([]models.Post, 0, len(state)+1)
		next = append(next, *a.Post)
		for _, p := range state {
			if p.ID != a.Post.ID {
				next = append(next, p)
			}
		}
	case ActionUpdate:
		if a.Post == nil {
			return state
		}
		next = slices.Clone(state)
		for i := range next {
			if next[i].ID == a.Post.ID {
				next[i] = *a.Post
			}
		}
	case ActionDelete:
		next = slices.DeleteFunc(slices.Clone(state), func(p models.Post) bool {
			return p.ID == a.ID
		})
	default:
		return state
	}
	sortPosts(next)
	return next
}

// ReduceMagazines applies a to state and returns the new collection sorted by
// descending creation date.
func ReduceMagazines(state []models.Magazine, a MagazineAction) []models.Magazine {
	var next []models.Magazine
	switch a.Type {
	case ActionInit:
		next = slices.Clone(a.Magazines)
	case ActionAdd:
		if a.Magazine == nil {
			return state
		}
		next = make([]models.Magazine, 0, len(state)+1)
		next = append(next, *a.Magazine)
		for _, m := range state {
			if m.ID != a.Magazine.ID {
				next = append(next, m)
			}
		}
	case ActionUpdate:
		if a.Magazine == nil {
			return state
		}
		next = slices.Clone(state)
		for i := range next {
			if next[i].ID == a.Magazine.ID {
				next[i] = *a.Magazine
			}
		}
	case ActionDelete:
		next = slices.DeleteFunc(slices.Clone(state), func(m models.Magazine) bool {
			return m.ID == a.ID
		})
	default:
		return state
	}
	sortMagazines(next)
	return next
}

func sortPosts(posts []models.Post) {
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
}

func sortMagazines(mags []models.Magazine) {
	slices.SortStableFunc(mags, func(a, b models.Magazine) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
