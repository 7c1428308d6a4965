// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"slices"
	"strings"

	"revista/internal/models"
	"revista/internal/slug"
	"revista/internal/taxonomy"
)

// Posts returns every post, newest first.
func (s *ContentStore) Posts() []models.Post {
	return slices.Clone(s.Snapshot().Posts)
}

// Publications returns the posts that are not activities.
func (s *ContentStore) Publications() []models.Post {
	return slices.Clone(s.Snapshot().Publications)
}

// Activities returns the posts that are activities.
func (s *ContentStore) Activities() []models.Post {
	return slices.Clone(s.Snapshot().Activities)
}

// Categories returns the derived category index.
func (s *ContentStore) Categories() []models.Category {
	cats := s.Snapshot().Categories
	out := make([]models.Category, len(cats))
	for i, c := range cats {
		c.Subcategories = slices.Clone(c.Subcategories)
		out[i] = c
	}
	return out
}

// CategoryBySlug returns the indexed category with the given slug, or nil.
func (s *ContentStore) CategoryBySlug(categorySlug string) *models.Category {
	c := taxonomy.Find(s.Snapshot().Categories, categorySlug)
	if c == nil {
		return nil
	}
	cp := *c
	cp.Subcategories = slices.Clone(c.Subcategories)
	return &cp
}

// PostsByCategorySlug returns the posts whose slugified category equals
// categorySlug.
func (s *ContentStore) PostsByCategorySlug(categorySlug string) []models.Post {
	out := []models.Post{}
	for _, p := range s.Snapshot().Posts {
		if slug.Generate(p.Category) == categorySlug {
			out = append(out, p)
		}
	}
	return out
}

// PostByID returns the post with the given id, or nil.
func (s *ContentStore) PostByID(id string) *models.Post {
	for _, p := range s.Snapshot().Posts {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

// Magazines returns every magazine, newest first.
func (s *ContentStore) Magazines() []models.Magazine {
	return slices.Clone(s.Snapshot().Magazines)
}

// MagazineByID returns the magazine with the given id, or nil.
func (s *ContentStore) MagazineByID(id string) *models.Magazine {
	for _, m := range s.Snapshot().Magazines {
		if m.ID == id {
			return &m
		}
	}
	return nil
}

// Trending returns up to n posts ordered by view count, most viewed first.
// Ties go to the newer post.
func (s *ContentStore) Trending(n int) []models.Post {
	posts := s.Posts()
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		if a.ViewCount != b.ViewCount {
			return b.ViewCount - a.ViewCount
		}
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return limit(posts, n)
}

// Latest returns the n newest posts.
func (s *ContentStore) Latest(n int) []models.Post {
	return limit(s.Posts(), n)
}

// UpcomingActivities returns activities ordered by event time, soonest
// first.
func (s *ContentStore) UpcomingActivities() []models.Post {
	acts := s.Activities()
	slices.SortStableFunc(acts, func(a, b models.Post) int {
		return a.EventTime().Compare(b.EventTime())
	})
	return acts
}

// RecentPublications returns up to n publications other than excludeID,
// newest first.
func (s *ContentStore) RecentPublications(excludeID string, n int) []models.Post {
	out := []models.Post{}
	for _, p := range s.Snapshot().Publications {
		if p.ID != excludeID {
			out = append(out, p)
		}
	}
	return limit(out, n)
}

// Editions returns magazines ordered by release date, falling back to the
// creation date, newest first.
func (s *ContentStore) Editions() []models.Magazine {
	mags := s.Magazines()
	slices.SortStableFunc(mags, func(a, b models.Magazine) int {
		return b.EditionDate().Compare(a.EditionDate())
	})
	return mags
}

// SearchResults groups the matches of a search query.
type SearchResults struct {
	Query        string            `json:"query"`
	Publications []models.Post     `json:"publications"`
	Activities   []models.Post     `json:"activities"`
	Magazines    []models.Magazine `json:"magazines"`
}

// Total returns the number of matches across all groups.
func (r *SearchResults) Total() int {
	return len(r.Publications) + len(r.Activities) + len(r.Magazines)
}

// Search matches every word of query, ignoring case and accents, against
// the text of publications, activities and magazines. A blank query
// matches nothing.
func (s *ContentStore) Search(query string) *SearchResults {
	query = strings.TrimSpace(query)
	res := &SearchResults{
		Query:        query,
		Publications: []models.Post{},
		Activities:   []models.Post{},
		Magazines:    []models.Magazine{},
	}
	words := strings.Fields(slug.Fold(query))
	if len(words) == 0 {
		return res
	}

	snap := s.Snapshot()
	for _, p := range snap.Publications {
		if matchWords(words, p.Title, p.Excerpt, p.Content, p.Author, p.Category, p.Subcategory) {
			res.Publications = append(res.Publications, p)
		}
	}
	for _, p := range snap.Activities {
		if matchWords(words, p.Title, p.Excerpt, p.Content, p.Author, p.Location, p.Category, p.Subcategory) {
			res.Activities = append(res.Activities, p)
		}
	}
	for _, m := range snap.Magazines {
		if matchWords(words, m.Title, m.Description) {
			res.Magazines = append(res.Magazines, m)
		}
	}
	return res
}

func matchWords(words []string, fields ...string) bool {
	text := slug.Fold(strings.Join(fields, " "))
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

func limit[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
