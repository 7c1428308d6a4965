// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the canonical entities every other package works
// with. Raw API payloads are turned into these shapes by the content
// normalizer; nothing downstream sees the raw field names.
package models

import "time"

// PostType distinguishes plain publications from activities (events).
type PostType string

const (
	PostTypePublication PostType = "publication"
	PostTypeActivity    PostType = "activity"
)

// Post is a publication or activity shown on the site.
//
// A post that is not an activity never carries a schedule, price, or
// location; the normalizer enforces this.
type Post struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Author      string     `json:"author"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Image       string     `json:"image"`
	PublishedAt time.Time  `json:"publishedAt"`
	Type        PostType   `json:"type"`
	IsActivity  bool       `json:"isActivity"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Price       string     `json:"price"`
	Location    string     `json:"location"`
	ViewCount   int        `json:"viewCount"`
}

// EventTime returns when an activity takes place: the scheduled date when
// set, otherwise the publish date.
func (p *Post) EventTime() time.Time {
	if p.ScheduledAt != nil {
		return *p.ScheduledAt
	}
	return p.PublishedAt
}
