// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category is an entry of the derived category index. It is rebuilt from
// the static blueprint and the current posts on every change and is never
// persisted by this service.
type Category struct {
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory is a named child of a Category. Its slug is prefixed by the
// parent category slug.
type Subcategory struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryRecord is a category persisted by the remote API and managed from
// the admin console.
type CategoryRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
