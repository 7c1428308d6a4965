// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// DefaultAvatar is shown for authors without a picture.
const DefaultAvatar = "https://placehold.co/48x48?text=DJ"

// Author is a contributor. Posts reference authors by exact name.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// AvatarURL returns the author's picture or the default placeholder.
func (a *Author) AvatarURL() string {
	if a.Avatar != "" {
		return a.Avatar
	}
	return DefaultAvatar
}

// FindAuthor returns the author whose name matches exactly, or nil.
func FindAuthor(authors []Author, name string) *Author {
	if name == "" {
		return nil
	}
	for i := range authors {
		if authors[i].Name == name {
			return &authors[i]
		}
	}
	return nil
}
