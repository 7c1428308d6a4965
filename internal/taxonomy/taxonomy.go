// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy holds the static category blueprint of the site and
// derives the category index from it and the current posts.
package taxonomy

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"revista/internal/content"
	"revista/internal/models"
	"revista/internal/slug"
)

type blueprintEntry struct {
	name          string
	subcategories []string
}

// blueprint is the editorial taxonomy. Its order is the display order.
var blueprint = []blueprintEntry{
	{name: "Cine", subcategories: []string{"Ciclo de cine", "Reseña", "Análisis colectivo"}},
	{name: "Literatura", subcategories: []string{"Club de lectura", "Reseña", "Ensayo"}},
	{name: "Arte", subcategories: []string{"Exposición", "Crónica", "Entrevista"}},
	{name: "Cultura", subcategories: []string{"Agenda", "Crónica urbana", "Entrevista"}},
	{name: "Psicoanálisis", subcategories: []string{"Columna clínica", "Seminario", "Encuentro abierto"}},
	{name: "Animé", subcategories: []string{"Rewatch guiado", "Debate", "Reseña"}},
	{name: "Manga", subcategories: []string{"Lectura guiada", "Recomendación", "Ensayo visual"}},
}

// Blueprint returns a fresh copy of the static categories with their
// preset subcategories.
func Blueprint() []models.Category {
	cats := make([]models.Category, 0, len(blueprint))
	for _, b := range blueprint {
		c := models.Category{
			Name:          b.name,
			Slug:          slug.Generate(b.name),
			Subcategories: make([]models.Subcategory, 0, len(b.subcategories)),
		}
		for _, label := range b.subcategories {
			c.Subcategories = append(c.Subcategories, models.Subcategory{
				Name: label,
				Slug: slug.Generate(b.name + "-" + label),
			})
		}
		cats = append(cats, c)
	}
	return cats
}

// Build merges the blueprint with every (category, subcategory) pair found
// in posts. Blueprint entries keep their order; categories only seen in
// posts follow, sorted by name. Subcategories are de-duplicated by name,
// ignoring case. Build is pure: the same posts always give the same index.
func Build(posts []models.Post) []models.Category {
	base := Blueprint()
	index := make(map[string]*models.Category, len(base))
	for i := range base {
		index[base[i].Slug] = &base[i]
	}

	var extras []*models.Category
	for _, p := range posts {
		name := strings.TrimSpace(p.Category)
		if name == "" {
			name = content.DefaultCategory
		}
		key := slug.Generate(name)

		entry, ok := index[key]
		if !ok {
			entry = &models.Category{Name: name, Slug: key, Subcategories: []models.Subcategory{}}
			index[key] = entry
			extras = append(extras, entry)
		}

		sub := strings.TrimSpace(p.Subcategory)
		if sub == "" || hasSubcategory(entry, sub) {
			continue
		}
		entry.Subcategories = append(entry.Subcategories, models.Subcategory{
			Name: sub,
			Slug: slug.Generate(key + "-" + sub),
		})
	}

	col := collate.New(language.Spanish)
	sort.SliceStable(extras, func(i, j int) bool {
		return col.CompareString(extras[i].Name, extras[j].Name) < 0
	})

	out := make([]models.Category, 0, len(base)+len(extras))
	out = append(out, base...)
	for _, e := range extras {
		out = append(out, *e)
	}
	return out
}

// Find returns the category with the given slug, or nil.
func Find(categories []models.Category, categorySlug string) *models.Category {
	for i := range categories {
		if categories[i].Slug == categorySlug {
			return &categories[i]
		}
	}
	return nil
}

func hasSubcategory(c *models.Category, name string) bool {
	for _, s := range c.Subcategories {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}
