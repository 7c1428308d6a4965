// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seed provides the bundled fallback dataset the content store
// starts from, so the site is never empty before the first sync.
package seed

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"revista/internal/content"
	"revista/internal/models"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// Dataset is the raw fallback content, exactly as bundled.
type Dataset struct {
	Posts     []content.Raw `yaml:"posts"`
	Magazines []content.Raw `yaml:"magazines"`
}

// Parse decodes a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("seed parse: %w", err)
	}
	return &ds, nil
}

// Fallback holds the normalized bundled dataset.
type Fallback struct {
	Posts     []models.Post
	Magazines []models.Magazine
}

// Load returns the bundled dataset, normalized. It is parsed once per
// process and every call returns fresh slices.
func Load() (Fallback, error) {
	fb, err := loadOnce()
	if err != nil {
		return Fallback{}, err
	}
	return Fallback{
		Posts:     append([]models.Post(nil), fb.Posts...),
		Magazines: append([]models.Magazine(nil), fb.Magazines...),
	}, nil
}

var loadOnce = sync.OnceValues(func() (Fallback, error) {
	ds, err := Parse(fallbackYAML)
	if err != nil {
		return Fallback{}, err
	}
	return Fallback{
		Posts:     content.NormalizePosts(ds.Posts),
		Magazines: content.NormalizeMagazines(ds.Magazines),
	}, nil
})
