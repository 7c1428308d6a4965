package content

import (
	"strings"

	"revista/internal/models"
)

// ActivityLabel prefixes activity labels when LabelOptions asks for it.
const ActivityLabel = "Actividades"

// DefaultLabelFallback is the conventional fallback for posts without a
// category.
const DefaultLabelFallback = "Sin categoría"

// LabelOptions controls FormatCategoryLabel.
type LabelOptions struct {
	IncludeActivityPrefix bool
	Fallback              string
}

// FormatCategoryLabel builds the display label for a post, e.g.
// "Actividades · Cine · Reseña". Fallback is returned unchanged when there
// is nothing to show.
func FormatCategoryLabel(p *models.Post, opts LabelOptions) string {
	if p == nil {
		return opts.Fallback
	}

	var labels []string
	if opts.IncludeActivityPrefix && p.IsActivity {
		labels = append(labels, ActivityLabel)
	}
	if c := strings.TrimSpace(p.Category); c != "" {
		labels = append(labels, c)
	}
	if s := strings.TrimSpace(p.Subcategory); s != "" {
		labels = append(labels, s)
	}

	if len(labels) == 0 {
		return opts.Fallback
	}
	return strings.Join(labels, " · ")
}
