package content

import (
	"testing"

	"revista/internal/models"
)

func TestFormatCategoryLabel(t *testing.T) {
	tests := []struct {
		name string
		post *models.Post
		opts LabelOptions
		want string
	}{
		{
			name: "category and subcategory",
			post: &models.Post{Category: "Cine", Subcategory: "Reseña"},
			opts: LabelOptions{Fallback: "x"},
			want: "Cine · Reseña",
		},
		{
			name: "nil post returns fallback",
			post: nil,
			opts: LabelOptions{Fallback: "x"},
			want: "x",
		},
		{
			name: "blank fields return fallback",
			post: &models.Post{Category: "  ", Subcategory: ""},
			opts: LabelOptions{Fallback: DefaultLabelFallback},
			want: DefaultLabelFallback,
		},
		{
			name: "activity prefix requested",
			post: &models.Post{IsActivity: true, Category: "Cine"},
			opts: LabelOptions{IncludeActivityPrefix: true, Fallback: "x"},
			want: "Actividades · Cine",
		},
		{
			name: "activity prefix alone",
			post: &models.Post{IsActivity: true},
			opts: LabelOptions{IncludeActivityPrefix: true, Fallback: "x"},
			want: "Actividades",
		},
		{
			name: "activity prefix not requested",
			post: &models.Post{IsActivity: true},
			opts: LabelOptions{Fallback: "Publicaciones"},
			want: "Publicaciones",
		},
		{
			name: "prefix ignored for publications",
			post: &models.Post{Category: "Arte"},
			opts: LabelOptions{IncludeActivityPrefix: true},
			want: "Arte",
		},
		{
			name: "values trimmed",
			post: &models.Post{Category: " Manga ", Subcategory: " Ensayo visual "},
			want: "Manga · Ensayo visual",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCategoryLabel(tt.post, tt.opts); got != tt.want {
				t.Errorf("FormatCategoryLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
