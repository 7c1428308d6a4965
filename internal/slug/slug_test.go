package slug

import "testing"

// TestGenerate exercises the slug generator with typical titles, category
// names, accented Spanish text, and edge cases.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Category names ---
		{name: "single word", input: "Cine", want: "cine"},
		{name: "subcategory phrase", input: "Ciclo de cine", want: "ciclo-de-cine"},
		{name: "accented vowel", input: "Psicoanálisis", want: "psicoanalisis"},
		{name: "accented last letter", input: "Animé", want: "anime"},
		{name: "enye", input: "Reseña", want: "resena"},
		{name: "composed category key", input: "Cine-Fanzine", want: "cine-fanzine"},
		{name: "exposition", input: "Exposición", want: "exposicion"},

		// --- Titles ---
		{name: "title with year", input: "Hello World 2026", want: "hello-world-2026"},
		{name: "punctuation dropped", input: "Hello, World! How's it going?", want: "hello-world-hows-it-going"},
		{name: "inverted marks dropped", input: "¿Qué es el cine?", want: "que-es-el-cine"},
		{name: "underscore kept", input: "snake_case title", want: "snake_case-title"},
		{name: "existing hyphen kept", input: "well-known fact", want: "well-known-fact"},
		{name: "hyphen runs are not collapsed", input: "a - b", want: "a---b"},

		// --- Whitespace ---
		{name: "leading and trailing spaces", input: "  hello world  ", want: "hello-world"},
		{name: "space runs collapsed", input: "hello    world", want: "hello-world"},
		{name: "tab collapsed", input: "hello\tworld", want: "hello-world"},
		{name: "newline collapsed", input: "hello\nworld", want: "hello-world"},
		{name: "non-breaking space", input: "hola\u00a0mundo", want: "hola-mundo"},

		// --- Edge cases ---
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "     ", want: ""},
		{name: "only special characters", input: "!@#$%^&*()", want: ""},
		{name: "non-latin script stripped", input: "漫画", want: ""},
		{name: "single character", input: "A", want: "a"},
		{name: "date-like string", input: "2026-02-25", want: "2026-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that slugifying a slug is a no-op.
func TestGenerate_Idempotent(t *testing.T) {
	inputs := []string{
		"Ciclo de cine",
		"Análisis colectivo",
		"  --hello -- world--  ",
		"Rewatch guiado",
		"a - b",
		"",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := Generate(input)
			twice := Generate(once)
			if once != twice {
				t.Errorf("Generate(Generate(%q)) = %q, want %q", input, twice, once)
			}
		})
	}
}

// TestGenerate_ConsistentCase verifies that slugs are always lowercase
// regardless of input casing.
func TestGenerate_ConsistentCase(t *testing.T) {
	inputs := []string{"CLUB DE LECTURA", "Club de Lectura", "cLuB dE lEcTuRa"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if got := Generate(input); got != "club-de-lectura" {
				t.Errorf("Generate(%q) = %q, want %q", input, got, "club-de-lectura")
			}
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Canción ÁRBOL", "cancion arbol"},
		{"Psicoanálisis", "psicoanalisis"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
