package slug

import "testing"

// TestNormalize exercises the segment normalizer with typical titles,
// diacritics, special characters, and boundary inputs.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},
		{
			name:  "question title",
			input: "Como criar?",
			want:  "como-criar",
		},
		{
			name:  "mixed case sentence",
			input: "The Quick Brown Fox Jumps Over the Lazy Dog",
			want:  "the-quick-brown-fox-jumps-over-the-lazy-dog",
		},

		// --- Diacritics ---
		{
			name:  "acute and umlaut stripped",
			input: "Café Müller",
			want:  "cafe-muller",
		},
		{
			name:  "portuguese accents",
			input: "Informação não encontrada",
			want:  "informacao-nao-encontrada",
		},
		{
			name:  "cedilla and tilde",
			input: "Atenção à configuração",
			want:  "atencao-a-configuracao",
		},
		{
			name:  "french accents",
			input: "Les Misérables à la carte",
			want:  "les-miserables-a-la-carte",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "Hello, World! How's it going?",
			want:  "hello-world-hows-it-going",
		},
		{
			name:  "ampersand and at sign",
			input: "Rock & Roll @ the Arena",
			want:  "rock-roll-the-arena",
		},
		{
			name:  "parentheses and brackets",
			input: "Version (2.0) [Beta]",
			want:  "version-20-beta",
		},
		{
			name:  "slashes are not segment separators",
			input: "Frontend/Backend | Full Stack",
			want:  "frontendbackend-full-stack",
		},
		{
			name:  "hash and dollar",
			input: "Issue #42 costs $100",
			want:  "issue-42-costs-100",
		},

		// --- Whitespace handling ---
		{
			name:  "leading and trailing spaces",
			input: "  hello world  ",
			want:  "hello-world",
		},
		{
			name:  "multiple consecutive spaces collapsed",
			input: "hello    world",
			want:  "hello-world",
		},
		{
			name:  "tabs collapse like spaces",
			input: "hello\tworld",
			want:  "hello-world",
		},
		{
			name:  "newlines collapse like spaces",
			input: "hello\n\nworld",
			want:  "hello-world",
		},

		// --- Hyphen handling ---
		{
			name:  "leading and trailing hyphens trimmed",
			input: "---hello world---",
			want:  "hello-world",
		},
		{
			name:  "multiple hyphens between words",
			input: "hello---world",
			want:  "hello-world",
		},
		{
			name:  "single hyphen preserved",
			input: "well-known fact",
			want:  "well-known-fact",
		},
		{
			name:  "hyphens and spaces mixed",
			input: "  --hello -- world--  ",
			want:  "hello-world",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only spaces",
			input: "     ",
			want:  "",
		},
		{
			name:  "only hyphens",
			input: "-----",
			want:  "",
		},
		{
			name:  "only special characters",
			input: "!@#$%^&*()",
			want:  "",
		},
		{
			name:  "only combining marks",
			input: "́̈",
			want:  "",
		},
		{
			name:  "single character",
			input: "A",
			want:  "a",
		},
		{
			name:  "single number",
			input: "5",
			want:  "5",
		},

		// --- Numbers ---
		{
			name:  "date-like string",
			input: "2026-02-25",
			want:  "2026-02-25",
		},
		{
			name:  "mixed words and numbers",
			input: "Chapter 3 Section 14",
			want:  "chapter-3-section-14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestNormalize_Idempotent verifies that normalizing an already
// normalized string produces the same result.
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello World",
		"Café Müller",
		"  --hello -- world--  ",
		"!@#$%^&*()",
		"",
		"a",
		"2026-02-25",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Normalize(in)
			twice := Normalize(once)
			if twice != once {
				t.Errorf("Normalize(Normalize(%q)) = %q, want %q", in, twice, once)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		subCategory string
		title       string
		want        string
	}{
		{
			name:        "campaign question",
			category:    "SMS",
			subCategory: "Campanhas",
			title:       "Como criar?",
			want:        "sms/campanhas/como-criar",
		},
		{
			name:        "accented names",
			category:    "Operações",
			subCategory: "Configuração",
			title:       "O que é isso?",
			want:        "operacoes/configuracao/o-que-e-isso",
		},
		{
			name:        "empty title yields empty last segment",
			category:    "SMS",
			subCategory: "Blacklist",
			title:       "???",
			want:        "sms/blacklist/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.category, tt.subCategory, tt.title)
			if got != tt.want {
				t.Errorf("Compose(%q, %q, %q) = %q, want %q",
					tt.category, tt.subCategory, tt.title, got, tt.want)
			}
		})
	}
}

// TestCompose_Deterministic verifies that identical inputs always
// produce identical output, which updates rely on for idempotent
// re-slugging.
func TestCompose_Deterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := Compose("SMS", "Campanhas", "Como pausar uma campanha?")
		if got != "sms/campanhas/como-pausar-uma-campanha" {
			t.Fatalf("iteration %d: got %q", i, got)
		}
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name string
		base string
		live []string
		want string
	}{
		{
			name: "no collision returns base unchanged",
			base: "a/b/c",
			live: nil,
			want: "a/b/c",
		},
		{
			name: "first collision gets -1",
			base: "a/b/c",
			live: []string{"a/b/c"},
			want: "a/b/c-1",
		},
		{
			name: "suffixed base collides with itself and base",
			base: "a/b/c-1",
			live: []string{"a/b/c", "a/b/c-1"},
			want: "a/b/c-1-1",
		},
		{
			name: "suffix increments past taken candidates",
			base: "a/b/c",
			live: []string{"a/b/c", "a/b/c-1", "a/b/c-2"},
			want: "a/b/c-3",
		},
		{
			name: "gap in suffixes is not reused below the base search",
			base: "a/b/c",
			live: []string{"a/b/c", "a/b/c-2"},
			want: "a/b/c-1",
		},
		{
			name: "only the last segment is suffixed",
			base: "sms/campanhas/como-criar",
			live: []string{"sms/campanhas/como-criar"},
			want: "sms/campanhas/como-criar-1",
		},
		{
			name: "unrelated live slugs are ignored",
			base: "a/b/c",
			live: []string{"x/y/z", "a/b/d"},
			want: "a/b/c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.base, NewLiveSet(tt.live))
			if got != tt.want {
				t.Errorf("Allocate(%q, %v) = %q, want %q", tt.base, tt.live, got, tt.want)
			}
		})
	}
}

func TestReallocateForUpdate(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		live    []string
		current string
		want    string
	}{
		{
			name:    "record keeps its own slug",
			base:    "a/b/c",
			live:    []string{"a/b/c"},
			current: "a/b/c",
			want:    "a/b/c",
		},
		{
			name:    "record keeps its suffixed slug when base recomputes to it",
			base:    "a/b/c-1",
			live:    []string{"a/b/c", "a/b/c-1"},
			current: "a/b/c-1",
			want:    "a/b/c-1",
		},
		{
			name:    "collision with another record still disambiguates",
			base:    "a/b/c",
			live:    []string{"a/b/c", "a/b/old"},
			current: "a/b/old",
			want:    "a/b/c-1",
		},
		{
			name:    "retitled record moves to a free slug",
			base:    "a/b/new",
			live:    []string{"a/b/old", "x/y/z"},
			current: "a/b/old",
			want:    "a/b/new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReallocateForUpdate(tt.base, NewLiveSet(tt.live), tt.current)
			if got != tt.want {
				t.Errorf("ReallocateForUpdate(%q, %v, %q) = %q, want %q",
					tt.base, tt.live, tt.current, got, tt.want)
			}
		})
	}
}
