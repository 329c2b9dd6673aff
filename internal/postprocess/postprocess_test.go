package postprocess

import "testing"

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hola, ¿qué tal?", "Hola, ¿qué tal?"},
		{"think block", "<think>translate carefully</think>Bonjour", "Bonjour"},
		{"thinking block mid-text", "Some text<thinking>Let me see</thinking>More text", "Some textMore text"},
		{"multiline reasoning", "<reasoning>\nline one\nline two\n</reasoning>\nHallo", "Hallo"},
		{"reflection", "Begin<reflection>ok</reflection>Finish", "BeginFinish"},
		{"several blocks", "<think>a</think>middle<THINK>b</THINK>", "middle"},
		{"cut off", "<thinking>Translation in progress", ""},
		{"cut off after text", "Before<think>Incomplete", "Before"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripReasoning(tt.input); got != tt.want {
				t.Errorf("stripReasoning(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripPreamble(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"here is", "Here is the translation: Hola", "Hola"},
		{"here's translated text", "here's the translated text:\nHola", "Hola"},
		{"sure", "Sure, here's the translation: Ciao", "Ciao"},
		{"of course", "Of course! Here is the refined translation: Hallo", "Hallo"},
		{"bare label", "Translation: Olá", "Olá"},
		{"translated text label", "The translated text: Olá", "Olá"},
		{"colon required", "Here is the translation of my book", "Here is the translation of my book"},
		{"not at start", "My translation: ok", "My translation: ok"},
		{"plain text word", "Text: keep me", "Text: keep me"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripPreamble(tt.input); got != tt.want {
				t.Errorf("stripPreamble(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"fenced", "```\nHola mundo\n```", "Hola mundo"},
		{"info string", "```text\nHola\nmundo\n```", "Hola\nmundo"},
		{"inline backticks kept", "Use `go test` here", "Use `go test` here"},
		{"fence inside text kept", "Before\n```\ncode\n```", "Before\n```\ncode\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.input); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnwrapQuotes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double", `"Hola"`, "Hola"},
		{"single", "'Hola'", "Hola"},
		{"guillemets", "«Bonjour»", "Bonjour"},
		{"curly", "“Hallo”", "Hallo"},
		{"corner brackets", "「こんにちは」", "こんにちは"},
		{"mismatched", `"Hola'`, `"Hola'`},
		{"inner quotes kept", `Dijo "hola" y se fue`, `Dijo "hola" y se fue`},
		{"only once", `""Hola""`, `"Hola"`},
		{"single rune", `"`, `"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unwrapQuotes(tt.input); got != tt.want {
				t.Errorf("unwrapQuotes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRepairPlaceholders(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Trabaja en \uE000 0 \uE001.", "Trabaja en \uE0000\uE001."},
		{"\uE000\t12\n\uE001 y \uE0003\uE001", "\uE00012\uE001 y \uE0003\uE001"},
		{"sin marcadores", "sin marcadores"},
	}
	for _, tt := range tests {
		if got := repairPlaceholders(tt.input); got != tt.want {
			t.Errorf("repairPlaceholders(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"all artifacts", "<think>hmm</think>\nHere's the translation: \"Hola mundo\"", "Hola mundo"},
		{"fenced answer", "Sure, here is the translation:\n```\n«Salut»\n```", "Salut"},
		{"clean input", "  Guten Morgen  ", "Guten Morgen"},
		{"placeholders survive", "<think>x</think>Trabaja en \uE000 0\uE001.", "Trabaja en \uE0000\uE001."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanWithLabels(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		labels []string
		want   string
	}{
		{"language name", "Spanish: Hola mundo", []string{"Spanish", "es"}, "Hola mundo"},
		{"code with quotes", "ES: \"Hola mundo\"", []string{"Spanish", "es"}, "Hola mundo"},
		{"in-language label", "In French translation: Bonjour", []string{"French", "fr"}, "Bonjour"},
		{"colon later in text", "Estoy bien: gracias", []string{"Spanish", "es"}, "Estoy bien: gracias"},
		{"no labels", "\"Hola\"", nil, "Hola"},
		{"empty label skipped", "Spanish: Hola", []string{"", "Spanish"}, "Hola"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanWithLabels(tt.input, tt.labels...); got != tt.want {
				t.Errorf("CleanWithLabels(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
