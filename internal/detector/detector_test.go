package detector

import (
	"testing"
)

func TestDetector_Detect(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantLang string
		wantOK   bool
	}{
		{name: "empty text", text: "", wantOK: false},
		{name: "whitespace", text: "   ", wantOK: false},
		{name: "english text", text: "Hello, this is a test in English.", wantLang: "English", wantOK: true},
		{name: "german text", text: "Hallo, das ist ein Test auf Deutsch.", wantLang: "German", wantOK: true},
		{name: "spanish text", text: "Hola, esto es una prueba en español.", wantLang: "Spanish", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, ok := d.Detect(tt.text)
			if ok != tt.wantOK {
				t.Errorf("Detect(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && lang.String() != tt.wantLang {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, lang, tt.wantLang)
			}
		})
	}
}

func TestDetector_DetectISO(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantOK   bool
	}{
		{name: "empty text", text: "", wantOK: false},
		{name: "english text", text: "Hello, this is a test in English.", wantCode: "en", wantOK: true},
		{name: "french text", text: "Bonjour, ceci est un test en français.", wantCode: "fr", wantOK: true},
		{name: "ukrainian text", text: "Привіт, це тест українською мовою.", wantCode: "uk", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.DetectISO(tt.text)
			if ok != tt.wantOK {
				t.Errorf("DetectISO(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if code != tt.wantCode {
				t.Errorf("DetectISO(%q) = %q, want %q", tt.text, code, tt.wantCode)
			}
		})
	}
}

func TestDetector_DetectWithConfidence(t *testing.T) {
	d := New()

	code, conf, ok := d.DetectWithConfidence("Das ist ein ziemlich langer deutscher Satz über das Wetter.")
	if !ok {
		t.Fatal("expected detection")
	}
	if code != "de" {
		t.Errorf("expected de, got %q", code)
	}
	if conf <= 0 || conf > 1 {
		t.Errorf("confidence out of range: %f", conf)
	}

	if _, _, ok := d.DetectWithConfidence(""); ok {
		t.Error("expected no detection for empty text")
	}
}
