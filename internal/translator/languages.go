package translator

import (
	"sort"
	"strings"
)

// Languages are the codes offered to users, with display names.
var Languages = map[string]string{
	"en":    "English",
	"hi":    "Hindi",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"it":    "Italian",
	"pt":    "Portuguese",
	"ru":    "Russian",
	"ja":    "Japanese",
	"zh-cn": "Chinese (Simplified)",
	"ar":    "Arabic",
	"ko":    "Korean",
}

// LanguageName returns the display name for code, or code itself when
// unknown.
func LanguageName(code string) string {
	if name, ok := Languages[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

func IsSupported(code string) bool {
	_, ok := Languages[strings.ToLower(code)]
	return ok
}

// LanguageCodes returns the supported codes in sorted order.
func LanguageCodes() []string {
	codes := make([]string, 0, len(Languages))
	for code := range Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
