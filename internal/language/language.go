package language

import "strings"

// Language is one language the translation service supports.
type Language struct {
	Code       string // lowercase code used on the wire (e.g. "en", "de")
	Name       string // English name (e.g. "English", "German")
	NativeName string // native name (e.g. "English", "Deutsch")
}

// Auto stands for automatic source-language detection.
var Auto = Language{Code: "auto", Name: "Auto-detect", NativeName: ""}

// languages is the master list of supported languages, matching the
// translation service's published language pairs.
var languages = []Language{
	{Code: "ar", Name: "Arabic", NativeName: "العربية"},
	{Code: "bg", Name: "Bulgarian", NativeName: "Български"},
	{Code: "cs", Name: "Czech", NativeName: "Čeština"},
	{Code: "da", Name: "Danish", NativeName: "Dansk"},
	{Code: "de", Name: "German", NativeName: "Deutsch"},
	{Code: "el", Name: "Greek", NativeName: "Ελληνικά"},
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "et", Name: "Estonian", NativeName: "Eesti"},
	{Code: "fi", Name: "Finnish", NativeName: "Suomi"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "hu", Name: "Hungarian", NativeName: "Magyar"},
	{Code: "id", Name: "Indonesian", NativeName: "Bahasa Indonesia"},
	{Code: "it", Name: "Italian", NativeName: "Italiano"},
	{Code: "ja", Name: "Japanese", NativeName: "日本語"},
	{Code: "ko", Name: "Korean", NativeName: "한국어"},
	{Code: "lt", Name: "Lithuanian", NativeName: "Lietuvių"},
	{Code: "lv", Name: "Latvian", NativeName: "Latviešu"},
	{Code: "nb", Name: "Norwegian Bokmål", NativeName: "Norsk bokmål"},
	{Code: "nl", Name: "Dutch", NativeName: "Nederlands"},
	{Code: "pl", Name: "Polish", NativeName: "Polski"},
	{Code: "pt", Name: "Portuguese", NativeName: "Português"},
	{Code: "ro", Name: "Romanian", NativeName: "Română"},
	{Code: "ru", Name: "Russian", NativeName: "Русский"},
	{Code: "sk", Name: "Slovak", NativeName: "Slovenčina"},
	{Code: "sl", Name: "Slovenian", NativeName: "Slovenščina"},
	{Code: "sv", Name: "Swedish", NativeName: "Svenska"},
	{Code: "tr", Name: "Turkish", NativeName: "Türkçe"},
	{Code: "uk", Name: "Ukrainian", NativeName: "Українська"},
	{Code: "zh", Name: "Chinese", NativeName: "中文"},
}

// codeIndex maps language codes to their Language structs for fast lookup
var codeIndex map[string]Language

func init() {
	codeIndex = make(map[string]Language, len(languages)+2)
	codeIndex[""] = Auto
	codeIndex[Auto.Code] = Auto
	for _, lang := range languages {
		codeIndex[lang.Code] = lang
	}
}

// Normalize lowercases a code so user input and wire values compare equal.
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// FromCode returns the Language for the given code.
// Returns Auto if code is not found.
func FromCode(code string) Language {
	if lang, ok := codeIndex[Normalize(code)]; ok {
		return lang
	}
	return Auto
}

// List returns all supported languages (excluding Auto)
func List() []Language {
	result := make([]Language, len(languages))
	copy(result, languages)
	return result
}

// Codes returns all language codes (excluding the auto sentinel)
func Codes() []string {
	codes := make([]string, len(languages))
	for i, lang := range languages {
		codes[i] = lang.Code
	}
	return codes
}

// IsValidCode returns true if the code is recognized (including empty or
// "auto" for detection)
func IsValidCode(code string) bool {
	_, ok := codeIndex[Normalize(code)]
	return ok
}
