package domain

type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
	ThemeAuto  ThemeMode = "auto"
)

func (t ThemeMode) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// Resolve collapses the auto mode against the system preference.
func (t ThemeMode) Resolve(systemDark bool) ThemeMode {
	if t != ThemeAuto {
		return t
	}
	if systemDark {
		return ThemeDark
	}
	return ThemeLight
}

type Language string

const (
	LanguageRU Language = "ru"
	LanguageEN Language = "en"
	LanguageES Language = "es"
	LanguageCN Language = "cn"
	LanguageDE Language = "de"
)

// SupportedLanguages maps language codes to their display names.
var SupportedLanguages = map[Language]string{
	LanguageRU: "Русский",
	LanguageEN: "English",
	LanguageES: "Español",
	LanguageCN: "Chinese",
	LanguageDE: "Deutsch",
}

func (l Language) Valid() bool {
	_, ok := SupportedLanguages[l]
	return ok
}

type Settings struct {
	Theme    ThemeMode `json:"theme"`
	Language Language  `json:"language"`
}

func DefaultSettings() Settings {
	return Settings{Theme: ThemeAuto, Language: LanguageRU}
}
