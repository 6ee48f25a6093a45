package desktop

import (
	"os"
	"strings"
)

// Locales returns the locale keys tried for localized fields, most
// specific first. A non-empty override is used alone; otherwise the
// locale comes from LC_MESSAGES, falling back to LANG.
func Locales(override string) []string {
	if override != "" {
		return []string{override}
	}

	value := os.Getenv("LC_MESSAGES")
	if value == "" {
		value = os.Getenv("LANG")
	}
	return localeCandidates(value)
}

// localeCandidates expands lang_COUNTRY.ENCODING@MODIFIER into the
// lookup keys lang_COUNTRY@MODIFIER, lang_COUNTRY, lang@MODIFIER, lang.
// The encoding part is ignored.
func localeCandidates(value string) []string {
	if value == "" || value == "C" || value == "POSIX" {
		return nil
	}

	var modifier string
	if i := strings.IndexByte(value, '@'); i >= 0 {
		value, modifier = value[:i], value[i+1:]
	}
	if i := strings.IndexByte(value, '.'); i >= 0 {
		value = value[:i]
	}

	lang, country, _ := strings.Cut(value, "_")
	if lang == "" {
		return nil
	}

	var out []string
	if country != "" && modifier != "" {
		out = append(out, lang+"_"+country+"@"+modifier)
	}
	if country != "" {
		out = append(out, lang+"_"+country)
	}
	if modifier != "" {
		out = append(out, lang+"@"+modifier)
	}
	return append(out, lang)
}
