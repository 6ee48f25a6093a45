package desktop

import (
	"errors"
	"fmt"

	"gopkg.in/ini.v1"
)

const entrySection = "Desktop Entry"

var (
	// ErrNoExec is returned for descriptors without an Exec key.
	ErrNoExec = errors.New("missing Exec")

	// ErrNotApplication is returned for Link and Directory descriptors.
	ErrNotApplication = errors.New("not an application")

	// ErrHidden is returned for NoDisplay or Hidden descriptors.
	ErrHidden = errors.New("hidden")

	// ErrNoName is returned when no name field is present at all.
	ErrNoName = errors.New("missing Name")
)

var iniOptions = ini.LoadOptions{
	KeyValueDelimiters:      "=",
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	SkipUnrecognizableLines: true,
	PreserveSurroundedQuote: true,
}

// parseEntry reads the [Desktop Entry] group of a descriptor. fileID is
// the descriptor's file name; locales are tried in order for localized
// keys.
func parseEntry(data []byte, fileID string, locales []string) (Entry, error) {
	file, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return Entry{}, fmt.Errorf("parse: %w", err)
	}

	sec, err := file.GetSection(entrySection)
	if err != nil {
		return Entry{}, fmt.Errorf("no [%s] group", entrySection)
	}

	if t := value(sec, "Type"); t != "" && t != "Application" {
		return Entry{}, ErrNotApplication
	}
	if sec.Key("NoDisplay").MustBool(false) || sec.Key("Hidden").MustBool(false) {
		return Entry{}, ErrHidden
	}

	exec := value(sec, "Exec")
	if exec == "" {
		return Entry{}, ErrNoExec
	}

	name := value(sec, "Name")
	localizedName := localized(sec, "Name", locales)
	genericName := value(sec, "GenericName")
	localizedGeneric := localized(sec, "GenericName", locales)

	// The display name falls back to whichever name-like field exists.
	displayName := name
	if displayName == "" {
		displayName = localizedName
	}
	if displayName == "" {
		displayName = genericName
	}
	if displayName == "" {
		displayName = localizedGeneric
	}
	if displayName == "" {
		return Entry{}, ErrNoName
	}
	if genericName == "" {
		genericName = localizedGeneric
	}

	return Entry{
		Name:                 displayName,
		LocalizedName:        localizedName,
		GenericName:          genericName,
		LocalizedGenericName: localizedGeneric,
		FileID:               fileID,
		Exec:                 CleanExec(exec),
		Icon:                 value(sec, "Icon"),
	}, nil
}

func value(sec *ini.Section, key string) string {
	if !sec.HasKey(key) {
		return ""
	}
	return sec.Key(key).String()
}

func localized(sec *ini.Section, key string, locales []string) string {
	for _, loc := range locales {
		if v := value(sec, key+"["+loc+"]"); v != "" {
			return v
		}
	}
	return ""
}
