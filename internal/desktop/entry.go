// Package desktop indexes application descriptors (.desktop files) and
// matches queries against their name fields.
package desktop

import "github.com/runger/launcher/internal/match"

// Entry is one launchable application. Empty strings mean the field is
// absent.
type Entry struct {
	Name                 string
	LocalizedName        string
	GenericName          string
	LocalizedGenericName string
	FileID               string // descriptor file name, e.g. "firefox.desktop"
	Exec                 string // command line with field codes stripped
	Icon                 string // resolved icon path, or the raw icon name
	Path                 string // descriptor path on disk
}

// Field names one searchable field of an Entry.
type Field int

// Fields in match precedence order.
const (
	FieldLocalizedName Field = iota
	FieldName
	FieldLocalizedGenericName
	FieldGenericName
	FieldFileID
)

// searchOrder is the order FindSubset tries fields in; the first field
// that matches wins even if a later field would score higher.
var searchOrder = [...]Field{
	FieldLocalizedName,
	FieldName,
	FieldLocalizedGenericName,
	FieldGenericName,
	FieldFileID,
}

func (f Field) String() string {
	switch f {
	case FieldLocalizedName:
		return "localized_name"
	case FieldName:
		return "name"
	case FieldLocalizedGenericName:
		return "localized_generic_name"
	case FieldGenericName:
		return "generic_name"
	case FieldFileID:
		return "file_id"
	default:
		return "unknown"
	}
}

// Value returns the entry's value for f.
func (e *Entry) Value(f Field) string {
	switch f {
	case FieldLocalizedName:
		return e.LocalizedName
	case FieldName:
		return e.Name
	case FieldLocalizedGenericName:
		return e.LocalizedGenericName
	case FieldGenericName:
		return e.GenericName
	case FieldFileID:
		return e.FileID
	default:
		return ""
	}
}

// MatchField records which field matched and how.
type MatchField struct {
	Field Field
	Kind  match.Kind
}

// Match is a matched entry by its index in a Snapshot.
type Match struct {
	ID    int
	Field MatchField
}
