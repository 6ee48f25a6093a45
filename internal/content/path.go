package content

import (
	"strings"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/sys/unix"
)

// readablePath returns the expanded path when s names a file or directory
// the user can read. Only absolute, home-relative and ./ or ../ relative
// paths are considered, so a bare word never resolves against the working
// directory.
func readablePath(s string) (string, bool) {
	if !looksLikePath(s) {
		return "", false
	}
	p, err := homedir.Expand(s)
	if err != nil {
		return "", false
	}
	if unix.Access(p, unix.R_OK) != nil {
		return "", false
	}
	return p, true
}

func looksLikePath(s string) bool {
	return strings.HasPrefix(s, "/") ||
		s == "~" || strings.HasPrefix(s, "~/") ||
		strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}
