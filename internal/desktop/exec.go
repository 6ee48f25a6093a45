package desktop

import (
	"strings"

	"github.com/google/shlex"
)

// CleanExec strips freedesktop field codes (%f, %U, %i, ...) from an Exec
// value and collapses %% to a literal percent sign. The result is a shell
// command line.
func CleanExec(exec string) string {
	args, err := shlex.Split(exec)
	if err != nil {
		return stripFieldCodes(exec)
	}

	out := make([]string, 0, len(args))
	for _, arg := range args {
		if isFieldCode(arg) {
			continue
		}
		arg = stripFieldCodes(arg)
		if arg == "" {
			continue
		}
		out = append(out, quote(arg))
	}
	return strings.Join(out, " ")
}

// Argv splits a cleaned Exec value into arguments.
func Argv(exec string) ([]string, error) {
	return shlex.Split(exec)
}

func isFieldCode(arg string) bool {
	return len(arg) == 2 && arg[0] == '%' && strings.IndexByte("fFuUdDnNickvm", arg[1]) >= 0
}

// stripFieldCodes removes embedded field codes, e.g. "--file=%f".
func stripFieldCodes(s string) string {
	if !strings.Contains(s, "%") {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		next := s[i+1]
		switch {
		case next == '%':
			b.WriteByte('%')
		case strings.IndexByte("fFuUdDnNickvm", next) >= 0:
		default:
			b.WriteByte('%')
			b.WriteByte(next)
		}
		i++
	}
	return strings.TrimSpace(b.String())
}

func quote(arg string) string {
	if !strings.ContainsAny(arg, " \t\"'\\$`") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
