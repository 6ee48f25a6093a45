package desktop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanExec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"firefox %u", "firefox"},
		{"gimp-2.10 %U", "gimp-2.10"},
		{"code --new-window %F", "code --new-window"},
		{"app --icon %i --name %c", "app --icon --name"},
		{"printf 100%%", "printf 100%"},
		{"app --file=%f", "app --file="},
		{`"/opt/My App/bin/app" %U`, `'/opt/My App/bin/app'`},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanExec(tt.in))
		})
	}
}

func TestCleanExec_UnbalancedQuote(t *testing.T) {
	t.Parallel()

	// shlex fails on the open quote; field codes are still removed.
	assert.Equal(t, `app "broken`, CleanExec(`app "broken %U`))
}

func TestArgv(t *testing.T) {
	t.Parallel()

	args, err := Argv(CleanExec(`"/opt/My App/bin/app" --flag %U`))
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/My App/bin/app", "--flag"}, args)
}
