package testlog

import (
	"testing"

	"github.com/chainkit/sendplugin/internal/obslog"
)

func Start(t *testing.T) {
	t.Helper()
	logger := obslog.ConfigureTests()
	logger.Debug().Str("test", t.Name()).Msg("test start")
}
