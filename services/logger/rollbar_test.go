package logsvc

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
)

func newTestLogger() (*RollbarLogger, *bytes.Buffer) {
	out := new(bytes.Buffer)
	return NewRollbarLogger(out, core.NewTestConfig()), out
}

func TestRollbarLogger_Levels(t *testing.T) {
	logger, out := newTestLogger()

	logger.Debug("hidden")
	assert.Empty(t, out.String())

	logger.Info("listing created", map[string]interface{}{"slug": "guitar"})
	assert.Contains(t, out.String(), "listing created")
	assert.Contains(t, out.String(), "guitar")

	out.Reset()
	logger.Error("could not save", errors.New("boom"), account.Account{Username: "tutor"})
	assert.Contains(t, out.String(), "could not save")
	assert.Contains(t, out.String(), "boom")
	assert.Contains(t, out.String(), "tutor")
}

func TestRollbarLogger_With(t *testing.T) {
	logger, out := newTestLogger()

	logger.With("DB").Warn("slow query")
	assert.Contains(t, out.String(), "slow query")
	assert.Contains(t, out.String(), "DB")

	out.Reset()
	logger.Warn("plain")
	assert.NotContains(t, out.String(), "component")
}

func TestRollbarLogger_Fatal(t *testing.T) {
	logger, out := newTestLogger()
	code := -1
	logger.exit = func(c int) { code = c }

	logger.Fatal("cannot start", errors.New("no db"))
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "cannot start")
}
