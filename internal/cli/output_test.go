package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	base := errors.New("db locked")
	exitErr := NewExitError(ExitFailure, base)

	assert.Equal(t, "db locked", exitErr.Error())
	assert.ErrorIs(t, exitErr, base)
}

func TestExitErrorNoWrapped(t *testing.T) {
	exitErr := &ExitError{Code: ExitCommandError}
	assert.Equal(t, "exit code 2", exitErr.Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, errors.New("bad args"))))
}

func TestGetExitCodeWrapped(t *testing.T) {
	err := fmt.Errorf("context: %w", NewExitError(ExitCommandError, errors.New("inner")))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPrintJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	err := printJSON(buf, map[string]int{"remaining": 3})
	require.NoError(t, err)

	var out map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 3, out["remaining"])
}
