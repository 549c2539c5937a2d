package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewFormatter("json", buf)

	data := map[string]string{"result": "success"}
	err := f.Print(data, func(w io.Writer) error {
		t.Fatal("text renderer should not run in json mode")
		return nil
	})
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "success", decoded["result"])
}

func TestFormatter_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewFormatter("text", buf)

	err := f.Print(nil, func(w io.Writer) error {
		fmt.Fprintln(w, "2 cards")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "2 cards\n", buf.String())
}

func TestFormatter_Money(t *testing.T) {
	f := NewFormatter("text", io.Discard)
	assert.Equal(t, "$1,234.56", f.Money(1234.56))
	assert.Equal(t, "$0.00", f.Money(0))
}

func TestFormatter_Rate(t *testing.T) {
	f := NewFormatter("text", io.Discard)
	assert.Equal(t, "3.25%", f.Rate(3.25))
}

func TestExitError(t *testing.T) {
	base := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to export", base)

	assert.Equal(t, "failed to export: disk full", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "no cards")))
}
