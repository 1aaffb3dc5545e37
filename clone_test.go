package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneCmd_RequiresThreeArgs(t *testing.T) {
	saveFlags(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"clone", "src-only"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 3 arg(s)")
}

func TestCloneCmd_MissingCredentials(t *testing.T) {
	saveFlags(t)

	t.Setenv("GDRIVE_CLONE_CONFIG", "/nonexistent/config.toml")
	t.Setenv("GDRIVE_CLONE_CREDENTIALS", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"clone", "src", "dst", "Copy"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials configured")
}
