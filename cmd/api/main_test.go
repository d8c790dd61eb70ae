package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Commands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	require.NotNil(t, root.RunE, "root defaults to serve")

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)
	assert.Equal(t, "migrate", migrate.Name())
	assert.NotNil(t, migrate.Flags().Lookup("status"))
}

func TestMigrateCmd_FailsWithoutTokenSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")

	root := newRootCmd()
	root.SetArgs([]string{"migrate"})
	root.SilenceErrors = true

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_SECRET")
}
