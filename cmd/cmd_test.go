package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/huangsam/commitscope/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"render", "stats", "export", "serve", "mcp", "cache", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestInteractionFlags(t *testing.T) {
	for _, c := range []string{"render", "stats", "serve", "mcp"} {
		sub, _, err := rootCmd.Find([]string{c})
		require.NoError(t, err)
		step := sub.Flags().Lookup("step")
		require.NotNil(t, step, c)
		assert.Equal(t, "-1", step.DefValue)
		assert.NotNil(t, sub.Flags().Lookup("progress"), c)
		assert.NotNil(t, sub.Flags().Lookup("brush"), c)
	}

	export, _, err := rootCmd.Find([]string{"export"})
	require.NoError(t, err)
	assert.Nil(t, export.Flags().Lookup("step"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "commitscope CLI")
	assert.Contains(t, out.String(), "Version: dev")
}

func TestRunExecutorPassesGlobals(t *testing.T) {
	var got *contract.Config
	run := runExecutor("unused", func(_ context.Context, c *contract.Config, _ contract.CacheManager) error {
		got = c
		return nil
	})
	run(nil, nil)
	assert.Same(t, cfg, got)
}
