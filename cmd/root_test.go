package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/discovery-cli/internal/scorer"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"score", "batch", "engagements", "report", "export", "notion", "serve", "catalogue"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "discovery-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestScoreCommand_Flags(t *testing.T) {
	flag := scoreCmd.Flags().Lookup("file")
	require.NotNil(t, flag)

	format := scoreCmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "table", format.DefValue)
}

func TestBatchCommand_Flags(t *testing.T) {
	require.NotNil(t, batchCmd.Flags().Lookup("csv"))
	require.NotNil(t, batchCmd.Flags().Lookup("persist"))

	flag := batchCmd.Flags().Lookup("concurrency")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestSubcommandTrees(t *testing.T) {
	tests := []struct {
		parent string
		want   []string
	}{
		{"engagements", []string{"create", "list", "show"}},
		{"report", []string{"pass1", "pass2", "show"}},
		{"notion", []string{"sync"}},
		{"catalogue", []string{"services", "questions", "keywords"}},
	}
	for _, tt := range tests {
		t.Run(tt.parent, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.parent})
			require.NoError(t, err)
			names := make(map[string]bool)
			for _, c := range cmd.Commands() {
				names[c.Name()] = true
			}
			for _, name := range tt.want {
				assert.True(t, names[name], "expected %s %s", tt.parent, name)
			}
		})
	}
}

func TestFormatServices(t *testing.T) {
	var buf bytes.Buffer
	formatServices(&buf, scorer.Services())

	out := buf.String()
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "fractional_cfo")
	assert.Contains(t, out, "Benchmarking Services")
}
