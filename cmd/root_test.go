package cmd_test

import (
	"testing"

	"github.com/Teja20002/EZY-Management/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCommand 测试根命令注册
func TestRootCommand(t *testing.T) {
	root := cmd.GetRootCmd()
	require.NotNil(t, root)
	assert.Equal(t, "ezy-server", root.Use)
}

// TestSubcommands 测试子命令注册
func TestSubcommands(t *testing.T) {
	root := cmd.GetRootCmd()

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}

	assert.True(t, names["server"], "server command should be registered")
	assert.True(t, names["migrate"], "migrate command should be registered")
}

// TestServerCommandFlags 测试 server 命令标志
func TestServerCommandFlags(t *testing.T) {
	root := cmd.GetRootCmd()

	server, _, err := root.Find([]string{"server"})
	require.NoError(t, err)
	assert.NotNil(t, server.Flags().Lookup("config"))
	assert.NotNil(t, server.Flags().Lookup("host"))
	assert.NotNil(t, server.Flags().Lookup("port"))
}
