package reprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReprocessCommand_Metadata(t *testing.T) {
	assert.Equal(t, "reprocess", Cmd.Use)
	assert.Contains(t, Cmd.Short, "normalized vendors")
	assert.Contains(t, Cmd.Long, "overrides are never touched")
	assert.NotNil(t, Cmd.RunE)
}

func TestReprocessCommand_Flags(t *testing.T) {
	forceFlag := Cmd.Flags().Lookup("force")
	require.NotNil(t, forceFlag)
	assert.Equal(t, "false", forceFlag.DefValue)

	pageSizeFlag := Cmd.Flags().Lookup("page-size")
	require.NotNil(t, pageSizeFlag)
	assert.Equal(t, "0", pageSizeFlag.DefValue)
}
