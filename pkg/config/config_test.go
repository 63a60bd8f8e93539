package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_PopulatesNodeID(t *testing.T) {
	cfg := Default()
	cfg.PopulateDefaults()
	assert.NotEmpty(t, cfg.Node.ID)
	assert.Equal(t, "SWIM", cfg.Gossip.Protocol)
}

func TestValidate_RejectsUnknownProtocol(t *testing.T) {
	cfg := Default()
	cfg.PopulateDefaults()
	cfg.Gossip.Protocol = "gossipglomers"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownProtocol)
}

func TestValidate_SecurityRequiresAllMaterialWhenEnabled(t *testing.T) {
	cfg := Default()
	cfg.PopulateDefaults()
	cfg.Security.Enabled = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCaCert)
}

func TestValidate_PassesWithDefaults(t *testing.T) {
	cfg := Default()
	cfg.PopulateDefaults()
	assert.NoError(t, cfg.Validate())
}
