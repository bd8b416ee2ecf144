package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConNivel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("descartado")
	log.Warn().Str("variant_id", "v1").Msg("stock bajo")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "v1", entry["variant_id"])
	assert.Equal(t, "stock bajo", entry["message"])
}

func TestNamed_AgregaComponente(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: " DEBUG ", Output: &buf}).Named("returns")

	log.Debug().Msg("línea restaurada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "returns", entry["component"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNop_NoEscribe(t *testing.T) {
	log := Nop()
	log.Error().Msg("nada")
	assert.NotNil(t, log.With())
}
