package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetupWriterFiltersBelowLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	require.NoError(t, SetupWriter(&buf, "warn", false))

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestSetupWriterRejectsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, SetupWriter(&buf, "loud", false))
}

func TestComponentTagsEvents(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	require.NoError(t, SetupWriter(&buf, "debug", false))

	logger := Component("dispatcher")
	logger.Info().Msg("hello")

	require.Contains(t, buf.String(), `"component":"dispatcher"`)
}
