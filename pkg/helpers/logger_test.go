package helpers

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogHelpers(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	LogInfo(logger, "password reset", logrus.Fields{"account_id": "acc-1"})
	LogInfo(logger, "no fields", nil)
	LogError(logger, "reap failed", errors.New("db down"), nil)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "acc-1", entries[0].Data["account_id"])
	assert.Empty(t, entries[1].Data)
	assert.Equal(t, logrus.ErrorLevel, entries[2].Level)
	assert.Equal(t, "db down", entries[2].Data["error"])
}
