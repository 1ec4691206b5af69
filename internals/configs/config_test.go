package configs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("LEDGER_STORE", StoreMemory)
	t.Setenv("APP_TIMEZONE", "UTC")
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "1 0 * * *", cfg.Ledger.CronSchedule)
	assert.True(t, cfg.Ledger.SchedulerEnabled)
	assert.Equal(t, 30*time.Second, cfg.Ledger.OperationTimeout)
	assert.Equal(t, uuid.Nil, cfg.Ledger.SystemActorID)
	assert.Equal(t, 3000, cfg.DB.StatementTimeoutMS)
	assert.Equal(t, "require", cfg.DB.SSLMode)
}

func TestParseOverrides(t *testing.T) {
	actor := uuid.New()
	t.Setenv("LEDGER_STORE", StorePostgres)
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("LEDGER_SYSTEM_ACTOR_ID", actor.String())
	t.Setenv("LEDGER_OPERATION_TIMEOUT", "45s")
	t.Setenv("LEDGER_SCHEDULER_ENABLED", "false")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_SSLMODE", "disable")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, actor, cfg.Ledger.SystemActorID)
	assert.Equal(t, 45*time.Second, cfg.Ledger.OperationTimeout)
	assert.False(t, cfg.Ledger.SchedulerEnabled)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "6543", cfg.DB.Port)
	assert.Equal(t, "disable", cfg.DB.SSLMode)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown store", env: map[string]string{"LEDGER_STORE": "redis"}},
		{name: "bad actor id", env: map[string]string{"LEDGER_SYSTEM_ACTOR_ID": "not-a-uuid"}},
		{name: "bad timezone", env: map[string]string{"APP_TIMEZONE": "Mars/Olympus"}},
		{name: "bad timeout", env: map[string]string{"LEDGER_OPERATION_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LEDGER_STORE", StoreMemory)
			t.Setenv("APP_TIMEZONE", "UTC")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("LEDGER_TEST_KEY", "x")
	assert.Equal(t, "x", GetEnv("LEDGER_TEST_KEY", "y"))
	assert.Equal(t, "y", GetEnv("LEDGER_TEST_MISSING_KEY", "y"))
}

func TestParseGormLogLevel(t *testing.T) {
	assert.Equal(t, gormLogger.Silent, ParseGormLogLevel("silent"))
	assert.Equal(t, gormLogger.Info, ParseGormLogLevel(" INFO "))
	assert.Equal(t, gormLogger.Warn, ParseGormLogLevel(""))
}
