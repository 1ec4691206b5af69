package database

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolledger_backend/internals/configs"
)

func TestDSN(t *testing.T) {
	dsn := DSN(configs.DBConfig{
		Host: "db.internal", Port: "6543", User: "ledger", Password: "p@ss word",
		Name: "school", SSLMode: "disable", StatementTimeoutMS: 3000,
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:6543", u.Host)
	assert.Equal(t, "/school", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pw)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "-c statement_timeout=3000", u.Query().Get("options"))
}

func TestDSNWithoutStatementTimeout(t *testing.T) {
	u, err := url.Parse(DSN(configs.DBConfig{Host: "h", Port: "5432", Name: "n", SSLMode: "require"}))
	require.NoError(t, err)
	assert.False(t, u.Query().Has("options"))
}
