package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
	"github.com/MrJamesThe3rd/invoicer/internal/report"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Report.Timeout)
	assert.Equal(t, "0.2", cfg.Report.TaxRate.String())
	assert.Equal(t, "info", cfg.Log.Level)

	rc := cfg.ReportConfig()
	assert.Equal(t, []report.Reference{
		{Name: "lower", Weekly: money.Amount(32300)},
		{Name: "upper", Weekly: money.Amount(44000)},
	}, rc.References)

	assert.Equal(t, "postgres://postgres:@localhost:5432/invoicer?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "p@ss word")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REPORT_REFERENCES", "threshold:242.00")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, config.References{{Name: "threshold", Weekly: 24200}}, cfg.Report.References)
	assert.Contains(t, cfg.ConnectionString(), "@db.internal:5432/")
	assert.NotContains(t, cfg.ConnectionString(), "p@ss word")
}

func TestReferences_Decode(t *testing.T) {
	var refs config.References

	require.Error(t, refs.Decode("lower"))
	require.Error(t, refs.Decode("lower:-1.00"))

	require.NoError(t, refs.Decode(""))
	assert.Empty(t, refs)
}
