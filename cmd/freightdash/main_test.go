package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightdash/internal/config"
	"freightdash/internal/loader"
	"freightdash/internal/model"
	"freightdash/internal/service"
)

func runDemoData(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newDemoDataCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func readWorkbook(t *testing.T, path string) []model.OrderRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := loader.ReadOrders(f)
	require.NoError(t, err)
	return records
}

func TestDemoData_TenantFlag(t *testing.T) {
	out := filepath.Join(t.TempDir(), "orders.xlsx")

	require.NoError(t, runDemoData(t, "--tenant", "Biyork", "--tenant", "Aspen Clean", "--out", out, "--rows", "20", "--duplicates", "0"))

	records := readWorkbook(t, out)
	assert.Len(t, records, 20)
	for _, rec := range records {
		assert.Contains(t, []string{"Biyork", "Aspen Clean"}, rec.Tenant)
	}
}

func TestDemoData_TenantsFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "freightdash.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
accounts:
  - account_id: santova@client.com
    secret: demo123
    tenant: Santova Logistics
`), 0o600))
	out := filepath.Join(dir, "orders.xlsx")

	require.NoError(t, runDemoData(t, "--config", cfgFile, "--out", out, "--rows", "5"))

	for _, rec := range readWorkbook(t, out) {
		assert.Equal(t, "Santova Logistics", rec.Tenant)
	}
}

func TestDemoData_NoTenants(t *testing.T) {
	out := filepath.Join(t.TempDir(), "orders.xlsx")

	err := runDemoData(t, "--out", out)
	require.ErrorIs(t, err, errNoDemoTenants)
	assert.NoFileExists(t, out)
}

func TestLoadDemoConfig_LogLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := loadDemoConfig("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadAccounts_WithoutDatabase(t *testing.T) {
	cfg := &config.Config{Accounts: []model.Account{
		{AccountID: "biyork@client.com", Secret: "demo123", Tenant: "Biyork"},
	}}

	accounts, err := loadAccounts(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Accounts, accounts)

	accounts[0].Tenant = "changed"
	assert.Equal(t, "Biyork", cfg.Accounts[0].Tenant)
}

func TestMergeAccounts(t *testing.T) {
	configured := []model.Account{
		{AccountID: "biyork@client.com", Secret: "demo123", Tenant: "Biyork"},
	}

	t.Run("stored accounts join the directory", func(t *testing.T) {
		stored := []model.Account{{AccountID: "aspen@client.com", Secret: "s3cret", Tenant: "Aspen Clean"}}

		merged := mergeAccounts(configured, stored)
		require.Len(t, merged, 2)

		auth, err := service.NewAuthService(merged)
		require.NoError(t, err)
		tenant, err := auth.Authenticate("aspen@client.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "Aspen Clean", tenant)
		tenant, err = auth.Authenticate("biyork@client.com", "demo123")
		require.NoError(t, err)
		assert.Equal(t, "Biyork", tenant)
	})

	t.Run("id in both sources is rejected", func(t *testing.T) {
		stored := []model.Account{{AccountID: "biyork@client.com", Secret: "other", Tenant: "Biyork"}}

		_, err := service.NewAuthService(mergeAccounts(configured, stored))
		assert.ErrorIs(t, err, service.ErrDuplicateAccount)
	})

	t.Run("inputs are not aliased", func(t *testing.T) {
		base := make([]model.Account, 1, 4)
		copy(base, configured)
		merged := mergeAccounts(base, []model.Account{{AccountID: "x@client.com", Tenant: "X"}})
		merged[0].Tenant = "changed"
		assert.Equal(t, "Biyork", base[0].Tenant)
	})
}
