package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithMemoryBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendMemory)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 30, cfg.Inventory.WarningDays)
	assert.Equal(t, 7, cfg.Inventory.CriticalDays)
	assert.Equal(t, 12, cfg.Inventory.PageSize)
	assert.Equal(t, 50, cfg.Inventory.LogDisplayLimit)
	assert.False(t, cfg.Inventory.NormalizeKeys)
	assert.Equal(t, 30*time.Second, cfg.Inventory.CacheTTL)
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "STORE_BACKEND=memory\nEXPIRY_WARNING_DAYS=45\nEXPIRY_CRITICAL_DAYS=10\nGROUP_KEY_NORMALIZE=true\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, key := range []string{"STORE_BACKEND", "EXPIRY_WARNING_DAYS", "EXPIRY_CRITICAL_DAYS", "GROUP_KEY_NORMALIZE", "CORS_ALLOWED_ORIGINS"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Inventory.WarningDays)
	assert.Equal(t, 10, cfg.Inventory.CriticalDays)
	assert.True(t, cfg.Inventory.NormalizeKeys)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("STORE_BACKEND", BackendMemory)
	t.Setenv("PAGE_SIZE", "twelve")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_SIZE")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Store:     StoreConfig{Backend: BackendSheets},
			Sheets:    SheetsConfig{CredentialsPath: "creds.json", SpreadsheetID: "sheet"},
			Inventory: InventoryConfig{WarningDays: 30, CriticalDays: 7, PageSize: 12, LogDisplayLimit: 50},
			Reporting: ReportingConfig{CronSchedule: "0 8 * * *", Timezone: "UTC"},
		}
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"missing credentials": func(c *Config) { c.Sheets.CredentialsPath = "" },
		"missing sheet id":    func(c *Config) { c.Sheets.SpreadsheetID = "" },
		"unknown backend":     func(c *Config) { c.Store.Backend = "postgres" },
		"warning not above":   func(c *Config) { c.Inventory.WarningDays = 7 },
		"negative critical":   func(c *Config) { c.Inventory.CriticalDays = -1 },
		"zero page size":      func(c *Config) { c.Inventory.PageSize = 0 },
		"bad timezone":        func(c *Config) { c.Reporting.Timezone = "Mars/Olympus" },
		"whatsapp without recipient": func(c *Config) {
			c.WhatsApp = WhatsAppConfig{AccessToken: "t", PhoneNumberID: "1"}
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
