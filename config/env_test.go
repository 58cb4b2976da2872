package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// reset restores the built-in defaults after a test touched the values.
func reset(t *testing.T) {
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		overrides = map[string]struct{}{}
		mu.Unlock()
	})
}

func TestLoadMergesFilesAndEnvironment(t *testing.T) {
	reset(t)
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port":"9000","db_driver":"postgres","ignored":1}`), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=9100\nADMIN_USERNAME=root\n"), 0o600))
	t.Setenv("ADMIN_PASSWORD", "from-env")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	require.Equal(t, "9100", get("APP_PORT", ""))
	require.Equal(t, "postgres", get("DB_DRIVER", ""))
	require.Equal(t, "root", get("ADMIN_USERNAME", ""))
	require.Equal(t, "from-env", get("ADMIN_PASSWORD", ""))
}

func TestLoadMissingFilesIsNotAnError(t *testing.T) {
	reset(t)
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, "none.env")))
	require.Equal(t, defaultAppPort, get("APP_PORT", ""))
}

func TestSetSurvivesLoad(t *testing.T) {
	reset(t)
	Set("app_port", "7000")
	t.Setenv("APP_PORT", "7100")

	require.NoError(t, loadFromFiles("", ""))
	require.Equal(t, "7000", AppPort())
}

func TestDatabaseDefaults(t *testing.T) {
	reset(t)
	Set("DB_DRIVER", "oracle")
	require.Equal(t, "sqlite", DatabaseDriver())
	require.Equal(t, defaultSQLiteDSN, DatabaseDSN())

	Set("DB_DRIVER", "postgres")
	Set("DATABASE_URL", "postgres://u:p@db/hustl")
	require.Equal(t, "postgres://u:p@db/hustl", DatabaseDSN())

	Set("DATABASE_DSN", "override")
	require.Equal(t, "override", DatabaseDSN())
}

func TestUploadSettings(t *testing.T) {
	reset(t)
	Set("ALLOWED_EXTENSIONS", " PNG, .jpg ,,gif")
	require.Equal(t, []string{"png", "jpg", "gif"}, AllowedExtensions())

	require.Equal(t, int64(defaultMaxUpload), MaxUploadBytes())
	Set("MAX_CONTENT_LENGTH", "1024")
	require.Equal(t, int64(1024), MaxUploadBytes())
	Set("MAX_UPLOAD_BYTES", "-5")
	require.Equal(t, int64(defaultMaxUpload), MaxUploadBytes())
}

func TestSessionAndAdminSettings(t *testing.T) {
	reset(t)
	require.Equal(t, defaultSessionTTL, SessionTTL())
	Set("SESSION_TTL", "30m")
	require.Equal(t, 30*time.Minute, SessionTTL())

	Set("SESSION_DRIVER", "MEMORY")
	require.Equal(t, "memory", SessionDriver())

	Set("SECRET_KEY", "legacy")
	require.Equal(t, "legacy", AppKey())
	Set("APP_KEY", "current")
	require.Equal(t, "current", AppKey())

	Set("APP_ENV", "production")
	require.True(t, IsProduction())
	require.True(t, SessionCookieSecure())
	Set("SESSION_COOKIE_SECURE", "false")
	require.False(t, SessionCookieSecure())
}

func TestTrustProxyIsOptIn(t *testing.T) {
	reset(t)
	require.False(t, TrustProxy())
	Set("APP_TRUST_PROXY", "yes")
	require.False(t, TrustProxy())
	Set("APP_TRUST_PROXY", "true")
	require.True(t, TrustProxy())
}
