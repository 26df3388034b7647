package utils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.Empty(t, config.ToMap())
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"DATABASE_URL": "sqlite://db.sqlite3",
			"DEBUG":        "True",
		}
		config := NewConfig(values)

		assert.Equal(t, "sqlite://db.sqlite3", config.Get("DATABASE_URL"))

		// Verify it's a copy, not a reference
		values["DATABASE_URL"] = "modified"
		assert.Equal(t, "sqlite://db.sqlite3", config.Get("DATABASE_URL"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TM_TEST_SECRET=from_file\nTM_TEST_PORT=9000\n"), 0644))

	t.Setenv("TM_TEST_PORT", "9100")

	config := NewConfigFromEnv(envFile, filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "from_file", config.Get("TM_TEST_SECRET"))
	assert.Equal(t, "9100", config.Get("TM_TEST_PORT"), "real environment wins over the file")
}

func TestConfigGetWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"API_PORT": "8000",
		"empty":    "",
	})

	assert.Equal(t, "8000", config.GetWithDefault("API_PORT", "8080"))
	assert.Equal(t, "8080", config.GetWithDefault("missing", "8080"))
	assert.Equal(t, "8080", config.GetWithDefault("empty", "8080"))
}

func TestConfigGetBool(t *testing.T) {
	config := NewConfig(map[string]string{
		"django_true":  "True",
		"lower_true":   "true",
		"false_bool":   "False",
		"true_1":       "1",
		"true_yes":     "yes",
		"false_off":    "off",
		"invalid":      "maybe",
		"empty":        "",
		"padded_value": " true ",
	})

	tests := []struct {
		key      string
		expected bool
	}{
		{"django_true", true},
		{"lower_true", true},
		{"false_bool", false},
		{"true_1", true},
		{"true_yes", true},
		{"false_off", false},
		{"invalid", false},
		{"empty", false},
		{"padded_value", true},
		{"missing", false},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			assert.Equal(t, test.expected, config.GetBool(test.key), "GetBool(%s)", test.key)
		})
	}
}

func TestConfigGetIntWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"valid":   "42",
		"invalid": "forty-two",
	})

	assert.Equal(t, 42, config.GetIntWithDefault("valid", 1))
	assert.Equal(t, 1, config.GetIntWithDefault("invalid", 1))
	assert.Equal(t, 1, config.GetIntWithDefault("missing", 1))
}

func TestConfigGetDurationWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"seconds":  "60",
		"duration": "36h",
		"negative": "-5m",
		"garbage":  "soon",
	})

	assert.Equal(t, time.Minute, config.GetDurationWithDefault("seconds", time.Hour))
	assert.Equal(t, 36*time.Hour, config.GetDurationWithDefault("duration", time.Hour))
	assert.Equal(t, time.Hour, config.GetDurationWithDefault("negative", time.Hour))
	assert.Equal(t, time.Hour, config.GetDurationWithDefault("garbage", time.Hour))
	assert.Equal(t, time.Hour, config.GetDurationWithDefault("missing", time.Hour))
}

func TestConfigGetList(t *testing.T) {
	config := NewConfig(map[string]string{
		"ALLOWED_HOSTS": "webserver, localhost,,127.0.0.1 ",
	})

	assert.Equal(t, []string{"webserver", "localhost", "127.0.0.1"}, config.GetList("ALLOWED_HOSTS"))
	assert.Empty(t, config.GetList("missing"))
}

func TestConfigHostAllowed(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		host    string
		allowed bool
	}{
		{"exact match", map[string]string{"ALLOWED_HOSTS": "webserver,localhost"}, "webserver", true},
		{"port is ignored", map[string]string{"ALLOWED_HOSTS": "localhost"}, "localhost:8080", true},
		{"unknown host", map[string]string{"ALLOWED_HOSTS": "localhost"}, "evil.example", false},
		{"wildcard", map[string]string{"ALLOWED_HOSTS": "*"}, "anything.example", true},
		{"subdomain pattern", map[string]string{"ALLOWED_HOSTS": ".onrender.com"}, "tasks.onrender.com", true},
		{"subdomain pattern apex", map[string]string{"ALLOWED_HOSTS": ".onrender.com"}, "onrender.com", true},
		{"empty list in debug", map[string]string{"DEBUG": "true"}, "example.com", true},
		{"empty list in production", map[string]string{}, "example.com", false},
		{"empty list localhost", map[string]string{}, "127.0.0.1:8000", true},
		{"empty list ipv6 loopback", map[string]string{}, "[::1]:8000", true},
		{"ipv6 with port", map[string]string{"ALLOWED_HOSTS": "[::1]"}, "[::1]:8080", true},
		{"ipv6 without port", map[string]string{"ALLOWED_HOSTS": "::1"}, "[::1]", true},
		{"other ipv6", map[string]string{"ALLOWED_HOSTS": "[::1]"}, "[2001:db8::1]:8080", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, NewConfig(tt.values).HostAllowed(tt.host))
		})
	}
}

func TestConfigSetAndHas(t *testing.T) {
	config := NewConfig(nil)
	assert.False(t, config.Has("LANGUAGE_CODE"))

	config.Set("LANGUAGE_CODE", "en")
	assert.True(t, config.Has("LANGUAGE_CODE"))
	assert.Equal(t, "en", config.Get("LANGUAGE_CODE"))
}

func TestConfigThreadSafety(t *testing.T) {
	config := NewConfig(map[string]string{"DEBUG": "true"})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 100 {
				config.Set("key", string(rune('a'+id%26)))
				config.Get("key")
				config.Debug()
				config.ToMap()
			}
		}(i)
	}

	wg.Wait()
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(NewConfig(map[string]string{"LOG_LEVEL": "warn"}))
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger(NewConfig(map[string]string{"DEBUG": "true"}))
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger(NewConfig(map[string]string{"LOG_LEVEL": "loud"}))
	assert.Error(t, err)
}
