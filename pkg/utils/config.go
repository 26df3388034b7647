package utils

import (
	"maps"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config provides a thread-safe view over the application settings loaded from
// the environment, with typed getters for the values the server reads
type Config struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewConfig creates a new Config instance with the provided key-value pairs
func NewConfig(values map[string]string) *Config {
	config := &Config{
		values: make(map[string]string),
	}

	maps.Copy(config.values, values)

	return config
}

// NewConfigFromEnv creates a new Config instance by loading environment variables
// from the specified .env files
func NewConfigFromEnv(files ...string) *Config {
	return NewConfig(LoadEnv(files...))
}

// Get retrieves a configuration value by key
// Returns empty string if key doesn't exist
func (c *Config) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// GetWithDefault retrieves a configuration value by key with a fallback default
func (c *Config) GetWithDefault(key, defaultValue string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if value, exists := c.values[key]; exists && value != "" {
		return value
	}
	return defaultValue
}

// GetBool retrieves a configuration value as a boolean, case-insensitively
// ("True" and "true" are the same)
func (c *Config) GetBool(key string) bool {
	value := strings.ToLower(strings.TrimSpace(c.Get(key)))
	if value == "" {
		return false
	}

	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed
	}

	switch value {
	case "yes", "on", "enabled":
		return true
	default:
		return false
	}
}

// GetIntWithDefault retrieves a configuration value as an integer with a fallback default
func (c *Config) GetIntWithDefault(key string, defaultValue int) int {
	value := c.Get(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDurationWithDefault parses values such as "336h" or "30m". Plain integers
// are read as seconds
func (c *Config) GetDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(c.Get(key))
	if value == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

// GetList splits a comma separated value, dropping blanks
func (c *Config) GetList(key string) []string {
	var out []string
	for _, part := range strings.Split(c.Get(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Set modifies a configuration value
func (c *Config) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Has checks if a configuration key exists
func (c *Config) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.values[key]
	return exists
}

// Debug reports whether the server runs in development mode
func (c *Config) Debug() bool {
	return c.GetBool("DEBUG")
}

// HostAllowed checks a request host (port stripped) against ALLOWED_HOSTS.
// An empty list allows everything in debug mode and only localhost otherwise
func (c *Config) HostAllowed(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.Trim(host, "[]"))

	allowed := c.GetList("ALLOWED_HOSTS")
	if len(allowed) == 0 {
		return c.Debug() || host == "localhost" || host == "127.0.0.1" || host == "::1"
	}

	for _, pattern := range allowed {
		pattern = strings.ToLower(strings.Trim(pattern, "[]"))
		switch {
		case pattern == "*":
			return true
		case strings.HasPrefix(pattern, "."):
			if host == pattern[1:] || strings.HasSuffix(host, pattern) {
				return true
			}
		case pattern == host:
			return true
		}
	}
	return false
}

// ToMap returns a copy of all configuration values as a map
func (c *Config) ToMap() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string, len(c.values))
	maps.Copy(result, c.values)
	return result
}
