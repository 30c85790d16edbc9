package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, Bits(1), config.Embedding.BitsPerChannel)
	assert.False(t, config.Embedding.UseAlpha)
	assert.False(t, config.Embedding.RandomOffset)
	assert.Equal(t, "none", config.Compression)
	assert.Equal(t, "default", config.Output.PNGCompression)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Empty(t, config.Metrics.Textfile)
	assert.NoError(t, config.Validate())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative bits", func(c *Config) { c.Embedding.BitsPerChannel = -1 }},
		{"seventeen bits", func(c *Config) { c.Embedding.BitsPerChannel = 17 }},
		{"unknown compression", func(c *Config) { c.Compression = "brotli" }},
		{"unknown png compression", func(c *Config) { c.Output.PNGCompression = "huge" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidateAutoBits(t *testing.T) {
	config := DefaultConfig()
	config.Embedding.BitsPerChannel = AutoBits
	assert.NoError(t, config.Validate())
}

func TestParseBits(t *testing.T) {
	testCases := []struct {
		in      string
		want    Bits
		wantErr bool
	}{
		{"auto", AutoBits, false},
		{"AUTO", AutoBits, false},
		{"0", AutoBits, false},
		{"1", 1, false},
		{" 4 ", 4, false},
		{"-2", 0, true},
		{"two", 0, true},
		{"", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseBits(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir := t.TempDir()

		configPath := filepath.Join(tmpDir, "config.yaml")
		expectedConfig := &Config{
			Embedding: Embedding{
				BitsPerChannel: 2,
				UseAlpha:       true,
				RandomOffset:   true,
			},
			Compression: "zstd",
			Output: Output{
				PNGCompression: "best",
			},
			Logging: Logging{
				Level: "debug",
			},
			Metrics: Metrics{
				Textfile: "/var/lib/node_exporter/stegpng.prom",
			},
		}

		err := SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		err := os.WriteFile(configPath, []byte("compression: s2\n"), 0600)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "s2", loadedConfig.Compression)
		assert.Equal(t, Bits(1), loadedConfig.Embedding.BitsPerChannel)
		assert.Equal(t, "warn", loadedConfig.Logging.Level)
	})

	t.Run("auto bits", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		err := os.WriteFile(configPath, []byte("embedding:\n  bits_per_channel: auto\n"), 0600)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, AutoBits, loadedConfig.Embedding.BitsPerChannel)

		// saved back as the keyword
		require.NoError(t, SaveConfig(loadedConfig, configPath))
		data, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "bits_per_channel: auto")
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("load invalid values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		err := os.WriteFile(configPath, []byte("embedding:\n  bits_per_channel: 40\n"), 0600)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.ErrorIs(t, err, ErrInvalidConfig)

		err = os.WriteFile(configPath, []byte("embedding:\n  bits_per_channel: lots\n"), 0600)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	config := DefaultConfig()

	err := SaveConfig(config, configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config, err := BootstrapConfig(configPath, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.True(t, ConfigExists(configPath))

	t.Run("refuses to overwrite", func(t *testing.T) {
		_, err := BootstrapConfig(configPath, false)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("force overwrites", func(t *testing.T) {
		err := os.WriteFile(configPath, []byte("compression: lz4\n"), 0600)
		require.NoError(t, err)

		_, err = BootstrapConfig(configPath, true)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "none", loadedConfig.Compression)
	})
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "stegpng")
	assert.Contains(t, path, "config.yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	err := os.WriteFile(existingPath, []byte("test"), 0644)
	require.NoError(t, err)

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}

func TestConfigYAMLKeys(t *testing.T) {
	data, err := yaml.Marshal(DefaultConfig())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))

	assert.Contains(t, raw, "embedding")
	assert.Contains(t, raw, "compression")
	assert.Contains(t, raw, "output")
	assert.Contains(t, raw, "logging")
	assert.Contains(t, raw, "metrics")

	embedding, ok := raw["embedding"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, embedding["bits_per_channel"])
}

func TestSaveConfigErrorHandling(t *testing.T) {
	config := DefaultConfig()

	// a regular file where a directory is needed
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0600))

	err := SaveConfig(config, filepath.Join(parent, "config.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
