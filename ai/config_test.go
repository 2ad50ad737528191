package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:8080/v1", cfg.EmbeddingHost)
	assert.Equal(t, "sentence-transformers/all-mpnet-base-v2", cfg.EmbeddingModel)
	assert.Equal(t, "none", cfg.EmbeddingToken)
	assert.Equal(t, 768, cfg.Dimensions)
	assert.Equal(t, 32, cfg.BatchSize)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.Equal(t, "http://localhost:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, 768, cfg.Dimensions)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://custom:11434/v1"),
			WithEmbeddingModel("nomic-embed-text"),
			WithEmbeddingToken("secret"),
			WithDimensions(384),
			WithBatchSize(8),
		)

		assert.Equal(t, "http://custom:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
		assert.Equal(t, "secret", cfg.EmbeddingToken)
		assert.Equal(t, 384, cfg.Dimensions)
		assert.Equal(t, 8, cfg.BatchSize)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{name: "already has /v1", host: "http://localhost:8080/v1", expected: "http://localhost:8080/v1"},
		{name: "missing /v1", host: "http://localhost:8080", expected: "http://localhost:8080/v1"},
		{name: "has trailing slash", host: "http://localhost:8080/", expected: "http://localhost:8080/v1"},
		{name: "empty host", host: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.host}

			cfg.Normalize()

			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
			assert.Equal(t, "none", cfg.EmbeddingToken)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			EmbeddingHost:  "http://localhost:8080",
			EmbeddingModel: "all-mpnet-base-v2",
			Dimensions:     768,
			BatchSize:      32,
		}
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := valid()

		err := cfg.Validate()
		assert.NoError(t, err)

		// Should also normalize
		assert.Equal(t, "http://localhost:8080/v1", cfg.EmbeddingHost)
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{name: "missing embedding host", mutate: func(c *Config) { c.EmbeddingHost = "" }, wantMsg: "EmbeddingHost"},
		{name: "missing embedding model", mutate: func(c *Config) { c.EmbeddingModel = "" }, wantMsg: "EmbeddingModel"},
		{name: "zero dimensions", mutate: func(c *Config) { c.Dimensions = 0 }, wantMsg: "Dimensions"},
		{name: "zero batch size", mutate: func(c *Config) { c.BatchSize = 0 }, wantMsg: "BatchSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestConfigValidate_Integration(t *testing.T) {
	require.NoError(t, NewConfig().Validate())
	require.NoError(t, DefaultConfig().Validate())
}
