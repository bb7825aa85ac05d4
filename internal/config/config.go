// Package config loads layered TOML configuration: built-in defaults,
// overridden by the global config file, overridden by a project config
// file, overridden by environment variables.
package config

// Config is the fully resolved configuration for one run.
type Config struct {
	Embed EmbedConfig `mapstructure:"embed" toml:"embed"`
	Db    DbConfig    `mapstructure:"db" toml:"db"`
	Index IndexConfig `mapstructure:"index" toml:"index"`
}

// EmbedConfig configures the embedding model.
type EmbedConfig struct {
	// ModelID identifies the embedding model to load.
	ModelID string `mapstructure:"model_id" toml:"model_id"`
}

// DbConfig configures the vector store.
type DbConfig struct {
	TableName    string `mapstructure:"table_name" toml:"table_name"`
	EmbeddingDim int    `mapstructure:"embedding_dim" toml:"embedding_dim"`
}

// IndexConfig configures the walker and chunker.
type IndexConfig struct {
	MaxChunkLines     int      `mapstructure:"max_chunk_lines" toml:"max_chunk_lines"`
	DefaultExtensions []string `mapstructure:"default_extensions" toml:"default_extensions"`
	DefaultExcludes   []string `mapstructure:"default_excludes" toml:"default_excludes"`
}

// Default returns the built-in configuration, the lowest layer of the
// override order.
func Default() *Config {
	return &Config{
		Embed: EmbedConfig{
			ModelID: "BAAI/bge-small-en-v1.5",
		},
		Db: DbConfig{
			TableName:    "chunks",
			EmbeddingDim: 384,
		},
		Index: IndexConfig{
			MaxChunkLines: 200,
			DefaultExtensions: []string{
				"go", "rs", "py", "java", "js", "jsx", "mjs", "cjs",
				"ts", "tsx", "mts", "cts", "c", "h", "cpp", "cc", "cxx",
				"hpp", "hh", "hxx", "cs", "php", "rb",
			},
			DefaultExcludes: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				".maharajah/**",
			},
		},
	}
}
