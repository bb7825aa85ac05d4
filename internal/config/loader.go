package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const envPrefix = "MAHARAJAH"

// Load resolves configuration in override order (lowest to highest):
// built-in defaults, the global file, the project file, environment
// variables prefixed MAHARAJAH_ with components separated by "__".
func Load(targetDir string) (*Config, error) {
	return LoadWithConfigFile(targetDir, "")
}

// LoadWithConfigFile is Load, plus an explicit config file (--config) merged
// on top of the project file and below environment variables. An empty
// explicitPath behaves exactly like Load.
func LoadWithConfigFile(targetDir, explicitPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	setDefaults(v, Default())

	globalPath, err := GlobalConfigPath()
	if err != nil {
		return nil, err
	}
	if err := mergeFile(v, globalPath); err != nil {
		return nil, err
	}

	if projectPath := ProjectConfigPath(targetDir); projectPath != "" {
		if err := mergeFile(v, projectPath); err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if err := mergeFile(v, explicitPath); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	bindEnvVars(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	reader := strings.NewReader(string(data))
	if err := v.MergeConfig(reader); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("embed.model_id", d.Embed.ModelID)
	v.SetDefault("db.table_name", d.Db.TableName)
	v.SetDefault("db.embedding_dim", d.Db.EmbeddingDim)
	v.SetDefault("index.max_chunk_lines", d.Index.MaxChunkLines)
	v.SetDefault("index.default_extensions", d.Index.DefaultExtensions)
	v.SetDefault("index.default_excludes", d.Index.DefaultExcludes)
}

func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("embed.model_id")
	_ = v.BindEnv("db.table_name")
	_ = v.BindEnv("db.embedding_dim")
	_ = v.BindEnv("index.max_chunk_lines")
	_ = v.BindEnv("index.default_extensions")
	_ = v.BindEnv("index.default_excludes")
}

// marshalTOML renders cfg as TOML text for writing the auto-created global
// config file.
func marshalTOML(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
