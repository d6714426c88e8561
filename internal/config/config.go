package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Output    OutputConfig    `mapstructure:"output"`
	Font      FontConfig      `mapstructure:"font"`
	AI        AIConfig        `mapstructure:"ai"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type TemplatesConfig struct {
	// Dir is scanned once at startup; the catalog is immutable afterwards.
	Dir string `mapstructure:"dir"`
	// MaxDimension downscales oversized templates at load time. 0 disables.
	MaxDimension int `mapstructure:"max_dimension"`
}

type OutputConfig struct {
	// Backend selects where rendered memes are persisted: "local" or "s3".
	Backend string `mapstructure:"backend"`
	// Dir is the output root for the local backend.
	Dir string `mapstructure:"dir"`
	// PublicBaseURL is the mount point references are expressed under.
	PublicBaseURL string   `mapstructure:"public_base_url"`
	S3            S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type FontConfig struct {
	// Path to a TTF/OTF file. Empty falls back to the built-in bitmap face.
	Path string `mapstructure:"path"`

	DefaultSize int `mapstructure:"default_size"`
	// MinSize is the floor the layout engine shrinks to before clipping.
	MinSize int `mapstructure:"min_size"`
	// SizeStep is the shrink decrement in points.
	SizeStep int `mapstructure:"size_step"`

	DefaultColor       string `mapstructure:"default_color"`
	DefaultStrokeColor string `mapstructure:"default_stroke_color"`
	DefaultStrokeWidth int    `mapstructure:"default_stroke_width"`
	MaxTextBlocks      int    `mapstructure:"max_text_blocks"`
}

type AIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("templates.dir", "./data/templates")
	v.SetDefault("templates.max_dimension", 0)
	v.SetDefault("output.backend", "local")
	v.SetDefault("output.dir", "./data/memes")
	v.SetDefault("output.public_base_url", "/static/memes")
	v.SetDefault("output.s3.endpoint", "localhost:9000")
	v.SetDefault("output.s3.use_ssl", false)
	v.SetDefault("output.s3.bucket", "memes")
	v.SetDefault("font.path", "")
	v.SetDefault("font.default_size", 40)
	v.SetDefault("font.min_size", 10)
	v.SetDefault("font.size_step", 2)
	v.SetDefault("font.default_color", "white")
	v.SetDefault("font.default_stroke_color", "black")
	v.SetDefault("font.default_stroke_width", 2)
	v.SetDefault("font.max_text_blocks", 8)
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("output.s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("output.s3.access_key", "S3_ACCESS_KEY")
	v.BindEnv("output.s3.secret_key", "S3_SECRET_KEY")
	v.BindEnv("output.s3.use_ssl", "S3_USE_SSL")
	v.BindEnv("output.s3.public_url", "S3_PUBLIC_URL")
	v.BindEnv("ai.api_key", "OPENAI_API_KEY")
	v.BindEnv("ai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("ai.model", "AI_MODEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
