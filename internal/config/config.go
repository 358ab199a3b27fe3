package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultSocketPath    = "/tmp/player_backend.sock"
	DefaultCheckInterval = 5 * time.Second
	DefaultCacheTTL      = 24 * time.Hour
)

func getDefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "player-backend")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "player_backend_cache"
	}

	return filepath.Join(homeDir, ".cache", "player-backend")
}

// TomlConfig mirrors the on-disk config file layout.
type TomlConfig struct {
	App struct {
		SocketPath     string  `toml:"socket_path"`
		CheckInterval  string  `toml:"check_interval"`
		CacheDir       string  `toml:"cache_dir"`
		LyricOffset    float64 `toml:"lyric_offset"`
		RefreshProcess string  `toml:"refresh_process"`
	} `toml:"app"`

	Playlist struct {
		Owner        string `toml:"owner"`
		Repo         string `toml:"repo"`
		Path         string `toml:"path"`
		Ref          string `toml:"ref"`
		Token        string `toml:"token"`
		ManifestPath string `toml:"manifest_path"`
		CacheTTL     string `toml:"cache_ttl"`
	} `toml:"playlist"`

	Lyrics struct {
		SidecarDir string `toml:"sidecar_dir"`
	} `toml:"lyrics"`

	AI struct {
		ModuleName string `toml:"module_name"`
		APIKey     string `toml:"api_key"`
		BaseURL    string `toml:"base_url"` // for OpenAI-compatible endpoints
	} `toml:"ai"`

	Redis struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
	} `toml:"redis"`

	Translate struct {
		Enabled   bool   `toml:"enabled"`
		SecretID  string `toml:"secret_id"`
		SecretKey string `toml:"secret_key"`
	} `toml:"translate"`
}

// AppConfig holds daemon-wide settings.
type AppConfig struct {
	SocketPath     string
	CheckInterval  time.Duration
	CacheDir       string
	LyricOffset    float64 // seconds added to player position when resolving the active line
	RefreshProcess string  // status bar process to nudge on line changes, empty disables
}

// PlaylistConfig selects the playlist source and its cache policy.
type PlaylistConfig struct {
	Owner        string
	Repo         string
	Path         string
	Ref          string
	Token        string
	ManifestPath string
	CacheTTL     time.Duration
}

// LyricsConfig configures local lyric lookup.
type LyricsConfig struct {
	SidecarDir string
}

// AIConfig configures the optional title-extraction model.
type AIConfig struct {
	ModuleName string
	APIKey     string
	BaseURL    string
}

// RedisConfig configures the optional Redis cache backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TranslateConfig configures optional bilingual lyrics.
type TranslateConfig struct {
	Enabled   bool
	SecretID  string
	SecretKey string
}

// Config is the resolved runtime configuration.
type Config struct {
	App       AppConfig
	Playlist  PlaylistConfig
	Lyrics    LyricsConfig
	AI        AIConfig
	Redis     RedisConfig
	Translate TranslateConfig
}

func getConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "player-backend", "config.toml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Printf("WARN: Cannot get user home directory: %v", err)
		return "config.toml"
	}

	return filepath.Join(homeDir, ".config", "player-backend", "config.toml")
}

func loadTomlConfig() (*TomlConfig, error) {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Printf("INFO: Config file not found at %s, using defaults", configPath)
		return &TomlConfig{}, nil
	}

	var config TomlConfig
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, err
	}

	log.Printf("INFO: Loaded config from %s", configPath)
	return &config, nil
}

// Load reads the config file and merges it over the built-in defaults.
// A missing or broken config file never aborts startup.
func Load() *Config {
	tomlConfig, err := loadTomlConfig()
	if err != nil {
		log.Printf("ERROR: Failed to load config file: %v", err)
		log.Printf("INFO: Using default configuration")
		tomlConfig = &TomlConfig{}
	}

	config := &Config{
		App: AppConfig{
			SocketPath:    DefaultSocketPath,
			CheckInterval: DefaultCheckInterval,
			CacheDir:      getDefaultCacheDir(),
			LyricOffset:   0.1,
		},
		Playlist: PlaylistConfig{
			Ref:      "main",
			CacheTTL: DefaultCacheTTL,
		},
		AI: AIConfig{
			ModuleName: "gemini",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}

	if tomlConfig.App.SocketPath != "" {
		config.App.SocketPath = tomlConfig.App.SocketPath
	}
	if tomlConfig.App.CheckInterval != "" {
		if duration, err := time.ParseDuration(tomlConfig.App.CheckInterval); err == nil {
			config.App.CheckInterval = duration
		} else {
			log.Printf("WARN: Invalid check_interval format '%s', using default", tomlConfig.App.CheckInterval)
		}
	}
	if tomlConfig.App.CacheDir != "" {
		config.App.CacheDir = tomlConfig.App.CacheDir
	}
	if tomlConfig.App.LyricOffset != 0 {
		config.App.LyricOffset = tomlConfig.App.LyricOffset
	}
	if tomlConfig.App.RefreshProcess != "" {
		config.App.RefreshProcess = tomlConfig.App.RefreshProcess
	}

	if tomlConfig.Playlist.Owner != "" {
		config.Playlist.Owner = tomlConfig.Playlist.Owner
	}
	if tomlConfig.Playlist.Repo != "" {
		config.Playlist.Repo = tomlConfig.Playlist.Repo
	}
	if tomlConfig.Playlist.Path != "" {
		config.Playlist.Path = tomlConfig.Playlist.Path
	}
	if tomlConfig.Playlist.Ref != "" {
		config.Playlist.Ref = tomlConfig.Playlist.Ref
	}
	if tomlConfig.Playlist.Token != "" {
		config.Playlist.Token = tomlConfig.Playlist.Token
	}
	if tomlConfig.Playlist.ManifestPath != "" {
		config.Playlist.ManifestPath = tomlConfig.Playlist.ManifestPath
	}
	if tomlConfig.Playlist.CacheTTL != "" {
		if duration, err := time.ParseDuration(tomlConfig.Playlist.CacheTTL); err == nil {
			config.Playlist.CacheTTL = duration
		} else {
			log.Printf("WARN: Invalid cache_ttl format '%s', using default", tomlConfig.Playlist.CacheTTL)
		}
	}

	if tomlConfig.Lyrics.SidecarDir != "" {
		config.Lyrics.SidecarDir = tomlConfig.Lyrics.SidecarDir
	}

	if tomlConfig.AI.ModuleName != "" {
		config.AI.ModuleName = tomlConfig.AI.ModuleName
	}
	if tomlConfig.AI.APIKey != "" {
		config.AI.APIKey = tomlConfig.AI.APIKey
	}
	if tomlConfig.AI.BaseURL != "" {
		config.AI.BaseURL = tomlConfig.AI.BaseURL
	}

	if tomlConfig.Redis.Addr != "" {
		config.Redis.Addr = tomlConfig.Redis.Addr
	}
	if tomlConfig.Redis.Password != "" {
		config.Redis.Password = tomlConfig.Redis.Password
	}
	if tomlConfig.Redis.DB != 0 {
		config.Redis.DB = tomlConfig.Redis.DB
	}

	config.Translate.Enabled = tomlConfig.Translate.Enabled
	if tomlConfig.Translate.SecretID != "" {
		config.Translate.SecretID = tomlConfig.Translate.SecretID
	}
	if tomlConfig.Translate.SecretKey != "" {
		config.Translate.SecretKey = tomlConfig.Translate.SecretKey
	}

	if config.Playlist.Owner == "" && config.Playlist.ManifestPath == "" {
		log.Printf("WARN: No playlist source configured (playlist.owner/repo or playlist.manifest_path); only the cached playlist will be available")
	}

	return config
}
