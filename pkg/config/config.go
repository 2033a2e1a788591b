package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hexatodo/pkg/keymaps"
)

// Storage adapters selectable with storage.adapter
const (
	AdapterMemory   = "memory"
	AdapterLocal    = "local"
	AdapterSQLite   = "sqlite"
	AdapterPostgres = "postgres"
	AdapterHTTP     = "http"
	AdapterReactive = "reactive"
)

var Adapters = []string{AdapterMemory, AdapterLocal, AdapterSQLite, AdapterPostgres, AdapterHTTP, AdapterReactive}

// Config holds the application configuration
type Config struct {
	Storage    StorageConfig     `mapstructure:"storage"`
	API        APIConfig         `mapstructure:"api"`
	Server     ServerConfig      `mapstructure:"server"`
	KeyMap     map[string]string `mapstructure:"keymap"`
	StylesFile string            `mapstructure:"styles_file"`
}

type StorageConfig struct {
	Adapter  string `mapstructure:"adapter"`
	File     string `mapstructure:"file"`
	Key      string `mapstructure:"key"`
	Database string `mapstructure:"database"`
	DSN      string `mapstructure:"dsn"`
}

type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Styles holds the application colors and styling information
type Styles struct {
	// UI element colors
	BorderColor string `json:"border_color"`
	AccentColor string `json:"accent_color"`

	// Text colors
	NormalTextColor   string `json:"normal_text_color"`
	SelectedTextColor string `json:"selected_text_color"`
	SelectedBgColor   string `json:"selected_bg_color"`
	ErrorColor        string `json:"error_color"`
	MutedColor        string `json:"muted_color"`

	// Column header colors, one per state
	PendingColor    string `json:"pending_color"`
	InProgressColor string `json:"in_progress_color"`
	DoneColor       string `json:"done_color"`
}

// DefaultStyles match the colors the board was designed with
func DefaultStyles() Styles {
	return Styles{
		BorderColor:       "240",
		AccentColor:       "205",
		NormalTextColor:   "252",
		SelectedTextColor: "229",
		SelectedBgColor:   "57",
		ErrorColor:        "9",
		MutedColor:        "241",
		PendingColor:      "214",
		InProgressColor:   "39",
		DoneColor:         "2",
	}
}

// Load loads the application configuration from the specified path. An
// empty path means ~/.config/hexatodo/config.json. A missing file is
// created with default values. Flags that were set on the command line
// override the file and HEXATODO_* environment variables.
func Load(configPath string, flags *pflag.FlagSet) (Config, Styles, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, Styles{}, err
	}

	configDir := filepath.Join(homeDir, ".config", "hexatodo")
	if configPath == "" {
		configPath = filepath.Join(configDir, "config.json")
	} else {
		configDir = filepath.Dir(configPath)
	}

	v := viper.New()
	setDefaults(v, configDir)
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("hexatodo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, Styles{}, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found, create default config
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return Config{}, Styles{}, err
		}
		if err := v.WriteConfigAs(configPath); err != nil {
			return Config{}, Styles{}, fmt.Errorf("error writing default config: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, Styles{}, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, Styles{}, fmt.Errorf("error decoding config: %w", err)
	}
	config.Storage.File = expandHome(config.Storage.File, homeDir)
	config.Storage.Database = expandHome(config.Storage.Database, homeDir)
	config.StylesFile = expandHome(config.StylesFile, homeDir)

	if err := config.Validate(); err != nil {
		return config, Styles{}, err
	}

	// Now load the styles file
	styles, err := loadStyles(config.StylesFile)
	if err != nil {
		return config, styles, fmt.Errorf("error loading styles: %w", err)
	}

	return config, styles, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("storage.adapter", AdapterLocal)
	v.SetDefault("storage.file", filepath.Join(configDir, "todos.json"))
	v.SetDefault("storage.key", "todos")
	v.SetDefault("storage.database", filepath.Join(configDir, "todo.db"))
	v.SetDefault("storage.dsn", "")
	v.SetDefault("api.url", "http://localhost:8080")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("keymap", keymaps.GetDefaultKeyMappings())
	v.SetDefault("styles_file", filepath.Join(configDir, "styles.json"))
}

// bindFlags maps command line flags onto config keys
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"storage.adapter": "storage",
		"server.addr":     "addr",
		"api.url":         "api-url",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks values viper cannot type-check on its own
func (c Config) Validate() error {
	for _, a := range Adapters {
		if c.Storage.Adapter == a {
			return nil
		}
	}
	return fmt.Errorf("unknown storage adapter %q (want one of %s)", c.Storage.Adapter, strings.Join(Adapters, ", "))
}

func expandHome(path, homeDir string) string {
	if strings.HasPrefix(path, "~") {
		return homeDir + path[1:]
	}
	return path
}

// loadStyles loads the application styles from the specified path
func loadStyles(stylesPath string) (Styles, error) {
	defaultStyles := DefaultStyles()

	// Try to read the styles file
	stylesData, err := os.ReadFile(stylesPath)
	if err != nil {
		// If the file doesn't exist, create it with default values
		if os.IsNotExist(err) {
			stylesDir := filepath.Dir(stylesPath)
			if err := os.MkdirAll(stylesDir, 0755); err != nil {
				return defaultStyles, err
			}

			stylesData, err = json.MarshalIndent(defaultStyles, "", "  ")
			if err != nil {
				return defaultStyles, err
			}

			if err := os.WriteFile(stylesPath, stylesData, 0644); err != nil {
				return defaultStyles, err
			}

			return defaultStyles, nil
		}
		return defaultStyles, err
	}

	// File exists, parse it on top of the defaults so new colors get a value
	loadedStyles := defaultStyles
	if err := json.Unmarshal(stylesData, &loadedStyles); err != nil {
		return defaultStyles, err
	}

	return loadedStyles, nil
}
