package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"cookbook/internal/media"
)

const (
	DefaultLogLevel = "info"
	DefaultUIAddr   = "127.0.0.1:7340"
	ConfigFileName  = ".cookbook.toml"
	DotEnvFileName  = ".env"

	DefaultUploadFileField          = "file"
	DefaultUploadMaxBytes     int64 = 25 * 1024 * 1024
	DefaultUploadMultipartMem int64 = 8 * 1024 * 1024

	DefaultSearchRate  = 5.0
	DefaultSearchBurst = 10

	configDirEnvKey          = "COOKBOOK_CONFIG_DIR"
	trustProjectConfigEnvKey = "COOKBOOK_TRUST_PROJECT_CONFIG"
)

// RootFieldName marks a response whose root is itself the result sequence.
const RootFieldName = "$"

var (
	DefaultListFields   = []string{"Documents"}
	DefaultSearchFields = []string{"Documents", "value", RootFieldName}
)

// EndpointConfig holds the deployment-supplied endpoint templates.
// Get, update and delete URLs carry an {id} placeholder.
type EndpointConfig struct {
	CreateURL string `toml:"create_url"`
	ListURL   string `toml:"list_url"`
	GetURL    string `toml:"get_url"`
	UpdateURL string `toml:"update_url"`
	DeleteURL string `toml:"delete_url"`
	SearchURL string `toml:"search_url"`
}

// MediaConfig defines where recipe images live.
type MediaConfig struct {
	BaseURL             string `toml:"base_url"`
	Container           string `toml:"container"`
	PlaceholderURL      string `toml:"placeholder_url"`
	ErrorPlaceholderURL string `toml:"error_placeholder_url"`
}

// ResponseConfig lists, in priority order, the container fields a collection
// response may nest its results under.
type ResponseConfig struct {
	ListFields   []string `toml:"list_fields"`
	SearchFields []string `toml:"search_fields"`
}

// UploadConfig defines multipart handling for recipe creation.
type UploadConfig struct {
	FileField          string `toml:"file_field"`
	MaxUploadBytes     int64  `toml:"max_upload_bytes"`
	MultipartMaxMemory int64  `toml:"multipart_max_memory"`
}

// UIConfig defines the HTML front end served by `cookbook serve`.
type UIConfig struct {
	Addr        string  `toml:"addr"`
	SearchRate  float64 `toml:"search_rate"`
	SearchBurst int     `toml:"search_burst"`
}

// Config defines runtime configuration for cookbook.
type Config struct {
	LogLevel                 string         `toml:"log_level"`
	Endpoints                EndpointConfig `toml:"endpoints"`
	Media                    MediaConfig    `toml:"media"`
	Responses                ResponseConfig `toml:"responses"`
	Upload                   UploadConfig   `toml:"upload"`
	UI                       UIConfig       `toml:"ui"`
	TrustedProjectConfigPath string         `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		Media: MediaConfig{
			BaseURL:             media.DefaultBaseURL,
			Container:           media.DefaultContainer,
			PlaceholderURL:      media.DefaultPlaceholder,
			ErrorPlaceholderURL: media.DefaultErrorPlaceholder,
		},
		Responses: ResponseConfig{
			ListFields:   append([]string(nil), DefaultListFields...),
			SearchFields: append([]string(nil), DefaultSearchFields...),
		},
		Upload: UploadConfig{
			FileField:          DefaultUploadFileField,
			MaxUploadBytes:     DefaultUploadMaxBytes,
			MultipartMaxMemory: DefaultUploadMultipartMem,
		},
		UI: UIConfig{
			Addr:        DefaultUIAddr,
			SearchRate:  DefaultSearchRate,
			SearchBurst: DefaultSearchBurst,
		},
	}
}

// Resolver returns the media resolver described by the config.
func (c *Config) Resolver() media.Resolver {
	return media.Resolver{
		BaseURL:          c.Media.BaseURL,
		Container:        c.Media.Container,
		Placeholder:      c.Media.PlaceholderURL,
		ErrorPlaceholder: c.Media.ErrorPlaceholderURL,
	}
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

// loadDotEnv populates the process environment from a .env file in the
// working directory. Variables already set win.
func loadDotEnv() error {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	path := filepath.Join(cwd, DotEnvFileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, ConfigFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"log_level",
	"endpoints.create_url",
	"endpoints.list_url",
	"endpoints.get_url",
	"endpoints.update_url",
	"endpoints.delete_url",
	"endpoints.search_url",
	"media.base_url",
	"media.container",
	"media.placeholder_url",
	"media.error_placeholder_url",
	"responses.list_fields",
	"responses.search_fields",
	"upload.file_field",
	"upload.max_upload_bytes",
	"upload.multipart_max_memory",
	"ui.addr",
	"ui.search_rate",
	"ui.search_burst",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "log_level":
		return c.LogLevel, nil
	case "endpoints.create_url":
		return c.Endpoints.CreateURL, nil
	case "endpoints.list_url":
		return c.Endpoints.ListURL, nil
	case "endpoints.get_url":
		return c.Endpoints.GetURL, nil
	case "endpoints.update_url":
		return c.Endpoints.UpdateURL, nil
	case "endpoints.delete_url":
		return c.Endpoints.DeleteURL, nil
	case "endpoints.search_url":
		return c.Endpoints.SearchURL, nil
	case "media.base_url":
		return c.Media.BaseURL, nil
	case "media.container":
		return c.Media.Container, nil
	case "media.placeholder_url":
		return c.Media.PlaceholderURL, nil
	case "media.error_placeholder_url":
		return c.Media.ErrorPlaceholderURL, nil
	case "responses.list_fields":
		return strings.Join(c.Responses.ListFields, ","), nil
	case "responses.search_fields":
		return strings.Join(c.Responses.SearchFields, ","), nil
	case "upload.file_field":
		return c.Upload.FileField, nil
	case "upload.max_upload_bytes":
		return strconv.FormatInt(c.Upload.MaxUploadBytes, 10), nil
	case "upload.multipart_max_memory":
		return strconv.FormatInt(c.Upload.MultipartMaxMemory, 10), nil
	case "ui.addr":
		return c.UI.Addr, nil
	case "ui.search_rate":
		return strconv.FormatFloat(c.UI.SearchRate, 'g', -1, 64), nil
	case "ui.search_burst":
		return strconv.Itoa(c.UI.SearchBurst), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, ConfigFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads .env, then trusted config files, then applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, ConfigFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, ConfigFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	cfg.applyEnv()
	cfg.normalizeDefaults()

	return &cfg, nil
}

var envOverrides = []struct {
	key    string
	target func(*Config) *string
}{
	{"COOKBOOK_CREATE_URL", func(c *Config) *string { return &c.Endpoints.CreateURL }},
	{"COOKBOOK_LIST_URL", func(c *Config) *string { return &c.Endpoints.ListURL }},
	{"COOKBOOK_GET_URL", func(c *Config) *string { return &c.Endpoints.GetURL }},
	{"COOKBOOK_UPDATE_URL", func(c *Config) *string { return &c.Endpoints.UpdateURL }},
	{"COOKBOOK_DELETE_URL", func(c *Config) *string { return &c.Endpoints.DeleteURL }},
	{"COOKBOOK_SEARCH_URL", func(c *Config) *string { return &c.Endpoints.SearchURL }},
	{"COOKBOOK_MEDIA_BASE_URL", func(c *Config) *string { return &c.Media.BaseURL }},
	{"COOKBOOK_MEDIA_CONTAINER", func(c *Config) *string { return &c.Media.Container }},
	{"COOKBOOK_UI_ADDR", func(c *Config) *string { return &c.UI.Addr }},
}

// EnvOverrideKeys lists the environment variables that override config values.
func EnvOverrideKeys() []string {
	keys := make([]string, 0, len(envOverrides))
	for _, override := range envOverrides {
		keys = append(keys, override.key)
	}
	return keys
}

func (c *Config) applyEnv() {
	for _, override := range envOverrides {
		if value := strings.TrimSpace(os.Getenv(override.key)); value != "" {
			*override.target(c) = value
		}
	}
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "upload.max_upload_bytes", "upload.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "ui.search_burst":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "ui.search_rate":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive number", key)
		}
		return parsed, nil
	case "responses.list_fields", "responses.search_fields":
		fields := splitCSV(value)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%s must name at least one field", key)
		}
		return fields, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func splitCSV(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func (c *Config) normalizeDefaults() {
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if len(c.Responses.ListFields) == 0 {
		c.Responses.ListFields = append([]string(nil), DefaultListFields...)
	}
	if len(c.Responses.SearchFields) == 0 {
		c.Responses.SearchFields = append([]string(nil), DefaultSearchFields...)
	}
	if strings.TrimSpace(c.Upload.FileField) == "" {
		c.Upload.FileField = DefaultUploadFileField
	}
	if c.Upload.MaxUploadBytes <= 0 {
		c.Upload.MaxUploadBytes = DefaultUploadMaxBytes
	}
	if c.Upload.MultipartMaxMemory <= 0 {
		c.Upload.MultipartMaxMemory = DefaultUploadMultipartMem
	}
	if strings.TrimSpace(c.UI.Addr) == "" {
		c.UI.Addr = DefaultUIAddr
	}
	if c.UI.SearchRate <= 0 {
		c.UI.SearchRate = DefaultSearchRate
	}
	if c.UI.SearchBurst <= 0 {
		c.UI.SearchBurst = DefaultSearchBurst
	}
}
