package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/attendance-kiosk/internal/constants"
	"gopkg.in/yaml.v3"
)

//go:embed phrases.yaml
var phrasesYAML []byte

// DefaultLocale is the operator locale used when KIOSK_LOCALE is unset or unknown.
const DefaultLocale = "id-ID"

type Config struct {
	Backend  BackendConfig
	Kiosk    KioskConfig
	Camera   CameraConfig
	Cooldown CooldownConfig
	Speech   SpeechConfig
	Journal  JournalConfig
	Phrases  PhrasesConfig
}

type BackendConfig struct {
	URL     string        // recognition backend base URL (e.g., http://localhost:1324)
	Timeout time.Duration // per-request timeout for /process_image (default 10s)
}

type KioskConfig struct {
	Host           string
	Port           int
	Locale         string
	ViewportWidth  int // rendered video width used when the detector omits it
	ViewportHeight int
	AllowedOrigins string // extra CORS origins, comma-separated
}

type CameraConfig struct {
	SnapshotURL string // IP camera still-image URL; empty means frames are pushed by the browser
}

type CooldownConfig struct {
	Recognized     time.Duration
	AlreadyPresent time.Duration
	Unrecognized   time.Duration
	TransportError time.Duration
}

type SpeechConfig struct {
	Command string // TTS command line, utterance appended as the last argument; empty leaves speech to the kiosk page
}

type JournalConfig struct {
	DatabaseURL  string // PostgreSQL connection URL
	MariaDBDSN   string // MariaDB DSN (used when DatabaseURL is empty)
	MaxOpenConns int
	MaxIdleConns int
}

// Enabled reports whether any journal backend is configured.
func (c *JournalConfig) Enabled() bool {
	return c.DatabaseURL != "" || c.MariaDBDSN != ""
}

type PhrasesConfig struct {
	Locales map[string]LocalePhrases `yaml:"locales"`
}

type LocalePhrases struct {
	Verifying      Phrase `yaml:"verifying"`
	Recognized     Phrase `yaml:"recognized"`
	AlreadyPresent Phrase `yaml:"already_present"`
	Unrecognized   Phrase `yaml:"unrecognized"`
	Error          Phrase `yaml:"error"`
}

// Phrase holds the status text and the spoken utterance for one outcome.
// Both may contain a {name} placeholder.
type Phrase struct {
	Status string `yaml:"status"`
	Speech string `yaml:"speech"`
}

// Render substitutes the {name} placeholder.
func (p Phrase) Render(text, name string) string {
	return strings.ReplaceAll(text, "{name}", name)
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envMillis reads an environment variable holding milliseconds.
// Zero is a valid value (immediate), negative or invalid values fall back to the default.
func envMillis(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return time.Duration(n) * time.Millisecond
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var phrases PhrasesConfig
	if err := yaml.Unmarshal(phrasesYAML, &phrases); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded phrases.yaml: " + err.Error())
	}

	return &Config{
		Backend: BackendConfig{
			URL:     os.Getenv("BACKEND_URL"),
			Timeout: envMillis("BACKEND_TIMEOUT_MS", constants.DefaultBackendTimeout),
		},
		Kiosk: KioskConfig{
			Host:           envString("KIOSK_HOST", "127.0.0.1"),
			Port:           envInt("KIOSK_PORT", 8090),
			Locale:         envString("KIOSK_LOCALE", DefaultLocale),
			ViewportWidth:  envInt("VIEWPORT_WIDTH", constants.DefaultViewportWidth),
			ViewportHeight: envInt("VIEWPORT_HEIGHT", constants.DefaultViewportHeight),
			AllowedOrigins: os.Getenv("WEB_ALLOWED_ORIGINS"),
		},
		Camera: CameraConfig{
			SnapshotURL: os.Getenv("CAMERA_SNAPSHOT_URL"),
		},
		Cooldown: CooldownConfig{
			Recognized:     envMillis("COOLDOWN_RECOGNIZED_MS", constants.CooldownRecognized),
			AlreadyPresent: envMillis("COOLDOWN_ALREADY_PRESENT_MS", constants.CooldownAlreadyPresent),
			Unrecognized:   envMillis("COOLDOWN_UNRECOGNIZED_MS", constants.CooldownUnrecognized),
			TransportError: envMillis("COOLDOWN_ERROR_MS", constants.CooldownTransportError),
		},
		Speech: SpeechConfig{
			Command: envString("SPEECH_COMMAND", ""),
		},
		Journal: JournalConfig{
			DatabaseURL:  os.Getenv("JOURNAL_DATABASE_URL"),
			MariaDBDSN:   os.Getenv("JOURNAL_MARIADB_DSN"),
			MaxOpenConns: envInt("JOURNAL_MAX_OPEN_CONNS", 5),
			MaxIdleConns: envInt("JOURNAL_MAX_IDLE_CONNS", 2),
		},
		Phrases: phrases,
	}
}

// LocalePhrases returns the phrases for the configured locale, falling back to DefaultLocale.
func (c *Config) LocalePhrases() LocalePhrases {
	if p, ok := c.Phrases.Locales[c.Kiosk.Locale]; ok {
		return p
	}
	return c.Phrases.Locales[DefaultLocale]
}
