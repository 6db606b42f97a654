package config

import (
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"
)

const (
	DefaultWakeWord = "friday"
	DefaultLLMModel = "gpt-5-nano"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY not set")

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Limits bounds one capture attempt.
type Limits struct {
	ListenTimeout time.Duration // wait for speech to start
	PhraseLimit   time.Duration // max utterance length once speech started
	Ambient       time.Duration // noise calibration before listening
}

type Config struct {
	EnvFile      string
	LogLevel     log.Level
	Proxy        string
	WhisperModel string
	Metrics      string
	BusURL       string
	Utterances   string
	Chime        string

	APIKey   string
	LLMModel string
	WakeWord string

	Wake    Limits
	Command Limits
}

// Parse reads flags from args, loads the env file and collects settings from
// the environment. A missing API key is reported as ErrMissingAPIKey together
// with the otherwise populated Config, so the caller can still log and speak.
func Parse(args []string) (Config, error) {
	fs := cli.NewFlagSet("friday", cli.ContinueOnError)

	envFile := fs.StringP("env", "e", ".env", "Env file path")
	logLevel := fs.StringP("log", "l", "info", "Log level")
	proxyAddr := fs.StringP("proxy", "p", "", "Socks Proxy Address (empty for direct)")
	model := fs.StringP("model", "m", "third_party/whisper.cpp/models/ggml-base.en.bin", "Whisper model path")
	metrics := fs.String("metrics", "", "Metrics listen address (empty to disable)")
	bus := fs.String("bus", "", "Websocket event hub url (empty to disable)")
	utterances := fs.String("utterances", "", "Directory of recorded utterances replayed instead of the microphone")
	chime := fs.String("chime", "", "Mp3 played on wake (empty to disable)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	level, ok := logLevelMap[strings.ToLower(*logLevel)]
	if !ok {
		return Config{}, fmt.Errorf("unknown log level %q", *logLevel)
	}

	// a missing .env is fine, the environment may already carry the key
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	cfg := Config{
		EnvFile:      *envFile,
		LogLevel:     level,
		Proxy:        *proxyAddr,
		WhisperModel: *model,
		Metrics:      *metrics,
		BusURL:       *bus,
		Utterances:   *utterances,
		Chime:        *chime,

		APIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		LLMModel: envOr("FRIDAY_LLM_MODEL", DefaultLLMModel),
		WakeWord: strings.ToLower(envOr("FRIDAY_WAKE_WORD", DefaultWakeWord)),

		Wake: Limits{
			ListenTimeout: 5 * time.Second,
			PhraseLimit:   5 * time.Second,
			Ambient:       300 * time.Millisecond,
		},
		Command: Limits{
			ListenTimeout: 6 * time.Second,
			PhraseLimit:   8 * time.Second,
			Ambient:       300 * time.Millisecond,
		},
	}

	if cfg.APIKey == "" {
		return cfg, ErrMissingAPIKey
	}

	return cfg, nil
}

// WakePrompt is the whisper initial prompt: the wake word capitalized, as a
// sentence.
func (c Config) WakePrompt() string {
	r, size := utf8.DecodeRuneInString(c.WakeWord)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + c.WakeWord[size:] + "."
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
