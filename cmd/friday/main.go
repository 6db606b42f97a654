package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	cli "github.com/spf13/pflag"

	"friday/internal/assistant"
	"friday/internal/audio"
	"friday/internal/bus"
	"friday/internal/config"
	"friday/internal/ipc"
	"friday/internal/listen"
	"friday/internal/metrics"
	"friday/internal/netcheck"
	"friday/internal/nlu"
	"friday/internal/notify"
	"friday/internal/proxy"
	"friday/internal/tts"
	"friday/internal/web"
	"friday/pkg/stt"
)

const fatalMessage = "There was a critical error setting up the assistant. " +
	"Please check your API key and environment file. The program will now exit."

func main() {
	cfg, cfgErr := config.Parse(os.Args[1:])
	if errors.Is(cfgErr, cli.ErrHelp) {
		return
	}

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.TimeOnly,
	})))

	log.Info("Booting up")

	voice := tts.NewEspeak()
	if cfgErr != nil {
		fatal(voice, "Failed to load configuration", cfgErr)
	}

	log.Debug("Loaded API Key")

	httpClient, err := proxy.NewHTTPClient(cfg.Proxy)
	if err != nil {
		fatal(voice, "Failed to dial socks proxy", err, "proxy", cfg.Proxy)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkNetwork(ctx, httpClient)

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	)
	classifier := nlu.NewOpenAIClassifier(client, cfg.LLMModel)

	ducker := audio.NewDucker([]string{"espeak-ng", "espeak"}, 10, 0.3, 150*time.Millisecond)
	narrator := tts.NewNarrator(voice, ducker, 16)
	defer narrator.Close()

	narrator.Say("AI model configured successfully.")
	log.Debug("Loaded classifier", "model", cfg.LLMModel)

	src, closeSrc, err := newSource(cfg)
	if err != nil {
		fatal(voice, "Failed to init audio", err)
	}
	defer closeSrc()

	log.Debug("Loaded audio source")

	transcriber, err := stt.NewTranscriber(cfg.WhisperModel, stt.Options{
		Language:      "en",
		InitialPrompt: cfg.WakePrompt(),
	})
	if err != nil {
		fatal(voice, "Failed to init whisper", err, "model", cfg.WhisperModel)
	}
	defer transcriber.Close()

	log.Debug("Loaded whisper")

	reg := prometheus.NewRegistry()
	observers := []assistant.Observer{metrics.New(reg)}

	if cfg.Metrics != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics, reg); err != nil {
				log.Error("Metrics server failed", "addr", cfg.Metrics, "err", err)
			}
		}()
	}

	if cfg.BusURL != "" {
		pub, err := bus.Dial(cfg.BusURL, "friday")
		if err != nil {
			log.Warn("Event bus unavailable", "url", cfg.BusURL, "err", err)
		} else {
			defer pub.Close()
			observers = append(observers, bus.NewObserver(pub))
		}
	}

	control := make(chan assistant.Control, 4)
	ln, err := ipc.StartServer(ipc.SocketPath, func(msg ipc.ControlMessage) error {
		c, err := assistant.ParseControl(msg.Cmd)
		if err != nil {
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return err
		}
		select {
		case control <- c:
			return nil
		default:
			return errors.New("too many pending commands")
		}
	})
	if err != nil {
		log.Warn("Control socket unavailable", "path", ipc.SocketPath, "err", err)
	} else {
		defer ln.Close()
	}

	var cue assistant.Cue
	if cfg.Chime != "" {
		if chime, err := notify.LoadChime(cfg.Chime); err != nil {
			log.Warn("Wake chime unavailable", "path", cfg.Chime, "err", err)
		} else {
			cue = chime
		}
	}

	browser := web.NewBrowser()

	interp, err := assistant.New(assistant.Config{
		Listener:      listen.NewListener(src, transcriber, audio.ErrWaitTimeout),
		Classifier:    classifier,
		Actions:       assistant.NewActions(narrator, browser, web.NewYouTube(httpClient, browser)),
		Speaker:       narrator,
		Cue:           cue,
		Observer:      assistant.Observers(observers...),
		Control:       control,
		WakeWord:      cfg.WakeWord,
		WakeLimits:    cfg.Wake,
		CommandLimits: cfg.Command,
	})
	if err != nil {
		fatal(voice, "Failed to build interpreter", err)
	}

	log.Info("Boot up - successful", "wake_word", cfg.WakeWord)
	narrator.Say("Hello, I am Friday.")

	if err := interp.Run(ctx); err != nil {
		log.Error("Interpreter stopped", "err", err)
	}

	log.Info("Shutting down")
}

// newSource picks the replay directory when configured, the microphone
// otherwise.
func newSource(cfg config.Config) (listen.Source, func(), error) {
	if cfg.Utterances != "" {
		src, err := audio.NewFileSource(afero.NewOsFs(), cfg.Utterances)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	}

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		return nil, nil, fmt.Errorf("init portaudio: %w", err)
	}
	return rec, rec.Close, nil
}

func checkNetwork(ctx context.Context, client *http.Client) {
	took, err := netcheck.Latency(ctx, client, netcheck.DefaultTarget, 5*time.Second)
	if err != nil {
		log.Warn("Network check failed", "target", netcheck.DefaultTarget, "err", err)
		return
	}
	log.Info("Network latency", "took", took.Round(time.Millisecond))
}

func fatal(voice tts.Engine, msg string, err error, args ...any) {
	log.Error(msg, append(args, "err", err)...)
	if sErr := voice.Speak(fatalMessage); sErr != nil {
		log.Error("Failed to voice out", "err", sErr)
	}
	os.Exit(1)
}
