// Command quicklang translates text with AI engines, refusing to resend a
// request identical to the last one that succeeded.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZaguanLabs/quicklang"
	"github.com/ZaguanLabs/quicklang/engine"
	"github.com/ZaguanLabs/quicklang/internal/config"
	"github.com/ZaguanLabs/quicklang/internal/logging"
	"github.com/ZaguanLabs/quicklang/store"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCmd(&app{})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// app carries what every subcommand shares once the persistent flags are parsed.
type app struct {
	configPath string
	logLevel   string
	simulate   bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           quicklang.Name,
		Short:         "Quick language helper",
		Long:          quicklang.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: ./quicklang.yaml if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.simulate, "simulate", false, "Use the simulated engine (no API calls)")

	root.AddCommand(
		newTranslateCmd(a),
		newExerciseCmd(a),
		newFingerprintCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.simulate {
		cfg.Engine.Simulate = true
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewWithWriter(stderr, level, cfg.Log.JSON)
	return nil
}

// openStore returns the configured fingerprint store and a function releasing it.
func (a *app) openStore() (quicklang.FingerprintStore, func() error, error) {
	if a.cfg.Session.RedisURL == "" {
		return store.NewInMemoryStore(a.cfg.Session.TTL), func() error { return nil }, nil
	}

	rs, err := store.NewRedisStore(store.RedisConfig{
		URL:       a.cfg.Session.RedisURL,
		TTL:       a.cfg.Session.TTL,
		KeyPrefix: a.cfg.Session.KeyPrefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	a.logger.Debug("using redis session store", "prefix", a.cfg.Session.KeyPrefix)
	return rs, rs.Close, nil
}

// apiKeyEnv names the environment variable holding each engine's key.
var apiKeyEnv = map[quicklang.Engine]string{
	quicklang.EngineOpenAI:   "OPENAI_API_KEY",
	quicklang.EngineGemini:   "GEMINI_API_KEY",
	quicklang.EngineDeepSeek: "DEEPSEEK_API_KEY",
}

const simulatedAPIKey = "simulated-key"

func (a *app) apiKey(kind quicklang.Engine, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv(apiKeyEnv[kind]); key != "" {
		return key, nil
	}
	if a.cfg.Engine.Simulate {
		return simulatedAPIKey, nil
	}
	return "", fmt.Errorf("%s API key required (--api-key or %s env)", kind.Label(), apiKeyEnv[kind])
}

// newSession builds a session whose form already selects kind and activates
// the key for it.
func (a *app) newSession(ctx context.Context, id string, kind quicklang.Engine, key string, st quicklang.FingerprintStore, extra ...quicklang.SessionOption) (*quicklang.Session, error) {
	opts := []quicklang.SessionOption{
		quicklang.WithStore(st),
		quicklang.WithLogger(a.logger),
	}
	opts = append(opts, a.cfg.SessionOptions()...)
	opts = append(opts, extra...)

	s := quicklang.NewSession(id, engine.NewFactory(a.cfg.EngineSettings()), opts...)
	if err := s.Form().SetEngine(kind); err != nil {
		return nil, err
	}
	if err := s.SetAPIKey(ctx, key); err != nil {
		return nil, err
	}
	return s, nil
}

// formFlags are the selections shared by translate and fingerprint.
type formFlags struct {
	from      string
	to        string
	formality string
	engine    string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.from, "from", "f", string(quicklang.English), "Source language")
	cmd.Flags().StringVarP(&f.to, "to", "t", string(quicklang.Spanish), "Target language")
	cmd.Flags().StringVar(&f.formality, "formality", string(quicklang.FormalityNeutral), "Formality: casual, neutral, formal, very_formal")
	cmd.Flags().StringVarP(&f.engine, "engine", "e", string(quicklang.EngineOpenAI), "AI engine: openai, gemini, deepseek")
}

// request builds a translation request for input from the flag values.
func (f *formFlags) request(input string) (quicklang.TranslationRequest, error) {
	from, err := quicklang.ParseLanguage(f.from)
	if err != nil {
		return quicklang.TranslationRequest{}, err
	}
	to, err := quicklang.ParseLanguage(f.to)
	if err != nil {
		return quicklang.TranslationRequest{}, err
	}
	formality, err := quicklang.ParseFormality(f.formality)
	if err != nil {
		return quicklang.TranslationRequest{}, err
	}
	kind, err := quicklang.ParseEngine(f.engine)
	if err != nil {
		return quicklang.TranslationRequest{}, err
	}
	return quicklang.TranslationRequest{
		InputText:  input,
		SourceLang: from,
		TargetLang: to,
		Formality:  formality,
		Engine:     kind,
	}, nil
}

// readText reads UTF-8 text from path, or from stdin when path is empty or "-".
func readText(path string, stdin io.Reader) (string, error) {
	if isStdin(path) {
		text, err := quicklang.ImportText(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return text, nil
	}

	f, err := os.Open(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	defer f.Close()
	return quicklang.ImportText(f)
}

func isStdin(path string) bool {
	return path == "" || path == "-"
}

func formatElapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
