// Package cli implements the hireboard command line client. Every command
// drives a board.Coordinator against the HTTP API, so it reports outcomes the
// same way the board does.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cuongbtq/hireboard/internal/board"
	"github.com/cuongbtq/hireboard/internal/client"
	"github.com/cuongbtq/hireboard/internal/config"
	"github.com/cuongbtq/hireboard/shared/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Defaults for flags that are not set by config file, env or command line.
const (
	defaultAPIURL  = "http://localhost:8080"
	defaultTimeout = 10 * time.Second
)

type app struct {
	v *viper.Viper
}

// NewRootCmd builds the hireboard command tree. Flags can also be set through
// HIREBOARD_* environment variables or a YAML config file.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "hireboard",
		Short:         "Hireboard CLI",
		Long:          "Manage job postings and move candidates through the hiring pipeline.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to a YAML config file with a board section")
	flags.String("api-url", defaultAPIURL, "hireboard API base URL")
	flags.String("actor", "", "name recorded on timeline entries and notes")
	flags.Duration("timeout", defaultTimeout, "HTTP request timeout")
	flags.Int("page-size", 0, "items per page")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Bool("json", false, "output JSON")

	for _, name := range []string{"config", "api-url", "actor", "timeout", "page-size", "log-level", "json"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}
	a.v.SetEnvPrefix("HIREBOARD")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(a.jobsCmd())
	root.AddCommand(a.candidatesCmd())
	root.AddCommand(a.boardCmd())
	root.AddCommand(a.activityCmd())

	return root
}

// loadConfig layers the config file under env and flags, then validates the
// resulting board settings.
func (a *app) loadConfig() error {
	if path := a.v.GetString("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if cfg.Board.APIURL != "" {
			a.v.SetDefault("api-url", cfg.Board.APIURL)
		}
		a.v.SetDefault("actor", cfg.Board.Actor)
		a.v.SetDefault("page-size", cfg.Board.PageSize)
		a.v.SetDefault("timeout", cfg.Board.RequestTimeout)
		if cfg.Logging.Level != "" {
			a.v.SetDefault("log-level", cfg.Logging.Level)
		}
	}

	cfg := config.Config{Board: config.BoardConfig{APIURL: a.v.GetString("api-url")}}
	if err := cfg.ValidateBoardConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// session is what a single command invocation works with.
type session struct {
	client *client.Client
	coord  *board.Coordinator
	out    io.Writer
	json   bool
	log    *logger.Logger
}

// open connects a coordinator to the API. prepare adjusts the initial board
// state (filters, page) before anything is fetched.
func (a *app) open(cmd *cobra.Command, prepare func(s *board.State)) (*session, error) {
	log, err := logger.New(&logger.Config{
		Level:  a.v.GetString("log-level"),
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := client.New(a.v.GetString("api-url"), a.v.GetDuration("timeout"), log.Logger)

	state := board.NewState(a.v.GetInt("page-size"))
	if prepare != nil {
		prepare(&state)
	}

	coord, err := board.NewCoordinator(board.Config{
		Store:    board.NewStore(state),
		Remote:   c,
		Notifier: toastWriter{w: cmd.ErrOrStderr()},
		Logger:   log.Logger,
		Actor:    a.v.GetString("actor"),
	})
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create coordinator: %w", err)
	}

	return &session{
		client: c,
		coord:  coord,
		out:    cmd.OutOrStdout(),
		json:   a.v.GetBool("json"),
		log:    log,
	}, nil
}

func (s *session) Close() error {
	return s.log.Close()
}

func (s *session) printJSON(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// toastWriter prints board notifications as one line each.
type toastWriter struct {
	w io.Writer
}

func (t toastWriter) Notify(toast board.Toast) {
	prefix := "ok"
	if toast.Variant == board.VariantDestructive {
		prefix = "error"
	}
	fmt.Fprintf(t.w, "%s: %s: %s\n", prefix, toast.Title, toast.Description)
}

func withSession(a *app, cmd *cobra.Command, prepare func(s *board.State), fn func(ctx context.Context, s *session) error) error {
	s, err := a.open(cmd, prepare)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(cmd.Context(), s)
}
