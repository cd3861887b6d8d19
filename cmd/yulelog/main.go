package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yourorg/yulelog/internal/config"
	"github.com/yourorg/yulelog/internal/display"
	"github.com/yourorg/yulelog/internal/filter"
	"github.com/yourorg/yulelog/internal/logging"
	"github.com/yourorg/yulelog/internal/monitor"
	"github.com/yourorg/yulelog/internal/railslog"
	"github.com/yourorg/yulelog/internal/session"
	"github.com/yourorg/yulelog/internal/snapshot"
	"github.com/yourorg/yulelog/internal/store"
	"github.com/yourorg/yulelog/internal/tail"
	"github.com/yourorg/yulelog/pkg/types"
)

const defaultConfigContent = `tail:
  poll_interval: 5s
  idle_refresh: true

display:
  color: auto
  since: ""

sanitize:
  query_params:
    - token
    - api_key
    - access_token
    - ssn
  client: false
  replacement: "***REDACTED***"

archive:
  path: ""

log:
  level: "info"
`

type globals struct {
	cfgPath  string
	logLevel string
}

// load reads config and builds the stderr logger. The --log-level flag wins
// over config and env.
func (g *globals) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(g.cfgPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	return cfg, logging.New(os.Stderr, cfg.Log.Level), nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "yulelog",
		Short:         "Caseflow certification log watcher",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.cfgPath, "config", "", "config file path")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newInitCmd())
	root.AddCommand(newTailCmd(g))
	root.AddCommand(newDumpCmd(g))
	root.AddCommand(newReplayCmd(g))
	root.AddCommand(newImportCmd(g))
	root.AddCommand(newListCmd(g))
	root.AddCommand(newShowCmd(g))
	root.AddCommand(newDeleteCmd(g))

	return root
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize ~/.yulelog directory, default config and archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			baseDir := filepath.Join(home, ".yulelog")
			if err := os.MkdirAll(baseDir, 0o755); err != nil {
				return err
			}

			cfgFile := filepath.Join(baseDir, "config.yaml")
			if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(cfgFile, []byte(defaultConfigContent), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "created", cfgFile)
			} else if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "exists", cfgFile)
			} else {
				return err
			}

			dbPath := filepath.Join(baseDir, "archive.db")
			s, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "archive ready", dbPath)
			return nil
		},
	}
}

func newTailCmd(g *globals) *cobra.Command {
	var since, colorMode string
	var interval time.Duration
	var noIdle bool
	cmd := &cobra.Command{
		Use:   "tail <log-file>",
		Short: "Watch a log file and show live certification status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("since") {
				cfg.Display.Since = since
			}
			if cmd.Flags().Changed("color") {
				cfg.Display.Color = colorMode
			}
			if interval > 0 {
				cfg.Tail.PollInterval = interval
			}
			if noIdle {
				off := false
				cfg.Tail.IdleRefresh = &off
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cutoff, err := cfg.SinceTime()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			path := args[0]
			tl, err := tail.Open(path,
				tail.WithInterval(cfg.Tail.PollInterval),
				tail.WithIdleRefresh(cfg.IdleRefreshEnabled()),
			)
			if err != nil {
				return err
			}
			defer tl.Close()

			if fi, err := os.Stat(path); err == nil {
				log.Info().
					Str("path", path).
					Str("size", humanize.Bytes(uint64(fi.Size()))).
					Dur("interval", cfg.Tail.PollInterval).
					Msg("tailing")
			}

			term := display.NewTerminal(cmd.OutOrStdout(), display.Options{
				Since: cutoff,
				Plain: !display.ResolveColor(cfg.Display.Color, os.Stdout),
			})
			return monitor.New(tl, term, log).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "only show sessions active since YYYY-MM-DD")
	cmd.Flags().StringVar(&colorMode, "color", "auto", "color mode (auto, always, never)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval when no new lines are available")
	cmd.Flags().BoolVar(&noIdle, "no-idle-refresh", false, "only redraw when new lines arrive")
	return cmd
}

func newDumpCmd(g *globals) *cobra.Command {
	var redact bool
	cmd := &cobra.Command{
		Use:   "dump <log-file>",
		Short: "Write every request line of a log file as a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			events, err := railslog.ParseFile(args[0])
			if err != nil {
				return err
			}
			if redact {
				events = filter.Sanitize(events, cfg.Sanitize)
			}
			log.Info().Str("events", humanize.Comma(int64(len(events)))).Msg("parsed log")
			return snapshot.Write(cmd.OutOrStdout(), events)
		},
	}
	cmd.Flags().BoolVar(&redact, "redact", false, "redact sensitive query parameters")
	return cmd
}

func newReplayCmd(g *globals) *cobra.Command {
	var verbose bool
	var colorMode string
	cmd := &cobra.Command{
		Use:   "replay <snapshot.json>",
		Short: "Summarize certification outcomes from a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("color") {
				cfg.Display.Color = colorMode
			}
			events, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			snapshot.Sort(events)

			s := session.NewStore()
			for _, e := range events {
				s.Record(e)
			}
			log.Debug().
				Int("events", len(events)).
				Int("workflow_events", s.Events()).
				Int("sessions", s.Len()).
				Msg("replayed snapshot")
			return display.WriteSummary(cmd.OutOrStdout(), s.Snapshot(), verbose, display.ResolveColor(cfg.Display.Color, os.Stdout))
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list each session's actions")
	cmd.Flags().StringVar(&colorMode, "color", "auto", "color mode (auto, always, never)")
	return cmd
}

func newImportCmd(g *globals) *cobra.Command {
	var dbPath string
	var redact bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Archive workflow events from a JSON snapshot or a raw log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			src := args[0]
			var events []types.Event
			if strings.EqualFold(filepath.Ext(src), ".json") {
				events, err = snapshot.Load(src)
			} else {
				events, err = railslog.ParseFile(src)
			}
			if err != nil {
				return err
			}
			if redact {
				events = filter.Sanitize(events, cfg.Sanitize)
			}

			st, err := openArchive(cfg, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if abs, err := filepath.Abs(src); err == nil {
				src = abs
			}
			imp, err := st.CreateImport(src)
			if err != nil {
				return err
			}
			kept, err := st.SaveEvents(imp.ID, events)
			if err != nil {
				return err
			}
			log.Info().Str("import", imp.ID).Int("events", len(events)).Int("kept", kept).Msg("archived")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s of %s events as %s\n",
				humanize.Comma(int64(kept)), humanize.Comma(int64(len(events))), imp.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "archive database path")
	cmd.Flags().BoolVar(&redact, "redact", false, "redact sensitive query parameters")
	return cmd
}

func newListCmd(g *globals) *cobra.Command {
	var dbPath string
	var imports bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived sessions with their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			st, err := openArchive(cfg, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if imports {
				list, err := st.ListImports()
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "ID\tEVENTS\tIMPORTED\tSOURCE")
				for _, imp := range list {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", imp.ID, imp.EventCount, humanize.Time(imp.CreatedAt), imp.Source)
				}
				return nil
			}

			keys, err := st.SessionKeys()
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "SESSION\tSTATUS\tEVENTS\tSTARTED\tLAST SEEN")
			for _, key := range keys {
				events, err := st.SessionEvents(key)
				if err != nil {
					return err
				}
				rec := session.NewRecord(events...)
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", key, rec.Status(), rec.Len(),
					rec.StartTime().Format(types.TimestampLayout), humanize.Time(rec.EndTime()))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "archive database path")
	cmd.Flags().BoolVar(&imports, "imports", false, "list import runs instead of sessions")
	return cmd
}

func newShowCmd(g *globals) *cobra.Command {
	var dbPath, key string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the archived history of one session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			st, err := openArchive(cfg, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			events, err := st.SessionEvents(key)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return fmt.Errorf("session %q not found", key)
			}
			rec := session.NewRecord(events...)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session %s  status %q\n", key, rec.Status())
			for _, e := range rec.Events() {
				fmt.Fprintf(out, "  %s  %-6s %s  %s\n", e.Timestamp.Format(types.TimestampLayout), e.Method, e.Resource, e.Client)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "archive database path")
	cmd.Flags().StringVar(&key, "session", "", "session key")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newDeleteCmd(g *globals) *cobra.Command {
	var dbPath, id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one import run and its events from the archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			st, err := openArchive(cfg, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			if _, err := st.GetImport(id); err != nil {
				return fmt.Errorf("import %s: %w", id, err)
			}
			return st.DeleteImport(id)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "archive database path")
	cmd.Flags().StringVar(&id, "import", "", "import id")
	_ = cmd.MarkFlagRequired("import")
	return cmd
}

func openArchive(cfg *config.Config, override string) (store.Store, error) {
	if override != "" {
		cfg.Archive.Path = override
	}
	if err := cfg.ValidateArchive(); err != nil {
		return nil, err
	}
	return store.NewSQLiteStore(cfg.Archive.Path)
}
