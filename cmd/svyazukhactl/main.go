package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matheus3301/svyazukha/internal/bus"
	"github.com/matheus3301/svyazukha/internal/config"
	"github.com/matheus3301/svyazukha/internal/conversation"
	"github.com/matheus3301/svyazukha/internal/logging"
	"github.com/matheus3301/svyazukha/internal/replay"
	"github.com/matheus3301/svyazukha/internal/roster"
	"github.com/matheus3301/svyazukha/internal/session"
	"github.com/matheus3301/svyazukha/internal/settings"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	session    string
	configPath string
	json       bool
	verbose    bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("svyazukhactl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := options{}
	fs.StringVar(&opts.session, "session", "", "session name (overrides config default)")
	fs.StringVar(&opts.configPath, "config", session.ConfigPath(), "config file")
	fs.BoolVar(&opts.json, "json", false, "output in JSON format")
	fs.BoolVar(&opts.verbose, "verbose", false, "log to stderr")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sessionName := session.Resolve(opts.session)
	if err := session.ValidateName(sessionName); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logger := zap.NewNop()
	if opts.verbose {
		logger = logging.NewConsole(stderr, sessionName, zapcore.DebugLevel)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return 1
	}

	switch rest[0] {
	case "chats":
		return cmdChats(stdout, opts.json)
	case "contacts":
		return cmdContacts(stdout, opts.json)
	case "settings":
		return cmdSettings(stdout, stderr, cfg, opts.json)
	case "replay":
		if len(rest) < 2 {
			fmt.Fprintln(stderr, "usage: svyazukhactl replay <file|->")
			return 1
		}
		return cmdReplay(rest[1], stdin, stdout, stderr, cfg, logger, opts.json)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", rest[0])
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: svyazukhactl [--session <name>] [--config <path>] [--json] [--verbose] <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  chats            List the seeded conversations")
	fmt.Fprintln(w, "  contacts         List contacts")
	fmt.Fprintln(w, "  settings         Show settings with config overrides applied")
	fmt.Fprintln(w, "  replay <file|->  Run a command script against a fresh store")
}

func cmdChats(w io.Writer, jsonOut bool) int {
	chats := conversation.Seed()
	if jsonOut {
		return outputJSON(w, chats)
	}
	printChats(w, chats)
	return 0
}

func printChats(w io.Writer, chats []conversation.Conversation) {
	for _, c := range chats {
		online := " "
		if c.IsOnline {
			online = "●"
		}
		fmt.Fprintf(w, "%s %-10s %-22s %5s  %2d  %s\n", online, c.ID, c.DisplayName, c.LastActivityTime, c.UnreadCount, c.LastMessagePreview)
	}
}

func cmdContacts(w io.Writer, jsonOut bool) int {
	contacts := roster.New(roster.Seed()).List()
	if jsonOut {
		return outputJSON(w, contacts)
	}
	for _, c := range contacts {
		fmt.Fprintf(w, "%-8s %-20s %s\n", c.ID, c.DisplayName, c.StatusLine)
	}
	return 0
}

func cmdSettings(w, stderr io.Writer, cfg *config.Config, jsonOut bool) int {
	st, err := settings.New(cfg.Settings, nil)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	items := st.Items()
	if jsonOut {
		out := make(map[settings.Key]bool, len(items))
		for _, it := range items {
			out[it.Key] = it.Enabled
		}
		return outputJSON(w, out)
	}
	section := ""
	for _, it := range items {
		if it.Section != section {
			section = it.Section
			fmt.Fprintf(w, "%s\n", section)
		}
		mark := " "
		if it.Enabled {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %-16s %s\n", mark, it.Key, it.Label)
	}
	return 0
}

type replayOutput struct {
	Steps         []replay.StepResult         `json:"steps"`
	Conversations []conversation.Conversation `json:"conversations"`
}

func cmdReplay(path string, stdin io.Reader, w, stderr io.Writer, cfg *config.Config, logger *zap.Logger, jsonOut bool) int {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	steps, err := replay.Parse(in)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	st, err := settings.New(cfg.Settings, nil)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	clock := clockwork.NewFakeClockAt(time.Now())
	b := bus.New()
	store := conversation.NewStore(conversation.Seed(), clock, st, b, logger)
	defer store.Close()
	runner := replay.NewRunner(store, clock, b, logger)
	defer runner.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	results, err := runner.Run(ctx, steps)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if jsonOut {
		return outputJSON(w, replayOutput{Steps: results, Conversations: store.Conversations()})
	}
	for _, r := range results {
		line := fmt.Sprintf("%3d %-12s", r.Line, r.Op)
		if r.Outcome != "" {
			line += " " + string(r.Outcome)
		}
		if r.Op == replay.OpTick {
			line += fmt.Sprintf(" elapsed=%ds", r.Elapsed)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	printChats(w, store.Conversations())
	if c, ok := store.Selected(); ok {
		fmt.Fprintf(w, "\n%s:\n", c.DisplayName)
		for _, m := range c.Messages {
			fmt.Fprintf(w, "  %5s %-4s %s\n", m.TimeLabel, m.Sender, m.Text)
		}
	}
	return 0
}

func outputJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
		return 1
	}
	return 0
}
