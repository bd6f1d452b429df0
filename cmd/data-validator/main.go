// Package main provides the data-validator command line tool.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/txn2/data-validator/pkg/config"
	"github.com/txn2/data-validator/pkg/database"
	"github.com/txn2/data-validator/pkg/ruleset"
)

// Version is set at build time.
var Version = "dev"

const (
	exitError   = 1
	exitInvalid = 2
)

// errInvalidValues is returned when at least one value failed its rule.
var errInvalidValues = errors.New("one or more values are invalid")

// openAdapter opens the database for record rules.
var openAdapter = database.OpenAdapter

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInvalidValues):
		return exitInvalid
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
}

type cliOptions struct {
	configPath  string
	rule        string
	list        bool
	showVersion bool
	values      []string
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	opts := cliOptions{}
	fs := flag.NewFlagSet("data-validator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.rule, "rule", "", "Name of the rule to validate values against")
	fs.BoolVar(&opts.list, "list", false, "List configured rules and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	if err := fs.Parse(args); err != nil {
		return opts, fmt.Errorf("parsing flags: %w", err)
	}
	opts.values = fs.Args()
	return opts, nil
}

// outcome is the JSON line printed for each value.
type outcome struct {
	Value    string            `json:"value"`
	Valid    bool              `json:"valid"`
	Messages map[string]string `json:"messages"`
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.showVersion {
		_, _ = fmt.Fprintf(stdout, "data-validator version %s\n", Version)
		return nil
	}

	if opts.configPath == "" {
		return errors.New("-config is required")
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}

	if opts.list {
		for _, name := range cfg.RuleNames() {
			_, _ = fmt.Fprintf(stdout, "%s\t%s\n", name, cfg.Rules[name].Kind)
		}
		return nil
	}

	if opts.rule == "" {
		return errors.New("-rule is required")
	}

	reg, closeFn, err := buildRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, ok := reg.Get(opts.rule); !ok {
		return fmt.Errorf("%w: %s", ruleset.ErrRuleNotFound, opts.rule)
	}

	values := opts.values
	if len(values) == 0 {
		if values, err = readValues(stdin); err != nil {
			return err
		}
	}

	return validateValues(ctx, reg, opts.rule, values, stdout)
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}
	return slog.New(handler).With("run_id", uuid.NewString()), nil
}

func buildRegistry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ruleset.Registry, func(), error) {
	deps := ruleset.Deps{Logger: logger}
	closeFn := func() {}

	if cfg.NeedsDatabase() {
		adapter, closeDB, err := openAdapter(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		deps.Adapter = adapter
		closeFn = closeDB
	}

	reg := ruleset.NewRegistry(deps)
	ruleset.RegisterBuiltinFactories(reg)
	if err := ruleset.NewLoader(reg).Load(cfg); err != nil {
		closeFn()
		return nil, nil, err
	}
	return reg, closeFn, nil
}

func readValues(r io.Reader) ([]string, error) {
	var values []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			values = append(values, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading values: %w", err)
	}
	return values, nil
}

func validateValues(ctx context.Context, reg *ruleset.Registry, rule string, values []string, w io.Writer) error {
	enc := json.NewEncoder(w)
	invalid := false

	for _, value := range values {
		result, err := reg.Validate(ctx, rule, value)
		if err != nil {
			return err
		}
		if !result.Valid {
			invalid = true
		}
		if err := enc.Encode(outcome{Value: value, Valid: result.Valid, Messages: result.Messages()}); err != nil {
			return fmt.Errorf("writing result: %w", err)
		}
	}

	if invalid {
		return errInvalidValues
	}
	return nil
}
