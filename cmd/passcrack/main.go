// Command passcrack is the engine's binary entry point: it selects a
// backend by name, parses the engine-level flags, passes any remaining
// flags through to the backend's own option hook, and runs the worker pool
// to completion.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/Asylian21/passcrack/backend"
	_ "github.com/Asylian21/passcrack/backend/encfile"
	_ "github.com/Asylian21/passcrack/backend/httpraw"
	_ "github.com/Asylian21/passcrack/backend/mssql"
	_ "github.com/Asylian21/passcrack/backend/pkey"
	_ "github.com/Asylian21/passcrack/backend/ssh"
	"github.com/Asylian21/passcrack/engine"
	"github.com/Asylian21/passcrack/rules"
	"github.com/Asylian21/passcrack/source"
	"github.com/Asylian21/passcrack/supervisor"
)

// engineLetters are the option letters this binary reserves for itself.
// A backend declaring one of these in its own Usage table loses the
// collision: the engine's meaning wins and the collision is logged.
const engineLetters = "idwrv"

func main() {
	app := cli.NewApp()
	app.Name = "passcrack"
	app.Usage = "parallel passphrase-cracking engine"
	app.ArgsUsage = "<backend> [backend options...]"
	app.Version = "1.0"

	var incremental string
	var dictPath string
	var workers int
	var ruleLetters string
	var verbose bool

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "i",
			Usage:       "incremental mode: from[:to] word lengths",
			Destination: &incremental,
		},
		cli.StringFlag{
			Name:        "d",
			Usage:       "dictionary mode: path to a newline-separated word file",
			Destination: &dictPath,
		},
		cli.IntFlag{
			Name:        "w",
			Usage:       "number of worker goroutines",
			Value:       1,
			Destination: &workers,
		},
		cli.StringFlag{
			Name:        "r",
			Usage:       "rewrite rule letters to apply in dictionary mode",
			Destination: &ruleLetters,
		},
		cli.BoolFlag{
			Name:        "v",
			Usage:       "verbose logging",
			Destination: &verbose,
		},
	}

	app.Action = func(c *cli.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return fmt.Errorf("a backend name is required; known backends: %s", strings.Join(sortedNames(), ", "))
		}
		backendName := args[0]

		factory, ok := backend.Lookup(backendName)
		if !ok {
			return fmt.Errorf("unknown backend %q; known backends: %s", backendName, strings.Join(sortedNames(), ", "))
		}
		b := factory()

		warnOnOptionCollisions(b)

		if err := applyBackendArgs(b, args[1:]); err != nil {
			return err
		}

		desc, err := buildDescriptor(incremental, dictPath, ruleLetters)
		if err != nil {
			return err
		}

		printer := engine.NewPrinter(os.Stdout)
		sup := supervisor.New(supervisor.Config{
			Workers:    workers,
			Descriptor: desc,
			NewBackend: func() backend.Backend { return b },
			Registrar:  printer,
			Stdout:     os.Stdout,
			Stderr:     os.Stderr,
		})

		if verbose {
			log.SetOutput(os.Stderr)
		}

		outcome, err := sup.Run(context.Background())
		if err != nil {
			return err
		}
		os.Exit(outcome.ExitCode)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "passcrack: %v\n", err)
		os.Exit(1)
	}
}

func sortedNames() []string {
	names := backend.Names()
	sort.Strings(names)
	return names
}

// warnOnOptionCollisions logs (but does not fail on) a backend option
// letter that duplicates one of the engine's own flags.
func warnOnOptionCollisions(b backend.Backend) {
	for _, c := range b.Info().OptionLetters {
		if strings.ContainsRune(engineLetters, c) {
			log.Printf("passcrack: backend %q option -%c collides with an engine flag; the engine's meaning wins", b.Info().Name, c)
		}
	}
}

// applyBackendArgs parses a flat "-x value -y value" trailing argument list
// and hands each pair to the backend's SetOption hook.
func applyBackendArgs(b backend.Backend, args []string) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) < 2 || arg[0] != '-' {
			return fmt.Errorf("unexpected backend argument %q", arg)
		}
		flag := arg[1]
		var value string
		if i+1 < len(args) {
			value = args[i+1]
			i++
		}
		if err := b.SetOption(flag, value); err != nil {
			return fmt.Errorf("backend option -%c: %w", flag, err)
		}
	}
	return nil
}

// buildDescriptor resolves the engine flags into a source.Descriptor,
// dictionary mode taking precedence if both -i and -d are given.
func buildDescriptor(incremental, dictPath, ruleLetters string) (source.Descriptor, error) {
	ruleSet, err := parseRuleLetters(ruleLetters)
	if err != nil {
		return source.Descriptor{}, err
	}

	if dictPath != "" {
		return source.Descriptor{Kind: source.Dictionary, Path: dictPath, Rules: ruleSet}, nil
	}

	from, to := source.DefaultFrom, source.DefaultTo
	if incremental != "" {
		from, to, err = parseIncrementalRange(incremental)
		if err != nil {
			return source.Descriptor{}, err
		}
	}

	alphabet := []byte(source.DefaultAlphabet)
	if env := os.Getenv("PD_CHARMAP"); env != "" {
		alphabet = []byte(env)
	}
	return source.Descriptor{
		Kind:     source.Incremental,
		From:     from,
		To:       to,
		Alphabet: source.DedupeAlphabet(alphabet),
	}, nil
}

func parseIncrementalRange(spec string) (from, to int, err error) {
	parts := strings.SplitN(spec, ":", 2)
	from, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid -i range %q: %w", spec, err)
	}
	if len(parts) == 1 {
		return from, from, nil
	}
	to, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid -i range %q: %w", spec, err)
	}
	return from, to, nil
}

func parseRuleLetters(letters string) (rules.Set, error) {
	var enabled []rules.Rule
	for i := 0; i < len(letters); i++ {
		rule, ok := rules.RuleLetters[letters[i]]
		if !ok {
			return rules.Set{}, fmt.Errorf("unknown rule letter %q", letters[i])
		}
		enabled = append(enabled, rule)
	}
	return rules.NewSet(enabled...), nil
}
