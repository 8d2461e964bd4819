package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/midbel/lox"
)

const exitNoInput = 66

func main() {
	var (
		scan    = flag.Bool("s", false, "print the tokens of the script")
		ast     = flag.Bool("p", false, "print the syntax tree of the script")
		check   = flag.Bool("c", false, "check the given scripts without running them")
		verbose = flag.Bool("v", false, "enable debug logging")
		hist    = flag.String("history", "", "history database of the REPL")
		file    = flag.String("config", "", "configuration file")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: lox [-s|-p] [script]")
		fmt.Fprintln(os.Stderr, "       lox -c script...")
		flag.PrintDefaults()
	}
	flag.Parse()

	path, explicit := *file, *file != ""
	if !explicit {
		path = defaultConfigPath()
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(lox.ExitUsage)
	}
	if *hist != "" {
		cfg.History = *hist
	}
	level, _ := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var code int
	switch {
	case *check:
		if flag.NArg() == 0 {
			flag.Usage()
			os.Exit(lox.ExitUsage)
		}
		code = checkFiles(os.Stderr, flag.Args())
	case flag.NArg() > 1:
		flag.Usage()
		code = lox.ExitUsage
	case flag.NArg() == 0:
		code = runPrompt(cfg, logger)
	case *scan:
		code = scanFile(os.Stdout, flag.Arg(0))
	case *ast:
		code = parseFile(os.Stdout, flag.Arg(0))
	default:
		code = runFile(cfg, logger, flag.Arg(0))
	}
	os.Exit(code)
}

func newSession(cfg Config, logger *slog.Logger) *lox.Session {
	return lox.NewSession(lox.Config{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		MaxDepth: cfg.MaxDepth,
		Logger:   logger,
	})
}

func runFile(cfg Config, logger *slog.Logger, file string) int {
	buf, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitNoInput
	}
	sess := newSession(cfg, logger)
	sess.Run(string(buf))
	return sess.ExitCode()
}

func scanFile(w io.Writer, file string) int {
	buf, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitNoInput
	}
	tokens, err := lox.Tokenize(string(buf))
	for _, tok := range tokens {
		fmt.Fprintln(w, tok)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return lox.ExitStatic
	}
	return lox.ExitOk
}

func parseFile(w io.Writer, file string) int {
	buf, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitNoInput
	}
	list, err := lox.ParseString(string(buf))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return lox.ExitStatic
	}
	lox.Fprint(w, list)
	return lox.ExitOk
}
