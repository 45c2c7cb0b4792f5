// Command kaoyan is the terminal front end of the exam-prep study companion.
//
// Usage:
//
//	kaoyan briefing [--refresh]
//	kaoyan question
//	kaoyan mood add 2026-10-19 4 "复习了心脏周期"
//	kaoyan brainstorm report
//	kaoyan correct < essay.txt
//	kaoyan analyze "The more we learn, the more we realize how little we know."
//	kaoyan ask --raw "你好"
//	kaoyan tui
//
// API keys come from ~/.config/kaoyan/config.toml, a .env file in the
// working directory, or KAOYAN_GEMINI_API_KEY / KAOYAN_ZHIPU_API_KEY.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fwojciec/kaoyan/config"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kaoyan: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Env vars and the .env file are read here and passed down as values.
	dotenv, err := config.ReadDotEnv(".env")
	if err != nil {
		return err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	e := env{
		lookup: config.Chain(os.LookupEnv, config.MapLookup(dotenv)),
		home:   home,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		width:  terminalWidth(os.Stdout),
	}
	return execute(ctx, e, &app{}, os.Args[1:])
}

// terminalWidth returns the width of f, or 0 when f is not a terminal.
func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
