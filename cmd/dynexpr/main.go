package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/dynexpr/internal/config"
)

const usage = `Usage: dynexpr <command> [options] [arguments]

Commands:
  delegate [-config file] [-verbose] <return> [param...]
        resolve the call-site delegate type for a signature
  convert <from> <to>
        show how a value of one type converts to another
  demo [-config file] [-color]
        build a sample dynamic expression tree and print it
  help
        show this message

Types are written as in C#: int, string, object, int?, string[], int&.
`

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if os.Getenv("DYNEXPR_TEST_MODE") == "1" {
		config.IsTestMode = true
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	switch args[0] {
	case "help", "-help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return 0
	case "delegate":
		return runDelegate(args[1:], stdout, stderr)
	case "convert":
		return runConvert(args[1:], stdout, stderr)
	case "demo":
		return runDemo(args[1:], stdout, stderr)
	}
	fmt.Fprintf(stderr, "Unknown command: %s\n\n%s", args[0], usage)
	return 2
}

// useColor reports whether w is a terminal that should get ANSI colours.
func useColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadConfig reads the file given with -config, or the nearest
// dynexpr.yaml above the working directory, or falls back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, err := config.FindConfig(wd)
		if err != nil {
			return nil, err
		}
		if found == "" {
			return config.Default(), nil
		}
		path = found
	}
	return config.LoadConfig(path)
}
