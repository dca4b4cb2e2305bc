// Command flateralus inspects manifests, produces default and random control
// values, validates settings documents and renders animations headlessly.
//
//	flateralus check manifest.yaml
//	flateralus defaults -format yaml
//	flateralus random -seed 7
//	flateralus validate saved/*.json
//	flateralus render -frames 120 -out renders
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string, stdout, stderr io.Writer) error
}

var commands = []command{
	{"check", "validate manifest definition files", runCheck},
	{"manifest", "print a manifest definition", runManifest},
	{"defaults", "print the default control values of a manifest", runDefaults},
	{"random", "print random control values of a manifest", runRandom},
	{"validate", "validate settings documents against a manifest", runValidate},
	{"render", "render the particle animation to PNG files", runRender},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" || args[0] == "--help" {
		usage(stderr)
		return 2
	}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		if err := c.run(ctx, args[1:], stdout, stderr); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 2
			}
			fmt.Fprintf(stderr, "flateralus %s: %v\n", c.name, err)
			return 1
		}
		return 0
	}
	fmt.Fprintf(stderr, "flateralus: unknown command %q\n", args[0])
	usage(stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: flateralus <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("flateralus "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}
