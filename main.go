// camalgam merges a small C project (include/*.h and src/*.c) into a single
// self-contained source file, written to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"fortio.org/cli"
	"fortio.org/log"
	"github.com/ldemailly/camalgam/amalgam"
	"github.com/ldemailly/camalgam/graph"
)

type config struct {
	fileNames  bool
	dot        bool
	order      bool
	left2Right bool
	cacheSize  int
}

func main() {
	cfg := config{}
	flag.BoolVar(&cfg.fileNames, "filenames", false, "Prefix each file with a comment banner naming it")
	flag.BoolVar(&cfg.dot, "dot", false, "Print the header include graph in DOT format instead of the amalgamation")
	flag.BoolVar(&cfg.order, "order", false, "Print the header order, one path per line, instead of the amalgamation")
	flag.BoolVar(&cfg.left2Right, "lr", false, "Left to right layout for -dot (default is top to bottom)")
	flag.IntVar(&cfg.cacheSize, "cache-size", amalgam.DefaultCacheSize, "Maximum number of file texts kept in memory")
	cli.ArgsHelp = "[project-dir]"
	cli.MinArgs = 0
	cli.MaxArgs = 1
	cli.Main() // Parses flags, validates args, handles version/help flags

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, cfg, flag.Args(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns the process exit status. Engine errors are reported on errW;
// anything else is unexpected and fatal.
func run(ctx context.Context, cfg config, args []string, outW, errW io.Writer) int {
	var root string
	if len(args) == 1 {
		root = args[0]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Unable to get current directory: %v", err)
		}
		root = wd
	}
	a := amalgam.New(amalgam.Options{FileNameComments: cfg.fileNames, CacheSize: cfg.cacheSize})

	var err error
	switch {
	case cfg.dot:
		err = writeDot(ctx, a, root, cfg.left2Right, outW)
	case cfg.order:
		err = writeOrder(ctx, a, root, outW)
	default:
		var text string
		text, err = a.Amalgamate(ctx, root)
		if err == nil {
			_, err = io.WriteString(outW, text)
		}
	}
	if err == nil {
		return 0
	}
	if amalgam.IsEngineError(err) {
		fmt.Fprintf(errW, "Amalgamator error: %v\n", err)
		return 1
	}
	if ctx.Err() != nil {
		log.Errf("Interrupted: %v", err)
		return 1
	}
	log.Fatalf("Unexpected failure: %v", err)
	return 1 // not reached
}

func writeDot(ctx context.Context, a *amalgam.Amalgamator, root string, left2Right bool, outW io.Writer) error {
	g, err := a.HeaderGraph(ctx, root)
	if err != nil {
		return err
	}
	base, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	return graph.WriteDot(outW, g, graph.DotOptions{LeftToRight: left2Right, Base: base})
}

func writeOrder(ctx context.Context, a *amalgam.Amalgamator, root string, outW io.Writer) error {
	order, err := a.HeaderOrder(ctx, root)
	if err != nil {
		return err
	}
	for _, h := range order {
		if _, err := fmt.Fprintln(outW, h); err != nil {
			return err
		}
	}
	return nil
}
