// inkpress — static-site generator CLI.
//
// Commands: build (default), serve, new, version, help. The site root is an
// explicit argument, resolved here once; the generator itself never walks
// the filesystem looking for a project root.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/inkpress"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A .env next to the invocation is optional; it feeds the SITE_*
	// overrides read during config resolution.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cmd, root := "build", "."
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
	}
	if len(args) > 1 {
		root = args[1]
	}

	var err error
	switch cmd {
	case "build":
		err = runBuild(root, false)
	case "serve":
		err = runBuild(root, true)
	case "new":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: inkpress new <directory>")
			os.Exit(1)
		}
		err = runNew(args[1])
	case "version":
		fmt.Printf("inkpress %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBuild(root string, serve bool) error {
	cfg, err := inkpress.LoadConfig(root)
	if err != nil {
		return err
	}
	g := inkpress.New(cfg)
	if serve {
		return g.Serve(true)
	}
	result, err := g.Build()
	if err != nil {
		return err
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %s: %v\n", s.Filename, s.Err)
	}
	fmt.Printf("Built %d posts in %s\n", len(result.Posts), result.Elapsed.Round(time.Millisecond))
	return nil
}

func printUsage() {
	fmt.Println(`inkpress - a minimal static-site generator for markdown blogs

Usage:
  inkpress [command] [directory]

Commands:
  build [dir]   Generate the site (default command, default dir ".")
  serve [dir]   Generate, then serve the output locally with live rebuild
  new <dir>     Create a new site skeleton
  version       Print the inkpress version
  help          Show this help message

Examples:
  inkpress
  inkpress build ~/blog
  inkpress serve
  inkpress new myblog`)
}
