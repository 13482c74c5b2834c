package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/tea-vcs/tea/internal/cli"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
	"github.com/tea-vcs/tea/internal/termcolor"
)

// Build-time variables set via -ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	gf, args := parseGlobalFlags(os.Args[1:])

	for _, a := range args {
		if a == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)

	app := cli.NewApp("tea", version)
	app.Stderr = os.Stderr

	// r and store are populated after dispatch determines the matched
	// command needs a repository; closures capture the pointers, which
	// hold their final values by the time Run executes.
	var r *repo.Repository
	var store *objects.Store

	app.Register(&cli.Command{
		Name:      "init",
		Summary:   "Create a new repository",
		Usage:     "tea init [<directory>]",
		Examples:  []string{"tea init", "tea init myproject"},
		NeedsRepo: false,
		Run:       func(args []string) int { return runInit(args) },
	})

	app.Register(&cli.Command{
		Name:      "add",
		Summary:   "Stage files for the next commit",
		Usage:     "tea add <path>...",
		Examples:  []string{"tea add README.md", "tea add src/main.go src/util.go"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runAdd(r, store, args) },
	})

	app.Register(&cli.Command{
		Name:      "rm",
		Summary:   "Remove files from the index and working tree",
		Usage:     "tea rm [--cached] <path>...",
		Examples:  []string{"tea rm old.txt", "tea rm --cached secrets.env"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runRm(r, args) },
	})

	app.Register(&cli.Command{
		Name:      "commit",
		Summary:   "Record a new commit from the staged index",
		Usage:     "tea commit -m <message>",
		Examples:  []string{"tea commit -m \"initial commit\""},
		NeedsRepo: true,
		Run:       func(args []string) int { return runCommit(r, store, args) },
	})

	app.Register(&cli.Command{
		Name:      "status",
		Summary:   "Show staged, unstaged, and untracked changes",
		Usage:     "tea status [-s|--porcelain] [--watch]",
		Examples:  []string{"tea status", "tea status --porcelain", "tea status --watch"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runStatus(r, store, gf, args) },
	})

	app.Register(&cli.Command{
		Name:      "log",
		Summary:   "Emit the commit graph as a Graphviz digraph",
		Usage:     "tea log [<commit>]",
		Examples:  []string{"tea log", "tea log main"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runLog(r, store, args) },
	})

	app.Register(&cli.Command{
		Name:      "ls-files",
		Summary:   "List files tracked in the index",
		Usage:     "tea ls-files [-v|--verbose]",
		NeedsRepo: true,
		Run:       func(args []string) int { return runLsFiles(r, args) },
	})

	app.Register(&cli.Command{
		Name:      "ls-tree",
		Summary:   "List the contents of a tree object",
		Usage:     "tea ls-tree [-r|--recursive] [<tree-ish>]",
		Examples:  []string{"tea ls-tree HEAD", "tea ls-tree -r HEAD"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runLsTree(r, store, args) },
	})

	app.Register(&cli.Command{
		Name:      "cat-file",
		Summary:   "Show object content, type, or size",
		Usage:     "tea cat-file (-t|-s|-p) <object>",
		Examples:  []string{"tea cat-file -p HEAD", "tea cat-file -t abc1234"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runCatFile(r, store, args) },
	})

	app.Register(&cli.Command{
		Name:      "hash-object",
		Summary:   "Compute (and optionally store) an object's hash",
		Usage:     "tea hash-object [-w] [-t <type>] <file>",
		Examples:  []string{"tea hash-object README.md", "tea hash-object -w README.md"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runHashObject(r, args) },
	})

	app.Register(&cli.Command{
		Name:      "checkout",
		Summary:   "Materialize a commit's tree into an empty directory",
		Usage:     "tea checkout <commit> <directory>",
		Examples:  []string{"tea checkout HEAD ./out"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runCheckout(r, store, args) },
	})

	app.Register(&cli.Command{
		Name:      "check-ignore",
		Summary:   "Check whether paths are ignored",
		Usage:     "tea check-ignore <path>...",
		NeedsRepo: true,
		Run:       func(args []string) int { return runCheckIgnore(r, store, args) },
	})

	app.Register(&cli.Command{
		Name:      "show-ref",
		Summary:   "List every reference and the hash it resolves to",
		Usage:     "tea show-ref",
		NeedsRepo: true,
		Run:       func(args []string) int { return runShowRef(r, args) },
	})

	app.Register(&cli.Command{
		Name:      "tag",
		Summary:   "List tags, or create a new one",
		Usage:     "tea tag [-a] [-m <message>] [<name> [<object>]]",
		Examples:  []string{"tea tag", "tea tag -a -m \"v1.0\" v1.0"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runTag(r, store, args) },
	})

	app.Register(&cli.Command{
		Name:      "rev-parse",
		Summary:   "Resolve a revision to an object hash",
		Usage:     "tea rev-parse <name>",
		Examples:  []string{"tea rev-parse HEAD", "tea rev-parse main"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runRevParse(r, args) },
	})

	app.Register(&cli.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "tea version",
		Run:     func([]string) int { printVersion(); return 0 },
	})

	if len(args) > 0 {
		if cmd := app.Lookup(args[0]); cmd != nil && cmd.NeedsRepo {
			start := "."
			if v := os.Getenv("GIT_DIR"); v != "" {
				start = v
			}
			var err error
			r, err = repo.Find(start, true)
			if err != nil {
				fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
				os.Exit(128)
			}
			store = &objects.Store{Dir: r.ObjectsDir()}
		}
	}

	os.Exit(app.Run(args, cw))
}

func printVersion() {
	fmt.Printf("tea %s\n", version)
	fmt.Printf("  commit:     %s\n", commit)
	fmt.Printf("  built:      %s\n", buildDate)
	fmt.Printf("  go version: %s\n", runtime.Version())
	fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
