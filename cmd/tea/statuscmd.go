package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fsnotify/fsnotify"

	"github.com/tea-vcs/tea/internal/index"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
	"github.com/tea-vcs/tea/internal/status"
	"github.com/tea-vcs/tea/internal/termcolor"
)

func runStatus(r *repo.Repository, store *objects.Store, gf globalFlags, args []string) int {
	porcelain := false
	watch := false
	for _, a := range args {
		switch a {
		case "-s", "--porcelain":
			porcelain = true
		case "--watch":
			watch = true
		}
	}

	w := termcolor.NewWriter(os.Stdout, gf.colorMode)

	if !watch {
		return renderStatus(r, store, w, porcelain)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	defer watcher.Close() //nolint:errcheck // best-effort on exit

	if err := watchTree(watcher, r.WorkTree, r.TeaDir); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	renderStatus(r, store, w, porcelain)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if event.Op&fsnotify.Create != 0 {
				_ = watchTree(watcher, event.Name, r.TeaDir)
			}
			fmt.Println()
			renderStatus(r, store, w, porcelain)
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
}

// watchTree registers dir and every subdirectory beneath it with watcher,
// skipping the administrative directory entirely.
func watchTree(watcher *fsnotify.Watcher, dir, teaDir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	if dir == teaDir {
		return nil
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := watchTree(watcher, dir+string(os.PathSeparator)+e.Name(), teaDir); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderStatus(r *repo.Repository, store *objects.Store, w *termcolor.Writer, porcelain bool) int {
	idx, err := index.Read(r.Path("index"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	report, err := status.Compute(store, r, idx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	if porcelain {
		printPorcelain(report)
		return 0
	}

	printStatus(w, report)
	return 0
}

func printPorcelain(report *status.Report) {
	codes := map[status.Change]byte{
		status.Added:    'A',
		status.Modified: 'M',
		status.Deleted:  'D',
	}

	names := make(map[string]bool)
	for n := range report.Staged {
		names[n] = true
	}
	for n := range report.Unstaged {
		names[n] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	for _, n := range sorted {
		staged := codes[report.Staged[n]]
		if staged == 0 {
			staged = ' '
		}
		unstaged := codes[report.Unstaged[n]]
		if unstaged == 0 {
			unstaged = ' '
		}
		fmt.Printf("%c%c %s\n", staged, unstaged, n)
	}
	for _, n := range report.Untracked {
		fmt.Printf("?? %s\n", n)
	}
}

func printStatus(w *termcolor.Writer, report *status.Report) {
	if len(report.Staged) > 0 {
		fmt.Println("Changes to be committed:")
		for _, n := range sortedKeys(report.Staged) {
			fmt.Printf("\t%s\n", w.Green(fmt.Sprintf("%s: %s", report.Staged[n], n)))
		}
		fmt.Println()
	}
	if len(report.Unstaged) > 0 {
		fmt.Println("Changes not staged for commit:")
		for _, n := range sortedKeys(report.Unstaged) {
			fmt.Printf("\t%s\n", w.Yellow(fmt.Sprintf("%s: %s", report.Unstaged[n], n)))
		}
		fmt.Println()
	}
	if len(report.Untracked) > 0 {
		fmt.Println("Untracked files:")
		sorted := append([]string(nil), report.Untracked...)
		sort.Strings(sorted)
		for _, n := range sorted {
			fmt.Printf("\t%s\n", w.Red(n))
		}
		fmt.Println()
	}
	if len(report.Staged) == 0 && len(report.Unstaged) == 0 && len(report.Untracked) == 0 {
		fmt.Println(w.Cyan("nothing to commit, working tree clean"))
	}
}

func sortedKeys(m map[string]status.Change) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
