package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jo-hoe/folio/internal/builder"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("builder", flag.ExitOnError)
	out := flags.String("out", "data", "output directory for bundle JSON")
	report := flags.Bool("report", false, "print validation issues report to stderr")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: %s [flags] journal_dir [journal_dir...]\n\n", flags.Name())
		fmt.Fprintln(flags.Output(), "Builds bundle JSON from journal directories, each containing")
		fmt.Fprintln(flags.Output(), "full_cleaned_*.xml, translation_*.xml, and images/.")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 1
	}

	exitCode := 0
	for _, journalDir := range flags.Args() {
		b, issues, err := builder.BuildJournal(journalDir, *out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[FAIL] %s: %v\n", journalDir, err)
			exitCode = 1
			continue
		}
		fmt.Printf("[OK] %s -> %s\n", b.DocID, filepath.Join(*out, b.DocID+".json"))
		if *report {
			for _, issue := range issues {
				fmt.Fprintf(os.Stderr, " - %s\n", issue)
			}
		}
		// Promote ERROR to non-zero exit
		if builder.HasErrors(issues) {
			exitCode = 2
		}
	}
	return exitCode
}
