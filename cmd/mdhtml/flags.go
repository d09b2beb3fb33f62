package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// markdownFlags toggles optional Markdown syntax.
type markdownFlags struct {
	hardWraps bool
	xhtml     bool
	linkify   bool
	taskList  bool
	footnotes bool
}

// documentFlags holds standalone document flags.
type documentFlags struct {
	standalone bool
	title      string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	output    string
	workers   int
	markdown  markdownFlags
	highlight string
	document  documentFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addMarkdownFlags adds Markdown syntax flags to a FlagSet.
func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "render newlines in paragraphs as <br>")
	fs.BoolVar(&f.xhtml, "xhtml", false, "self-close void elements")
	fs.BoolVar(&f.linkify, "linkify", false, "turn bare URLs into links")
	fs.BoolVar(&f.taskList, "tasklist", false, "enable - [ ] task list items")
	fs.BoolVar(&f.footnotes, "footnotes", false, "enable [^1] footnotes")
}

// addDocumentFlags adds standalone document flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "wrap output in a complete HTML document")
	fs.StringVar(&f.title, "title", "", "document <title> (implies --standalone)")
}

// buildConvertFlagSet registers every convert flag on a new FlagSet bound to f.
func buildConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.highlight, "highlight", "", "highlight fenced code with a chroma style")

	addCommonFlags(fs, &f.common)
	addMarkdownFlags(fs, &f.markdown)
	addDocumentFlags(fs, &f.document)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
// Usage is printed to usageOut on a parse error.
func parseConvertFlags(args []string, usageOut io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := buildConvertFlagSet(f)
	fs.SetOutput(usageOut)
	fs.Usage = func() { printConvertUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
