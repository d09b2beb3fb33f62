package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Desc     string   // help text
	TakesArg bool     // false for boolean flags
	Values   []string // fixed values, if any
	FileGlob string   // file pattern, if any
	IsDir    bool     // directory argument
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
}

// completionMeta holds completion hints that the FlagSet cannot express.
type completionMeta struct {
	Values   func() []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"highlight": {Values: styles.Names},
	"config":    {FileGlob: "*.yaml *.yml"},
	"output":    {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:     f.Name,
			Short:    f.Shorthand,
			Desc:     f.Usage,
			TakesArg: f.Value.Type() != "bool",
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if meta.Values != nil {
				fd.Values = meta.Values()
			}
			fd.FileGlob = meta.FileGlob
			fd.IsDir = meta.IsDir
		}
		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Convert flags come from the real FlagSet.
func getCommands() []commandDef {
	return []commandDef{
		{Name: cmdConvert, Desc: "Convert markdown files to HTML", Flags: extractFlagsFromFlagSet(buildConvertFlagSet(&convertFlags{}))},
		{Name: cmdVersion, Desc: "Show version information"},
		{Name: cmdCompletion, Desc: "Generate shell completion script"},
		{Name: cmdHelp, Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes a shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w, getCommands())
	case ShellFish:
		return generateFish(w, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, fish)", ErrUnsupportedShell, shell)
	}
}

// generateBash writes a bash completion function.
func generateBash(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}

	b.WriteString("# bash completion for mdhtml\n")
	b.WriteString("_mdhtml_completions() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(names, " "))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")

	for _, c := range commands {
		switch c.Name {
		case cmdHelp:
			fmt.Fprintf(&b, "    %s)\n        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n        ;;\n", c.Name, strings.Join(names, " "))
			continue
		case cmdCompletion:
			fmt.Fprintf(&b, "    %s)\n        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n        ;;\n", c.Name, "bash fish")
			continue
		}
		if len(c.Flags) == 0 {
			continue
		}

		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        case \"${prev}\" in\n")
		for _, f := range c.Flags {
			if !f.TakesArg {
				continue
			}
			pattern := "--" + f.Long
			if f.Short != "" {
				pattern = "-" + f.Short + "|" + pattern
			}
			switch {
			case len(f.Values) > 0:
				fmt.Fprintf(&b, "        %s)\n            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n            return 0 ;;\n", pattern, strings.Join(f.Values, " "))
			case f.IsDir:
				fmt.Fprintf(&b, "        %s)\n            COMPREPLY=( $(compgen -d -- \"${cur}\") )\n            return 0 ;;\n", pattern)
			case f.FileGlob != "":
				fmt.Fprintf(&b, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0 ;;\n", pattern)
			default:
				fmt.Fprintf(&b, "        %s)\n            return 0 ;;\n", pattern)
			}
		}
		b.WriteString("        esac\n")
		fmt.Fprintf(&b, "        if [[ ${cur} == -* ]]; then\n            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", flagWords(c.Flags))
		b.WriteString("        else\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n        fi\n")
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _mdhtml_completions mdhtml\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// flagWords lists every spelling of flags, long and short.
func flagWords(flags []flagDef) string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	slices.Sort(words)
	return strings.Join(words, " ")
}

// generateFish writes fish completion directives.
func generateFish(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}
	all := strings.Join(names, " ")

	b.WriteString("# fish completion for mdhtml\n")
	b.WriteString("complete -c mdhtml -f\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c mdhtml -n \"not __fish_seen_subcommand_from %s\" -a %s -d %q\n", all, c.Name, c.Desc)
	}
	fmt.Fprintf(&b, "complete -c mdhtml -n \"__fish_seen_subcommand_from completion\" -a \"bash fish\"\n")

	for _, c := range commands {
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c mdhtml -n \"__fish_seen_subcommand_from %s\" -l %s", c.Name, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch {
			case len(f.Values) > 0:
				fmt.Fprintf(&b, " -x -a %q", strings.Join(f.Values, " "))
			case f.IsDir:
				b.WriteString(" -r -a \"(__fish_complete_directories)\"")
			case f.TakesArg:
				b.WriteString(" -r -F")
			}
			fmt.Fprintf(&b, " -d %q\n", f.Desc)
		}
		if c.Name == cmdConvert {
			fmt.Fprintf(&b, "complete -c mdhtml -n \"__fish_seen_subcommand_from %s\" -F\n", c.Name)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdhtml completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(mdhtml completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    mdhtml completion fish > ~/.config/fish/completions/mdhtml.fish")
}
