package cmd

import (
	"clue/internals"
	"clue/lexer"
	"clue/parser"
	"clue/repl"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
)

type (
	// Env is where a command reads from and writes to. Diagnostics always
	// go to Stderr.
	Env struct {
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
		Colored bool

		// Stdin is a terminal
		Interactive bool
	}

	CommandFunc func(env *Env, args []string) error

	FlagInfo struct {
		Name        string
		Description string
	}

	CommandInfo struct {
		Description string
		Function    CommandFunc
		Flags       []FlagInfo
	}
)

var errUsage = errors.New("invalid usage")

var commands map[string]CommandInfo

func init() {
	commands = map[string]CommandInfo{
		"tokens": {
			Description: "Scans a file and prints its tokens",
			Function:    Tokens,
			Flags: []FlagInfo{
				{Name: "-f", Description: "source file path"},
				{Name: "-e", Description: "source code given inline"},
				{Name: "-json", Description: "print the tokens as JSON"},
			},
		},
		"parse": {
			Description: "Scans and parses an expression, then prints it",
			Function:    Parse,
			Flags: []FlagInfo{
				{Name: "-f", Description: "source file path"},
				{Name: "-e", Description: "source code given inline"},
			},
		},
		"repl": {
			Description: "Parses one expression per line from the standard input, with line editing on a terminal",
			Function:    Repl,
			Flags:       []FlagInfo{},
		},
		"help": {
			Description: "Prints the usage of all commands",
			Function:    Help,
			Flags:       []FlagInfo{},
		},
	}
}

func Help(env *Env, args []string) error {
	if len(args) < 1 {
		// show the whole help catalog
		printResult := "\n\033[1;35mSupported Commands:\033[0m\n\n"

		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			cmd := commands[name]
			printResult += fmt.Sprintf("  \033[1;36m%v\033[0m\n", name)
			printResult += fmt.Sprintf("    \033[1;37mDescription:\033[0m \033[0;37m%v\033[0m\n", cmd.Description)

			if len(cmd.Flags) > 0 {
				printResult += "    \033[1;37mFlags:\033[0m\n"
				for _, fl := range cmd.Flags {
					printResult += fmt.Sprintf("      \033[1;33m%v\033[0m - \033[0;37m%v\033[0m\n", fl.Name, fl.Description)
				}
			}
			printResult += "\n"
		}

		fmt.Fprintln(env.Stdout, printResult)
		return nil
	}

	// print the help of the specified commands
	cmdName := args[0]

	cmd, ok := commands[cmdName]
	if !ok {
		return fmt.Errorf("%w: command %v isn't supported", errUsage, cmdName)
	}

	printResult := fmt.Sprintf("\n\033[1;35mCommand:\033[0m \033[1;36m%v\033[0m\n", cmdName)
	printResult += fmt.Sprintf("\033[1;37mDescription:\033[0m \033[0;37m%v\033[0m\n", cmd.Description)

	if len(cmd.Flags) > 0 {
		printResult += fmt.Sprintln("\033[1;37mFlags:\033[0m")
		for _, fl := range cmd.Flags {
			printResult += fmt.Sprintf("  \033[1;33m%v\033[0m - \033[0;37m%v\033[0m\n", fl.Name, fl.Description)
		}
	} else {
		printResult += "\033[0;37m(No flags available)\033[0m\n"
	}

	fmt.Fprintln(env.Stdout, printResult)
	return nil
}

type sourceFlags struct {
	file   string
	inline string
}

func (s *sourceFlags) register(set *flag.FlagSet) {
	set.StringVar(&s.file, "f", "", "source file path")
	set.StringVar(&s.inline, "e", "", "source code given inline")
}

func (s *sourceFlags) reader() (internals.CodeReader, error) {
	switch {
	case s.file != "" && s.inline != "":
		return nil, fmt.Errorf("%w: -f and -e cannot be used together", errUsage)
	case s.file != "":
		return internals.NewFileReader(s.file), nil
	case s.inline != "":
		return internals.NewStringReader(s.inline), nil
	}
	return nil, fmt.Errorf("%w: provide a source with -f or -e", errUsage)
}

// scan reads the source picked by the flags and tokenizes it.
func scan(env *Env, source *sourceFlags) (lexer.Tokens, *internals.Reporter, error) {
	reader, err := source.reader()
	if err != nil {
		return nil, nil, err
	}
	code, err := reader.Code()
	if err != nil {
		return nil, nil, err
	}

	reporter := internals.NewReporter(reader, env.Stderr)
	reporter.Colored = env.Colored

	tokens, err := lexer.NewLexer(code, reporter).Tokenize()
	if err != nil {
		return nil, nil, err
	}
	return tokens, reporter, nil
}

func Tokens(env *Env, args []string) error {
	var source sourceFlags
	set := flag.NewFlagSet("tokens", flag.ContinueOnError)
	set.SetOutput(env.Stderr)
	source.register(set)
	asJSON := set.Bool("json", false, "print the tokens as JSON")
	if err := set.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	tokens, _, err := scan(env, &source)
	if err != nil {
		return err
	}

	if *asJSON {
		out, err := json.MarshalIndent(tokens, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, string(out))
		return nil
	}

	for _, tok := range tokens {
		fmt.Fprintln(env.Stdout, tok)
	}
	return nil
}

func Parse(env *Env, args []string) error {
	var source sourceFlags
	set := flag.NewFlagSet("parse", flag.ContinueOnError)
	set.SetOutput(env.Stderr)
	source.register(set)
	if err := set.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	tokens, reporter, err := scan(env, &source)
	if err != nil {
		return err
	}

	expr, err := parser.NewParser(tokens, reporter).Parse()
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, expr)
	return nil
}

func Repl(env *Env, args []string) error {
	if env.Interactive {
		return repl.StartInteractive(env.Stdout, env.Colored)
	}
	repl.Start(env.Stdin, env.Stdout, env.Colored)
	return nil
}

// Run dispatches args (without the program name) and returns the exit code.
func Run(env *Env, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(env.Stderr, "ERROR: at least provide command name to kick off the cli")
		return 2
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(env.Stderr, "ERROR: unknown command %v, check help for manual.\n", name)
		return 2
	}

	err := cmd.Function(env, args[1:])
	var diagnostic *internals.Diagnostic
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(env.Stderr, "ERROR: %v\n", err)
		return 2
	case errors.Is(err, internals.ErrCompilationFailed), errors.As(err, &diagnostic):
		// the diagnostics are already printed
		return 1
	default:
		fmt.Fprintf(env.Stderr, "ERROR: %v\n", err)
		return 1
	}
}

func Execute() {
	env := &Env{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Colored: os.Getenv("NO_COLOR") == "",
	}
	if info, err := os.Stdin.Stat(); err == nil {
		env.Interactive = info.Mode()&os.ModeCharDevice != 0
	}
	os.Exit(Run(env, os.Args[1:]))
}
