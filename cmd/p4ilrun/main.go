// Command p4ilrun is the single-shot driver of §6: it loads one IL
// program and one input value tree (both via internal/ilcodec), invokes
// a named relation or function, and prints the result and phantom log.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/p4lang/p4spectec-core/internal/config"
	"github.com/p4lang/p4spectec-core/internal/engine"
	"github.com/p4lang/p4spectec-core/internal/errs"
	"github.com/p4lang/p4spectec-core/internal/ilast"
	"github.com/p4lang/p4spectec-core/internal/ilcodec"
	"github.com/p4lang/p4spectec-core/internal/interp"
	"github.com/p4lang/p4spectec-core/internal/store"
	"github.com/p4lang/p4spectec-core/internal/value"
)

// Exit codes (§6): 0 success, 1 IL load failure, 2 interpretation
// failure, 130 interrupt.
const (
	exitOK          = 0
	exitLoadFailure = 1
	exitEvalFailure = 2
	exitInterrupt   = 130
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitLoadFailure)
	}
	switch os.Args[1] {
	case "run":
		os.Exit(runCmd(os.Args[2:]))
	case "check":
		os.Exit(checkCmd(os.Args[2:]))
	case "-version", "--version":
		fmt.Println(config.Version)
		os.Exit(exitOK)
	default:
		usage()
		os.Exit(exitLoadFailure)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s run --il <path> --rel <id> --input <path> [--store <path>] [--timeout <seconds>]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s check --il <path>\n", os.Args[0])
}

type flags struct {
	il      string
	rel     string
	input   string
	store   string
	timeout int
}

func parseFlags(args []string) (flags, error) {
	var f flags
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--il":
			i++
			if i >= len(args) {
				return f, fmt.Errorf("--il requires a path")
			}
			f.il = args[i]
		case "--rel":
			i++
			if i >= len(args) {
				return f, fmt.Errorf("--rel requires an identifier")
			}
			f.rel = args[i]
		case "--input":
			i++
			if i >= len(args) {
				return f, fmt.Errorf("--input requires a path")
			}
			f.input = args[i]
		case "--store":
			i++
			if i >= len(args) {
				return f, fmt.Errorf("--store requires a path")
			}
			f.store = args[i]
		case "--timeout":
			i++
			if i >= len(args) {
				return f, fmt.Errorf("--timeout requires a number of seconds")
			}
			secs, err := strconv.Atoi(args[i])
			if err != nil {
				return f, fmt.Errorf("--timeout: %w", err)
			}
			f.timeout = secs
		default:
			return f, fmt.Errorf("unrecognized flag %q", args[i])
		}
	}
	return f, nil
}

// checkCmd runs ilcodec.CheckRoundTrip against the value tree at --il,
// reporting pass/fail (§6, Testable Property 2) — a distinct use of
// --il from run's, which points at a program rather than a value.
func checkCmd(args []string) int {
	f, err := parseFlags(args)
	if err != nil || f.il == "" {
		usage()
		return exitLoadFailure
	}

	data, err := os.ReadFile(f.il)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", colorize(31, "load failed"), err)
		return exitLoadFailure
	}

	ctx := engine.New(&ilast.Spec{}, engine.Limits{})
	v, err := ilcodec.Unmarshal(ctx, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", colorize(31, "load failed"), err)
		return exitLoadFailure
	}

	if err := ilcodec.CheckRoundTrip(v); err != nil {
		fmt.Printf("%s: %v\n", colorize(31, "FAIL"), err)
		return exitEvalFailure
	}
	fmt.Println(colorize(32, "PASS"))
	return exitOK
}

func runCmd(args []string) int {
	f, err := parseFlags(args)
	if err != nil || f.il == "" || f.rel == "" || f.input == "" {
		usage()
		return exitLoadFailure
	}

	spec, err := loadSpec(f.il)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", colorize(31, "load failed"), err)
		return exitLoadFailure
	}

	def, ok := spec.Lookup(f.rel)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: unknown relation or function %q\n", colorize(31, "load failed"), f.rel)
		return exitLoadFailure
	}

	ctx := engine.New(spec, engine.Limits{})
	goCtx, cancel := signalContext()
	defer cancel()
	if f.timeout > 0 {
		tctx, cancel2 := context.WithTimeout(goCtx, time.Duration(f.timeout)*time.Second)
		defer cancel2()
		goCtx = tctx
	}
	ctx.WithGoContext(goCtx)

	inputBytes, err := os.ReadFile(f.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: reading input: %v\n", colorize(31, "load failed"), err)
		return exitLoadFailure
	}
	inputVal, err := ilcodec.Unmarshal(ctx, inputBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: decoding input: %v\n", colorize(31, "load failed"), err)
		return exitLoadFailure
	}

	outcome, err := invoke(ctx, def, inputVal)
	if interrupted(goCtx) {
		fmt.Fprintln(os.Stderr, colorize(33, "interrupted"))
		return exitInterrupt
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", colorize(31, "eval failed"), errs.Diagnostic(err))
		return exitEvalFailure
	}
	if outcome.Kind != interp.Completed {
		fmt.Fprintf(os.Stderr, "%s: %s fell through without a result\n", colorize(31, "eval failed"), f.rel)
		return exitEvalFailure
	}

	printResult(f.rel, outcome)
	printPhantoms(ctx)

	if f.store != "" {
		if err := persist(f.store, ctx); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", colorize(33, "warning"), err)
		}
	}
	return exitOK
}

// invoke binds def's declared parameters to input and runs its body
// (§4.E.1 for a RelD, the return-producing form for a DecD); both shapes
// share Exec's Outcome contract so the driver needs no relation/function
// distinction beyond the parameter list it binds.
func invoke(ctx *engine.Context, def ilast.Def, input value.Value) (interp.Outcome, error) {
	var params []ilast.Param
	var instrs []ilast.Instr
	switch d := def.(type) {
	case ilast.RelD:
		params, instrs = d.Inputs, d.Instrs
	case ilast.DecD:
		params, instrs = d.Params, d.Instrs
	default:
		return interp.Outcome{}, fmt.Errorf("%q is not invocable (a type declaration, not a relation or function)", def.Ident())
	}

	ctx.EnterScope()
	defer ctx.LeaveScope()

	switch {
	case len(params) == 1:
		ctx.Bind(params[0].Name, params[0].Typ, input)
	case len(params) > 1:
		tup, ok := input.(value.Tuple)
		if !ok || len(tup.Elems) != len(params) {
			return interp.Outcome{}, fmt.Errorf("%q takes %d inputs; input value is not a matching tuple", def.Ident(), len(params))
		}
		for i, p := range params {
			ctx.Bind(p.Name, p.Typ, tup.Elems[i])
		}
	}

	return interp.Exec(ctx, instrs)
}

func loadSpec(path string) (*ilast.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ilcodec.UnmarshalSpec(data)
}

func printResult(rel string, out interp.Outcome) {
	switch {
	case out.Returned:
		n, err := ilcodec.Marshal(out.Return)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: encoding result: %v\n", colorize(33, "warning"), err)
			return
		}
		fmt.Printf("%s => %s\n", rel, n)
	default:
		for i, r := range out.Results {
			n, err := ilcodec.Marshal(r)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: encoding result %d: %v\n", colorize(33, "warning"), i, err)
				continue
			}
			fmt.Printf("%s[%d] => %s\n", rel, i, n)
		}
	}
}

func printPhantoms(ctx *engine.Context) {
	phantoms := ctx.Phantoms()
	if len(phantoms) == 0 {
		return
	}
	fmt.Printf("phantom log: %s entries\n", humanize.Comma(int64(len(phantoms))))
	for _, p := range phantoms {
		fmt.Printf("  %s\n", p.Pid)
	}
}

func persist(path string, ctx *engine.Context) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.RecordRun(uuid.NewString(), ctx.Tracker())
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func interrupted(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return ctx.Err() == context.Canceled
	default:
		return false
	}
}

// colorize wraps s in an ANSI SGR code when stdout is a real terminal
// and the user hasn't opted out via NO_COLOR, matching the teacher's
// isatty-gated terminal output convention.
func colorize(code int, s string) string {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return s
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", code, s)
}
