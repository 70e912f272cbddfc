package inspector

import (
	"fmt"
	"io"
	"os"

	"vmctx/pkg/color"
	"vmctx/pkg/vm"

	"github.com/charmbracelet/log"
)

type Inspector struct {
	Help       bool       // Show help message
	Verbose    bool       // Enable verbose output
	NoColor    bool       // Disable colored output
	Hex        bool       // Input file is a hex dump instead of raw bytecode
	Steps      int        // Instruction pointer advances to trace (0 = one full cycle)
	MaxDepth   int        // Invocation stack limit (0 = unlimited)
	SourceFile string     // Path to the script file
	Out        io.Writer  // Trace output, stdout when nil
	Engine     *vm.Engine // Engine to load into, a fresh one when nil
}

// visits counts how often each offset was reached in one chain.
type visits struct {
	counts map[int]int
}

func init() {
	vm.RegisterStateDefault(func() visits {
		return visits{counts: make(map[int]int)}
	})
}

// Run loads the script into a fresh engine and walks the instruction pointer
// of its entry frame, printing each offset and the byte found there.
func (opts *Inspector) Run() error {
	log.Info("Processing file", "file", opts.SourceFile)

	input, err := os.ReadFile(opts.SourceFile)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	script := vm.NewScript(input)
	if opts.Hex {
		script, err = vm.ParseHexScript(string(input))
		if err != nil {
			return fmt.Errorf("%s: %w", opts.SourceFile, err)
		}
	}

	return opts.Trace(script)
}

// Trace walks script as Run does.
func (opts *Inspector) Trace(script *vm.Script) (err error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	engine := opts.Engine
	if engine == nil {
		engine = vm.NewEngine(nil, vm.WithMaxDepth(opts.MaxDepth), vm.WithLogger(log.Default()))
	}
	ctx, err := engine.LoadScript(script, 0, -1)
	if err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	defer func() {
		if _, uerr := engine.Unload(); uerr != nil && err == nil {
			err = fmt.Errorf("unload script: %w", uerr)
		}
	}()

	fmt.Fprintln(out, color.GreenText("=== Script ==="))
	fmt.Fprintf(out, "%s %d bytes\n", color.BoldText("length:"), script.Len())
	if opts.Verbose {
		fmt.Fprintf(out, "%s %s\n", color.BoldText("chain:"), ctx.SharedStates().ID())
	}

	if script.Len() == 0 {
		fmt.Fprintln(out, color.GrayText("Empty script, nothing to trace."))
		return nil
	}

	steps := opts.Steps
	if steps <= 0 {
		steps = script.Len()
	}

	fmt.Fprintln(out, color.GreenText("\n=== Trace ==="))
	seen := vm.GetState[visits](ctx)
	for range steps {
		op, _ := ctx.CurrentInstruction()
		seen.counts[ctx.InstructionPointer]++
		fmt.Fprintf(out, "%s: %s\n",
			color.CyanText(fmt.Sprintf("%04d", ctx.InstructionPointer)),
			color.YellowText(fmt.Sprintf("0x%02x", op)))

		ctx.MoveNext()
		if ctx.InstructionPointer == 0 {
			fmt.Fprintln(out, color.GrayText("-- wrapped to 0 --"))
		}
	}

	if opts.Verbose {
		fmt.Fprintln(out, color.GreenText("\n=== Visits ==="))
		for ip := 0; ip < script.Len(); ip++ {
			if n := seen.counts[ip]; n > 0 {
				fmt.Fprintf(out, "%s: %d\n", color.CyanText(fmt.Sprintf("%04d", ip)), n)
			}
		}
	}

	return nil
}
