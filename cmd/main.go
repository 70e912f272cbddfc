package main

import (
	"flag"
	"fmt"
	"os"

	"vmctx/internal/config"
	"vmctx/internal/inspector"
	"vmctx/internal/logger"
	"vmctx/pkg/color"

	"github.com/charmbracelet/log"
)

// Main entry point for the execution-context inspector.
func main() {
	options := inspector.Inspector{}
	var configFile string

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.Hex, "x", false, "Input file is a hex dump")
	flag.IntVar(&options.Steps, "s", 0, "Instruction pointer steps to trace (0 = script length)")
	flag.IntVar(&options.MaxDepth, "d", 0, "Maximum invocation depth (0 = unlimited)")
	flag.StringVar(&configFile, "c", "", "YAML config file")

	flag.Parse()
	args := flag.Args()

	cfg, err := config.Load(configFile)
	if err != nil {
		logger.Init(options.Verbose, options.NoColor, "")
		log.Fatal("Invalid configuration", "error", err)
	}
	applyConfig(&options, cfg)

	logger.Init(options.Verbose, options.NoColor, cfg.LogPrefix)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]

	if err := options.Run(); err != nil {
		log.Fatal("Inspection failed", "error", err)
	}
}

// applyConfig copies file settings into options for every flag not given on the command line.
func applyConfig(options *inspector.Inspector, cfg config.Config) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["v"] {
		options.Verbose = cfg.Verbose
	}
	if !set["n"] {
		options.NoColor = cfg.NoColor
	}
	if !set["x"] {
		options.Hex = cfg.Hex
	}
	if !set["s"] {
		options.Steps = cfg.Steps
	}
	if !set["d"] {
		options.MaxDepth = cfg.MaxDepth
	}
}
