// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"coreforge/internal/checker"
	"coreforge/internal/diag"
	"coreforge/internal/ir"
	"coreforge/internal/parse"
	"coreforge/internal/passmgr"
	"coreforge/internal/passmgr/deadcode"
	"coreforge/internal/passmgr/foldconst"
)

func main() {
	optLevel := flag.String("O", "default", "optimization level: none, debug, default, size, speed")
	maxFoldIter := flag.Int("max-fold-iterations", 8, "bound on constant-folding's internal fixed-point loop")
	emitIR := flag.Bool("emit-ir", false, "print the optimized module instead of just reporting success")
	stats := flag.Bool("stats", false, "print per-pass statistics after running")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: corec [flags] <file.core>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *verbose {
		commonlog.Configure(1, nil)
	} else {
		commonlog.Configure(0, nil)
	}

	path := flag.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	reporter := diag.NewReporter(path, string(source))

	prog, bag := parse.Parse(path, string(source))
	if bag.HasErrors() {
		fmt.Print(reporter.FormatAll(bag))
		color.Red("failed to parse %s", path)
		os.Exit(1)
	}

	result := checker.CheckProgram(prog)
	fmt.Print(reporter.FormatAll(result.Diagnostics))
	if result.Diagnostics.HasErrors() {
		color.Red("%s has type errors", path)
		os.Exit(1)
	}

	mod := ir.BuildProgram(prog, result)

	level, err := parseOptLevel(*optLevel)
	if err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}

	mgr := passmgr.NewManager(passmgr.Config{
		OptimizationLevel: level,
		CollectStatistics: *stats,
		Verbose:           *verbose,
	})
	foldPass := foldconst.New(*maxFoldIter)
	deadPass := deadcode.New()
	mgr.AddFunctionPass(foldPass)
	mgr.AddFunctionPass(deadPass)

	if _, errs := mgr.Run(mod); len(errs) > 0 {
		for _, e := range errs {
			color.Red("pass error: %s", e)
		}
		os.Exit(1)
	}

	if *stats {
		printStats(mgr, foldPass.Name())
		printStats(mgr, deadPass.Name())
	}

	if *emitIR {
		fmt.Print(ir.Print(mod))
	}

	color.Green("compiled %s", path)
}

func printStats(mgr *passmgr.Manager, name string) {
	stat := mgr.GetStat(name)
	if stat == nil {
		return
	}
	fmt.Printf("%-24s invocations=%-4d transforms=%-4d total=%s\n",
		name, stat.Invocations, stat.Transforms, fmt.Sprintf("%dns", stat.TotalNanos))
}

func parseOptLevel(s string) (passmgr.OptimizationLevel, error) {
	switch s {
	case "none":
		return passmgr.LevelNone, nil
	case "debug":
		return passmgr.LevelDebug, nil
	case "default":
		return passmgr.LevelDefault, nil
	case "size":
		return passmgr.LevelSize, nil
	case "speed":
		return passmgr.LevelSpeed, nil
	default:
		return passmgr.LevelNone, fmt.Errorf("unknown optimization level %q", s)
	}
}
