package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesslite/internal/engine"
	"github.com/hailam/chesslite/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", engine.DefaultDepth, "default search depth below each root move")
	strategy   = flag.String("strategy", "copy", "search strategy: copy or undo")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	if *depth < 0 || *depth > uci.MaxDepth {
		log.Fatalf("depth must be between 0 and %d", uci.MaxDepth)
	}

	strat, err := engine.ParseStrategy(*strategy)
	if err != nil {
		log.Fatal(err)
	}
	eng := engine.NewEngine(engine.Options{Depth: *depth, Strategy: strat})

	protocol := uci.New(eng, os.Stdout)
	if err := protocol.Run(os.Stdin); err != nil {
		log.Printf("read commands: %v", err)
	}
}
