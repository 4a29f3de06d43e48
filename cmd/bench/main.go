package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v3"

	"github.com/delaneyj/viewcore/config"
)

const (
	itersKey      = "iters"
	configKey     = "config"
	cpuProfileKey = "cpuprofile"
	quietKey      = "quiet"
)

func main() {
	cmd := &cli.Command{
		Name:  "bench",
		Usage: "Benchmark dependency propagation and option resolution",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Iterations per measurement",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  configKey,
				Usage: "YAML file applied to the shared config",
			},
			&cli.StringFlag{
				Name:  cpuProfileKey,
				Usage: "Write a CPU profile to this file",
			},
			&cli.BoolFlag{
				Name:  quietKey,
				Usage: "Measure without printing tables",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "propagate",
				Usage:  "Time a write fanning out through chains of computed values",
				Action: propagate,
			},
			{
				Name:   "resolve",
				Usage:  "Time option resolution along derivation chains",
				Action: resolve,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		config.Shared().Log().Fatal(err)
	}
}

// setup applies the config file and starts CPU profiling when requested.
// The returned func stops profiling.
func setup(cmd *cli.Command) (func(), error) {
	if path := cmd.String(configKey); path != "" {
		if err := config.Shared().LoadFile(path); err != nil {
			return nil, err
		}
	}

	path := cmd.String(cpuProfileKey)
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func iterations(cmd *cli.Command) (int, error) {
	iters := int(cmd.Uint(itersKey))
	if iters <= 0 {
		return 0, fmt.Errorf("--%s must be positive", itersKey)
	}
	return iters, nil
}
