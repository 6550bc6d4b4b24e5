package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shardwell/worldcore/pkg/command"
	"github.com/shardwell/worldcore/pkg/console"
	"github.com/shardwell/worldcore/pkg/logging"
	"github.com/shardwell/worldcore/pkg/server"
)

func main() {
	dimensionsRoot := flag.String("dimensions", "./dimensions", "Directory holding dimension and biome schemas")
	dimensionNames := flag.String("load", "overworld", "Comma-separated dimension names to load at startup")
	seed := flag.Int64("seed", 0, "World seed (0 = derived from current time)")
	compression := flag.Bool("compression", true, "Enable LZ4 packet compression")
	tickRate := flag.Int("tick-rate", 60, "Ticks per second")
	flag.Parse()

	log := logging.Get()

	actualSeed := *seed
	if actualSeed == 0 {
		actualSeed = time.Now().UnixNano()
	}

	config := server.Config{
		DimensionsRoot:     *dimensionsRoot,
		DefaultSeed:        actualSeed,
		CompressionEnabled: *compression,
	}
	srv := server.New(config)

	for _, name := range strings.Split(*dimensionNames, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := srv.LoadDimension(name, 0); err != nil {
			log.Fatal("failed to load dimension", "name", name, "err", err)
		}
		if d, ok := srv.Dimension(name); ok {
			d.LoadChunks()
		}
	}

	log.Info("worldcore server started", "dimensions", *dimensionNames, "seed", actualSeed, "tick_rate", *tickRate)

	commands := make(chan command.Command, 16)
	stopConsole := make(chan struct{})
	go console.Run(os.Stdin, commands, stopConsole)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(*tickRate))
	defer ticker.Stop()

	for srv.Running() {
		select {
		case sig := <-sigCh:
			log.Info("shutting down", "signal", sig)
			close(stopConsole)
			return
		case cmd := <-commands:
			resp := srv.Dispatch(cmd)
			log.Info("command dispatched", "id", cmd.ID, "response", resp)
		case <-ticker.C:
			srv.Tick()
		}
	}

	close(stopConsole)
	log.Info("server stopped")
}
