// Package server owns the set of loaded dimensions, dispatches
// pre-validated commands against them, and emits outbound packets.
package server

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shardwell/worldcore/pkg/command"
	"github.com/shardwell/worldcore/pkg/dimension"
	"github.com/shardwell/worldcore/pkg/logging"
	"github.com/shardwell/worldcore/pkg/protocol"
)

var log = logging.With("server")

// Config holds server-wide configuration.
type Config struct {
	DimensionsRoot     string
	DefaultSeed        int64
	CompressionEnabled bool
}

// Server owns every loaded dimension and the outbound packet stream.
type Server struct {
	config Config

	mu         sync.RWMutex
	dimensions map[string]*dimension.Dimension
	running    bool
	compressed bool

	outbound chan protocol.ServerPacket
}

// New constructs a Server from config. No dimensions are loaded yet; call
// LoadDimension for each world the caller wants resident.
func New(config Config) *Server {
	return &Server{
		config:     config,
		dimensions: make(map[string]*dimension.Dimension),
		running:    true,
		compressed: config.CompressionEnabled,
		outbound:   make(chan protocol.ServerPacket, 256),
	}
}

// Outbound returns the channel every ServerPacket the core emits is
// published on.
func (s *Server) Outbound() <-chan protocol.ServerPacket { return s.outbound }

// Running reports whether stopserver has been issued.
func (s *Server) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// CompressionEnabled reports the current packet-compression toggle.
func (s *Server) CompressionEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compressed
}

// LoadDimension reads a dimension's schema from the configured
// dimensions root and makes it resident under name, using seed (or the
// server's default seed when seed is 0).
func (s *Server) LoadDimension(name string, seed int64) error {
	if seed == 0 {
		seed = s.config.DefaultSeed
	}
	schema, biomes, err := dimension.LoadSchema(s.config.DimensionsRoot, name)
	if err != nil {
		return err
	}
	d := dimension.New(schema, biomes, seed)

	s.mu.Lock()
	s.dimensions[name] = d
	s.mu.Unlock()
	return nil
}

// Dimension returns the resident dimension named name, if any.
func (s *Server) Dimension(name string) (*dimension.Dimension, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dimensions[name]
	return d, ok
}

// Dispatch runs a pre-validated command and returns a single-line
// human-readable response. Dispatch never parses free text; that is the
// console/network adapter's job before a Command crosses in.
func (s *Server) Dispatch(cmd command.Command) string {
	switch cmd.ID {
	case command.StopServer:
		return s.handleStop()
	case command.SwitchCompressionState:
		return s.handleSwitchCompression()
	case command.ListDimensions:
		return s.handleListDimensions()
	case command.ResetDimension:
		return s.handleResetDimension(cmd.Args)
	case command.TestChunkSpeed:
		return s.handleTestChunkSpeed(cmd.Args)
	default:
		return fmt.Sprintf("unknown command: %s", cmd.ID)
	}
}

func (s *Server) handleStop() string {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	log.Info("stopserver issued")
	return "server stopping"
}

func (s *Server) handleSwitchCompression() string {
	s.mu.Lock()
	s.compressed = !s.compressed
	state := s.compressed
	s.mu.Unlock()
	return fmt.Sprintf("compression now %v", state)
}

func (s *Server) handleListDimensions() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.dimensions) == 0 {
		return "no dimensions loaded"
	}
	names := make([]string, 0, len(s.dimensions))
	for name := range s.dimensions {
		names = append(names, name)
	}
	return fmt.Sprintf("%v", names)
}

func (s *Server) handleResetDimension(args []string) string {
	if len(args) < 1 {
		return "usage: resetdimension <name> [seed]"
	}
	name := args[0]

	var seed int64
	if len(args) >= 2 {
		parsed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Sprintf("invalid seed %q", args[1])
		}
		seed = parsed
	} else {
		seed = time.Now().UnixNano()
	}

	schema, biomes, err := dimension.LoadSchema(s.config.DimensionsRoot, name)
	if err != nil {
		return fmt.Sprintf("reset failed: %v", err)
	}
	d := dimension.New(schema, biomes, seed)

	s.mu.Lock()
	s.dimensions[name] = d
	s.mu.Unlock()

	s.outbound <- protocol.NewReloadChunks(nil)
	return fmt.Sprintf("dimension %q reset with seed %d", name, seed)
}

func (s *Server) handleTestChunkSpeed(args []string) string {
	if len(args) < 1 {
		return "usage: testchunkspeed <name> [limit]"
	}
	name := args[0]

	limit := 100
	if len(args) >= 2 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Sprintf("invalid limit %q", args[1])
		}
		limit = parsed
	}

	d, ok := s.Dimension(name)
	if !ok {
		return fmt.Sprintf("no such dimension: %s", name)
	}
	d.ChunkLoadSpeedTest(limit)
	return fmt.Sprintf("running speed test on %q, limit=%d", name, limit)
}

// Tick drains every dimension's results and publishes Chunk packets for
// each newly resident chunk. The main context calls this once per tick;
// it does not wait for results, but publishing blocks while the outbound
// channel's buffer is full.
func (s *Server) Tick() {
	s.mu.RLock()
	dims := make(map[string]*dimension.Dimension, len(s.dimensions))
	for name, d := range s.dimensions {
		dims[name] = d
	}
	s.mu.RUnlock()

	for _, d := range dims {
		for _, pos := range d.ReceiveChunks() {
			c, ok := d.Chunk(pos)
			if !ok {
				continue
			}
			packetPos := protocol.ChunkPos{X: int64(pos[0]), Y: int64(pos[1])}
			s.outbound <- protocol.NewChunkPacket(protocol.ToPacketChunk(packetPos, c))
		}
	}
}
