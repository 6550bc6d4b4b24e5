package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shardwell/worldcore/pkg/command"
)

func writeFixtureDimension(t *testing.T, root, name string) {
	t.Helper()
	dimDir := filepath.Join(root, name)
	biomesDir := filepath.Join(dimDir, "biomes")
	if err := os.MkdirAll(biomesDir, 0o755); err != nil {
		t.Fatal(err)
	}

	dimensionJSON := `{"name":"` + name + `","size_x":100,"size_y":100}`
	if err := os.WriteFile(filepath.Join(dimDir, "dimension.json"), []byte(dimensionJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	biomeJSON := `{
		"biome_config": {"temperature":50,"humidity":50,"biome_type":"Neutral","surface_block":2,"subsurface_block":1,"base_block":0},
		"noise_functions": {
			"continental": {"amplitude":0,"weight":0,"blending_mode":"Mix"},
			"mountainous": {"amplitude":0,"weight":0,"blending_mode":"Mix"},
			"hilly": {"amplitude":0,"weight":0,"blending_mode":"Mix"},
			"texture": {"amplitude":0,"weight":0,"blending_mode":"Mix"},
			"cellular": {"amplitude":0,"weight":0,"blending_mode":"Mix"},
			"gridlike": {"amplitude":0,"weight":0,"blending_mode":"Mix"}
		}
	}`
	if err := os.WriteFile(filepath.Join(biomesDir, "plains.json"), []byte(biomeJSON), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	writeFixtureDimension(t, root, "overworld")
	s := New(Config{DimensionsRoot: root, DefaultSeed: 12345})
	if err := s.LoadDimension("overworld", 0); err != nil {
		t.Fatalf("LoadDimension: %v", err)
	}
	return s, root
}

func TestDispatchStopServer(t *testing.T) {
	s, _ := newTestServer(t)
	if !s.Running() {
		t.Fatalf("expected server to start running")
	}
	s.Dispatch(command.Command{ID: command.StopServer})
	if s.Running() {
		t.Fatalf("expected server to stop running after stopserver")
	}
}

func TestDispatchSwitchCompressionState(t *testing.T) {
	s, _ := newTestServer(t)
	before := s.CompressionEnabled()
	s.Dispatch(command.Command{ID: command.SwitchCompressionState})
	if s.CompressionEnabled() == before {
		t.Fatalf("expected compression toggle to flip state")
	}
}

func TestDispatchListDimensions(t *testing.T) {
	s, _ := newTestServer(t)
	resp := s.Dispatch(command.Command{ID: command.ListDimensions})
	if resp == "no dimensions loaded" {
		t.Fatalf("expected overworld to be listed, got %q", resp)
	}
}

func TestDispatchResetDimensionUnknown(t *testing.T) {
	s, _ := newTestServer(t)
	resp := s.Dispatch(command.Command{ID: command.ResetDimension, Args: []string{"nosuchdimension"}})
	if resp == "" {
		t.Fatalf("expected an error response for an unknown dimension")
	}
}

// S5: running testchunkspeed with limit=100 produces no resident chunks in
// the dimension's chunk store (the worker's Test path never touches
// results).
func TestDispatchTestChunkSpeed(t *testing.T) {
	s, _ := newTestServer(t)
	resp := s.Dispatch(command.Command{ID: command.TestChunkSpeed, Args: []string{"overworld", "100"}})
	if resp == "" {
		t.Fatalf("expected a response")
	}

	d, ok := s.Dimension("overworld")
	if !ok {
		t.Fatalf("expected overworld to be loaded")
	}
	landed := d.ReceiveChunks()
	if len(landed) != 0 {
		t.Fatalf("speed test should not populate the chunk store, got %d landed", len(landed))
	}
}

func TestTickPublishesChunkPackets(t *testing.T) {
	s, _ := newTestServer(t)
	d, _ := s.Dimension("overworld")
	d.TryLoadChunk([2]int32{0, 0})

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		s.Tick()
		select {
		case <-s.Outbound():
			return
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected a chunk packet to be published on Tick")
}
