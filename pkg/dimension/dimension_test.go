package dimension

import (
	"testing"
	"time"

	"github.com/shardwell/worldcore/pkg/biome"
)

func testBiomes() []*biome.Biome {
	return []*biome.Biome{
		{Name: "test", Temperature: 50, Humidity: 50, Type: biome.Neutral, SurfaceBlock: 2, SubsurfaceBlock: 1, BaseBlock: 0},
	}
}

func newTestDimension(sizeX, sizeY uint32) *Dimension {
	schema := Schema{Name: "test", SizeX: sizeX, SizeY: sizeY}
	return New(schema, testBiomes(), 12345)
}

func waitForLanded(d *Dimension, want int) [][2]int32 {
	deadline := time.Now().Add(3 * time.Second)
	var landed [][2]int32
	for len(landed) < want && time.Now().Before(deadline) {
		landed = append(landed, d.ReceiveChunks()...)
		if len(landed) < want {
			time.Sleep(10 * time.Millisecond)
		}
	}
	return landed
}

// S3: requesting the same chunk twice back to back produces exactly one
// resident chunk, thanks to in-flight dedup.
func TestS3DuplicateRequestDeduped(t *testing.T) {
	d := newTestDimension(100, 100)
	d.TryLoadChunk([2]int32{0, 0})
	d.TryLoadChunk([2]int32{0, 0})

	waitForLanded(d, 1)
	if _, ok := d.Chunk([2]int32{0, 0}); !ok {
		t.Fatalf("expected (0,0) to be resident")
	}
	if len(d.inFlight) != 0 {
		t.Fatalf("in-flight set not cleared: %v", d.inFlight)
	}
}

// S4: requesting a coordinate at or beyond half the world size is a silent
// no-op; the chunk never becomes resident or in-flight.
func TestS4OutOfBoundsRejected(t *testing.T) {
	d := newTestDimension(100, 100)
	pos := [2]int32{50, 0} // |x| >= size.x/2 == 50

	d.TryLoadChunk(pos)

	if d.inFlight[pos] {
		t.Fatalf("out-of-bounds request should not be marked in-flight")
	}
	if _, ok := d.Chunk(pos); ok {
		t.Fatalf("out-of-bounds request should never become resident")
	}
}

func TestInBoundsBoundaryAccepted(t *testing.T) {
	d := newTestDimension(100, 100)
	pos := [2]int32{49, 49} // |x| < 50

	d.TryLoadChunk(pos)
	if !d.inFlight[pos] {
		t.Fatalf("expected boundary-inbounds position to be accepted")
	}
}

func TestLoadChunksCoversFixedWindow(t *testing.T) {
	d := newTestDimension(100, 100)
	d.LoadChunks()

	want := (2*StreamingWindowRadius + 1) * (2*StreamingWindowRadius + 1)
	if len(d.inFlight) != want {
		t.Fatalf("in-flight count = %d, want %d", len(d.inFlight), want)
	}
}

func TestReceiveChunksNonBlockingWhenEmpty(t *testing.T) {
	d := newTestDimension(100, 100)
	landed := d.ReceiveChunks()
	if len(landed) != 0 {
		t.Fatalf("expected no landed chunks, got %v", landed)
	}
}
