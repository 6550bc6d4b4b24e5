package chunk

import "testing"

func TestNewChunkAllAir(t *testing.T) {
	c := NewChunk()
	for i := 0; i < BlockCount; i++ {
		if c.Foreground.BlockType[i] != Air {
			t.Fatalf("foreground[%d] = %v, want Air", i, c.Foreground.BlockType[i])
		}
		if c.Background.BlockType[i] != Air {
			t.Fatalf("background[%d] = %v, want Air", i, c.Background.BlockType[i])
		}
	}
}

func TestFilledBasicTile(t *testing.T) {
	l := FilledBasicTile(7)
	for i, bt := range l.BlockType {
		if bt != Tile {
			t.Fatalf("index %d: got %v, want Tile", i, bt)
		}
		if l.BlockID[i] != 7 {
			t.Fatalf("index %d: blockID = %d, want 7", i, l.BlockID[i])
		}
	}
}

func TestSetBlockRejectsWallOutsideBackground(t *testing.T) {
	c := NewChunk()
	pos := Pos{X: 1, Y: 1}
	c.SetBlock(Foreground, pos, Wall, 3, 0)
	if c.Foreground.BlockType[pos.index()] != Air {
		t.Fatalf("wall write into foreground should have been rejected")
	}
}

func TestSetBlockRejectsNonWallInBackground(t *testing.T) {
	c := NewChunk()
	pos := Pos{X: 2, Y: 2}
	c.SetBlock(Background, pos, Tile, 3, 0)
	if c.Background.BlockType[pos.index()] != Air {
		t.Fatalf("non-wall write into background should have been rejected")
	}
}

func TestSetBlockAccepts(t *testing.T) {
	c := NewChunk()
	pos := Pos{X: 3, Y: 4}
	c.SetBlock(Background, pos, Wall, 9, 2)
	if c.Background.BlockType[pos.index()] != Wall || c.Background.BlockID[pos.index()] != 9 {
		t.Fatalf("valid background wall write was rejected")
	}
	c.SetBlock(Foreground, pos, Tile, 5, 1)
	if c.Foreground.BlockType[pos.index()] != Tile || c.Foreground.BlockID[pos.index()] != 5 {
		t.Fatalf("valid foreground tile write was rejected")
	}
}

func TestToMeshFieldOrderAndSize(t *testing.T) {
	c := NewChunk()
	c.SetBlock(Foreground, Pos{X: 0, Y: 0}, Tile, 1, 0)
	mesh := ToMesh(c)
	if len(mesh.Background) != BlockCount || len(mesh.Middleground) != BlockCount || len(mesh.Foreground) != BlockCount {
		t.Fatalf("mesh layer lengths must equal BlockCount")
	}
	if mesh.Foreground[0].BlockType != Tile || mesh.Foreground[0].BlockID != 1 {
		t.Fatalf("foreground mesh did not reflect written block")
	}
}
