package chunk

import "github.com/shardwell/worldcore/pkg/logging"

var log = logging.With("chunk")

// Layer is a row-major, struct-of-arrays block store: three parallel
// arrays of length BlockCount, indexed by y*Size+x. NewLayer returns an
// all-Air layer; the zero value has nil arrays and holds no blocks.
type Layer struct {
	BlockType    []BlockType
	BlockID      []uint32
	TextureIndex []uint8
}

// NewLayer allocates an all-Air layer.
func NewLayer() *Layer {
	return &Layer{
		BlockType:    make([]BlockType, BlockCount),
		BlockID:      make([]uint32, BlockCount),
		TextureIndex: make([]uint8, BlockCount),
	}
}

// FilledBasicAir returns a fully-Air layer (equivalent to NewLayer, named
// for parity with the Tile/Wall constructors).
func FilledBasicAir() *Layer {
	return NewLayer()
}

// FilledBasicTile returns a layer uniformly filled with a Tile of blockID.
func FilledBasicTile(blockID uint32) *Layer {
	l := NewLayer()
	for i := range l.BlockType {
		l.BlockType[i] = Tile
		l.BlockID[i] = blockID
	}
	return l
}

// FilledBasicWall returns a layer uniformly filled with a Wall of blockID.
func FilledBasicWall(blockID uint32) *Layer {
	l := NewLayer()
	for i := range l.BlockType {
		l.BlockType[i] = Wall
		l.BlockID[i] = blockID
	}
	return l
}

func (l *Layer) SetBlockTypeByIndex(i int, v BlockType)    { l.BlockType[i] = v }
func (l *Layer) SetBlockIDByIndex(i int, v uint32)         { l.BlockID[i] = v }
func (l *Layer) SetBlockTextureIndexByIndex(i int, v uint8) { l.TextureIndex[i] = v }

func (l *Layer) SetBlockType(pos Pos, v BlockType)    { l.SetBlockTypeByIndex(pos.index(), v) }
func (l *Layer) SetBlockID(pos Pos, v uint32)         { l.SetBlockIDByIndex(pos.index(), v) }
func (l *Layer) SetBlockTextureIndex(pos Pos, v uint8) { l.SetBlockTextureIndexByIndex(pos.index(), v) }

// ClearBlockByIndex resets a cell to Air/0/0.
func (l *Layer) ClearBlockByIndex(i int) {
	l.BlockType[i] = Air
	l.BlockID[i] = 0
	l.TextureIndex[i] = 0
}

// ClearBlock resets a cell to Air/0/0.
func (l *Layer) ClearBlock(pos Pos) { l.ClearBlockByIndex(pos.index()) }

// Chunk is a CHUNK_SIZE x CHUNK_SIZE square of tiles composed of three
// stacked layers.
type Chunk struct {
	Foreground      *Layer
	Middleground    *Layer
	Background      *Layer
	TotalBlockCount int
}

// NewChunk allocates a chunk with all three layers initialised to Air.
func NewChunk() *Chunk {
	return &Chunk{
		Foreground:   NewLayer(),
		Middleground: NewLayer(),
		Background:   NewLayer(),
	}
}

func (c *Chunk) layer(lt LayerType) *Layer {
	switch lt {
	case Foreground:
		return c.Foreground
	case Middleground:
		return c.Middleground
	case Background:
		return c.Background
	default:
		return nil
	}
}

// SetBlock writes a block into the given layer at pos, enforcing the
// wall/non-wall layer restriction: walls are only permitted in Background,
// non-walls only in Foreground/Middleground. A violation logs and returns
// without mutating the chunk.
func (c *Chunk) SetBlock(lt LayerType, pos Pos, bt BlockType, blockID uint32, textureIndex uint8) {
	if bt == Wall && lt != Background {
		log.Warn("rejected wall block outside background layer", "layer", lt, "x", pos.X, "y", pos.Y)
		return
	}
	if bt != Wall && lt == Background {
		log.Warn("rejected non-wall block in background layer", "layer", lt, "x", pos.X, "y", pos.Y)
		return
	}
	l := c.layer(lt)
	l.SetBlockType(pos, bt)
	l.SetBlockID(pos, blockID)
	l.SetBlockTextureIndex(pos, textureIndex)
}

// ChunkMesh is the array-of-structs view of a Chunk, field order matching
// the consumer's desired draw order: background, middleground, foreground.
type ChunkMesh struct {
	Background   []Block
	Middleground []Block
	Foreground   []Block
}

func layerToMesh(l *Layer) []Block {
	blocks := make([]Block, BlockCount)
	for i := 0; i < BlockCount; i++ {
		blocks[i] = Block{
			X:            uint8(i % Size),
			Y:            uint8(i / Size),
			BlockID:      l.BlockID[i],
			BlockType:    l.BlockType[i],
			TextureIndex: l.TextureIndex[i],
		}
	}
	return blocks
}

// ToMesh copies each layer of a Chunk into its array-of-structs form.
func ToMesh(c *Chunk) ChunkMesh {
	return ChunkMesh{
		Background:   layerToMesh(c.Background),
		Middleground: layerToMesh(c.Middleground),
		Foreground:   layerToMesh(c.Foreground),
	}
}
