package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shardwell/worldcore/pkg/chunk"
)

// packetTag identifies which ServerPacket variant follows in the stream.
type packetTag uint8

const (
	tagPing packetTag = iota
	tagMessage
	tagBlockChange
	tagChunk
	tagReloadChunks
)

// ServerPacket is the closed set of messages the core emits to its
// consumer. Exactly one field is meaningful, selected by Tag.
type ServerPacket struct {
	Tag          packetTag
	Message      string
	BlockChange  BlockChange
	Chunk        PacketChunk
	ReloadChunks []ChunkPos
}

// NewPing builds a Ping packet.
func NewPing() ServerPacket { return ServerPacket{Tag: tagPing} }

// NewMessage builds a Message packet carrying a plain string.
func NewMessage(s string) ServerPacket { return ServerPacket{Tag: tagMessage, Message: s} }

// NewBlockChange builds a BlockChange packet.
func NewBlockChange(bc BlockChange) ServerPacket {
	return ServerPacket{Tag: tagBlockChange, BlockChange: bc}
}

// NewChunkPacket builds a Chunk packet.
func NewChunkPacket(c PacketChunk) ServerPacket {
	return ServerPacket{Tag: tagChunk, Chunk: c}
}

// NewReloadChunks builds a ReloadChunks packet naming the chunks a
// consumer should discard and re-request.
func NewReloadChunks(positions []ChunkPos) ServerPacket {
	return ServerPacket{Tag: tagReloadChunks, ReloadChunks: positions}
}

// ChunkPos identifies a chunk by its integer chunk-grid coordinates.
type ChunkPos struct {
	X, Y int64
}

// BlockChange names a single block mutation at world (not chunk-local)
// coordinates.
type BlockChange struct {
	WorldX, WorldY int64
	Layer          chunk.LayerType
	BlockType      chunk.BlockType
	BlockID        uint16
}

// PacketChunk is the struct-of-arrays form of a chunk.Chunk at wire widths:
// one array triple per layer, ordered foreground, middleground, background.
// EncodeServerPacket writes each layer cell by cell (type, id, texture for
// each block in turn), not array by array.
type PacketChunk struct {
	Pos ChunkPos

	ForegroundBlockType []uint8
	ForegroundBlockID   []uint16
	ForegroundTexture   []uint8

	MiddlegroundBlockType []uint8
	MiddlegroundBlockID   []uint16
	MiddlegroundTexture   []uint8

	BackgroundBlockType []uint8
	BackgroundBlockID   []uint16
	BackgroundTexture   []uint8
}

// ToPacketChunk narrows a chunk.Chunk's layers into their wire-width
// struct-of-arrays form.
func ToPacketChunk(pos ChunkPos, c *chunk.Chunk) PacketChunk {
	narrow := func(l *chunk.Layer) ([]uint8, []uint16, []uint8) {
		bt := make([]uint8, chunk.BlockCount)
		id := make([]uint16, chunk.BlockCount)
		tx := make([]uint8, chunk.BlockCount)
		for i := 0; i < chunk.BlockCount; i++ {
			bt[i] = uint8(l.BlockType[i])
			id[i] = uint16(l.BlockID[i])
			tx[i] = l.TextureIndex[i]
		}
		return bt, id, tx
	}
	fgT, fgID, fgTx := narrow(c.Foreground)
	mgT, mgID, mgTx := narrow(c.Middleground)
	bgT, bgID, bgTx := narrow(c.Background)
	return PacketChunk{
		Pos:                   pos,
		ForegroundBlockType:   fgT,
		ForegroundBlockID:     fgID,
		ForegroundTexture:     fgTx,
		MiddlegroundBlockType: mgT,
		MiddlegroundBlockID:   mgID,
		MiddlegroundTexture:   mgTx,
		BackgroundBlockType:   bgT,
		BackgroundBlockID:     bgID,
		BackgroundTexture:     bgTx,
	}
}

func writeLayerArrays(w io.Writer, bt []uint8, id []uint16, tx []uint8) error {
	for i := range bt {
		if err := writeUint8(w, bt[i]); err != nil {
			return err
		}
		if err := writeUint16(w, id[i]); err != nil {
			return err
		}
		if err := writeUint8(w, tx[i]); err != nil {
			return err
		}
	}
	return nil
}

func readLayerArrays(r io.Reader) ([]uint8, []uint16, []uint8, error) {
	bt := make([]uint8, chunk.BlockCount)
	id := make([]uint16, chunk.BlockCount)
	tx := make([]uint8, chunk.BlockCount)
	for i := 0; i < chunk.BlockCount; i++ {
		v, err := readUint8(r)
		if err != nil {
			return nil, nil, nil, err
		}
		bt[i] = v
		idv, err := readUint16(r)
		if err != nil {
			return nil, nil, nil, err
		}
		id[i] = idv
		txv, err := readUint8(r)
		if err != nil {
			return nil, nil, nil, err
		}
		tx[i] = txv
	}
	return bt, id, tx, nil
}

func writeChunkPos(w io.Writer, p ChunkPos) error {
	if err := writeInt64(w, p.X); err != nil {
		return err
	}
	return writeInt64(w, p.Y)
}

func readChunkPos(r io.Reader) (ChunkPos, error) {
	x, err := readInt64(r)
	if err != nil {
		return ChunkPos{}, err
	}
	y, err := readInt64(r)
	if err != nil {
		return ChunkPos{}, err
	}
	return ChunkPos{X: x, Y: y}, nil
}

// EncodeServerPacket writes the canonical little-endian encoding of p: a
// one-byte tag followed by the variant's fields.
func EncodeServerPacket(p ServerPacket) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeUint8(&buf, uint8(p.Tag)); err != nil {
		return nil, err
	}
	switch p.Tag {
	case tagPing:
		// no payload
	case tagMessage:
		if err := writeString(&buf, p.Message); err != nil {
			return nil, err
		}
	case tagBlockChange:
		bc := p.BlockChange
		if err := writeInt64(&buf, bc.WorldX); err != nil {
			return nil, err
		}
		if err := writeInt64(&buf, bc.WorldY); err != nil {
			return nil, err
		}
		if err := writeUint8(&buf, uint8(bc.Layer)); err != nil {
			return nil, err
		}
		if err := writeUint8(&buf, uint8(bc.BlockType)); err != nil {
			return nil, err
		}
		if err := writeUint16(&buf, bc.BlockID); err != nil {
			return nil, err
		}
	case tagChunk:
		c := p.Chunk
		if err := writeChunkPos(&buf, c.Pos); err != nil {
			return nil, err
		}
		if err := writeLayerArrays(&buf, c.ForegroundBlockType, c.ForegroundBlockID, c.ForegroundTexture); err != nil {
			return nil, err
		}
		if err := writeLayerArrays(&buf, c.MiddlegroundBlockType, c.MiddlegroundBlockID, c.MiddlegroundTexture); err != nil {
			return nil, err
		}
		if err := writeLayerArrays(&buf, c.BackgroundBlockType, c.BackgroundBlockID, c.BackgroundTexture); err != nil {
			return nil, err
		}
	case tagReloadChunks:
		if err := writeUint32(&buf, uint32(len(p.ReloadChunks))); err != nil {
			return nil, err
		}
		for _, pos := range p.ReloadChunks {
			if err := writeChunkPos(&buf, pos); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("protocol: unknown packet tag %d", p.Tag)
	}
	return buf.Bytes(), nil
}

// DecodeServerPacket reads a ServerPacket previously written by
// EncodeServerPacket.
func DecodeServerPacket(r io.Reader) (ServerPacket, error) {
	tagByte, err := readUint8(r)
	if err != nil {
		return ServerPacket{}, err
	}
	tag := packetTag(tagByte)
	switch tag {
	case tagPing:
		return ServerPacket{Tag: tagPing}, nil
	case tagMessage:
		s, err := readString(r)
		if err != nil {
			return ServerPacket{}, err
		}
		return ServerPacket{Tag: tagMessage, Message: s}, nil
	case tagBlockChange:
		var bc BlockChange
		if bc.WorldX, err = readInt64(r); err != nil {
			return ServerPacket{}, err
		}
		if bc.WorldY, err = readInt64(r); err != nil {
			return ServerPacket{}, err
		}
		lt, err := readUint8(r)
		if err != nil {
			return ServerPacket{}, err
		}
		bc.Layer = chunk.LayerType(lt)
		bt, err := readUint8(r)
		if err != nil {
			return ServerPacket{}, err
		}
		bc.BlockType = chunk.BlockType(bt)
		if bc.BlockID, err = readUint16(r); err != nil {
			return ServerPacket{}, err
		}
		return ServerPacket{Tag: tagBlockChange, BlockChange: bc}, nil
	case tagChunk:
		var c PacketChunk
		if c.Pos, err = readChunkPos(r); err != nil {
			return ServerPacket{}, err
		}
		if c.ForegroundBlockType, c.ForegroundBlockID, c.ForegroundTexture, err = readLayerArrays(r); err != nil {
			return ServerPacket{}, err
		}
		if c.MiddlegroundBlockType, c.MiddlegroundBlockID, c.MiddlegroundTexture, err = readLayerArrays(r); err != nil {
			return ServerPacket{}, err
		}
		if c.BackgroundBlockType, c.BackgroundBlockID, c.BackgroundTexture, err = readLayerArrays(r); err != nil {
			return ServerPacket{}, err
		}
		return ServerPacket{Tag: tagChunk, Chunk: c}, nil
	case tagReloadChunks:
		n, err := readUint32(r)
		if err != nil {
			return ServerPacket{}, err
		}
		positions := make([]ChunkPos, n)
		for i := range positions {
			if positions[i], err = readChunkPos(r); err != nil {
				return ServerPacket{}, err
			}
		}
		return ServerPacket{Tag: tagReloadChunks, ReloadChunks: positions}, nil
	default:
		return ServerPacket{}, fmt.Errorf("protocol: unknown packet tag %d", tagByte)
	}
}
