package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// compressionThreshold is the raw-size cutoff above which a header is
// eligible for LZ4 compression (spec §6: "raw length > 100 bytes").
const compressionThreshold = 100

// PacketHeader is the outer envelope every ServerPacket travels in.
// OriginalSize is fixed at uint64 (spec §9 resolves the source's ambiguous
// usize-like width for interoperability).
type PacketHeader struct {
	IsCompressed bool
	OriginalSize uint64
	Data         []byte
}

// WrapPacket encodes a ServerPacket and wraps it in a PacketHeader, applying
// LZ4 block compression when enabled and the raw payload exceeds the
// threshold.
func WrapPacket(p ServerPacket, compress bool) (PacketHeader, error) {
	raw, err := EncodeServerPacket(p)
	if err != nil {
		return PacketHeader{}, err
	}
	if !compress || len(raw) <= compressionThreshold {
		return PacketHeader{IsCompressed: false, OriginalSize: uint64(len(raw)), Data: raw}, nil
	}

	bound := lz4.CompressBlockBound(len(raw))
	dst := make([]byte, bound)
	var c lz4.Compressor
	n, err := c.CompressBlock(raw, dst)
	if err != nil {
		return PacketHeader{}, fmt.Errorf("protocol: lz4 compress: %w", err)
	}
	if n == 0 {
		// Incompressible input: pierrec/lz4 returns n=0 rather than expand it.
		return PacketHeader{IsCompressed: false, OriginalSize: uint64(len(raw)), Data: raw}, nil
	}
	return PacketHeader{IsCompressed: true, OriginalSize: uint64(len(raw)), Data: dst[:n]}, nil
}

// Unwrap decompresses (if needed) and decodes the enclosed ServerPacket.
func (h PacketHeader) Unwrap() (ServerPacket, error) {
	raw := h.Data
	if h.IsCompressed {
		dst := make([]byte, h.OriginalSize)
		n, err := lz4.UncompressBlock(h.Data, dst)
		if err != nil {
			return ServerPacket{}, fmt.Errorf("protocol: lz4 decompress: %w", err)
		}
		raw = dst[:n]
	}
	return DecodeServerPacket(bytes.NewReader(raw))
}

// EncodeHeader writes the canonical little-endian encoding of a PacketHeader:
// is_compressed (1 byte), original_size (8 bytes), data length (4 bytes),
// then the data itself.
func EncodeHeader(w io.Writer, h PacketHeader) error {
	if err := writeBool(w, h.IsCompressed); err != nil {
		return err
	}
	if err := writeUint64(w, h.OriginalSize); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(h.Data))); err != nil {
		return err
	}
	_, err := w.Write(h.Data)
	return err
}

// DecodeHeader reads a PacketHeader previously written by EncodeHeader.
func DecodeHeader(r io.Reader) (PacketHeader, error) {
	var h PacketHeader
	var err error
	if h.IsCompressed, err = readBool(r); err != nil {
		return PacketHeader{}, err
	}
	if h.OriginalSize, err = readUint64(r); err != nil {
		return PacketHeader{}, err
	}
	n, err := readUint32(r)
	if err != nil {
		return PacketHeader{}, err
	}
	if n > maxStringLen*16 {
		return PacketHeader{}, fmt.Errorf("protocol: header data length %d exceeds limit", n)
	}
	h.Data = make([]byte, n)
	if _, err := io.ReadFull(r, h.Data); err != nil {
		return PacketHeader{}, err
	}
	return h, nil
}
