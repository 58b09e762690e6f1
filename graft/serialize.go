/*
	This file supports the optional envelope around stored scenario files:
	compression of the body and a checksum for error checking.
*/

package graft

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// EnvelopeMagic prefixes any enveloped payload.  A protobuf message can never
// start with these bytes since 'G' would be a tag with the invalid wire type 7.
const EnvelopeMagic = "GRFT"

// ErrBadChecksum is returned when a stored checksum does not match the payload.
var ErrBadChecksum = errors.New("bad checksum")

// Compression is the format of compression for storing data.
// NOTE: Should be no more than 8 (3 bits) of compression types.
type Compression uint8

const (
	Uncompressed Compression = iota
	Snappy
	Zstd
)

func (compress Compression) String() string {
	switch compress {
	case Uncompressed:
		return "none"
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseCompression returns the compression named by s ("none", "snappy", "zstd").
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "uncompressed":
		return Uncompressed, nil
	case "snappy":
		return Snappy, nil
	case "zstd":
		return Zstd, nil
	}
	return Uncompressed, fmt.Errorf("unknown compression %q", s)
}

// Checksum is the type of checksum employed for error checking stored data.
// NOTE: Should be no more than 4 (2 bits) of checksum types.
type Checksum uint8

const (
	NoChecksum Checksum = iota
	CRC32
	XXHash
)

func (checksum Checksum) String() string {
	switch checksum {
	case NoChecksum:
		return "none"
	case CRC32:
		return "crc32"
	case XXHash:
		return "xxhash"
	default:
		return "unknown"
	}
}

// ParseChecksum returns the checksum named by s ("none", "crc32", "xxhash").
func ParseChecksum(s string) (Checksum, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoChecksum, nil
	case "crc32":
		return CRC32, nil
	case "xxhash":
		return XXHash, nil
	}
	return NoChecksum, fmt.Errorf("unknown checksum %q", s)
}

// SerializationFormat is a single byte combining both compression and checksum methods.
type SerializationFormat uint8

func EncodeSerializationFormat(compress Compression, checksum Checksum) SerializationFormat {
	a := (uint8(compress) & 0x07) << 5
	b := (uint8(checksum) & 0x03) << 3
	return SerializationFormat(a | b)
}

func DecodeSerializationFormat(s SerializationFormat) (compress Compression, checksum Checksum) {
	compress = Compression(uint8(s) >> 5)
	checksum = Checksum((uint8(s) >> 3) & 0x03)
	return
}

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

func zstdCodecs() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEnc, zstdErr = zstd.NewWriter(nil)
		if zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil)
	})
	return zstdEnc, zstdDec, zstdErr
}

// HasEnvelope returns true if s starts with the envelope magic.
func HasEnvelope(s []byte) bool {
	return bytes.HasPrefix(s, []byte(EnvelopeMagic))
}

// SerializeData wraps data using optional compression and checksum.  With neither
// requested, data is returned as is so plain payloads stay readable by other tools.
func SerializeData(data []byte, compress Compression, checksum Checksum) ([]byte, error) {
	if compress == Uncompressed && checksum == NoChecksum {
		return data, nil
	}

	var body []byte
	switch compress {
	case Uncompressed:
		body = data
	case Snappy:
		body = snappy.Encode(nil, data)
	case Zstd:
		enc, _, err := zstdCodecs()
		if err != nil {
			return nil, err
		}
		body = enc.EncodeAll(data, nil)
	default:
		return nil, fmt.Errorf("illegal compression (%s) during serialization", compress)
	}

	var buffer bytes.Buffer
	buffer.WriteString(EnvelopeMagic)
	buffer.WriteByte(byte(EncodeSerializationFormat(compress, checksum)))

	switch checksum {
	case NoChecksum:
	case CRC32:
		var sum [4]byte
		binary.LittleEndian.PutUint32(sum[:], crc32.ChecksumIEEE(body))
		buffer.Write(sum[:])
	case XXHash:
		var sum [8]byte
		binary.LittleEndian.PutUint64(sum[:], xxhash.Sum64(body))
		buffer.Write(sum[:])
	default:
		return nil, fmt.Errorf("illegal checksum (%s) during serialization", checksum)
	}

	// Body goes last so deserialization doesn't need its length.
	buffer.Write(body)
	return buffer.Bytes(), nil
}

// DeserializeData unwraps data written by SerializeData, verifying any checksum and
// uncompressing the body.  Payloads without the envelope magic are returned unchanged.
func DeserializeData(s []byte) (data []byte, compress Compression, checksum Checksum, err error) {
	if !HasEnvelope(s) {
		return s, Uncompressed, NoChecksum, nil
	}
	s = s[len(EnvelopeMagic):]
	if len(s) < 1 {
		err = fmt.Errorf("envelope truncated before format byte")
		return
	}
	compress, checksum = DecodeSerializationFormat(SerializationFormat(s[0]))
	s = s[1:]

	switch checksum {
	case NoChecksum:
	case CRC32:
		if len(s) < 4 {
			err = fmt.Errorf("envelope truncated in crc32 checksum")
			return
		}
		stored := binary.LittleEndian.Uint32(s[:4])
		s = s[4:]
		if got := crc32.ChecksumIEEE(s); got != stored {
			err = fmt.Errorf("%w: stored %x got %x", ErrBadChecksum, stored, got)
			return
		}
	case XXHash:
		if len(s) < 8 {
			err = fmt.Errorf("envelope truncated in xxhash checksum")
			return
		}
		stored := binary.LittleEndian.Uint64(s[:8])
		s = s[8:]
		if got := xxhash.Sum64(s); got != stored {
			err = fmt.Errorf("%w: stored %x got %x", ErrBadChecksum, stored, got)
			return
		}
	default:
		err = fmt.Errorf("illegal checksum (%d) in deserialization", checksum)
		return
	}

	switch compress {
	case Uncompressed:
		data = s
	case Snappy:
		data, err = snappy.Decode(nil, s)
	case Zstd:
		var dec *zstd.Decoder
		if _, dec, err = zstdCodecs(); err == nil {
			data, err = dec.DecodeAll(s, nil)
		}
	default:
		err = fmt.Errorf("illegal compression format (%d) in deserialization", compress)
	}
	return
}
