package graft

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializationFormat(t *testing.T) {
	for _, compress := range []Compression{Uncompressed, Snappy, Zstd} {
		for _, checksum := range []Checksum{NoChecksum, CRC32, XXHash} {
			f := EncodeSerializationFormat(compress, checksum)
			c, s := DecodeSerializationFormat(f)
			require.Equal(t, compress, c)
			require.Equal(t, checksum, s)
		}
	}
}

func TestSerializeData(t *testing.T) {
	data := bytes.Repeat([]byte("vertex step payload "), 40)

	for _, compress := range []Compression{Uncompressed, Snappy, Zstd} {
		for _, checksum := range []Checksum{NoChecksum, CRC32, XXHash} {
			s, err := SerializeData(data, compress, checksum)
			require.NoError(t, err)
			if compress == Uncompressed && checksum == NoChecksum {
				require.Equal(t, data, s, "plain payloads should pass through")
				require.False(t, HasEnvelope(s))
			} else {
				require.True(t, HasEnvelope(s))
			}

			got, c, sum, err := DeserializeData(s)
			require.NoError(t, err)
			require.Equal(t, data, got)
			require.Equal(t, compress, c)
			require.Equal(t, checksum, sum)

			if checksum != NoChecksum {
				corrupt := append([]byte(nil), s...)
				corrupt[len(corrupt)-1] ^= 0x04
				_, _, _, err = DeserializeData(corrupt)
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrBadChecksum), "got %v", err)
			}
		}
	}
}

func TestDeserializeTruncated(t *testing.T) {
	_, _, _, err := DeserializeData([]byte(EnvelopeMagic))
	require.Error(t, err)

	s := []byte(EnvelopeMagic)
	s = append(s, byte(EncodeSerializationFormat(Uncompressed, CRC32)), 0x01)
	_, _, _, err = DeserializeData(s)
	require.Error(t, err)
}

func TestParseFormatNames(t *testing.T) {
	c, err := ParseCompression("Snappy")
	require.NoError(t, err)
	require.Equal(t, Snappy, c)
	c, err = ParseCompression("")
	require.NoError(t, err)
	require.Equal(t, Uncompressed, c)
	_, err = ParseCompression("lz4")
	require.Error(t, err)

	s, err := ParseChecksum("xxhash")
	require.NoError(t, err)
	require.Equal(t, XXHash, s)
	_, err = ParseChecksum("md5")
	require.Error(t, err)

	require.Equal(t, "zstd", Zstd.String())
	require.Equal(t, "crc32", CRC32.String())
}
