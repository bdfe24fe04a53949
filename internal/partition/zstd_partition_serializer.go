package partition

import (
	"bytes"
	"io"
	"sync"

	"github.com/go-sif/sifread"
	"github.com/klauspost/compress/zstd"
)

// ZstdPartitionSerializer is a partition serializer which uses the zstd compression algorithm
type ZstdPartitionSerializer struct {
	lock               sync.Mutex
	compressor         *zstd.Encoder
	decompressor       *zstd.Decoder
	reusableReadBuffer *bytes.Buffer
}

// NewZstdPartitionSerializer instantiates a new ZstdPartitionSerializer
func NewZstdPartitionSerializer() (sifread.PartitionSerializer, error) {
	compressor, err := zstd.NewWriter(new(bytes.Buffer), zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	decompressor, err := zstd.NewReader(new(bytes.Buffer))
	if err != nil {
		return nil, err
	}
	return &ZstdPartitionSerializer{
		compressor:         compressor,
		decompressor:       decompressor,
		reusableReadBuffer: new(bytes.Buffer),
	}, nil
}

// Compress serializes and compresses partition data to a write stream
func (zps *ZstdPartitionSerializer) Compress(w io.Writer, part sifread.Partition) error {
	buff, err := ToBytes(part)
	if err != nil {
		return err
	}
	zps.lock.Lock()
	defer zps.lock.Unlock()
	zps.compressor.Reset(w)
	if _, err = zps.compressor.Write(buff); err != nil {
		return err
	}
	return zps.compressor.Close()
}

// Decompress decompresses and deserializes partition data from a read stream
func (zps *ZstdPartitionSerializer) Decompress(r io.Reader, schema sifread.Schema) (sifread.Partition, error) {
	zps.lock.Lock()
	defer zps.lock.Unlock()
	if err := zps.decompressor.Reset(r); err != nil {
		return nil, err
	}
	zps.reusableReadBuffer.Reset()
	if _, err := zps.reusableReadBuffer.ReadFrom(zps.decompressor); err != nil {
		return nil, err
	}
	return FromBytes(zps.reusableReadBuffer.Bytes(), schema)
}
