package partition

import (
	"bytes"
	"io"
	"sync"

	"github.com/go-sif/sifread"
	"github.com/pierrec/lz4"
)

// LZ4PartitionSerializer is a partition serializer which uses the lz4 compression algorithm
type LZ4PartitionSerializer struct {
	lock               sync.Mutex
	compressor         *lz4.Writer
	decompressor       *lz4.Reader
	reusableReadBuffer *bytes.Buffer
}

// NewLZ4PartitionSerializer instantiates a new LZ4PartitionSerializer
func NewLZ4PartitionSerializer() sifread.PartitionSerializer {
	return &LZ4PartitionSerializer{
		compressor:         lz4.NewWriter(new(bytes.Buffer)),
		decompressor:       lz4.NewReader(new(bytes.Buffer)),
		reusableReadBuffer: new(bytes.Buffer),
	}
}

// Compress serializes and compresses partition data to a write stream
func (lz4ps *LZ4PartitionSerializer) Compress(w io.Writer, part sifread.Partition) error {
	buff, err := ToBytes(part)
	if err != nil {
		return err
	}
	lz4ps.lock.Lock()
	defer lz4ps.lock.Unlock()
	lz4ps.compressor.Reset(w)
	if _, err = lz4ps.compressor.Write(buff); err != nil {
		return err
	}
	return lz4ps.compressor.Close()
}

// Decompress decompresses and deserializes partition data from a read stream
func (lz4ps *LZ4PartitionSerializer) Decompress(r io.Reader, schema sifread.Schema) (sifread.Partition, error) {
	lz4ps.lock.Lock()
	defer lz4ps.lock.Unlock()
	lz4ps.decompressor.Reset(r)
	lz4ps.reusableReadBuffer.Reset()
	if _, err := lz4ps.reusableReadBuffer.ReadFrom(lz4ps.decompressor); err != nil {
		return nil, err
	}
	return FromBytes(lz4ps.reusableReadBuffer.Bytes(), schema)
}
