package execution

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/internal/partition"
	"github.com/go-sif/sifread/logging"
)

// Options configures the execution of a DataFrame
type Options struct {
	NumWorkers            int             `yaml:"numWorkers"`            // the number of PartitionLoaders processed concurrently. Defaults to runtime.NumCPU().
	TempDir               string          `yaml:"tempDir"`               // the directory used for spilled partitions. Defaults to os.TempDir().
	NumInMemoryPartitions int             `yaml:"numInMemoryPartitions"` // the number of result partitions retained in memory before spilling to disk. Defaults to 100.
	SpillCodec            string          `yaml:"spillCodec"`            // "lz4" or "zstd". Defaults to lz4.
	Logger                *logging.Logger `yaml:"-"`
}

// ensureDefaultOptionsValues produces a copy of opts with defaults filled in
func ensureDefaultOptionsValues(opts *Options) *Options {
	res := &Options{}
	if opts != nil {
		*res = *opts
	}
	if res.NumWorkers <= 0 {
		res.NumWorkers = runtime.NumCPU()
	}
	if len(res.TempDir) == 0 {
		res.TempDir = os.TempDir()
	}
	if res.NumInMemoryPartitions <= 0 {
		res.NumInMemoryPartitions = 100
	}
	if len(res.SpillCodec) == 0 {
		res.SpillCodec = "lz4"
	}
	if res.Logger == nil {
		res.Logger = logging.Default()
	}
	return res
}

// serializer produces the PartitionSerializer for the configured SpillCodec
func (o *Options) serializer() (sifread.PartitionSerializer, error) {
	switch strings.ToLower(o.SpillCodec) {
	case "lz4":
		return partition.NewLZ4PartitionSerializer(), nil
	case "zstd":
		return partition.NewZstdPartitionSerializer()
	default:
		return nil, fmt.Errorf("unknown spill codec %q", o.SpillCodec)
	}
}
