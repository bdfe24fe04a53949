package session

import (
	"fmt"
	"io"
	"os"

	"github.com/go-sif/sifread/execution"
	"github.com/go-sif/sifread/fileio"
	"gopkg.in/yaml.v3"
)

// Options configures a Session. It may be loaded from YAML.
type Options struct {
	AppName      string            `yaml:"appName"`      // prefix for log messages. Defaults to "sifread".
	LogLevel     string            `yaml:"logLevel"`     // trace, debug, info, warn, error or fatal. Defaults to info.
	WarehouseDir string            `yaml:"warehouseDir"` // location of persistent tables. Defaults to ./sifread-warehouse.
	ReadOptions  map[string]string `yaml:"readOptions"`  // options applied to every read, before any set on the reader itself
	Execution    execution.Options `yaml:"execution"`
	S3           *fileio.S3Config  `yaml:"s3"` // credentials and endpoint for s3:// paths. Defaults to the AWS default configuration chain.
	LogOutput    io.Writer         `yaml:"-"`  // destination for log messages. Defaults to os.Stderr.
}

// DefaultWarehouseDir is the location of persistent tables, unless otherwise configured
const DefaultWarehouseDir = "sifread-warehouse"

// ParseOptions decodes Options from YAML
func ParseOptions(data []byte) (*Options, error) {
	opts := &Options{}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("invalid session configuration: %w", err)
	}
	return opts, nil
}

// LoadOptions reads Options from a YAML file
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOptions(data)
}

// ensureDefaultOptionsValues produces a copy of opts with defaults filled in
func ensureDefaultOptionsValues(opts *Options) *Options {
	res := &Options{}
	if opts != nil {
		*res = *opts
	}
	if len(res.AppName) == 0 {
		res.AppName = "sifread"
	}
	if len(res.LogLevel) == 0 {
		res.LogLevel = "info"
	}
	if len(res.WarehouseDir) == 0 {
		res.WarehouseDir = DefaultWarehouseDir
	}
	if res.LogOutput == nil {
		res.LogOutput = os.Stderr
	}
	readOptions := make(map[string]string, len(res.ReadOptions))
	for k, v := range res.ReadOptions {
		readOptions[k] = v
	}
	res.ReadOptions = readOptions
	return res
}
