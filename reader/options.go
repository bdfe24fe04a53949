package reader

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource/parser"
	"github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/logging"
	"github.com/mitchellh/mapstructure"
)

// Options are the recognized read options. Keys are matched case-insensitively, and
// values are decoded weakly, so "true", "1" and true are all acceptable booleans.
type Options struct {
	Header                    bool    `mapstructure:"header"`
	InferSchema               bool    `mapstructure:"inferschema"`
	Sep                       string  `mapstructure:"sep"`
	Delimiter                 string  `mapstructure:"delimiter"`
	Mode                      string  `mapstructure:"mode"`
	BadRecordsPath            string  `mapstructure:"badrecordspath"`
	SkipRows                  int     `mapstructure:"skiprows"`
	ColumnNameOfCorruptRecord string  `mapstructure:"columnnameofcorruptrecord"`
	NullValue                 string  `mapstructure:"nullvalue"`
	Comment                   string  `mapstructure:"comment"`
	SamplingRatio             float64 `mapstructure:"samplingratio"`
	TimestampFormat           string  `mapstructure:"timestampformat"`
	DateFormat                string  `mapstructure:"dateformat"`
	PartitionSize             int     `mapstructure:"partitionsize"`
}

func defaultOptions() *Options {
	return &Options{
		Sep:                       ",",
		Mode:                      string(sifread.PermissiveMode),
		ColumnNameOfCorruptRecord: sifread.DefaultCorruptRecordColumn,
		SamplingRatio:             1.0,
		TimestampFormat:           time.RFC3339,
		DateFormat:                sifread.DefaultDateFormat,
		PartitionSize:             parser.DefaultPartitionSize,
	}
}

func decodeInto(values map[string]interface{}, opts *Options) ([]string, error) {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           opts,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return nil, err
	}
	return md.Unused, nil
}

// decodeOptions decodes raw option values, whose keys must already be lower case.
// Unrecognized options are ignored with a warning.
func decodeOptions(raw map[string]string, logger *logging.Logger) (*Options, error) {
	keys := make([]string, 0, len(raw))
	values := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		keys = append(keys, k)
		values[k] = v
	}
	sort.Strings(keys)
	opts := defaultOptions()
	unused, err := decodeInto(values, opts)
	if err != nil {
		// find the first offending option, for a precise error
		for _, k := range keys {
			if _, kerr := decodeInto(map[string]interface{}{k: raw[k]}, defaultOptions()); kerr != nil {
				return nil, &errors.InvalidOptionError{Option: k, Value: raw[k], Reason: "cannot be decoded"}
			}
		}
		return nil, err
	}
	sort.Strings(unused)
	for _, k := range unused {
		logger.Warnf("Ignoring unrecognized read option %s", k)
	}
	if _, ok := raw["delimiter"]; ok {
		if _, hasSep := raw["sep"]; !hasSep {
			opts.Sep = opts.Delimiter
		}
	}
	return opts, opts.validate(raw, logger)
}

func (o *Options) validate(raw map[string]string, logger *logging.Logger) error {
	if _, err := o.delimiter(); err != nil {
		return err
	}
	if _, err := o.comment(); err != nil {
		return err
	}
	if o.SkipRows < 0 {
		return &errors.InvalidOptionError{Option: "skiprows", Value: raw["skiprows"], Reason: "must not be negative"}
	}
	if o.PartitionSize <= 0 {
		return &errors.InvalidOptionError{Option: "partitionsize", Value: raw["partitionsize"], Reason: "must be positive"}
	}
	if o.SamplingRatio <= 0 || o.SamplingRatio > 1 {
		return &errors.InvalidOptionError{Option: "samplingratio", Value: raw["samplingratio"], Reason: "must be in the range (0, 1]"}
	}
	if len(o.ColumnNameOfCorruptRecord) == 0 {
		return &errors.InvalidOptionError{Option: "columnnameofcorruptrecord", Value: "", Reason: "must not be empty"}
	}
	if _, ok := sifread.ParseModeFromString(o.Mode); !ok {
		logger.Warnf("Unknown parse mode %q, using %s", o.Mode, sifread.PermissiveMode)
	}
	return nil
}

// unescape interprets the escape sequences permitted in single-character options
func unescape(s string) string {
	switch s {
	case `\t`:
		return "\t"
	case `\u0001`:
		return "\u0001"
	}
	return s
}

func singleRune(option string, value string) (rune, error) {
	s := unescape(value)
	if utf8.RuneCountInString(s) != 1 {
		return 0, &errors.InvalidOptionError{Option: option, Value: value, Reason: "must be a single character"}
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '\n' || r == '\r' || r == '"' {
		return 0, &errors.InvalidOptionError{Option: option, Value: value, Reason: fmt.Sprintf("cannot be %q", r)}
	}
	return r, nil
}

func (o *Options) delimiter() (rune, error) {
	return singleRune("sep", o.Sep)
}

// comment returns the comment character, or 0 if there is none
func (o *Options) comment() (rune, error) {
	if len(o.Comment) == 0 {
		return 0, nil
	}
	r, err := singleRune("comment", o.Comment)
	if err != nil {
		return 0, err
	}
	if d, _ := o.delimiter(); d == r {
		return 0, &errors.InvalidOptionError{Option: "comment", Value: o.Comment, Reason: "cannot be the same as the delimiter"}
	}
	return r, nil
}

func (o *Options) mode() sifread.ParseMode {
	mode, _ := sifread.ParseModeFromString(o.Mode)
	return mode
}

func (o *Options) formats() parser.Formats {
	return parser.Formats{TimestampFormat: o.TimestampFormat, DateFormat: o.DateFormat}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
