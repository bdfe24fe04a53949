package writer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/logging"
	"github.com/mitchellh/mapstructure"
)

// Save modes
const (
	ModeErrorIfExists = "errorifexists"
	ModeOverwrite     = "overwrite"
	ModeAppend        = "append"
	ModeIgnore        = "ignore"
)

// Options are the recognized write options, matched case-insensitively
type Options struct {
	Header    bool   `mapstructure:"header"`
	Sep       string `mapstructure:"sep"`
	NullValue string `mapstructure:"nullvalue"`
}

func parseMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "error", "errorifexists", "default":
		return ModeErrorIfExists, nil
	case ModeOverwrite:
		return ModeOverwrite, nil
	case ModeAppend:
		return ModeAppend, nil
	case ModeIgnore:
		return ModeIgnore, nil
	}
	return "", &errors.InvalidOptionError{
		Option: "mode",
		Value:  mode,
		Reason: "must be one of errorifexists, overwrite, append or ignore",
	}
}

func decodeOptions(raw map[string]string, logger *logging.Logger) (*Options, error) {
	opts := &Options{Sep: ","}
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           opts,
	})
	if err != nil {
		return nil, err
	}
	values := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		values[k] = v
	}
	if err := decoder.Decode(values); err != nil {
		return nil, &errors.InvalidOptionError{Option: "header", Value: raw["header"], Reason: err.Error()}
	}
	sort.Strings(md.Unused)
	for _, k := range md.Unused {
		logger.Warnf("Ignoring unrecognized write option %s", k)
	}
	if opts.Sep == `\t` {
		opts.Sep = "\t"
	}
	if utf8.RuneCountInString(opts.Sep) != 1 {
		return nil, &errors.InvalidOptionError{Option: "sep", Value: opts.Sep, Reason: "must be a single character"}
	}
	return opts, nil
}

func (o *Options) delimiter() rune {
	r, _ := utf8.DecodeRuneInString(o.Sep)
	return r
}
