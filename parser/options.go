package parser

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Options struct {
	// EcmaVersion is 3, 5, 6, 7, 8 or 9, or the matching year (2015-2018).
	// Zero selects 9.
	EcmaVersion int
	// SourceType is "script" or "module". Module code is strict and may
	// use import and export.
	SourceType                  string
	AllowReserved               AllowReserved
	AllowReturnOutsideFunction  bool
	AllowImportExportEverywhere bool
	AllowHashBang               bool
	// Locations attaches line/column information to every node.
	Locations bool
	// Ranges attaches a [start, end] pair to every node.
	Ranges         bool
	SourceFile     string
	PreserveParens bool
	// Plugins enables registered plugins by name.
	Plugins map[string]bool
	// Logger receives debug traces. Nil means no logging.
	Logger *zap.Logger
}

type AllowReserved uint8

const (
	// ALLOW_RESERVED_DEFAULT allows reserved words as identifiers only for ES3.
	ALLOW_RESERVED_DEFAULT AllowReserved = iota
	ALLOW_RESERVED_TRUE
	ALLOW_RESERVED_FALSE
	ALLOW_RESERVED_NEVER
)

const defaultEcmaVersion = 9

var DefaultOptions = Options{
	EcmaVersion:                 defaultEcmaVersion,
	SourceType:                  "script",
	AllowReserved:               ALLOW_RESERVED_DEFAULT,
	AllowReturnOutsideFunction:  false,
	AllowImportExportEverywhere: false,
	AllowHashBang:               false,
	Locations:                   false,
	Ranges:                      false,
	PreserveParens:              false,
}

// GetOptions fills the zero fields of opts from DefaultOptions and
// normalizes the version and reserved-word settings. opts is not modified.
func GetOptions(opts *Options) (*Options, error) {
	options := DefaultOptions
	if opts != nil {
		options = *opts
	}

	switch v := options.EcmaVersion; {
	case v == 0:
		options.EcmaVersion = defaultEcmaVersion
	case v >= 2015:
		options.EcmaVersion = v - 2009
	}
	switch options.EcmaVersion {
	case 3, 5, 6, 7, 8, 9:
	default:
		return nil, errors.Errorf("unsupported ecmaVersion %d", options.EcmaVersion)
	}

	switch options.SourceType {
	case "":
		options.SourceType = "script"
	case "script", "module":
	default:
		return nil, errors.Errorf("unknown sourceType %q", options.SourceType)
	}

	if options.AllowReserved == ALLOW_RESERVED_DEFAULT {
		if options.EcmaVersion >= 5 {
			options.AllowReserved = ALLOW_RESERVED_FALSE
		} else {
			options.AllowReserved = ALLOW_RESERVED_TRUE
		}
	}

	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	plugins := make(map[string]bool, len(options.Plugins))
	for name, on := range options.Plugins {
		plugins[name] = on
	}
	options.Plugins = plugins

	return &options, nil
}
