// Package configio loads a config.Config from YAML, the way
// aretext/aretext loads its own rule configuration. This is an
// ambient convenience around the core, not something the core or its
// tests depend on.
package configio

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gscompat/formulacore/config"
)

// file mirrors config.Config field-for-field using YAML-friendly tag
// names and string encodings for the rune/enum fields.
type file struct {
	CompatibilityMode string   `yaml:"compatibility_mode"`
	ArgSeparator      string   `yaml:"arg_separator"`
	ArrayColSeparator string   `yaml:"array_col_separator"`
	ArrayRowSeparator string   `yaml:"array_row_separator"`
	DecimalSeparator  string   `yaml:"decimal_separator"`
	MaxRows           uint32   `yaml:"max_rows"`
	MaxCols           uint32   `yaml:"max_cols"`
	Locale            string   `yaml:"locale"`
	DateFormats       []string `yaml:"date_formats"`
	CurrencySymbols   []string `yaml:"currency_symbols"`
	IgnoreWhitespace  string   `yaml:"ignore_whitespace"`
}

// Load reads path and builds a config.Config, starting from
// config.New (or config.NewGoogleSheets, when compatibility_mode is
// "google_sheets") and overlaying whatever fields the file sets.
func Load(path string) (*config.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "configio: reading %s", path)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "configio: parsing %s", path)
	}

	var c *config.Config
	if f.CompatibilityMode == "google_sheets" {
		c = config.NewGoogleSheets()
	} else {
		c = config.New()
	}

	if f.ArgSeparator != "" {
		c.ArgSeparator = firstRune(f.ArgSeparator)
	}
	if f.ArrayColSeparator != "" {
		c.ArrayColSeparator = firstRune(f.ArrayColSeparator)
	}
	if f.ArrayRowSeparator != "" {
		c.ArrayRowSeparator = firstRune(f.ArrayRowSeparator)
	}
	if f.DecimalSeparator != "" {
		c.DecimalSeparator = firstRune(f.DecimalSeparator)
	}
	if f.MaxRows != 0 {
		c.MaxRows = f.MaxRows
	}
	if f.MaxCols != 0 {
		c.MaxCols = f.MaxCols
	}
	if f.Locale != "" {
		c.Locale = f.Locale
	}
	if len(f.DateFormats) > 0 {
		c.DateFormats = f.DateFormats
	}
	if len(f.CurrencySymbols) > 0 {
		c.CurrencySymbols = f.CurrencySymbols
	}
	switch f.IgnoreWhitespace {
	case "off":
		c.IgnoreWhitespace = config.WhitespaceOff
	case "all":
		c.IgnoreWhitespace = config.WhitespaceAll
	case "standard":
		c.IgnoreWhitespace = config.WhitespaceStandard
	}
	return c, nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
