// Package config holds the engine configuration consumed by the
// lexer, parser, evaluator, and kernels (spec §3.5).
package config

// Mode selects the formula dialect the lexer, parser, and function
// registry are built for.
type Mode int

const (
	// Default is the engine's native dialect.
	Default Mode = iota
	// GoogleSheets imitates the named reference spreadsheet product.
	GoogleSheets
)

// Whitespace controls how aggressively the lexer absorbs whitespace
// between tokens.
type Whitespace int

const (
	WhitespaceOff Whitespace = iota
	WhitespaceStandard
	WhitespaceAll
)

// Config enumerates the recognized options relevant to the core.
// Zero value is NOT valid for direct use; build one with New or
// NewGoogleSheets.
type Config struct {
	CompatibilityMode Mode
	ArgSeparator      rune
	ArrayColSeparator rune
	ArrayRowSeparator rune
	DecimalSeparator  rune
	MaxRows           uint32
	MaxCols           uint32
	Locale            string
	DateFormats       []string
	CurrencySymbols   []string
	IgnoreWhitespace  Whitespace
}

// New returns the engine's default-dialect configuration.
func New() *Config {
	return &Config{
		CompatibilityMode: Default,
		ArgSeparator:      ',',
		ArrayColSeparator: ',',
		ArrayRowSeparator: ';',
		DecimalSeparator:  '.',
		MaxRows:           1048576,
		MaxCols:           16384,
		Locale:            "en-US",
		DateFormats:       []string{"MM/DD/YYYY"},
		CurrencySymbols:   []string{"$", "USD"},
		IgnoreWhitespace:  WhitespaceStandard,
	}
}

// NewGoogleSheets returns a Config in google_sheets compatibility
// mode with every unset field defaulted per spec §3.5.
func NewGoogleSheets() *Config {
	c := New()
	c.CompatibilityMode = GoogleSheets
	c.DecimalSeparator = '.'
	c.DateFormats = []string{"MM/DD/YYYY", "MM/DD/YY", "YYYY/MM/DD"}
	c.Locale = "en-US"
	c.CurrencySymbols = []string{"$", "USD"}
	c.ArgSeparator = ','
	c.IgnoreWhitespace = WhitespaceStandard
	return c
}

// IsGoogleSheets reports whether c imitates the Google Sheets dialect.
func (c *Config) IsGoogleSheets() bool {
	return c != nil && c.CompatibilityMode == GoogleSheets
}
