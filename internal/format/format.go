// Package format renders plain numbers using Excel-style number
// format strings, parsed with github.com/xuri/nfp. It backs the
// DOLLAR and FIXED kernels and the display side of Number subtypes;
// it never parses text back into numbers.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/xuri/nfp"
)

// Number renders val with decimals fractional digits (negative
// decimals round to a power of ten before rendering with zero
// fractional digits) and en-US thousands grouping, optionally
// prefixed by a currency symbol. This is the shared body behind the
// DOLLAR and FIXED kernels (spec §4.13): it builds an Excel-style
// format code from its arguments and hands it to Render, the same
// division of labor a caller driving an arbitrary user-supplied format
// code would use directly.
func Number(val float64, decimals int, currencySymbol string, grouped bool) string {
	neg := val < 0
	if neg {
		val = -val
	}
	if decimals < 0 {
		scale := math.Pow(10, float64(-decimals))
		val = math.Round(val/scale) * scale
		decimals = 0
	}
	pattern := buildPattern(decimals, grouped, currencySymbol)
	rendered := Render(val, pattern)
	if neg {
		return "-" + rendered
	}
	return rendered
}

func buildPattern(decimals int, grouped bool, currencySymbol string) string {
	var b strings.Builder
	b.WriteString(currencySymbol)
	if grouped {
		b.WriteString("#,##0")
	} else {
		b.WriteString("0")
	}
	if decimals > 0 {
		b.WriteByte('.')
		b.WriteString(strings.Repeat("0", decimals))
	}
	return b.String()
}

// Render formats the non-negative val against an Excel-style
// number-format code (e.g. "$#,##0.00", "0.000", "#,##0") parsed with
// nfp, following the same pass-1-collect-metadata/pass-2-reassemble
// shape as TsubasaBE/go-xlsb's numfmt.renderNumber: the fraction-digit
// count and the thousands-grouping decision are read back from the
// parsed token stream itself, not re-supplied by the caller, so a
// pattern this package has never seen before (a custom format code
// from Config, or anything else a caller assembles) renders correctly
// without Render special-casing its shape in advance.
func Render(val float64, pattern string) string {
	parser := nfp.NumberFormatParser()
	sections := parser.Parse(pattern)
	if len(sections) == 0 {
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	sec := sections[0]

	var decZeros, decHashes, intZeros int
	var hasDecimal, hasThousands bool
	var prefix strings.Builder
	afterDecimal := false
	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypeDecimalPoint:
			hasDecimal = true
			afterDecimal = true
		case nfp.TokenTypeThousandsSeparator:
			hasThousands = true
		case nfp.TokenTypeZeroPlaceHolder:
			if afterDecimal {
				decZeros += len(tok.TValue)
			} else {
				intZeros += len(tok.TValue)
			}
		case nfp.TokenTypeHashPlaceHolder:
			if afterDecimal {
				decHashes += len(tok.TValue)
			}
		case nfp.TokenTypeLiteral:
			if !afterDecimal {
				prefix.WriteString(tok.TValue)
			}
		}
	}
	decimals := decZeros + decHashes

	var intStr, fracStr string
	if hasDecimal {
		formatted := strconv.FormatFloat(val, 'f', decimals, 64)
		if idx := strings.IndexByte(formatted, '.'); idx >= 0 {
			intStr, fracStr = formatted[:idx], formatted[idx+1:]
		} else {
			intStr, fracStr = formatted, strings.Repeat("0", decimals)
		}
	} else {
		intStr = strconv.FormatFloat(val, 'f', 0, 64)
	}
	for len(intStr) < intZeros {
		intStr = "0" + intStr
	}
	if hasThousands {
		intStr = groupThousands(intStr)
	}

	var out strings.Builder
	out.WriteString(prefix.String())
	out.WriteString(intStr)
	if hasDecimal {
		out.WriteByte('.')
		out.WriteString(fracStr)
	}
	return out.String()
}

func groupThousands(intPart string) string {
	n := len(intPart)
	if n <= 3 {
		return intPart
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String()
}
