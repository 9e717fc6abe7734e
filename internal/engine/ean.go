package engine

import "regexp"

var (
	nonDigitRe    = regexp.MustCompile(`[^0-9]`)
	placeholderRe = regexp.MustCompile(`^0+$`)
)

// NormalizeEAN canonicalizes a product code for catalog lookup: strips
// non-digits, pads UPC-A to EAN-13 and rejects placeholder or check-digit
// invalid codes. Returns empty string for codes that should be skipped.
// Shorter internal codes pass through unchanged; the catalog knows them.
func NormalizeEAN(raw string) string {
	ean := nonDigitRe.ReplaceAllString(raw, "")
	if ean == "" || placeholderRe.MatchString(ean) {
		return ""
	}

	// UPC-A carries the same check digit, a leading zero makes it EAN-13.
	if len(ean) == 12 {
		ean = "0" + ean
	}
	if len(ean) != 13 {
		return ean
	}

	if !validEAN13CheckDigit(ean) {
		return ""
	}
	return ean
}

func validEAN13CheckDigit(ean string) bool {
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(ean[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return int(ean[12]-'0') == (10-(sum%10))%10
}
