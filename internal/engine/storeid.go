package engine

// IdentifierVariants returns the identifier strings to try against the store
// catalog for a raw user-supplied store code. Store codes are historically
// fixed-width and sometimes lose a leading zero in transit, so 4- and
// 5-character codes are also tried with one zero prepended. Lookup matches
// any of id / noPL / noPR.
func IdentifierVariants(raw string) []string {
	variants := []string{raw}
	if len(raw) == 4 || len(raw) == 5 {
		variants = append(variants, "0"+raw)
	}
	return variants
}
