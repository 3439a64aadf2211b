// Package region classifies store labels into coarse geographic regions.
//
// Store labels in the source system conventionally embed a site code: a run
// of two or more uppercase letters, usually a suffix ("Loja Centro-BO",
// "Matriz-MO"). The classifier extracts the first such run and resolves it
// against a fixed site-code table. Classification is pure and total: every
// input string, including the empty string, maps to exactly one region name.
package region

import "regexp"

// Unmapped is returned when the label carries no site code or the code is
// not in the table.
const Unmapped = "Não mapeado"

// Region names of the fixed partition.
const (
	Centro = "Centro"
	Norte  = "Norte"
	Sul    = "Sul"
	Leste  = "Leste"
)

// siteCodeRE matches the first maximal run of two or more uppercase
// letters anywhere in the label.
var siteCodeRE = regexp.MustCompile(`[A-Z]{2,}`)

// siteRegions is the site-code → region table. It mirrors the store
// network; codes absent here classify as Unmapped.
var siteRegions = map[string]string{
	// Centro
	"BO": Centro,
	"BC": Centro,
	"CA": Centro,
	"CE": Centro,
	"CP": Centro,
	"GT": Centro,
	"LP": Centro,
	"PQ": Centro,
	"SE": Centro,
	"VC": Centro,

	// Norte
	"AN": Norte,
	"BN": Norte,
	"CN": Norte,
	"FN": Norte,
	"JN": Norte,
	"NH": Norte,
	"NP": Norte,
	"RN": Norte,
	"TN": Norte,

	// Sul
	"AS": Sul,
	"BS": Sul,
	"CS": Sul,
	"GS": Sul,
	"IP": Sul,
	"JS": Sul,
	"MO": Sul,
	"PS": Sul,
	"SB": Sul,
	"SM": Sul,
	"VS": Sul,

	// Leste
	"AL": Leste,
	"EL": Leste,
	"IT": Leste,
	"JL": Leste,
	"LE": Leste,
	"ML": Leste,
	"PL": Leste,
	"TL": Leste,
}

// Classify resolves the region for a store label. It never fails: labels
// without a recognizable, mapped site code return Unmapped.
func Classify(storeLabel string) string {
	code := siteCodeRE.FindString(storeLabel)
	if code == "" {
		return Unmapped
	}
	if r, ok := siteRegions[code]; ok {
		return r
	}
	return Unmapped
}
