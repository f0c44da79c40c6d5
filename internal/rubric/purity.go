package rubric

import (
	"unicode"

	"github.com/Jegama/cp-multilingual-qa-lab/pkg/utils"
)

// PurityPct is the share of letters in text that belong to script, as a
// percentage rounded to two decimals. Text without letters scores 0.
func PurityPct(text string, script Script) float64 {
	var letters, inScript int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if script.Contains(r) {
			inScript++
		}
	}
	if letters == 0 {
		return 0
	}
	return utils.RoundDecimal(float64(inScript)/float64(letters)*100, 2)
}

// PurityCeiling maps a purity percentage to the highest purity score it allows.
func PurityCeiling(pct float64) int {
	switch {
	case pct >= 98:
		return 5
	case pct >= 90:
		return 4
	case pct >= 75:
		return 3
	case pct >= 60:
		return 2
	default:
		return 1
	}
}
