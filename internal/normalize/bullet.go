package normalize

import (
	"regexp"
	"strings"

	"macroledger/internal/model"
)

// Upstream sometimes delivers a batch as bullet lines instead of structured
// records:
//
//	- Interest Rate: 3.75% (Dec-25)
//	- Monetary Policy Report Summary: Rates held at ... (Dec-25)
//
// ParseBulletText recovers candidates from that form. Lines that match
// neither pattern are ignored; the date is the bullet's Mon-YY period, which
// ParseDate resolves to the first of the month.

var (
	indicatorLine = regexp.MustCompile(`^-\s*(Interest Rate|CPIH \+/- MoM|GDP \+/- MoM):\s*(.*?)\s*\((\w{3}-\d{2})\)$`)
	reportLine    = regexp.MustCompile(`^-\s*(Monetary Policy Report|Financial Stability Report)\s*Summary:\s*(.*?)\s*\((\w{3}-\d{2})\)$`)
)

var indicatorNames = map[string]string{
	"Interest Rate": model.IndicatorInterestRate,
	"CPIH +/- MoM":  model.IndicatorCPIHMoM,
	"GDP +/- MoM":   model.IndicatorGDPMoM,
}

var reportNames = map[string]string{
	"Monetary Policy Report":     model.ReportMonetaryPolicy,
	"Financial Stability Report": model.ReportFinancialStability,
}

// ParseBulletText extracts candidates from bullet-formatted batch text.
func ParseBulletText(text string) []model.Candidate {
	candidates := make([]model.Candidate, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := indicatorLine.FindStringSubmatch(line); m != nil {
			candidates = append(candidates, model.Candidate{
				Key:   indicatorNames[m[1]],
				Value: strings.TrimSpace(m[2]),
				Date:  m[3],
			})
			continue
		}
		if m := reportLine.FindStringSubmatch(line); m != nil {
			candidates = append(candidates, model.Candidate{
				Key:   reportNames[m[1]],
				Value: strings.TrimSpace(m[2]),
				Date:  m[3],
			})
		}
	}
	return candidates
}
