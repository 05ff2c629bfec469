package model

type SeriesKind string

const (
	KindIndicator SeriesKind = "indicator"
	KindReport    SeriesKind = "report"
)

const (
	IndicatorInterestRate = "interest_rate"
	IndicatorCPIHMoM      = "cpih_mom"
	IndicatorGDPMoM       = "gdp_mom"
)

const (
	ReportMonetaryPolicy     = "monetary_policy_report"
	ReportFinancialStability = "financial_stability_report"
)

// TrackedIndicators returns the fixed indicator vocabulary in stable order.
func TrackedIndicators() []string {
	return []string{IndicatorInterestRate, IndicatorCPIHMoM, IndicatorGDPMoM}
}

// TrackedReports returns the fixed report vocabulary in stable order.
func TrackedReports() []string {
	return []string{ReportMonetaryPolicy, ReportFinancialStability}
}

func IsTrackedIndicator(key string) bool {
	switch key {
	case IndicatorInterestRate, IndicatorCPIHMoM, IndicatorGDPMoM:
		return true
	}
	return false
}

func IsTrackedReport(key string) bool {
	switch key {
	case ReportMonetaryPolicy, ReportFinancialStability:
		return true
	}
	return false
}

type Metadata struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type IndicatorEntry struct {
	Value         string `json:"value"`
	DatePublished string `json:"date_published"`
	PeriodKey     string `json:"period_key"`
}

type ReportEntry struct {
	Summary    string `json:"summary"`
	ReportDate string `json:"report_date"`
	PeriodKey  string `json:"period_key"`
}

// Document is the full persisted state: indicator and report histories plus
// run metadata. It is owned exclusively by one reconciliation run at a time.
type Document struct {
	Metadata        Metadata                    `json:"metadata"`
	IndicatorSeries map[string][]IndicatorEntry `json:"indicator_series"`
	ReportSeries    map[string][]ReportEntry    `json:"report_series"`
}

// EmptyDocument returns the skeleton used when no prior document exists or the
// existing one cannot be parsed. Tracked series are pre-seeded empty.
func EmptyDocument() *Document {
	doc := &Document{
		IndicatorSeries: make(map[string][]IndicatorEntry),
		ReportSeries:    make(map[string][]ReportEntry),
	}
	for _, key := range TrackedIndicators() {
		doc.IndicatorSeries[key] = []IndicatorEntry{}
	}
	for _, key := range TrackedReports() {
		doc.ReportSeries[key] = []ReportEntry{}
	}
	return doc
}
