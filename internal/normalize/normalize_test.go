package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macroledger/internal/model"
)

func TestBatch_ValidIndicator(t *testing.T) {
	result := Batch([]model.Candidate{
		{Key: "interest_rate", Value: "3.75%", Date: "2025-12-17"},
	})

	require.Len(t, result.Records, 1)
	assert.Empty(t, result.Rejections)

	record := result.Records[0]
	assert.Equal(t, model.KindIndicator, record.Kind)
	assert.Equal(t, "interest_rate", record.Key)
	assert.Equal(t, "3.75%", record.Value)
	assert.Equal(t, time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC), record.Date)
	assert.Equal(t, "Dec-25", record.PeriodKey)
}

func TestBatch_ValidReport(t *testing.T) {
	result := Batch([]model.Candidate{
		{Key: "monetary_policy_report", Value: "Rates held at 3.75%.", Date: "2025-12-18"},
	})

	require.Len(t, result.Records, 1)
	assert.Equal(t, model.KindReport, result.Records[0].Kind)
	assert.Equal(t, "Dec-25", result.Records[0].PeriodKey)
}

func TestBatch_RejectionReasons(t *testing.T) {
	testCases := []struct {
		name      string
		candidate model.Candidate
		reason    model.RejectionReason
	}{
		{"unknown key", model.Candidate{Key: "unemployment_rate", Value: "4.1%", Date: "2025-12-01"}, model.RejectUnknownKey},
		{"empty value", model.Candidate{Key: "interest_rate", Value: "   ", Date: "2025-12-01"}, model.RejectMissingValue},
		{"placeholder value", model.Candidate{Key: "monetary_policy_report", Value: "Data not found.", Date: "2025-12-01"}, model.RejectMissingValue},
		{"unparseable date", model.Candidate{Key: "interest_rate", Value: "3.75%", Date: "sometime recently"}, model.RejectUnparseableDate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Batch([]model.Candidate{tc.candidate})
			assert.Empty(t, result.Records)
			require.Len(t, result.Rejections, 1)
			assert.Equal(t, tc.reason, result.Rejections[0].Reason)
			assert.Equal(t, tc.candidate, result.Rejections[0].Candidate)
		})
	}
}

func TestBatch_MixedBatchKeepsValidRecords(t *testing.T) {
	result := Batch([]model.Candidate{
		{Key: "interest_rate", Value: "3.75%", Date: "2025-12-17"},
		{Key: "interest_rate", Value: "3.75%", Date: "???"},
		{Key: "made_up", Value: "1", Date: "2025-12-17"},
		{Key: "gdp_mom", Value: "", Date: "2025-12-17"},
	})

	require.Len(t, result.Records, 1)
	assert.Equal(t, "interest_rate", result.Records[0].Key)
	assert.Len(t, result.Rejections, 3)
}

func TestBatch_PreservesInputOrder(t *testing.T) {
	result := Batch([]model.Candidate{
		{Key: "interest_rate", Value: "3.50%", Date: "2025-12-01"},
		{Key: "interest_rate", Value: "3.75%", Date: "2025-12-17"},
	})

	require.Len(t, result.Records, 2)
	assert.Equal(t, "3.50%", result.Records[0].Value)
	assert.Equal(t, "3.75%", result.Records[1].Value)
}

func TestBatch_MonYYDateMeansFirstOfMonth(t *testing.T) {
	result := Batch([]model.Candidate{
		{Key: "cpih_mom", Value: "+0.4%", Date: "Dec-25"},
	})

	require.Len(t, result.Records, 1)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), result.Records[0].Date)
	assert.Equal(t, "Dec-25", result.Records[0].PeriodKey)
}

func TestParseBulletText(t *testing.T) {
	text := `
- Interest Rate: 3.75% (Dec-25)
- CPIH +/- MoM: +0.4% (Dec-25)
- GDP +/- MoM: -0.1% (Nov-25)
- Monetary Policy Report Summary: Rates held; inflation easing (Dec-25)
- Financial Stability Report Summary: Data not found (Dec-25)
some unrelated line
`

	candidates := ParseBulletText(text)
	require.Len(t, candidates, 5)

	assert.Equal(t, model.Candidate{Key: "interest_rate", Value: "3.75%", Date: "Dec-25"}, candidates[0])
	assert.Equal(t, model.Candidate{Key: "cpih_mom", Value: "+0.4%", Date: "Dec-25"}, candidates[1])
	assert.Equal(t, model.Candidate{Key: "gdp_mom", Value: "-0.1%", Date: "Nov-25"}, candidates[2])
	assert.Equal(t, "monetary_policy_report", candidates[3].Key)
	assert.Equal(t, "Rates held; inflation easing", candidates[3].Value)

	// The placeholder summary parses as a candidate but is dropped during
	// normalization, not during text parsing.
	result := Batch(candidates)
	assert.Len(t, result.Records, 4)
	require.Len(t, result.Rejections, 1)
	assert.Equal(t, model.RejectMissingValue, result.Rejections[0].Reason)
}

func TestParseBulletText_Empty(t *testing.T) {
	assert.Empty(t, ParseBulletText(""))
	assert.Empty(t, ParseBulletText("nothing to see here"))
}
