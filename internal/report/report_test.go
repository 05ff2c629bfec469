package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macroledger/internal/model"
)

func TestLoad_MissingFileYieldsSkeleton(t *testing.T) {
	doc, fresh, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, model.EmptyDocument(), doc)
}

func TestLoad_CorruptFileYieldsSkeleton(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	doc, fresh, err := Load(path)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, model.EmptyDocument(), doc)
}

func TestLoad_NilMapsAreInitialized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"metadata":{"created_at":"2025-11-01","updated_at":"2025-12-01"}}`), 0o644))

	doc, fresh, err := Load(path)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.NotNil(t, doc.IndicatorSeries)
	assert.NotNil(t, doc.ReportSeries)
	assert.Equal(t, "2025-11-01", doc.Metadata.CreatedAt)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	doc := model.EmptyDocument()
	doc.Metadata = model.Metadata{CreatedAt: "2025-11-01", UpdatedAt: "2025-12-17"}
	doc.IndicatorSeries[model.IndicatorInterestRate] = []model.IndicatorEntry{
		{Value: "3.75%", DatePublished: "2025-12-17", PeriodKey: "Dec-25"},
	}
	doc.ReportSeries[model.ReportMonetaryPolicy] = []model.ReportEntry{
		{Summary: "Rates held.", ReportDate: "2025-12-18", PeriodKey: "Dec-25"},
	}

	require.NoError(t, Save(path, doc))

	loaded, fresh, err := Load(path)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, doc, loaded)
}

func TestSave_WireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	doc := model.EmptyDocument()
	doc.Metadata = model.Metadata{CreatedAt: "2025-11-01", UpdatedAt: "2025-12-17"}
	doc.IndicatorSeries[model.IndicatorInterestRate] = []model.IndicatorEntry{
		{Value: "3.75%", DatePublished: "2025-12-17", PeriodKey: "Dec-25"},
	}
	require.NoError(t, Save(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "metadata")
	require.Contains(t, raw, "indicator_series")
	require.Contains(t, raw, "report_series")

	series := raw["indicator_series"].(map[string]any)["interest_rate"].([]any)
	entry := series[0].(map[string]any)
	assert.Equal(t, "3.75%", entry["value"])
	assert.Equal(t, "2025-12-17", entry["date_published"])
	assert.Equal(t, "Dec-25", entry["period_key"])
}

func TestSave_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "report.json")
	require.NoError(t, Save(path, model.EmptyDocument()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSave_LeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, Save(path, model.EmptyDocument()))
	require.NoError(t, Save(path, model.EmptyDocument()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
