package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrison/cardiorisk/internal/history"
	"github.com/harrison/cardiorisk/internal/models"
	"github.com/harrison/cardiorisk/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

func sampleForm() models.FormState {
	form := models.NewFormState()
	values := []string{"54", "1", "2", "130", "246", "0", "1", "150", "0", "1.5", "1", "0", "2"}
	for i, name := range models.FieldOrder {
		form[name] = values[i]
	}
	return form
}

// failingKV simulates unavailable storage.
type failingKV struct{}

func (failingKV) Get(string) (string, bool, error) { return "", false, storage.ErrUnavailable }
func (failingKV) Set(string, string) error { return storage.ErrUnavailable }

type recorderFunc func(ctx context.Context, a *models.PersistedAssessment) error

func (f recorderFunc) Record(ctx context.Context, a *models.PersistedAssessment) error {
	return f(ctx, a)
}

func TestPersistWritesThreeKeys(t *testing.T) {
	kv := storage.NewMemoryKV()
	bridge := NewBridge(kv, WithClock(func() time.Time { return fixedNow }))

	a, err := bridge.Persist(context.Background(), sampleForm(), models.PredictionResult{
		Label:      models.LabelHighRisk,
		Confidence: 0.82,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, 1, a.Prediction)
	assert.Equal(t, fixedNow, a.Timestamp)

	pred, ok, _ := kv.Get(KeyPrediction)
	require.True(t, ok)
	assert.Equal(t, "1", pred)

	prob, ok, _ := kv.Get(KeyProbability)
	require.True(t, ok)
	assert.Equal(t, "0.82", prob)

	blob, ok, _ := kv.Get(KeyResults)
	require.True(t, ok)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(blob), &decoded))
	assert.Equal(t, float64(1), decoded["prediction"])
	assert.Equal(t, 0.82, decoded["probability"])
	assert.Equal(t, "2026-10-15T14:30:00Z", decoded["timestamp"])
	formData, ok := decoded["formData"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "54", formData["age"])
	assert.Len(t, formData, models.FeatureCount)
}

func TestPersistThenLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		result     models.PredictionResult
		prediction int
	}{
		{"high risk", models.PredictionResult{Label: models.LabelHighRisk, Confidence: 0.9}, 1},
		{"low risk", models.PredictionResult{Label: models.LabelLowRisk, Confidence: 0.13}, 0},
		{"low risk zero confidence", models.PredictionResult{Label: models.LabelLowRisk}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := NewBridge(storage.NewMemoryKV(), WithClock(func() time.Time { return fixedNow }))
			form := sampleForm()

			stored, err := bridge.Persist(context.Background(), form, tt.result)
			require.NoError(t, err)

			loaded, ok := bridge.Load()
			require.True(t, ok)
			assert.Equal(t, stored.ID, loaded.ID)
			assert.Equal(t, tt.prediction, loaded.Prediction)
			assert.Equal(t, tt.result.Confidence, loaded.Probability)
			assert.Equal(t, form, loaded.Form)
			assert.True(t, fixedNow.Equal(loaded.Timestamp))
		})
	}
}

func TestPersistSnapshotsForm(t *testing.T) {
	bridge := NewBridge(storage.NewMemoryKV())
	form := sampleForm()

	_, err := bridge.Persist(context.Background(), form, models.PredictionResult{Label: models.LabelLowRisk})
	require.NoError(t, err)
	form[models.FieldAge] = "99"

	loaded, ok := bridge.Load()
	require.True(t, ok)
	assert.Equal(t, "54", loaded.Form[models.FieldAge])
}

func TestPersistOverwritesPrevious(t *testing.T) {
	bridge := NewBridge(storage.NewMemoryKV())

	_, err := bridge.Persist(context.Background(), sampleForm(), models.PredictionResult{Label: models.LabelHighRisk, Confidence: 0.7})
	require.NoError(t, err)
	second, err := bridge.Persist(context.Background(), sampleForm(), models.PredictionResult{Label: models.LabelLowRisk, Confidence: 0.2})
	require.NoError(t, err)

	loaded, ok := bridge.Load()
	require.True(t, ok)
	assert.Equal(t, second.ID, loaded.ID)
	assert.Equal(t, 0, loaded.Prediction)
}

func TestPersistStorageUnavailable(t *testing.T) {
	bridge := NewBridge(failingKV{})

	_, err := bridge.Persist(context.Background(), sampleForm(), models.PredictionResult{Label: models.LabelLowRisk})
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrUnavailable))
}

func TestLoadAbsent(t *testing.T) {
	t.Run("never written", func(t *testing.T) {
		a, ok := NewBridge(storage.NewMemoryKV()).Load()
		assert.False(t, ok)
		assert.Nil(t, a)
	})

	t.Run("storage unavailable", func(t *testing.T) {
		a, ok := NewBridge(failingKV{}).Load()
		assert.False(t, ok)
		assert.Nil(t, a)
	})

	t.Run("garbage scalar", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		require.NoError(t, kv.Set(KeyPrediction, "yes"))
		_, ok := NewBridge(kv).Load()
		assert.False(t, ok)
	})
}

func TestLoadRejectsUnknownPrediction(t *testing.T) {
	scalars := []string{"7", "-1", "0.9", "1.0", "2"}
	for _, raw := range scalars {
		t.Run("scalar "+raw, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			require.NoError(t, kv.Set(KeyPrediction, raw))
			require.NoError(t, kv.Set(KeyProbability, "0.5"))

			a, ok := NewBridge(kv).Load()
			assert.False(t, ok)
			assert.Nil(t, a)
		})
	}

	composites := []string{
		`{"prediction":7,"probability":0.5}`,
		`{"prediction":1,"probability":1.7}`,
		`{"prediction":0,"probability":-0.4}`,
	}
	for _, blob := range composites {
		t.Run("composite "+blob, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			require.NoError(t, kv.Set(KeyResults, blob))

			_, ok := NewBridge(kv).Load()
			assert.False(t, ok)
		})
	}

	t.Run("invalid composite falls back to valid scalars", func(t *testing.T) {
		kv := storage.NewMemoryKV()
		require.NoError(t, kv.Set(KeyResults, `{"prediction":7,"probability":0.5}`))
		require.NoError(t, kv.Set(KeyPrediction, "0"))
		require.NoError(t, kv.Set(KeyProbability, "0.25"))

		a, ok := NewBridge(kv).Load()
		require.True(t, ok)
		assert.Equal(t, 0, a.Prediction)
		assert.Equal(t, 0.25, a.Probability)
	})
}

func TestLoadFallsBackToScalars(t *testing.T) {
	tests := []struct {
		name        string
		blob        string
		prob        string
		prediction  int
		probability float64
	}{
		{"no composite", "", "0.756", 1, 0.756},
		{"corrupt composite", "{not json", "0.4", 1, 0.4},
		{"missing probability", "", "", 1, 0},
		{"unparseable probability", "", "abc", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			require.NoError(t, kv.Set(KeyPrediction, "1"))
			if tt.prob != "" {
				require.NoError(t, kv.Set(KeyProbability, tt.prob))
			}
			if tt.blob != "" {
				require.NoError(t, kv.Set(KeyResults, tt.blob))
			}

			a, ok := NewBridge(kv).Load()
			require.True(t, ok)
			assert.Equal(t, tt.prediction, a.Prediction)
			assert.InDelta(t, tt.probability, a.Probability, 1e-9)
			assert.Nil(t, a.Form)
		})
	}
}

func TestLoadReadsBrowserWrittenRecord(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(KeyResults,
		`{"prediction":0,"probability":0.31,"formData":{"age":"40"},"timestamp":"2025-03-01T10:00:00.000Z"}`))

	a, ok := NewBridge(kv).Load()
	require.True(t, ok)
	assert.Equal(t, 0, a.Prediction)
	assert.Equal(t, 0.31, a.Probability)
	assert.Equal(t, "40", a.Form[models.FieldAge])
	assert.Equal(t, "", a.Form[models.FieldThal])
	assert.Equal(t, 2025, a.Timestamp.Year())
}

func TestPersistRecordsHistory(t *testing.T) {
	var recorded *models.PersistedAssessment
	bridge := NewBridge(storage.NewMemoryKV(), WithRecorder(recorderFunc(func(ctx context.Context, a *models.PersistedAssessment) error {
		recorded = a
		return nil
	})))

	a, err := bridge.Persist(context.Background(), sampleForm(), models.PredictionResult{Label: models.LabelHighRisk, Confidence: 0.6})
	require.NoError(t, err)
	require.NotNil(t, recorded)
	assert.Equal(t, a.ID, recorded.ID)
}

func TestPersistIgnoresHistoryFailure(t *testing.T) {
	bridge := NewBridge(storage.NewMemoryKV(), WithRecorder(recorderFunc(func(ctx context.Context, a *models.PersistedAssessment) error {
		return errors.New("database is locked")
	})))

	_, err := bridge.Persist(context.Background(), sampleForm(), models.PredictionResult{Label: models.LabelLowRisk})
	assert.NoError(t, err)

	_, ok := bridge.Load()
	assert.True(t, ok)
}

func TestFileStorageWithHistory(t *testing.T) {
	dir := t.TempDir()
	store, err := history.NewStore(filepath.Join(dir, "history", "assessments.db"))
	require.NoError(t, err)
	defer store.Close()

	kv := storage.NewFileKV(filepath.Join(dir, "storage.json"))
	bridge := NewBridge(kv, WithRecorder(store))

	a, err := bridge.Persist(context.Background(), sampleForm(), models.PredictionResult{Label: models.LabelHighRisk, Confidence: 0.77})
	require.NoError(t, err)

	// A fresh bridge over the same file sees the record.
	loaded, ok := NewBridge(storage.NewFileKV(kv.Path())).Load()
	require.True(t, ok)
	assert.Equal(t, a.ID, loaded.ID)

	recent, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, a.ID, recent[0].ID)
}
