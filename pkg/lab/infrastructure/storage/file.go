package storage

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/hemalytics/labd/pkg/lab/application/model"
	"github.com/hemalytics/labd/pkg/lab/application/service"
)

type record struct {
	ID          string             `json:"id"`
	PatientID   string             `json:"patientId"`
	PatientName string             `json:"patientName"`
	Gender      string             `json:"gender,omitempty"`
	Age         int                `json:"age,omitempty"`
	Priority    string             `json:"priority"`
	Requested   []string           `json:"requested"`
	Results     map[string]float64 `json:"results"`
	ReceivedAt  time.Time          `json:"receivedAt"`
}

// NewFileStore opens the analysis store backed by a single JSON file,
// loading whatever the file already holds.
func NewFileStore(path string) (service.AnalysisStore, error) {
	store := &fileStore{path: path}
	err := store.load()
	if err != nil {
		return nil, err
	}
	return store, nil
}

type fileStore struct {
	path string

	mu       sync.RWMutex
	analyses []model.Analysis
}

func (store *fileStore) Append(_ context.Context, analysis model.Analysis) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.analyses = append(store.analyses, analysis)
	return store.persist()
}

func (store *fileStore) List(_ context.Context) ([]model.Analysis, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	out := make([]model.Analysis, len(store.analyses))
	copy(out, store.analyses)
	return out, nil
}

func (store *fileStore) ByPatient(_ context.Context, patientID model.PatientID) ([]model.Analysis, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	var out []model.Analysis
	for _, analysis := range store.analyses {
		if analysis.PatientID == patientID {
			out = append(out, analysis)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	return out, nil
}

func (store *fileStore) ByID(_ context.Context, id model.AnalysisID) (model.Analysis, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	for _, analysis := range store.analyses {
		if analysis.ID == id {
			return analysis, true, nil
		}
	}
	return model.Analysis{}, false, nil
}

func (store *fileStore) PurgeBefore(_ context.Context, cutoff time.Time) (int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	kept := make([]model.Analysis, 0, len(store.analyses))
	for _, analysis := range store.analyses {
		if !analysis.ReceivedAt.Before(cutoff) {
			kept = append(kept, analysis)
		}
	}
	purged := len(store.analyses) - len(kept)
	if purged == 0 {
		return 0, nil
	}
	previous := store.analyses
	store.analyses = kept
	err := store.persist()
	if err != nil {
		store.analyses = previous
		return 0, err
	}
	return purged, nil
}

func (store *fileStore) load() error {
	body, err := os.ReadFile(store.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read store file: %v", store.path)
	}
	var records []record
	err = json.Unmarshal(body, &records)
	if err != nil {
		return errors.Wrapf(err, "failed to unmarshal store file: %v", store.path)
	}
	store.analyses = make([]model.Analysis, 0, len(records))
	for _, r := range records {
		store.analyses = append(store.analyses, mapRecordToAnalysis(r))
	}
	return nil
}

func (store *fileStore) persist() error {
	records := make([]record, 0, len(store.analyses))
	for _, analysis := range store.analyses {
		records = append(records, mapAnalysisToRecord(analysis))
	}
	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal analyses")
	}
	err = os.WriteFile(store.path, body, 0o644)
	return errors.Wrapf(err, "failed to write store file: %v", store.path)
}

func mapAnalysisToRecord(analysis model.Analysis) record {
	return record{
		ID:          analysis.ID,
		PatientID:   analysis.PatientID,
		PatientName: analysis.PatientName,
		Gender:      string(analysis.Gender),
		Age:         analysis.Age,
		Priority:    string(analysis.Priority),
		Requested:   analysis.Requested,
		Results:     analysis.Results,
		ReceivedAt:  analysis.ReceivedAt,
	}
}

func mapRecordToAnalysis(r record) model.Analysis {
	return model.Analysis{
		ID:          r.ID,
		PatientID:   r.PatientID,
		PatientName: r.PatientName,
		Gender:      model.Gender(r.Gender),
		Age:         r.Age,
		Priority:    model.Priority(r.Priority),
		Requested:   r.Requested,
		Results:     r.Results,
		ReceivedAt:  r.ReceivedAt,
	}
}
