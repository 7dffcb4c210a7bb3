package sheet

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu     sync.RWMutex
	sheets map[string]AnswerSheet
	keys   map[string]AnswerKey
}

// NewInMemoryStore returns a Store backed by process memory. Used in tests and
// for running the gateway without a database.
func NewInMemoryStore() Store {
	return &memoryStore{
		sheets: map[string]AnswerSheet{},
		keys:   map[string]AnswerKey{},
	}
}

func (m *memoryStore) CreateSheet(_ context.Context, a AnswerSheet) (AnswerSheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.Marks == nil {
		a.Marks = map[string]int{}
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.UploadedAt == 0 {
		a.UploadedAt = time.Now().Unix()
	}
	m.sheets[a.ID] = a
	return cloneSheet(a), nil
}

func (m *memoryStore) GetSheet(_ context.Context, id string) (AnswerSheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.sheets[id]
	if !ok {
		return AnswerSheet{}, ErrSheetNotFound
	}
	return cloneSheet(a), nil
}

func (m *memoryStore) ListSheets(_ context.Context, opts ListOpts) ([]AnswerSheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []AnswerSheet
	for _, a := range m.sheets {
		if opts.StudentID != "" && a.StudentID != opts.StudentID {
			continue
		}
		if opts.ExamCode != "" && a.ExamCode != opts.ExamCode {
			continue
		}
		if opts.AnswerType != "" && a.AnswerType != opts.AnswerType {
			continue
		}
		if opts.Status != "" && a.Status != opts.Status {
			continue
		}
		out = append(out, cloneSheet(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt != out[j].UploadedAt {
			return out[i].UploadedAt > out[j].UploadedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memoryStore) SaveProgress(_ context.Context, id string, marks map[string]int) (AnswerSheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.sheets[id]
	if !ok {
		return AnswerSheet{}, ErrSheetNotFound
	}
	if a.Marks == nil {
		a.Marks = map[string]int{}
	}
	for k, v := range marks {
		a.Marks[k] = v
	}
	m.sheets[id] = a
	return cloneSheet(a), nil
}

func (m *memoryStore) SubmitEvaluation(_ context.Context, id string, marks map[string]int, gradedBy string) (AnswerSheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.sheets[id]
	if !ok {
		return AnswerSheet{}, ErrSheetNotFound
	}
	total := 0
	replaced := make(map[string]int, len(marks))
	for k, v := range marks {
		replaced[k] = v
		total += v
	}
	a.Marks = replaced
	a.TotalMarks = total
	a.Status = StatusEvaluated
	a.EvaluationMethod = MethodManual
	a.EvaluatedAt = time.Now().Unix()
	a.EvaluatedBy = gradedBy
	m.sheets[id] = a
	return cloneSheet(a), nil
}

func (m *memoryStore) UpdateSheet(_ context.Context, a AnswerSheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[a.ID]; !ok {
		return ErrSheetNotFound
	}
	m.sheets[a.ID] = cloneSheet(a)
	return nil
}

func (m *memoryStore) UpsertKey(_ context.Context, k AnswerKey) (AnswerKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().Unix()
	if k.AnswerType == "" {
		k.AnswerType = TypeObjective
	}
	if existing, ok := m.keys[k.ExamCode]; ok {
		k.CreatedAt = existing.CreatedAt
		k.CreatedBy = existing.CreatedBy
	} else {
		k.CreatedAt = now
	}
	k.UpdatedAt = now
	m.keys[k.ExamCode] = k
	return k, nil
}

func (m *memoryStore) GetKey(_ context.Context, examCode string) (AnswerKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k, ok := m.keys[examCode]
	if !ok {
		return AnswerKey{}, ErrKeyNotFound
	}
	return k, nil
}

func cloneSheet(a AnswerSheet) AnswerSheet {
	out := a
	out.StructuredAnswers = append([]StructuredAnswer(nil), a.StructuredAnswers...)
	out.SummarizedAnswers = append([]SummarizedAnswer(nil), a.SummarizedAnswers...)
	out.Marks = make(map[string]int, len(a.Marks))
	for k, v := range a.Marks {
		out.Marks[k] = v
	}
	return out
}
