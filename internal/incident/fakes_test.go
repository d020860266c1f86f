package incident

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"rakshak-service/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memRepo struct {
	mu        sync.Mutex
	incidents map[primitive.ObjectID]*Incident
	createErr error
	lastQuery Query
}

func newMemRepo() *memRepo {
	return &memRepo{incidents: map[primitive.ObjectID]*Incident{}}
}

func (m *memRepo) Create(_ context.Context, inc *Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	inc.ID = primitive.NewObjectID()
	cp := inc.Clone()
	m.incidents[inc.ID] = &cp
	return nil
}

func (m *memRepo) Find(_ context.Context, q Query) ([]*Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = q
	out := make([]*Incident, 0)
	for _, inc := range m.incidents {
		if q.Category != "" && inc.Category != q.Category {
			continue
		}
		if q.Status != "" && inc.Status != q.Status {
			continue
		}
		if q.Priority != "" && inc.Priority != q.Priority {
			continue
		}
		if q.Box != nil {
			if inc.Location.Latitude < q.Box.MinLat || inc.Location.Latitude > q.Box.MaxLat {
				continue
			}
			if !q.Box.WrapsLon && (inc.Location.Longitude < q.Box.MinLon || inc.Location.Longitude > q.Box.MaxLon) {
				continue
			}
		}
		cp := inc.Clone()
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) FindByID(_ context.Context, id primitive.ObjectID) (*Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inc, ok := m.incidents[id]
	if !ok {
		return nil, nil
	}
	cp := inc.Clone()
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, id primitive.ObjectID, patch Patch) (*Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inc, ok := m.incidents[id]
	if !ok {
		return nil, nil
	}
	if patch.Status != nil {
		inc.Status = *patch.Status
	}
	if patch.Notes != nil {
		if *patch.Notes == "" {
			inc.ModeratorNotes = nil
		} else {
			v := *patch.Notes
			inc.ModeratorNotes = &v
		}
	}
	inc.UpdatedAt = patch.UpdatedAt
	cp := inc.Clone()
	return &cp, nil
}

func (m *memRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.incidents, id)
	return nil
}

func (m *memRepo) CountGroups(_ context.Context) ([]GroupCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[GroupCount]int{}
	for _, inc := range m.incidents {
		counts[GroupCount{Category: inc.Category, Status: inc.Status, Priority: inc.Priority}]++
	}
	out := make([]GroupCount, 0, len(counts))
	for k, n := range counts {
		k.Count = n
		out = append(out, k)
	}
	return out, nil
}

func (m *memRepo) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.incidents)
}

type memBlobs struct {
	mu        sync.Mutex
	files     map[string]bool
	deleteErr error
	deleted   []string
}

func newMemBlobs() *memBlobs {
	return &memBlobs{files: map[string]bool{}}
}

func (b *memBlobs) Save(_ context.Context, f storage.File) (string, error) {
	if _, err := storage.ValidateImage(f, storage.DefaultMaxBytes); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ref := "/uploads/" + f.Name
	b.files[ref] = true
	return ref, nil
}

func (b *memBlobs) Delete(_ context.Context, ref string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, ref)
	if b.deleteErr != nil {
		return b.deleteErr
	}
	delete(b.files, ref)
	return nil
}

type staticAvailability bool

func (a staticAvailability) Available() bool { return bool(a) }

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []dispatchCall
}

type dispatchCall struct {
	tenant   string
	incident Incident
}

func (d *recordingDispatcher) DispatchSOS(tenant string, inc Incident) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatchCall{tenant: tenant, incident: inc})
}

type testEnv struct {
	repo       *memRepo
	blobs      *memBlobs
	dispatcher *recordingDispatcher
	svc        *incidentService
}

func newTestEnv(available bool) *testEnv {
	env := &testEnv{
		repo:       newMemRepo(),
		blobs:      newMemBlobs(),
		dispatcher: &recordingDispatcher{},
	}
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	env.svc = &incidentService{
		repo:         env.repo,
		blobs:        env.blobs,
		availability: staticAvailability(available),
		dispatcher:   env.dispatcher,
		logger:       zap.NewNop().Sugar(),
		now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	}
	return env
}

var errBoom = errors.New("boom")
