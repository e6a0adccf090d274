package qdrant

import (
	"context"
	"errors"
	"sync"

	qdrant "github.com/qdrant/go-client/qdrant"
)

type fakeCollection struct {
	size     uint64
	distance qdrant.Distance
	status   qdrant.CollectionStatus
	points   []*qdrant.RetrievedPoint
}

// fakeAPI is an in-memory API. Points keep insertion order; Scroll pages by
// position starting at the offset id.
type fakeAPI struct {
	mu           sync.Mutex
	collections  map[string]*fakeCollection
	failures     map[string]error
	upsertStatus qdrant.UpdateStatus
	upserts      []*qdrant.UpsertPoints
	scrolls      []*qdrant.ScrollPoints
	queries      []*qdrant.QueryPoints
	queryResult  []*qdrant.ScoredPoint
	omitCount    bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		collections:  map[string]*fakeCollection{},
		failures:     map[string]error{},
		upsertStatus: qdrant.UpdateStatus_Completed,
	}
}

func (f *fakeAPI) fail(method string) error {
	return f.failures[method]
}

func (f *fakeAPI) ListCollections(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListCollections"); err != nil {
		return nil, err
	}
	var names []string
	for name := range f.collections {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeAPI) CollectionExists(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CollectionExists"); err != nil {
		return false, err
	}
	_, ok := f.collections[name]
	return ok, nil
}

func (f *fakeAPI) GetCollectionInfo(ctx context.Context, name string) (*qdrant.CollectionInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collections[name]
	if !ok {
		return nil, errors.New("collection not found")
	}
	info := &qdrant.CollectionInfo{
		Status: c.status,
		Config: &qdrant.CollectionConfig{
			Params: &qdrant.CollectionParams{
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{Size: c.size, Distance: c.distance}),
			},
		},
	}
	if !f.omitCount {
		n := uint64(len(c.points))
		info.PointsCount = &n
	}
	return info, nil
}

func (f *fakeAPI) CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateCollection"); err != nil {
		return err
	}
	p := req.GetVectorsConfig().GetParams()
	f.collections[req.GetCollectionName()] = &fakeCollection{
		size:     p.GetSize(),
		distance: p.GetDistance(),
		status:   qdrant.CollectionStatus_Green,
	}
	return nil
}

func (f *fakeAPI) DeleteCollection(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteCollection"); err != nil {
		return err
	}
	delete(f.collections, name)
	return nil
}

func (f *fakeAPI) Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, req)
	if err := f.fail("Upsert"); err != nil {
		return nil, err
	}
	c, ok := f.collections[req.GetCollectionName()]
	if !ok {
		return nil, errors.New("collection not found")
	}
	for _, p := range req.GetPoints() {
		c.points = append(c.points, &qdrant.RetrievedPoint{Id: p.GetId(), Payload: p.GetPayload()})
	}
	return &qdrant.UpdateResult{Status: f.upsertStatus}, nil
}

func (f *fakeAPI) Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, req)
	if err := f.fail("Query"); err != nil {
		return nil, err
	}
	return f.queryResult, nil
}

func (f *fakeAPI) Scroll(ctx context.Context, req *qdrant.ScrollPoints) ([]*qdrant.RetrievedPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrolls = append(f.scrolls, req)
	if err := f.fail("Scroll"); err != nil {
		return nil, err
	}
	c, ok := f.collections[req.GetCollectionName()]
	if !ok {
		return nil, errors.New("collection not found")
	}

	from := 0
	if req.Offset != nil {
		want, _ := pointIDString(req.Offset)
		for i, p := range c.points {
			if id, _ := pointIDString(p.GetId()); id == want {
				from = i
				break
			}
		}
	}
	to := min(from+int(req.GetLimit()), len(c.points))
	return c.points[from:to], nil
}

func (f *fakeAPI) Count(ctx context.Context, req *qdrant.CountPoints) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collections[req.GetCollectionName()]
	if !ok {
		return 0, errors.New("collection not found")
	}
	return uint64(len(c.points)), nil
}

var _ API = (*fakeAPI)(nil)
