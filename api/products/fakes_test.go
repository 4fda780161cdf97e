package products

import (
	"context"
	"errors"
	"lager_server/lib"
	"lager_server/structs/tables"
	"sort"
	"sync"
)

// memoryRepo is an in-memory ProductRepository with the upsert semantics of
// the Postgres implementation.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*tables.Product
	err    error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int64]*tables.Product{}}
}

func clone(p *tables.Product) *tables.Product {
	c := *p
	c.Tags = append([]string{}, p.Tags...)
	return &c
}

func (m *memoryRepo) FindByID(_ context.Context, id int64) (*tables.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.rows[id]; ok {
		return clone(p), nil
	}
	return nil, nil
}

func (m *memoryRepo) FindByEAN(_ context.Context, ean string) (*tables.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.rows {
		if p.EAN == ean {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) sorted(match func(*tables.Product) bool) []tables.Product {
	out := make([]tables.Product, 0, len(m.rows))
	for _, p := range m.rows {
		if match(p) {
			out = append(out, *clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryRepo) ListAll(context.Context) ([]tables.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(*tables.Product) bool { return true }), nil
}

func (m *memoryRepo) FindByTagsAny(_ context.Context, terms []string) ([]tables.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(p *tables.Product) bool {
		for _, tag := range p.Tags {
			for _, term := range terms {
				if tag == term {
					return true
				}
			}
		}
		return false
	}), nil
}

func (m *memoryRepo) UpsertByEAN(_ context.Context, ean, name, desc string, image *string, tags []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	for _, p := range m.rows {
		if p.EAN == ean {
			p.Name, p.Description = name, desc
			if image != nil {
				p.Image = image
			}
			if len(tags) > 0 {
				p.Tags = tags
			}
			return p.ID, nil
		}
	}
	m.nextID++
	if tags == nil {
		tags = []string{}
	}
	m.rows[m.nextID] = &tables.Product{ID: m.nextID, EAN: ean, Name: name, Description: desc, Image: image, Tags: tags}
	return m.nextID, nil
}

func (m *memoryRepo) update(id int64, fn func(*tables.Product) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	p, ok := m.rows[id]
	if !ok {
		return lib.ErrNotFound
	}
	return fn(p)
}

func (m *memoryRepo) UpdateQuantityDelta(_ context.Context, id, delta int64) error {
	return m.update(id, func(p *tables.Product) error { p.StockQty += delta; return nil })
}

func (m *memoryRepo) UpdateQuantityAbsolute(_ context.Context, id, qty int64) error {
	return m.update(id, func(p *tables.Product) error { p.StockQty = max(qty, 0); return nil })
}

func (m *memoryRepo) UpdateImage(_ context.Context, id int64, path string) error {
	return m.update(id, func(p *tables.Product) error { p.Image = &path; return nil })
}

func (m *memoryRepo) UpdateFields(_ context.Context, id int64, ean, name, desc string, tags []string) error {
	m.mu.Lock()
	if m.err != nil {
		m.mu.Unlock()
		return m.err
	}
	for _, other := range m.rows {
		if other.ID != id && other.EAN == ean {
			m.mu.Unlock()
			return errors.Join(lib.ErrConflict, errors.New("duplicate key value violates unique constraint"))
		}
	}
	m.mu.Unlock()

	return m.update(id, func(p *tables.Product) error {
		p.EAN, p.Name, p.Description = ean, name, desc
		if tags != nil {
			p.Tags = tags
		}
		return nil
	})
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.rows, id)
	return nil
}

// fakeCamera returns canned results and records photo base names.
type fakeCamera struct {
	enabled   bool
	code      string
	photoOK   bool
	err       error
	basenames []string
}

func (c *fakeCamera) Enabled() bool { return c.enabled }

func (c *fakeCamera) ScanBarcode(ctx context.Context) (string, bool, error) {
	if c.err != nil {
		return "", false, c.err
	}
	if ctx.Err() != nil || c.code == "" {
		return "", false, nil
	}
	return c.code, true, nil
}

func (c *fakeCamera) CapturePhoto(_ context.Context, basename string) (string, bool, error) {
	c.basenames = append(c.basenames, basename)
	if !c.photoOK {
		return "", false, c.err
	}
	return "product_img/" + basename + ".jpg", true, nil
}
