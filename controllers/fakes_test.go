package controllers_test

import (
	"context"
	"sort"
	"sync"

	"fuko-store/models"
)

type memOrders struct {
	mu    sync.Mutex
	seq   int
	rank  map[string]int
	store map[string]models.Order
}

func newMemOrders() *memOrders {
	return &memOrders{rank: map[string]int{}, store: map[string]models.Order{}}
}

func (m *memOrders) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[o.ID]; ok {
		return models.ErrDuplicateOrder
	}
	m.seq++
	m.rank[o.ID] = m.seq
	m.store[o.ID] = *o
	return nil
}

func (m *memOrders) Find(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	return &o, nil
}

func (m *memOrders) List(context.Context) ([]models.Order, error) {
	return m.filter(func(models.Order) bool { return true }), nil
}

func (m *memOrders) ListByPhone(_ context.Context, phone string) ([]models.Order, error) {
	return m.filter(func(o models.Order) bool { return o.CustomerPhone == phone }), nil
}

func (m *memOrders) filter(keep func(models.Order) bool) []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.store {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.rank[out[i].ID] > m.rank[out[j].ID] })
	return out
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	return m.update(id, func(o *models.Order) { o.Status = status })
}

func (m *memOrders) SetPaymentVerified(_ context.Context, id string, verified bool) error {
	return m.update(id, func(o *models.Order) { o.IsPaymentVerified = verified })
}

func (m *memOrders) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return models.ErrOrderNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memOrders) update(id string, change func(*models.Order)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	change(&o)
	m.store[id] = o
	return nil
}

type memProducts struct {
	mu    sync.Mutex
	ids   []string
	store map[string]models.Product
}

func newMemProducts(products ...models.Product) *memProducts {
	m := &memProducts{store: map[string]models.Product{}}
	for _, p := range products {
		p := p
		_ = m.Save(context.Background(), &p)
	}
	return m
}

func (m *memProducts) List(context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.store[id])
	}
	return out, nil
}

func (m *memProducts) Find(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	p.Images = append([]string(nil), p.Images...)
	return &p, nil
}

func (m *memProducts) Save(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; !ok {
		m.ids = append(m.ids, p.ID)
	}
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	m.store[p.ID] = cp
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(m.store, id)
	for i, v := range m.ids {
		if v == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	return nil
}

type memProfiles struct {
	mu    sync.Mutex
	store map[string]models.UserProfile
}

func (m *memProfiles) Find(_ context.Context, phone string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[phone]
	if !ok {
		return nil, models.ErrProfileNotFound
	}
	p.Addresses = append([]models.DeliveryAddress{}, p.Addresses...)
	return &p, nil
}

func (m *memProfiles) Upsert(_ context.Context, p *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	cp.Addresses = append([]models.DeliveryAddress{}, p.Addresses...)
	m.store[p.Phone] = cp
	return nil
}

type memCarts struct {
	mu    sync.Mutex
	store map[string]models.Cart
}

func (m *memCarts) Find(_ context.Context, phone string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[phone]
	if !ok {
		return &models.Cart{Phone: phone, Items: []models.CartItem{}}, nil
	}
	c.Items = append([]models.CartItem{}, c.Items...)
	return &c, nil
}

func (m *memCarts) Save(_ context.Context, c *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	cp.Items = append([]models.CartItem{}, c.Items...)
	m.store[c.Phone] = cp
	return nil
}

func (m *memCarts) Delete(_ context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, phone)
	return nil
}

type memSettings struct {
	doc *models.SettingsDocument
}

func (m *memSettings) Get(context.Context) (*models.SettingsDocument, error) { return m.doc, nil }

func (m *memSettings) Put(_ context.Context, doc models.SettingsDocument) error {
	m.doc = &doc
	return nil
}
