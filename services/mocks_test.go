package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"fuko-store/models"
)

var errStorage = &models.PersistenceError{Op: "test", Err: errors.New("connection reset")}

type mockOrderRepository struct {
	mu     sync.Mutex
	store  map[string]models.Order
	seq    int
	order  map[string]int
	fail   bool
	failOn string
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{store: make(map[string]models.Order), order: make(map[string]int)}
}

func (m *mockOrderRepository) failing(op string) bool {
	return m.fail && (m.failOn == "" || m.failOn == op)
}

func (m *mockOrderRepository) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing("create") {
		return errStorage
	}
	if _, ok := m.store[order.ID]; ok {
		return models.ErrDuplicateOrder
	}
	m.seq++
	m.order[order.ID] = m.seq
	m.store[order.ID] = *order
	return nil
}

func (m *mockOrderRepository) Find(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing("find") {
		return nil, errStorage
	}
	order, ok := m.store[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	return &order, nil
}

func (m *mockOrderRepository) List(_ context.Context) ([]models.Order, error) {
	return m.list(func(models.Order) bool { return true })
}

func (m *mockOrderRepository) ListByPhone(_ context.Context, phone string) ([]models.Order, error) {
	return m.list(func(o models.Order) bool { return o.CustomerPhone == phone })
}

func (m *mockOrderRepository) list(keep func(models.Order) bool) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing("list") {
		return nil, errStorage
	}
	orders := []models.Order{}
	for _, o := range m.store {
		if keep(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return m.order[orders[i].ID] > m.order[orders[j].ID] })
	return orders, nil
}

func (m *mockOrderRepository) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	return m.update("update", id, func(o *models.Order) { o.Status = status })
}

func (m *mockOrderRepository) SetPaymentVerified(_ context.Context, id string, verified bool) error {
	return m.update("update", id, func(o *models.Order) { o.IsPaymentVerified = verified })
}

func (m *mockOrderRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing("delete") {
		return errStorage
	}
	if _, ok := m.store[id]; !ok {
		return models.ErrOrderNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockOrderRepository) update(op, id string, change func(*models.Order)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing(op) {
		return errStorage
	}
	order, ok := m.store[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	change(&order)
	m.store[id] = order
	return nil
}

type mockEventDispatcher struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (m *mockEventDispatcher) Dispatch(event models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

func (m *mockEventDispatcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

type mockProductRepository struct {
	store map[string]models.Product
	ids   []string
	fail  bool
}

func newMockProductRepository(products ...models.Product) *mockProductRepository {
	m := &mockProductRepository{store: make(map[string]models.Product)}
	for _, p := range products {
		p := p
		_ = m.Save(context.Background(), &p)
	}
	return m
}

func (m *mockProductRepository) List(context.Context) ([]models.Product, error) {
	if m.fail {
		return nil, errStorage
	}
	products := make([]models.Product, 0, len(m.ids))
	for _, id := range m.ids {
		products = append(products, m.store[id])
	}
	return products, nil
}

func (m *mockProductRepository) Find(_ context.Context, id string) (*models.Product, error) {
	if m.fail {
		return nil, errStorage
	}
	p, ok := m.store[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	p.Images = append([]string(nil), p.Images...)
	return &p, nil
}

func (m *mockProductRepository) Save(_ context.Context, product *models.Product) error {
	if m.fail {
		return errStorage
	}
	if _, ok := m.store[product.ID]; !ok {
		m.ids = append(m.ids, product.ID)
	}
	p := *product
	p.Images = append([]string(nil), product.Images...)
	m.store[product.ID] = p
	return nil
}

func (m *mockProductRepository) Delete(_ context.Context, id string) error {
	if m.fail {
		return errStorage
	}
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

type mockProfileRepository struct {
	store map[string]models.UserProfile
	fail  bool
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{store: make(map[string]models.UserProfile)}
}

func (m *mockProfileRepository) Find(_ context.Context, phone string) (*models.UserProfile, error) {
	if m.fail {
		return nil, errStorage
	}
	p, ok := m.store[phone]
	if !ok {
		return nil, models.ErrProfileNotFound
	}
	p.Addresses = append([]models.DeliveryAddress{}, p.Addresses...)
	return &p, nil
}

func (m *mockProfileRepository) Upsert(_ context.Context, profile *models.UserProfile) error {
	if m.fail {
		return errStorage
	}
	p := *profile
	p.Addresses = append([]models.DeliveryAddress{}, profile.Addresses...)
	m.store[profile.Phone] = p
	return nil
}

type mockCartRepository struct {
	store     map[string]models.Cart
	failSave  bool
	failClear bool
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{store: make(map[string]models.Cart)}
}

func (m *mockCartRepository) Find(_ context.Context, phone string) (*models.Cart, error) {
	c, ok := m.store[phone]
	if !ok {
		return &models.Cart{Phone: phone, Items: []models.CartItem{}}, nil
	}
	c.Items = append([]models.CartItem{}, c.Items...)
	return &c, nil
}

func (m *mockCartRepository) Save(_ context.Context, cart *models.Cart) error {
	if m.failSave {
		return errStorage
	}
	c := *cart
	c.Items = append([]models.CartItem{}, cart.Items...)
	m.store[cart.Phone] = c
	return nil
}

func (m *mockCartRepository) Delete(_ context.Context, phone string) error {
	if m.failClear {
		return errStorage
	}
	delete(m.store, phone)
	return nil
}

type mockSettingsRepository struct {
	doc    *models.SettingsDocument
	getErr error
	putErr error
}

func (m *mockSettingsRepository) Get(context.Context) (*models.SettingsDocument, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.doc, nil
}

func (m *mockSettingsRepository) Put(_ context.Context, doc models.SettingsDocument) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.doc = &doc
	return nil
}
