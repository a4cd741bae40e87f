package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// StorageKey is the fixed key carts are persisted under, namespaced by the
// cart id.
const StorageKey = "cart"

func Key(cartID string) string {
	return StorageKey + ":" + cartID
}

// Storage persists the serialized line items of a cart.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// ErrNotStored is returned by Storage.Load when nothing is persisted under
// the key.
var ErrNotStored = errors.New("nothing stored under key")

// Store owns the line items of one cart. Every mutation is written to the
// storage before the call returns; a failed write is logged and the in
// memory items stay authoritative.
type Store struct {
	mu      sync.Mutex
	key     string
	items   []LineItem
	promo   bool
	storage Storage
	log     logrus.FieldLogger
}

func NewStore(key string, storage Storage, log logrus.FieldLogger) *Store {
	return &Store{
		key:     key,
		items:   []LineItem{},
		storage: storage,
		log:     log,
	}
}

// Restore builds the store from what is persisted under key. Missing or
// undecodable data gives an empty cart. A storage that cannot be read is an
// error: an empty cart would overwrite the persisted one on the next write.
func Restore(ctx context.Context, key string, storage Storage, log logrus.FieldLogger) (*Store, error) {
	s := NewStore(key, storage, log)
	if storage == nil {
		return s, nil
	}

	data, err := storage.Load(ctx, key)
	if errors.Is(err, ErrNotStored) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading cart[%s]: %w", key, err)
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.WithError(err).WithField("key", key).Error("decoding persisted cart")
		return s, nil
	}

	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if i := s.index(it.ID); i >= 0 {
			s.items[i].Quantity += it.Quantity
			continue
		}
		s.items = append(s.items, it)
	}

	return s, nil
}

func (s *Store) Key() string {
	return s.key
}

// AddItem increments the quantity of p, adding it with quantity one when it
// is not in the cart yet.
func (s *Store) AddItem(ctx context.Context, p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(p.ID); i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, LineItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: 1,
			ImageURL: p.ImageURL,
		})
	}

	s.persist(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return
	}
	s.remove(i)

	s.persist(ctx)
}

// UpdateQuantity sets the quantity of item id. Quantities below one remove
// the item.
func (s *Store) UpdateQuantity(ctx context.Context, id int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return
	}

	if quantity <= 0 {
		s.remove(i)
	} else {
		s.items[i].Quantity = quantity
	}

	s.persist(ctx)
}

// Reprice replaces the unit price of item id.
func (s *Store) Reprice(ctx context.Context, id int64, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 || s.items[i].Price.Equal(price) {
		return
	}
	s.items[i].Price = price

	s.persist(ctx)
}

// Clear empties the cart and forgets the promo code.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []LineItem{}
	s.promo = false

	s.persist(ctx)
}

// ApplyPromo applies the discount when code is the promo code and reports
// whether the cart has it. The discount is applied once per cart; it neither
// stacks nor can be taken back, so once applied any code reports true.
func (s *Store) ApplyPromo(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.promo {
		return true
	}
	if !isPromoCode(code) {
		return false
	}
	s.promo = true
	return true
}

func (s *Store) PromoApplied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.promo
}

// Items returns a copy of the line items in the order they were added.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TotalPrice(s.items)
}

func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.copyItems(), s.promo)
}

func (s *Store) index(id int64) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) remove(i int) {
	s.items = append(s.items[:i], s.items[i+1:]...)
}

func (s *Store) copyItems() []LineItem {
	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) persist(ctx context.Context) {
	if s.storage == nil {
		return
	}

	data, err := json.Marshal(s.items)
	if err != nil {
		s.log.WithError(err).WithField("key", s.key).Error("encoding cart")
		return
	}

	if err := s.storage.Save(ctx, s.key, data); err != nil {
		s.log.WithError(err).WithField("key", s.key).Error("persisting cart")
	}
}
