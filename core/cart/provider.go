package cart

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/smartshop/api/web"
	"github.com/irsalhamdi/smartshop/api/weberr"
	"github.com/irsalhamdi/smartshop/i18n"
	"github.com/irsalhamdi/smartshop/validate"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	store      *Store
	lastAccess time.Time
}

// Provider keeps the live store of every cart in use. Stores are restored
// from the storage on first use and dropped after staying idle for ttl.
type Provider struct {
	storage Storage
	log     logrus.FieldLogger
	ttl     time.Duration

	mu     sync.Mutex
	stores map[string]*entry
	sfg    singleflight.Group

	done chan struct{}
	once sync.Once
}

func NewProvider(storage Storage, log logrus.FieldLogger, ttl time.Duration) *Provider {
	p := &Provider{
		storage: storage,
		log:     log,
		ttl:     ttl,
		stores:  make(map[string]*entry),
		done:    make(chan struct{}),
	}

	if ttl > 0 {
		go p.janitor()
	}
	return p
}

// Get returns the store of cart id. A store that could not be restored is
// not kept, the next Get tries again.
func (p *Provider) Get(ctx context.Context, id string) (*Store, error) {
	if s := p.lookup(id); s != nil {
		return s, nil
	}

	v, err, _ := p.sfg.Do(id, func() (interface{}, error) {
		if s := p.lookup(id); s != nil {
			return s, nil
		}

		s, err := Restore(context.WithoutCancel(ctx), Key(id), p.storage, p.log)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.stores[id] = &entry{store: s, lastAccess: time.Now()}
		p.mu.Unlock()

		return s, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Store), nil
}

// Len is the number of live stores.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stores)
}

func (p *Provider) Close() {
	p.once.Do(func() { close(p.done) })
}

func (p *Provider) lookup(id string) *Store {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.stores[id]
	if !ok {
		return nil
	}
	e.lastAccess = time.Now()
	return e.store
}

func (p *Provider) evict(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, e := range p.stores {
		if now.Sub(e.lastAccess) > p.ttl {
			delete(p.stores, id)
		}
	}
}

func (p *Provider) janitor() {
	interval := p.ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-p.done:
			return
		case now := <-t.C:
			p.evict(now)
		}
	}
}

type ctxKey int

const storeKey ctxKey = 1

func Set(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey, s)
}

func Get(ctx context.Context) (*Store, error) {
	s, ok := ctx.Value(storeKey).(*Store)
	if !ok {
		return nil, errors.New("cart missing from context")
	}
	return s, nil
}

// SessionKey holds the cart id in the session.
const SessionKey = "cart_id"

// Load puts the cart of the session into the request context, giving the
// session a new cart id the first time.
func Load(session *scs.SessionManager, p *Provider) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			id := session.GetString(ctx, SessionKey)
			if err := validate.CheckID(id); err != nil {
				id = validate.GenerateID()
				session.Put(ctx, SessionKey, id)
			}

			s, err := p.Get(ctx, id)
			if err != nil {
				return weberr.Translated(r, err, i18n.CartUnavailable, http.StatusServiceUnavailable, weberr.WithField("cart", Key(id)))
			}

			return handler(Set(ctx, s), w, r)
		}
		return h
	}
	return m
}
