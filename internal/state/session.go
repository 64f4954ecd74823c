package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
)

var ErrAdviceBusy = errors.New("an advice request is already in flight")

// Session holds all per-browser-tab state: cart, mounted view, checkout
// step, advice transcript. Nothing here is ever persisted; a session dies
// with its idle TTL and the cart dies with it.
type Session struct {
	ID string

	mu         sync.Mutex
	cart       Cart
	router     Router
	checkout   CheckoutFlow
	transcript Transcript
	adviceBusy bool
	admin      bool
	lastSeen   time.Time
}

func newSession(id, welcome string) *Session {
	s := &Session{
		ID:       id,
		cart:     Cart{},
		router:   NewRouter(),
		checkout: NewCheckoutFlow(),
		lastSeen: time.Now(),
	}
	if welcome != "" {
		s.transcript = Transcript{{Role: RoleAssistant, Text: welcome}}
	}
	return s
}

func (s *Session) touch() {
	s.lastSeen = time.Now()
}

// AddToCart appends a line for p.
func (s *Session) AddToCart(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart = s.cart.Add(p)
}

// RemoveFromCart drops the first line matching productID.
func (s *Session) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart = s.cart.Remove(productID)
}

// BuyNow replaces the cart with a single line for p.
func (s *Session) BuyNow(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart = BuyNow(p)
}

// CartView returns a copy of the cart and its current total.
func (s *Session) CartView() (Cart, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	cart := make(Cart, len(s.cart))
	copy(cart, s.cart)
	return cart, s.cart.Total()
}

// Navigate applies a route. Leaving the checkout screen resets the
// checkout flow.
func (s *Session) Navigate(route Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	next := s.router.Navigate(route)
	if s.router.View() == ViewCheckout && next.View() != ViewCheckout {
		s.checkout = s.checkout.Reset()
	}
	s.router = next
}

// RouterView returns the mounted view and the bound product, if any.
func (s *Session) RouterView() (View, *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if p, ok := s.router.SelectedProduct(); ok {
		return s.router.View(), &p
	}
	return s.router.View(), nil
}

// BeginCheckout snapshots the cart for submission and moves the flow to the
// form step if it is still on the cart step.
func (s *Session) BeginCheckout() (models.OrderItems, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.checkout.Step() == StepCart {
		next, err := s.checkout.ToForm()
		if err != nil {
			return nil, 0, err
		}
		s.checkout = next
	}
	return s.cart.Snapshot(), s.cart.Total(), nil
}

// CompleteCheckout clears the cart and advances the flow to success. Called
// only after the order write has been confirmed; a failed submission leaves
// the cart untouched for a retry.
func (s *Session) CompleteCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.cart = s.cart.Clear()
	if next, err := s.checkout.Complete(); err == nil {
		s.checkout = next
	}
}

// CheckoutStep returns the current step of the checkout flow.
func (s *Session) CheckoutStep() CheckoutStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.Step()
}

// BeginAdvice appends the user message and claims the busy flag. A second
// submission while a request is in flight is rejected rather than queued.
func (s *Session) BeginAdvice(userText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.adviceBusy {
		return ErrAdviceBusy
	}
	s.adviceBusy = true
	s.transcript = s.transcript.Append(RoleUser, userText)
	return nil
}

// FinishAdvice appends the reply and releases the busy flag.
func (s *Session) FinishAdvice(reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.adviceBusy = false
	s.transcript = s.transcript.Append(RoleAssistant, reply)
}

// TranscriptView returns a copy of the transcript and the busy flag.
func (s *Session) TranscriptView() (Transcript, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	t := make(Transcript, len(s.transcript))
	copy(t, s.transcript)
	return t, s.adviceBusy
}

// SetAdmin flips the admin flag for this session.
func (s *Session) SetAdmin(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.admin = v
}

// IsAdmin reports whether the session passed the admin gate.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

// Manager is the in-memory session registry.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	welcome  string
	idleTTL  time.Duration
}

// NewManager creates a session registry. welcome seeds each new advice
// transcript; idleTTL bounds how long an untouched session survives.
func NewManager(welcome string, idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		welcome:  welcome,
		idleTTL:  idleTTL,
	}
}

// GetOrCreate returns the session for id, minting a fresh one (and a fresh
// id) when id is empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.RLock()
	if s, ok := m.sessions[id]; ok {
		m.mu.RUnlock()
		return s
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	if id == "" {
		id = uuid.New().String()
	}
	s := newSession(id, m.welcome)
	m.sessions[id] = s
	util.ActiveSessions.Set(float64(len(m.sessions)))
	return s
}

// Sweep evicts idle sessions until ctx is cancelled.
func (m *Manager) Sweep(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle(time.Now())
		}
	}
}

func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen) > m.idleTTL
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
		}
	}
	util.ActiveSessions.Set(float64(len(m.sessions)))
}
