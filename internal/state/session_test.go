package state

import (
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestManagerMintsNewSessionForUnknownID(t *testing.T) {
	m := NewManager("bienvenue", time.Hour)

	s := m.GetOrCreate("")
	assert.NotEmpty(t, s.ID)

	again := m.GetOrCreate(s.ID)
	assert.Same(t, s, again)

	other := m.GetOrCreate("never-issued")
	assert.NotSame(t, s, other)
}

func TestNewSessionSeedsWelcomeMessage(t *testing.T) {
	m := NewManager("bienvenue", time.Hour)
	s := m.GetOrCreate("")

	transcript, busy := s.TranscriptView()
	assert.False(t, busy)
	assert.Len(t, transcript, 1)
	assert.Equal(t, RoleAssistant, transcript[0].Role)
	assert.Equal(t, "bienvenue", transcript[0].Text)
}

func TestBeginAdviceRejectsConcurrentRequests(t *testing.T) {
	m := NewManager("", time.Hour)
	s := m.GetOrCreate("")

	assert.NoError(t, s.BeginAdvice("quel entretien pour le cuir ?"))
	assert.ErrorIs(t, s.BeginAdvice("autre question"), ErrAdviceBusy)

	s.FinishAdvice("réponse")
	assert.NoError(t, s.BeginAdvice("autre question"))

	transcript, busy := s.TranscriptView()
	assert.True(t, busy)
	assert.Len(t, transcript, 3)
}

func TestNavigateAwayFromCheckoutResetsFlow(t *testing.T) {
	m := NewManager("", time.Hour)
	s := m.GetOrCreate("")

	s.AddToCart(models.Product{ID: "1", Price: 1000})
	s.Navigate(CheckoutRoute())

	_, _, err := s.BeginCheckout()
	assert.NoError(t, err)
	assert.Equal(t, StepForm, s.CheckoutStep())

	s.Navigate(HomeRoute())
	assert.Equal(t, StepCart, s.CheckoutStep())

	cart, _ := s.CartView()
	assert.Len(t, cart, 1)
}

func TestCompleteCheckoutClearsCart(t *testing.T) {
	m := NewManager("", time.Hour)
	s := m.GetOrCreate("")

	s.AddToCart(models.Product{ID: "1", Price: 1000})
	s.AddToCart(models.Product{ID: "2", Price: 500})

	items, total, err := s.BeginCheckout()
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(1500), total)

	s.CompleteCheckout()
	assert.Equal(t, StepSuccess, s.CheckoutStep())

	cart, cartTotal := s.CartView()
	assert.Empty(t, cart)
	assert.Equal(t, int64(0), cartTotal)
}

func TestFailedSubmissionKeepsCart(t *testing.T) {
	m := NewManager("", time.Hour)
	s := m.GetOrCreate("")

	s.AddToCart(models.Product{ID: "1", Price: 1000})
	_, _, err := s.BeginCheckout()
	assert.NoError(t, err)

	// Submission failed upstream: CompleteCheckout is never called.
	cart, total := s.CartView()
	assert.Len(t, cart, 1)
	assert.Equal(t, int64(1000), total)
	assert.Equal(t, StepForm, s.CheckoutStep())

	// The retry reuses the form step and the same cart.
	items, total, err := s.BeginCheckout()
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1000), total)
}

func TestEvictIdleDropsStaleSessions(t *testing.T) {
	m := NewManager("", time.Minute)
	s := m.GetOrCreate("")
	fresh := m.GetOrCreate("")

	s.mu.Lock()
	s.lastSeen = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()

	m.evictIdle(time.Now())

	replaced := m.GetOrCreate(s.ID)
	assert.NotSame(t, s, replaced)
	assert.Same(t, fresh, m.GetOrCreate(fresh.ID))
}

func TestAdminFlag(t *testing.T) {
	m := NewManager("", time.Hour)
	s := m.GetOrCreate("")

	assert.False(t, s.IsAdmin())
	s.SetAdmin(true)
	assert.True(t, s.IsAdmin())
	s.SetAdmin(false)
	assert.False(t, s.IsAdmin())
}
