package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maltedev/coupon-finder/internal/browser"
	"github.com/maltedev/coupon-finder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	page   browser.Page
	closes atomic.Int32
}

func (s *fakeSession) Page() browser.Page { return s.page }
func (s *fakeSession) Close() error       { s.closes.Add(1); return nil }

type fakeLauncher struct {
	mu       sync.Mutex
	newPage  func() *fakePage
	err      error
	sessions []*fakeSession
}

func (l *fakeLauncher) Launch(ctx context.Context) (browser.Session, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	s := &fakeSession{page: l.newPage()}
	l.sessions = append(l.sessions, s)
	return s, nil
}

func newTestValidator(l browser.Launcher, maxSessions int) *Validator {
	logger := slog.Default()
	nav := NewNavigator(models.DefaultStorefronts(), DefaultSelectors(), DefaultTimeouts(), logger)
	app := NewApplier(DefaultSelectors(), DefaultClassifier(), DefaultMessages(), DefaultTimeouts(), logger)
	return NewValidator(l, nav, app, maxSessions, logger)
}

func acceptingPage() *fakePage {
	page := newFakePage()
	page.elements[DefaultSelectors().PromoInputs[0]] = &fakeElement{body: "Your code has been applied! You saved $5.00"}
	return page
}

func TestValidate(t *testing.T) {
	l := &fakeLauncher{newPage: acceptingPage}
	v := newTestValidator(l, 2)

	outcome, err := v.Validate(context.Background(), "  SAVE10 ", models.RegionUS)

	require.NoError(t, err)
	assert.True(t, outcome.Valid)
	assert.Equal(t, "$5.00", outcome.Savings)
	require.Len(t, l.sessions, 1)
	assert.Equal(t, int32(1), l.sessions[0].closes.Load())

	field := l.sessions[0].page.(*fakePage).elements[DefaultSelectors().PromoInputs[0]]
	assert.Equal(t, "SAVE10", field.typed)
}

func TestValidateEmptyCode(t *testing.T) {
	l := &fakeLauncher{newPage: acceptingPage}

	_, err := newTestValidator(l, 1).Validate(context.Background(), "   ", models.RegionUS)

	assert.ErrorIs(t, err, ErrEmptyCode)
	assert.Empty(t, l.sessions)
}

func TestValidateLaunchFailure(t *testing.T) {
	l := &fakeLauncher{err: errors.New("executable doesn't exist")}

	_, err := newTestValidator(l, 1).Validate(context.Background(), "SAVE10", models.RegionEU)

	assert.ErrorContains(t, err, "failed to launch browser")
}

func TestValidateIsolatesSessions(t *testing.T) {
	l := &fakeLauncher{newPage: acceptingPage}
	v := newTestValidator(l, 3)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := v.Validate(context.Background(), "SAVE10", models.RegionUS)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, l.sessions, 6)
	pages := map[browser.Page]bool{}
	for _, s := range l.sessions {
		assert.Equal(t, int32(1), s.closes.Load())
		pages[s.page] = true
	}
	assert.Len(t, pages, 6, "no page is shared between calls")
}

func TestValidateWaitsForSlot(t *testing.T) {
	l := &fakeLauncher{newPage: acceptingPage}
	v := newTestValidator(l, 1)

	require.NoError(t, v.sessions.Acquire(context.Background(), 1))
	defer v.sessions.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := v.Validate(ctx, "SAVE10", models.RegionUS)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, l.sessions)
}
