package otp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound    = errors.New("no OTP found for this phone number")
	ErrExpired     = errors.New("OTP has expired")
	ErrInvalidCode = errors.New("invalid OTP")
)

type Entry struct {
	Code      string
	ExpiresAt time.Time
}

// Store keeps at most one pending code per normalized phone number.
type Store interface {
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (Entry, error)
	// Consume deletes the pending code if and only if it equals code. A
	// code can be consumed at most once; a wrong guess leaves it in place.
	Consume(ctx context.Context, phone, code string) error
}

type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[phone] = Entry{Code: code, ExpiresAt: s.now().Add(ttl)}
	return nil
}

// Get reports an expired entry as ErrExpired until Cleanup evicts it.
func (s *MemoryStore) Get(_ context.Context, phone string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[phone]
	if !ok {
		return Entry{}, ErrNotFound
	}
	if s.now().After(entry.ExpiresAt) {
		return Entry{}, ErrExpired
	}
	return entry, nil
}

func (s *MemoryStore) Consume(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[phone]
	if !ok {
		return ErrNotFound
	}
	if s.now().After(entry.ExpiresAt) {
		delete(s.entries, phone)
		return ErrExpired
	}
	if entry.Code != code {
		return ErrInvalidCode
	}
	delete(s.entries, phone)
	return nil
}

// Cleanup removes expired entries and returns how many were dropped.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cleaned := 0
	for phone, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, phone)
			cleaned++
		}
	}
	return cleaned
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (s *MemoryStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if cleaned := s.Cleanup(); cleaned > 0 {
				log.Info().Int("cleaned", cleaned).Msg("Cleaned up expired OTPs")
			}
		}
	}
}
