package otp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kiani-exchange/otp-probe/execution"
	"github.com/kiani-exchange/otp-probe/ghasedak"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidPhone = errors.New("phone number is required")
	ErrNotDelivered = errors.New("gateway did not accept the OTP")
	ErrInFlight     = errors.New("an OTP request for this phone number is already in progress")
)

// CooldownError is returned when a code is requested while a previous one
// is still valid.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new OTP", seconds(e.Remaining))
}

type Sender interface {
	SendOTP(ctx context.Context, mobile, code string) (*ghasedak.Response, error)
}

type Options struct {
	TTL      time.Duration
	MockMode bool
	Rand     IntNer
	Now      func() time.Time
}

type Service struct {
	sender   Sender
	store    Store
	inFlight *execution.Manager
	ttl      time.Duration
	mock     bool
	rng      IntNer
	now      func() time.Time
}

type RequestResult struct {
	Phone     string `json:"phone"`
	MessageID string `json:"messageId,omitempty"`
	Mock      bool   `json:"mock,omitempty"`
}

type Status struct {
	Exists        bool `json:"exists"`
	RemainingTime int  `json:"remainingTime,omitempty"`
	Expired       bool `json:"expired"`
}

func NewService(sender Sender, store Store, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		sender:   sender,
		store:    store,
		inFlight: execution.NewManager(),
		ttl:      opts.TTL,
		mock:     opts.MockMode,
		rng:      opts.Rand,
		now:      opts.Now,
	}
}

// Request generates a code, delivers it through the gateway and stores it
// for verification. The code is stored only after the gateway returns 200.
func (s *Service) Request(ctx context.Context, phone string) (*RequestResult, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return nil, ErrInvalidPhone
	}

	release, ok := s.inFlight.TryStart(normalized)
	if !ok {
		return nil, ErrInFlight
	}
	defer release()

	existing, err := s.store.Get(ctx, normalized)
	switch {
	case err == nil:
		if remaining := existing.ExpiresAt.Sub(s.now()); remaining > 0 {
			return nil, &CooldownError{Remaining: remaining}
		}
	case !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExpired):
		return nil, fmt.Errorf("failed to read pending OTP: %w", err)
	}

	code := GenerateCode(s.rng)
	result := &RequestResult{Phone: normalized, Mock: s.mock}

	if s.mock {
		log.Info().Str("phone", normalized).Str("code", code).Msg("MOCK MODE: OTP not sent")
	} else {
		resp, err := s.sender.SendOTP(ctx, normalized, code)
		if err != nil {
			return nil, fmt.Errorf("failed to send OTP: %w", err)
		}
		if !resp.OK() {
			log.Warn().
				Int("status", resp.StatusCode).
				Str("body", resp.Excerpt(200)).
				Msg("Gateway rejected OTP")
			return nil, fmt.Errorf("%w: status %d", ErrNotDelivered, resp.StatusCode)
		}
		result.MessageID = resp.Summary().MessageID
	}

	if err := s.store.Save(ctx, normalized, code, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	log.Info().
		Str("phone", normalized).
		Str("message_id", result.MessageID).
		Dur("ttl", s.ttl).
		Msg("OTP sent")

	return result, nil
}

// Verify consumes the pending code when it matches.
func (s *Service) Verify(ctx context.Context, phone, code string) error {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return ErrInvalidPhone
	}

	if err := s.store.Consume(ctx, normalized, code); err != nil {
		return err
	}

	log.Info().Str("phone", normalized).Msg("OTP verified successfully")
	return nil
}

func (s *Service) Status(ctx context.Context, phone string) (Status, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return Status{}, ErrInvalidPhone
	}

	entry, err := s.store.Get(ctx, normalized)
	switch {
	case errors.Is(err, ErrNotFound):
		return Status{}, nil
	case errors.Is(err, ErrExpired):
		return Status{Exists: true, Expired: true}, nil
	case err != nil:
		return Status{}, err
	}

	remaining := seconds(entry.ExpiresAt.Sub(s.now()))
	return Status{
		Exists:        true,
		RemainingTime: remaining,
		Expired:       remaining == 0,
	}, nil
}

func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
