package server

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/kiani-exchange/otp-probe/otp"
	"github.com/rs/zerolog/log"
)

// OTPService is implemented by *otp.Service.
type OTPService interface {
	Request(ctx context.Context, phone string) (*otp.RequestResult, error)
	Verify(ctx context.Context, phone, code string) error
	Status(ctx context.Context, phone string) (otp.Status, error)
}

type Server struct {
	app        *fiber.App
	otpService OTPService
}

func New(otpService OTPService) *Server {
	server := &Server{
		app:        fiber.New(),
		otpService: otpService,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) Start(port string) error {
	log.Info().Str("port", port).Msg("Starting OTP server")

	return s.app.Listen(":"+port, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
