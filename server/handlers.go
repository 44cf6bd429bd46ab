package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/kiani-exchange/otp-probe/otp"
	"github.com/rs/zerolog/log"
)

func (s *Server) healthCheckHandler(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) requestOTPHandler(c fiber.Ctx) error {
	var body otpRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(apiResponse{Error: "Invalid request body"})
	}

	result, err := s.otpService.Request(c.Context(), body.Phone)
	if err != nil {
		return c.Status(requestErrorStatus(err)).JSON(apiResponse{Error: publicError(err)})
	}

	message := "OTP sent to " + result.Phone
	if result.Mock {
		message += " (mock mode)"
	}
	return c.JSON(apiResponse{
		Success:   true,
		Message:   message,
		MessageID: result.MessageID,
	})
}

func (s *Server) verifyOTPHandler(c fiber.Ctx) error {
	var body verifyRequest
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(apiResponse{Error: "Invalid request body"})
	}
	if body.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(apiResponse{Error: "code is required"})
	}

	if err := s.otpService.Verify(c.Context(), body.Phone, body.Code); err != nil {
		return c.Status(verifyErrorStatus(err)).JSON(apiResponse{Error: publicError(err)})
	}

	return c.JSON(apiResponse{Success: true, Message: "OTP verified successfully"})
}

func (s *Server) statusHandler(c fiber.Ctx) error {
	status, err := s.otpService.Status(c.Context(), c.Params("phone"))
	if err != nil {
		if errors.Is(err, otp.ErrInvalidPhone) {
			return c.Status(fiber.StatusBadRequest).JSON(apiResponse{Error: err.Error()})
		}
		log.Error().Err(err).Msg("Failed to read OTP status")
		return c.Status(fiber.StatusInternalServerError).JSON(apiResponse{Error: "Internal server error"})
	}
	return c.JSON(status)
}

func requestErrorStatus(err error) int {
	var cooldown *otp.CooldownError
	switch {
	case errors.Is(err, otp.ErrInvalidPhone):
		return fiber.StatusBadRequest
	case errors.As(err, &cooldown), errors.Is(err, otp.ErrInFlight):
		return fiber.StatusTooManyRequests
	case errors.Is(err, otp.ErrNotDelivered):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func verifyErrorStatus(err error) int {
	switch {
	case errors.Is(err, otp.ErrInvalidPhone),
		errors.Is(err, otp.ErrInFlight),
		errors.Is(err, otp.ErrNotFound),
		errors.Is(err, otp.ErrExpired),
		errors.Is(err, otp.ErrInvalidCode):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// publicError hides transport and storage details from API clients.
func publicError(err error) string {
	var cooldown *otp.CooldownError
	switch {
	case errors.As(err, &cooldown):
		return cooldown.Error()
	case errors.Is(err, otp.ErrInvalidPhone),
		errors.Is(err, otp.ErrInFlight),
		errors.Is(err, otp.ErrNotFound),
		errors.Is(err, otp.ErrExpired),
		errors.Is(err, otp.ErrInvalidCode):
		return err.Error()
	case errors.Is(err, otp.ErrNotDelivered):
		return "Failed to send OTP"
	default:
		log.Error().Err(err).Msg("OTP request failed")
		return "Internal server error"
	}
}
