package ghasedak

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

const defaultClientReferenceID = "test"

// SendOTP posts a single OTP message to the gateway. Non-200 statuses are
// not errors here; callers inspect Response.OK.
func (c *Client) SendOTP(ctx context.Context, mobile, code string) (*Response, error) {
	return c.SendOTPWithReference(ctx, mobile, code, defaultClientReferenceID)
}

func (c *Client) SendOTPWithReference(ctx context.Context, mobile, code, reference string) (*Response, error) {
	request := c.createOTPRequest(mobile, code, reference)

	log.Debug().
		Str("mobile", mobile).
		Str("template", request.TemplateName).
		Str("endpoint", c.config.Endpoint).
		Msg("Sending OTP request")

	response, err := c.sendRequest(ctx, http.MethodPost, c.config.Endpoint, request)
	if err != nil {
		log.Error().Err(err).Str("mobile", mobile).Msg("OTP request failed")
		return nil, err
	}

	log.Debug().
		Int("status", response.StatusCode).
		Bool("ok", response.OK()).
		Msg("OTP request completed")

	return response, nil
}

func (c *Client) createOTPRequest(mobile, code, reference string) OTPRequest {
	return OTPRequest{
		Receptors: []Receptor{
			{Mobile: mobile, ClientReferenceID: reference},
		},
		TemplateName: c.config.TemplateName,
		Param1:       code,
		IsVoice:      false,
		UDH:          false,
	}
}
