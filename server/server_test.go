package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kiani-exchange/otp-probe/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOTPService struct {
	requestResult *otp.RequestResult
	requestErr    error
	verifyErr     error
	status        otp.Status
	lastPhone     string
	lastCode      string
}

func (f *fakeOTPService) Request(_ context.Context, phone string) (*otp.RequestResult, error) {
	f.lastPhone = phone
	return f.requestResult, f.requestErr
}

func (f *fakeOTPService) Verify(_ context.Context, phone, code string) error {
	f.lastPhone = phone
	f.lastCode = code
	return f.verifyErr
}

func (f *fakeOTPService) Status(_ context.Context, phone string) (otp.Status, error) {
	f.lastPhone = phone
	return f.status, nil
}

func doJSON(t *testing.T, s *Server, method, path, body string) (int, apiResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded apiResponse
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	return resp.StatusCode, decoded
}

func TestRequestOTPHandler(t *testing.T) {
	service := &fakeOTPService{requestResult: &otp.RequestResult{Phone: "+989123456789", MessageID: "m-1"}}
	s := New(service)

	status, body := doJSON(t, s, http.MethodPost, "/api/otp/request", `{"phone":"09123456789"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, "OTP sent to +989123456789", body.Message)
	assert.Equal(t, "m-1", body.MessageID)
	assert.Equal(t, "09123456789", service.lastPhone)
}

func TestRequestOTPHandler_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		status   int
		expected string
	}{
		{"invalid phone", otp.ErrInvalidPhone, http.StatusBadRequest, "phone number is required"},
		{"cooldown", &otp.CooldownError{Remaining: 30 * time.Second}, http.StatusTooManyRequests, "please wait 30 seconds before requesting a new OTP"},
		{"rejected", fmt.Errorf("%w: status 401", otp.ErrNotDelivered), http.StatusBadGateway, "Failed to send OTP"},
		{"transport", errors.New("dial tcp: i/o timeout"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(&fakeOTPService{requestErr: tc.err})

			status, body := doJSON(t, s, http.MethodPost, "/api/otp/request", `{"phone":"09123456789"}`)

			assert.Equal(t, tc.status, status)
			assert.False(t, body.Success)
			assert.Equal(t, tc.expected, body.Error)
		})
	}
}

func TestRequestOTPHandler_BadBody(t *testing.T) {
	s := New(&fakeOTPService{})

	status, body := doJSON(t, s, http.MethodPost, "/api/otp/request", `{not json`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", body.Error)
}

func TestVerifyOTPHandler(t *testing.T) {
	service := &fakeOTPService{}
	s := New(service)

	status, body := doJSON(t, s, http.MethodPost, "/api/otp/verify", `{"phone":"09123456789","code":"123456"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
	assert.Equal(t, "123456", service.lastCode)

	service.verifyErr = otp.ErrInvalidCode
	status, body = doJSON(t, s, http.MethodPost, "/api/otp/verify", `{"phone":"09123456789","code":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid OTP", body.Error)

	status, body = doJSON(t, s, http.MethodPost, "/api/otp/verify", `{"phone":"09123456789"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "code is required", body.Error)
}

func TestStatusHandler(t *testing.T) {
	service := &fakeOTPService{status: otp.Status{Exists: true, RemainingTime: 42}}
	s := New(service)

	req := httptest.NewRequest(http.MethodGet, "/api/otp/status/09123456789", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var status otp.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, otp.Status{Exists: true, RemainingTime: 42}, status)
	assert.Equal(t, "09123456789", service.lastPhone)
}

func TestHealthCheckHandler(t *testing.T) {
	s := New(&fakeOTPService{})

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
