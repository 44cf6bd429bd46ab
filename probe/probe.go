// Package probe implements the two diagnostic runs: a redacted dump of
// the loaded configuration, and a single OTP send through the gateway.
//
// Both write human-readable diagnostics to the supplied writer and never
// retry.
package probe

import (
	"context"
	"fmt"
	"io"

	"github.com/kiani-exchange/otp-probe/config"
	"github.com/kiani-exchange/otp-probe/ghasedak"
	"github.com/kiani-exchange/otp-probe/otp"
	"github.com/kiani-exchange/otp-probe/proxy"
)

const (
	DefaultPhone = "09123456789"

	excerptLen = 200
)

// Sender is satisfied by *ghasedak.Client.
type Sender interface {
	SendOTP(ctx context.Context, mobile, code string) (*ghasedak.Response, error)
}

// SenderFactory builds the gateway sender once configuration has been
// validated, so a missing key never reaches the network layer.
type SenderFactory func(cfg config.Config) (Sender, error)

// Env prints the configuration summary. Proxy settings are shown as found
// in the environment, so an unset variable reads "Not set" rather than its
// default.
func Env(w io.Writer, cfg config.Config) {
	fmt.Fprintln(w, "Environment variables loaded:")
	if cfg.APIKey != "" {
		fmt.Fprintf(w, "API Key: %s...\n", cfg.KeyPrefix())
	} else {
		fmt.Fprintln(w, "API Key: Not found")
	}
	fmt.Fprintf(w, "Proxy Format: %s\n", cfg.Raw.ProxyFormat)
	fmt.Fprintf(w, "USE_PROXY: %s\n", cfg.Raw.UseProxy)
	fmt.Fprintf(w, "PROXY_POOL: %s\n", poolDescription(cfg.Raw.ProxyPool))
}

func poolDescription(raw config.RawValue) string {
	if !raw.Set {
		return raw.String()
	}
	start, end, err := proxy.ParseRange(raw.Value)
	if err != nil {
		return raw.Value
	}
	return fmt.Sprintf("%s (%d proxies)", raw.Value, end-start+1)
}

// SendOTP sends one OTP to phone and reports whether the gateway answered
// with HTTP 200.
func SendOTP(ctx context.Context, w io.Writer, cfg config.Config, phone string, newSender SenderFactory, rng otp.IntNer) bool {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(w, "ERROR: %v\n", err)
		return false
	}

	fmt.Fprintln(w, "Testing OTP send with updated proxy configuration...")
	fmt.Fprintf(w, "API Key: %s...\n", cfg.KeyPrefix())
	fmt.Fprintf(w, "Template: %s\n", cfg.TemplateName)
	fmt.Fprintf(w, "Proxy Format: %s\n", cfg.ProxyFormat)
	fmt.Fprintf(w, "USE_PROXY: %t\n", cfg.UseProxy)

	sender, err := newSender(cfg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return false
	}

	code := otp.GenerateCode(rng)

	fmt.Fprintln(w, "Sending request...")
	resp, err := sender.SendOTP(ctx, phone, code)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return false
	}

	fmt.Fprintf(w, "Response status: %d\n", resp.StatusCode)
	fmt.Fprintf(w, "Response text: %s...\n", resp.Excerpt(excerptLen))
	if resp.JSONErr != nil {
		fmt.Fprintln(w, "Could not parse JSON response")
	} else {
		fmt.Fprintf(w, "Response JSON: %v\n", resp.JSON)
	}

	return resp.OK()
}

// GatewaySender is the production SenderFactory: it resolves the proxy (if
// enabled) and builds a gateway client bound to it.
func GatewaySender(w io.Writer) SenderFactory {
	return func(cfg config.Config) (Sender, error) {
		proxyURL, err := proxy.URL(cfg.UseProxy, cfg.ProxyFormat)
		if err != nil {
			return nil, err
		}

		client := ghasedak.NewClient(ghasedak.Config{
			APIKey:         cfg.APIKey,
			TemplateName:   cfg.TemplateName,
			Endpoint:       cfg.Endpoint,
			ConnectTimeout: cfg.ConnectTimeout,
			ReadTimeout:    cfg.ReadTimeout,
		}, proxyURL)
		if bound := client.Proxy(); bound != nil {
			fmt.Fprintf(w, "Using proxy: %s\n", bound)
		}
		return &client, nil
	}
}

// Result renders the closing status line.
func Result(ok bool) string {
	if ok {
		return "Test result: SUCCESS"
	}
	return "Test result: FAILED"
}
