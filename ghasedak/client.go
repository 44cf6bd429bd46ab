// Package ghasedak is a minimal client for the Ghasedak SMS gateway's
// SendOtpWithParams endpoint.
package ghasedak

import (
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultEndpoint = "https://gateway.ghasedak.me/rest/api/v1/WebService/SendOtpWithParams"

	defaultConnectTimeout = 20 * time.Second
	defaultReadTimeout    = 30 * time.Second
)

type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient builds a client whose transport dials within cfg.ConnectTimeout
// and waits at most cfg.ReadTimeout for the response. A nil proxyURL means
// requests go out directly; the process proxy environment is ignored.
func NewClient(cfg Config, proxyURL *url.URL) Client {
	cfg = cfg.withDefaults()

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		DisableKeepAlives:     true,
	}
	if proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return NewClientWithHTTP(cfg, &http.Client{
		Transport: transport,
		Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout,
	})
}

func NewClientWithHTTP(cfg Config, httpClient *http.Client) Client {
	return Client{
		config:     cfg.withDefaults(),
		httpClient: httpClient,
	}
}

// Proxy reports the proxy the client's transport is bound to, if any.
func (c *Client) Proxy() *url.URL {
	transport, ok := c.httpClient.Transport.(*http.Transport)
	if !ok || transport.Proxy == nil {
		return nil
	}
	u, err := transport.Proxy(&http.Request{URL: &url.URL{Scheme: "https", Host: "gateway.ghasedak.me"}})
	if err != nil {
		return nil
	}
	return u
}
