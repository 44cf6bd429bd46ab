package ghasedak

import (
	"time"

	"github.com/tidwall/gjson"
)

type Config struct {
	APIKey         string
	TemplateName   string
	Endpoint       string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	return c
}

type Receptor struct {
	Mobile            string `json:"mobile"`
	ClientReferenceID string `json:"clientReferenceId"`
}

type OTPRequest struct {
	Receptors    []Receptor `json:"receptors"`
	TemplateName string     `json:"templateName"`
	Param1       string     `json:"param1"`
	Param2       string     `json:"param2"`
	Param3       string     `json:"param3"`
	Param4       string     `json:"param4"`
	Param5       string     `json:"param5"`
	Param6       string     `json:"param6"`
	Param7       string     `json:"param7"`
	Param8       string     `json:"param8"`
	Param9       string     `json:"param9"`
	Param10      string     `json:"param10"`
	IsVoice      bool       `json:"isVoice"`
	UDH          bool       `json:"udh"`
}

// Response is the raw outcome of one gateway call. JSON is nil and JSONErr
// set when the body is not valid JSON.
type Response struct {
	StatusCode int
	Body       string
	JSON       any
	JSONErr    error
}

// OK reports gateway success, which is HTTP 200 and nothing else.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == 200
}

// Excerpt returns at most n characters of the body.
func (r *Response) Excerpt(n int) string {
	runes := []rune(r.Body)
	if len(runes) <= n {
		return r.Body
	}
	return string(runes[:n])
}

type Summary struct {
	IsSuccess bool
	Message   string
	MessageID string
	Cost      float64
}

// Summary extracts the fields the gateway reports for a sent OTP.
func (r *Response) Summary() Summary {
	if r == nil || r.JSON == nil {
		return Summary{}
	}
	result := gjson.Parse(r.Body)
	item := result.Get("data.items.0")
	return Summary{
		IsSuccess: result.Get("isSuccess").Bool(),
		Message:   result.Get("message").String(),
		MessageID: item.Get("messageId").String(),
		Cost:      item.Get("cost").Float(),
	}
}
