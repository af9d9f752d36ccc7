package client

import (
	"context"
	"net/http"
	"net/url"
)

// Client is the typed API surface consumed by the services layer.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginData, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	GetCurrentUser(ctx context.Context) (*User, error)

	GetQRCode(ctx context.Context, code string) (*QRCode, error)
	ActivateQRCode(ctx context.Context, code string, data ActivationRequest) (*QRCode, error)
	GetUserQRCodes(ctx context.Context) ([]QRCode, error)
	UpdateQRCode(ctx context.Context, code string, data QRCodeUpdate) (*QRCode, error)
	DeleteQRCode(ctx context.Context, code string) error
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginData, error) {
	body := map[string]string{"email": email, "password": password}
	data, err := call[LoginData](ctx, c, Request{Endpoint: "/auth/login", Method: http.MethodPost, Body: body})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// ForgotPassword asks the backend to send a reset link and returns its
// acknowledgement message.
func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	var env Envelope[any]
	req := Request{Endpoint: "/auth/forgot-password", Method: http.MethodPost, Body: map[string]string{"email": email}}
	if err := c.Do(ctx, req, &env); err != nil {
		return "", err
	}
	if !env.Success {
		return "", rejected(env.Message)
	}
	return env.Message, nil
}

func (c *HTTPClient) GetCurrentUser(ctx context.Context) (*User, error) {
	data, err := call[userData](ctx, c, Request{Endpoint: "/auth/me"})
	if err != nil {
		return nil, err
	}
	return &data.User, nil
}

func (c *HTTPClient) GetQRCode(ctx context.Context, code string) (*QRCode, error) {
	data, err := call[qrCodeData](ctx, c, Request{Endpoint: qrPath(code)})
	if err != nil {
		return nil, err
	}
	return &data.QRCode, nil
}

func (c *HTTPClient) ActivateQRCode(ctx context.Context, code string, in ActivationRequest) (*QRCode, error) {
	req := Request{Endpoint: qrPath(code) + "/activate", Method: http.MethodPost, Body: in}
	data, err := call[qrCodeData](ctx, c, req)
	if err != nil {
		return nil, err
	}
	return &data.QRCode, nil
}

func (c *HTTPClient) GetUserQRCodes(ctx context.Context) ([]QRCode, error) {
	data, err := call[qrCodesData](ctx, c, Request{Endpoint: "/qr/user"})
	if err != nil {
		return nil, err
	}
	return data.QRCodes, nil
}

func (c *HTTPClient) UpdateQRCode(ctx context.Context, code string, in QRCodeUpdate) (*QRCode, error) {
	req := Request{Endpoint: qrPath(code), Method: http.MethodPut, Body: in}
	data, err := call[qrCodeData](ctx, c, req)
	if err != nil {
		return nil, err
	}
	return &data.QRCode, nil
}

func (c *HTTPClient) DeleteQRCode(ctx context.Context, code string) error {
	_, err := call[any](ctx, c, Request{Endpoint: qrPath(code), Method: http.MethodDelete})
	return err
}

// call performs req and returns the envelope's data. A 2xx envelope with
// success=false is reported as an application failure.
func call[T any](ctx context.Context, c *HTTPClient, req Request) (T, error) {
	var env Envelope[T]
	if err := c.Do(ctx, req, &env); err != nil {
		return env.Data, err
	}
	if !env.Success {
		return env.Data, rejected(env.Message)
	}
	return env.Data, nil
}

// rejected builds the failure for a 2xx envelope whose success flag is false.
func rejected(msg string) *RequestFailedError {
	if msg == "" {
		msg = genericFailureMessage
	}
	return &RequestFailedError{Kind: ApplicationFailure, Message: msg}
}

func qrPath(code string) string {
	return "/qr/" + url.PathEscape(code)
}
