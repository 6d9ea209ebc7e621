package api

import (
	"context"

	"github.com/pkg/errors"
)

// SendOTP asks the backend to text a one-time password to phoneNumber.
func (c *Client) SendOTP(ctx context.Context, phoneNumber string) (*OTPChallenge, error) {
	body := struct {
		PhoneNumber string `json:"phoneNumber"`
	}{PhoneNumber: phoneNumber}

	var out OTPChallenge
	if err := c.post(ctx, routeSendOTP, body, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.SendOTP]")
	}
	return &out, nil
}

// VerifyOTP exchanges a one-time password for credentials. The caller is
// responsible for handing the result to the session manager's Login.
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, verificationID, code string) (*Credentials, error) {
	body := struct {
		PhoneNumber    string `json:"phoneNumber"`
		VerificationID string `json:"verificationId"`
		Code           string `json:"code"`
	}{PhoneNumber: phoneNumber, VerificationID: verificationID, Code: code}

	var out Credentials
	if err := c.post(ctx, routeVerifyOTP, body, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.VerifyOTP]")
	}
	return &out, nil
}
