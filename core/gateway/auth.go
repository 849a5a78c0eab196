package gateway

import (
	"context"
	"net/http"
	"strings"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type verifyResponse struct {
	Token struct {
		CreatedToken string `json:"createdToken"`
	} `json:"token"`
	Admin AdminUser `json:"admin"`
}

// Login submits credentials. The platform never returns a token here; a 2xx
// means the OTP challenge went out to the operator's registered channel.
func (c *Client) Login(ctx context.Context, email, password string) error {
	_, _, err := c.do(ctx, "", http.MethodPost, "/admin/auth/login", nil,
		loginRequest{Email: email, Password: password}, nil, false)
	return err
}

// VerifyAuthToken exchanges the OTP for the bearer token and the admin
// profile. A rejected OTP surfaces as AuthError.
func (c *Client) VerifyAuthToken(ctx context.Context, email, otp string) (string, *AdminUser, error) {
	var out verifyResponse
	_, _, err := c.do(ctx, "", http.MethodPost, "/admin/auth/verify-auth-token", nil,
		verifyRequest{Email: email, OTP: otp}, &out, false)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(out.Token.CreatedToken) == "" {
		return "", nil, &AuthError{Message: "verification returned no token"}
	}
	admin := out.Admin
	return out.Token.CreatedToken, &admin, nil
}
