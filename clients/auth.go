package clients

import (
	"context"
	"fmt"
	"net/http"

	"boxoffice/entity"

	"github.com/golang-jwt/jwt/v5"
)

type AuthClient struct {
	clients *Clients
}

func NewAuthClient(clients *Clients) AuthClient {
	return AuthClient{
		clients: clients,
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string `json:"token"`
}

func (c AuthClient) Authenticate(ctx context.Context, creds entity.Credentials) (entity.Session, error) {
	path := "/auth/sign-in"
	if creds.Intent == entity.AuthIntentSignUp {
		path = "/auth/sign-up"
	}

	body := signInRequest{
		Email:    creds.Email,
		Password: creds.Password,
	}

	var res signInResponse
	if err := c.clients.do(ctx, http.MethodPost, path, body, &res); err != nil {
		return entity.Session{}, err
	}

	return sessionFromToken(res.Token, creds.Email)
}

// sessionFromToken builds a Session from the gateway's JWT. The token is
// issued and signed by the gateway; only its claims are read here.
func sessionFromToken(token, email string) (entity.Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return entity.Session{}, fmt.Errorf("parsing session token: %w", err)
	}

	session := entity.Session{
		Email: email,
		Token: token,
	}
	if sub, err := claims.GetSubject(); err == nil {
		session.UserID = sub
	}
	if claimed, ok := claims["email"].(string); ok && claimed != "" {
		session.Email = claimed
	}

	return session, nil
}
