package producthunt

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

// CredentialProvider 提供调用 Product Hunt API 的 bearer token
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

type tokenSourceCredentials struct {
	ts oauth2.TokenSource
}

// NewStaticCredentials 使用固定的 Developer Token
func NewStaticCredentials(apiKey string) CredentialProvider {
	if apiKey == "" {
		return &tokenSourceCredentials{}
	}
	return &tokenSourceCredentials{ts: oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: apiKey,
		TokenType:   "Bearer",
	})}
}

// NewOAuthCredentials 通过 client credentials 换取 token，token 过期前复用
func NewOAuthCredentials(clientID, clientSecret, tokenURL string, httpClient *http.Client) CredentialProvider {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx := context.Background()
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	return &tokenSourceCredentials{ts: cfg.TokenSource(ctx)}
}

// Token implements CredentialProvider
func (c *tokenSourceCredentials) Token(ctx context.Context) (string, error) {
	if c.ts == nil {
		return "", fmt.Errorf("%w: api key is missing", model.ErrAuth)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tok, err := c.ts.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrAuth, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", model.ErrAuth)
	}
	return tok.AccessToken, nil
}
