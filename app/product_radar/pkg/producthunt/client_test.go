package producthunt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
)

const postsBody = `{"data":{"posts":{"edges":[
 {"node":{"name":"Notion","tagline":"All-in-one workspace","description":"Write, plan, collaborate","url":"https://www.producthunt.com/posts/notion","website":"https://notion.so","votesCount":1200,"createdAt":"2024-03-01T08:00:00Z","topics":{"edges":[{"node":{"name":"Productivity"}},{"node":{"name":"Notes"}}]}}},
 {"node":{"name":"Bare","tagline":"no extras","description":null,"url":"https://www.producthunt.com/posts/bare","votesCount":3,"createdAt":"2024-03-02T08:00:00Z","topics":null}}
]}}}`

func newTestClient(t *testing.T, handler http.HandlerFunc, creds CredentialProvider) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.ProductHuntConfig{APIURL: srv.URL, MaxResults: 5, Order: "ranking"}, creds)
}

func TestFetchSendsQueryAndNormalizes(t *testing.T) {
	var gotReq graphQLRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer dev-token", r.Header.Get("Authorization"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &gotReq))
		_, _ = io.WriteString(w, postsBody)
	}, NewStaticCredentials("dev-token"))

	products, err := c.Fetch(context.Background(), "productivity")
	require.NoError(t, err)

	assert.Contains(t, gotReq.Query, "posts(first: $first, topic: $topic, order: $order)")
	assert.Equal(t, "productivity", gotReq.Variables["topic"])
	assert.Equal(t, "RANKING", gotReq.Variables["order"])
	assert.EqualValues(t, 5, gotReq.Variables["first"])

	require.Len(t, products, 2)
	assert.Equal(t, "Notion", products[0].Name)
	assert.Equal(t, []string{"Productivity", "Notes"}, products[0].Topics)
	assert.Equal(t, 1200, products[0].VotesCount)
	assert.Equal(t, 2024, products[0].CreatedAt.Year())

	assert.Equal(t, "", products[1].Description)
	assert.NotNil(t, products[1].Topics)
	assert.Empty(t, products[1].Topics)
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusBadGateway, "bad gateway", nil},
		{"graphql errors", http.StatusOK, `{"errors":[{"message":"topic not found"}]}`, nil},
		{"malformed body", http.StatusOK, `{"data":`, nil},
		{"unauthorized", http.StatusUnauthorized, `{"error":"invalid_token"}`, model.ErrAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, NewStaticCredentials("dev-token"))

			products, err := c.Fetch(context.Background(), "ai")
			require.Error(t, err)
			assert.Nil(t, products)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NotErrorIs(t, err, model.ErrAuth)
			}
		})
	}
}

func TestFetchMissingKeyIsAuthError(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}, NewStaticCredentials(""))

	_, err := c.Fetch(context.Background(), "ai")
	assert.ErrorIs(t, err, model.ErrAuth)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestCacheKey(t *testing.T) {
	c := NewClient(config.ProductHuntConfig{Order: "bogus"}, NewStaticCredentials("x"))
	assert.Equal(t, "producthunt:VOTES:ai", c.CacheKey("ai"))
	assert.Equal(t, DefaultAPIURL, c.apiURL)
	assert.Equal(t, defaultFirst, c.first)
}

func TestOAuthCredentials(t *testing.T) {
	var hits int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "id", r.Form.Get("client_id"))
		assert.Equal(t, "secret", r.Form.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"exchanged","token_type":"bearer"}`)
	}))
	defer tokenSrv.Close()

	creds := NewOAuthCredentials("id", "secret", tokenSrv.URL, tokenSrv.Client())

	tok, err := creds.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "exchanged", tok)

	_, err = creds.Token(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "token should be reused")
}

func TestOAuthCredentialsRejected(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid_client"}`)
	}))
	defer tokenSrv.Close()

	creds := NewOAuthCredentials("id", "wrong", tokenSrv.URL, nil)
	_, err := creds.Token(context.Background())
	assert.ErrorIs(t, err, model.ErrAuth)
}
