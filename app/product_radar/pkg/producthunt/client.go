package producthunt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/model"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/search"
)

const (
	// DefaultAPIURL Product Hunt GraphQL v2 地址
	DefaultAPIURL = "https://api.producthunt.com/v2/api/graphql"
	// DefaultTokenURL client credentials 换取 token 的地址
	DefaultTokenURL = "https://api.producthunt.com/v2/oauth/token"

	defaultFirst   = 10
	defaultOrder   = "VOTES"
	defaultTimeout = 30 * time.Second
	userAgent      = "product_radar/1.0"
)

const postsQuery = `query Posts($first: Int!, $topic: String, $order: PostsOrder) {
  posts(first: $first, topic: $topic, order: $order) {
    edges {
      node {
        name
        tagline
        description
        url
        website
        votesCount
        createdAt
        topics {
          edges {
            node {
              name
            }
          }
        }
      }
    }
  }
}`

// Client Product Hunt GraphQL 客户端
type Client struct {
	apiURL string
	first  int
	order  string
	creds  CredentialProvider
	client *http.Client
}

// Ensure Client implements search.Provider
var _ search.Provider = (*Client)(nil)

// NewClient 创建一个新的 Product Hunt 客户端
func NewClient(cfg config.ProductHuntConfig, creds CredentialProvider) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	first := cfg.MaxResults
	if first <= 0 {
		first = defaultFirst
	}
	return &Client{
		apiURL: apiURL,
		first:  first,
		order:  normalizeOrder(cfg.Order),
		creds:  creds,
		client: &http.Client{
			Timeout: config.Seconds(cfg.Timeout, defaultTimeout),
		},
	}
}

func normalizeOrder(order string) string {
	switch o := strings.ToUpper(strings.TrimSpace(order)); o {
	case "VOTES", "RANKING", "NEWEST":
		return o
	default:
		return defaultOrder
	}
}

// CacheKey implements search.Provider
func (c *Client) CacheKey(keyword string) string {
	return fmt.Sprintf("producthunt:%s:%s", c.order, keyword)
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		Posts struct {
			Edges []struct {
				Node postNode `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type postNode struct {
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Description *string   `json:"description"`
	URL         string    `json:"url"`
	Website     string    `json:"website"`
	VotesCount  int       `json:"votesCount"`
	CreatedAt   time.Time `json:"createdAt"`
	Topics      *struct {
		Edges []struct {
			Node struct {
				Name string `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"topics"`
}

// Fetch 按主题标签查询产品
func (c *Client) Fetch(ctx context.Context, keyword string) ([]model.Product, error) {
	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, err
	}

	body, err := sonic.Marshal(graphQLRequest{
		Query: postsQuery,
		Variables: map[string]any{
			"first": c.first,
			"topic": keyword,
			"order": c.order,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("User-Agent", userAgent)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}

	if res.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: producthunt rejected token (status %d)", model.ErrAuth, res.StatusCode)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("producthunt api error (status %d): %s", res.StatusCode, string(data))
	}

	var gqlResp graphQLResponse
	if err := sonic.Unmarshal(data, &gqlResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("producthunt graphql error: %s", strings.Join(msgs, "; "))
	}

	products := make([]model.Product, 0, len(gqlResp.Data.Posts.Edges))
	for _, e := range gqlResp.Data.Posts.Edges {
		products = append(products, e.Node.toProduct())
	}
	return products, nil
}

func (n postNode) toProduct() model.Product {
	p := model.Product{
		Name:       n.Name,
		Tagline:    n.Tagline,
		URL:        n.URL,
		Website:    n.Website,
		VotesCount: n.VotesCount,
		CreatedAt:  n.CreatedAt,
		Topics:     []string{},
	}
	if n.Description != nil {
		p.Description = *n.Description
	}
	if n.Topics != nil {
		for _, t := range n.Topics.Edges {
			p.Topics = append(p.Topics, t.Node.Name)
		}
	}
	return p
}
