package factory

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/product_radar/app/product_radar/pkg/config"
	"github.com/iWorld-y/product_radar/app/product_radar/pkg/search"
)

func TestNewSearcher(t *testing.T) {
	cfg := config.Default()
	cfg.Search.ProductHunt.Auth.APIKey = "dev"

	s, err := NewSearcher(cfg, nil, logrus.New())
	require.NoError(t, err)
	assert.IsType(t, &search.Directory{}, s)

	cfg.Search.Provider = "google"
	_, err = NewSearcher(cfg, nil, logrus.New())
	assert.Error(t, err)
}

func TestNewCredentialsModes(t *testing.T) {
	ph := config.Default().Search.ProductHunt

	ph.Auth.Mode = config.AuthModeOAuth
	ph.Auth.ClientID, ph.Auth.ClientSecret = "id", "secret"
	_, err := NewCredentials(ph)
	require.NoError(t, err)

	ph.Auth.Mode = "saml"
	_, err = NewCredentials(ph)
	assert.Error(t, err)
}
