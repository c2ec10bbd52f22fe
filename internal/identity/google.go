package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	GoogleProviderName    = "google"
	defaultGoogleTimeout  = 10 * time.Second
	googleCallbackPattern = "/api/auth/google/callback"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	// BaseURL is the externally visible server address used to build the redirect URL.
	BaseURL string
	Timeout time.Duration

	// Endpoint and APIEndpoint override Google's URLs in tests.
	Endpoint    *oauth2.Endpoint
	APIEndpoint string
}

type GoogleProvider struct {
	config      *oauth2.Config
	httpClient  *http.Client
	apiEndpoint string
}

// NewGoogleProvider returns ErrNotConfigured when the client id or secret is missing.
func NewGoogleProvider(cfg GoogleConfig) (*GoogleProvider, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	clientSecret := strings.TrimSpace(cfg.ClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, ErrNotConfigured
	}

	endpoint := google.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGoogleTimeout
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoint,
			RedirectURL:  strings.TrimRight(cfg.BaseURL, "/") + googleCallbackPattern,
			Scopes:       []string{"openid", googleoauth2.UserinfoEmailScope, googleoauth2.UserinfoProfileScope},
		},
		httpClient:  &http.Client{Timeout: timeout},
		apiEndpoint: cfg.APIEndpoint,
	}, nil
}

func (provider *GoogleProvider) Name() string {
	return GoogleProviderName
}

func (provider *GoogleProvider) AuthCodeURL(state string) string {
	return provider.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Resolve exchanges the authorization code and reads the user's profile.
func (provider *GoogleProvider) Resolve(ctx context.Context, code string) (ExternalIdentity, error) {
	if strings.TrimSpace(code) == "" {
		return ExternalIdentity{}, fmt.Errorf("%w: missing authorization code", ErrExchangeFailed)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, provider.httpClient)
	token, err := provider.config.Exchange(ctx, code)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	options := []option.ClientOption{option.WithHTTPClient(provider.config.Client(ctx, token))}
	if provider.apiEndpoint != "" {
		options = append(options, option.WithEndpoint(provider.apiEndpoint))
	}
	service, err := googleoauth2.NewService(ctx, options...)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("%w: %v", ErrProfileFailed, err)
	}

	identity := ExternalIdentity{
		Provider: GoogleProviderName,
		Subject:  info.Id,
		Email:    strings.TrimSpace(info.Email),
		Name:     info.Name,
	}
	if info.VerifiedEmail != nil {
		identity.EmailVerified = *info.VerifiedEmail
	}
	return identity, nil
}
