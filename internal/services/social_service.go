package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/confhub/conference-api/internal/config"
	"github.com/confhub/conference-api/internal/models"
	"github.com/confhub/conference-api/internal/repository"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/gitlab"
	"gorm.io/gorm"
)

var (
	ErrUnknownSocialService = errors.New("unknown social login service")
	ErrSignupsDisabled      = errors.New("signups are disabled; only existing users can log in")
)

// SocialProfile is what an identity provider reports about the user
// who just logged in.
type SocialProfile struct {
	ID    string
	Email string
	Name  string
}

// ProfileFetcher abstracts the provider round trip so identity
// resolution can be tested without a live provider.
type ProfileFetcher interface {
	// AuthURL returns the provider page to redirect the browser to.
	AuthURL(service, state string) (string, error)

	// Profile exchanges the callback code for the provider's profile.
	Profile(ctx context.Context, service, code string) (*SocialProfile, error)
}

// SocialService resolves social logins onto existing users. New
// emails are refused: this application has no social signups, only
// social login for already-known accounts.
type SocialService struct {
	userRepo repository.UserRepository
	fetcher  ProfileFetcher
}

// NewSocialService creates a new SocialService
func NewSocialService(userRepo repository.UserRepository, fetcher ProfileFetcher) *SocialService {
	return &SocialService{
		userRepo: userRepo,
		fetcher:  fetcher,
	}
}

// AuthURL returns the provider redirect target for a service name.
func (s *SocialService) AuthURL(service, state string) (string, error) {
	return s.fetcher.AuthURL(service, state)
}

// Login exchanges the callback code and resolves the resulting
// profile to a user.
func (s *SocialService) Login(ctx context.Context, service, code string) (*models.User, error) {
	profile, err := s.fetcher.Profile(ctx, service, code)
	if err != nil {
		return nil, err
	}
	return s.Resolve(service, profile)
}

// Resolve maps a provider profile onto a user:
//   - a known (service, social_id) pair logs straight in;
//   - a known email gains a new social identity and logs in;
//   - an unknown email is refused and nothing is created.
func (s *SocialService) Resolve(service string, profile *SocialProfile) (*models.User, error) {
	social, err := s.userRepo.FindSocial(service, profile.ID)
	if err == nil {
		return &social.User, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up social identity: %w", err)
	}

	user, err := s.userRepo.FindByEmail(profile.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignupsDisabled
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.userRepo.CreateSocial(&models.UserSocial{
		UserID:   user.ID,
		Service:  service,
		SocialID: profile.ID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record social identity: %w", err)
	}

	return user, nil
}

// oauthProvider couples an OAuth2 config with the provider's profile
// endpoint.
type oauthProvider struct {
	config     *oauth2.Config
	profileURL string
}

// OAuthFetcher is the production ProfileFetcher backed by
// golang.org/x/oauth2.
type OAuthFetcher struct {
	providers map[string]oauthProvider
}

// NewOAuthFetcher builds the provider registry from configuration.
func NewOAuthFetcher(cfg *config.Config) *OAuthFetcher {
	return &OAuthFetcher{
		providers: map[string]oauthProvider{
			"github": {
				config: &oauth2.Config{
					ClientID:     cfg.GithubClientID,
					ClientSecret: cfg.GithubClientSecret,
					Endpoint:     github.Endpoint,
					RedirectURL:  cfg.BaseURL + "/login/github/callback",
					Scopes:       []string{"user:email"},
				},
				profileURL: "https://api.github.com/user",
			},
			"gitlab": {
				config: &oauth2.Config{
					ClientID:     cfg.GitlabClientID,
					ClientSecret: cfg.GitlabClientSecret,
					Endpoint:     gitlab.Endpoint,
					RedirectURL:  cfg.BaseURL + "/login/gitlab/callback",
					Scopes:       []string{"read_user"},
				},
				profileURL: "https://gitlab.com/api/v4/user",
			},
		},
	}
}

// AuthURL returns the provider page to redirect the browser to.
func (f *OAuthFetcher) AuthURL(service, state string) (string, error) {
	provider, ok := f.providers[service]
	if !ok {
		return "", ErrUnknownSocialService
	}
	return provider.config.AuthCodeURL(state), nil
}

// Profile exchanges the callback code and fetches the provider profile.
func (f *OAuthFetcher) Profile(ctx context.Context, service, code string) (*SocialProfile, error) {
	provider, ok := f.providers[service]
	if !ok {
		return nil, ErrUnknownSocialService
	}

	token, err := provider.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := provider.config.Client(ctx, token)
	resp, err := client.Get(provider.profileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile request failed with status %d", resp.StatusCode)
	}

	var raw struct {
		ID    json.Number `json:"id"`
		Email string      `json:"email"`
		Name  string      `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	return &SocialProfile{
		ID:    raw.ID.String(),
		Email: raw.Email,
		Name:  raw.Name,
	}, nil
}
