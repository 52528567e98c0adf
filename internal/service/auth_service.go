package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/cruzaro/hpcollect/internal/cache"
	"github.com/cruzaro/hpcollect/internal/guard"
	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/repository"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// AuthService handles sign-in and sign-out. Agent sign-ins are registered
// with the access guard so roster deactivation terminates them.
type AuthService struct {
	profileRepo *repository.ProfileRepository
	agentRepo   *repository.AgentRepository
	sessions    *cache.SessionStore
	guards      *guard.Manager
}

// NewAuthService constructs an AuthService.
func NewAuthService(
	profileRepo *repository.ProfileRepository,
	agentRepo *repository.AgentRepository,
	sessions *cache.SessionStore,
	guards *guard.Manager,
) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		agentRepo:   agentRepo,
		sessions:    sessions,
		guards:      guards,
	}
}

// LoginResult is a successful sign-in: the token and the identity it names.
type LoginResult struct {
	Token   string         `json:"token"`
	Profile models.Profile `json:"profile"`
}

// Login verifies credentials and issues a session token. An agent whose
// roster entry is inactive cannot sign in at all.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, utils.ErrMissingField
	}

	account, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	if account.Role == models.RoleAgent {
		agent, err := s.agentRepo.GetByProfileID(ctx, account.ID)
		if err != nil && !repository.IsNoRows(err) {
			return nil, err
		}
		if agent != nil && !agent.Active {
			return nil, utils.ErrAccountInactive
		}
	}

	token, err := utils.GenerateJWT(account.ID, account.Email, string(account.Role), account.Name)
	if err != nil {
		return nil, err
	}

	// A fresh sign-in supersedes any earlier revocation of this identity.
	if err := s.sessions.ClearRevocation(ctx, account.ID); err != nil {
		log.Warn().Err(err).Str("profile_id", account.ID).Msg("revocation clear failed")
	}
	if account.Role == models.RoleAgent {
		s.guards.Register(account.Profile())
	}

	log.Info().Str("profile_id", account.ID).Str("role", string(account.Role)).Msg("signed in")
	return &LoginResult{Token: token, Profile: account.Profile()}, nil
}

// SignOut terminates the identity's sessions and drops its guard.
func (s *AuthService) SignOut(ctx context.Context, profileID string) error {
	if err := s.sessions.RevokeSession(ctx, profileID); err != nil {
		return err
	}
	s.guards.Drop(profileID)
	log.Info().Str("profile_id", profileID).Msg("signed out")
	return nil
}
