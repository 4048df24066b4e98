package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"dog-breed-social/internal/platform/logger"
	"dog-breed-social/internal/platform/sanitize"
	"dog-breed-social/internal/platform/validate"
	"dog-breed-social/internal/ports/backend"
)

const (
	MsgRegistered        = "registration succeeded, please check your email to verify the account"
	MsgRegisteredPartial = "registration succeeded, but the user profile could not be created"
	MsgLoggedIn          = "login succeeded"
	MsgLoggedOut         = "logout succeeded"
	MsgProfileUpdated    = "profile updated"
)

var ErrNoValidFields = validate.New("no valid fields to update")

type Service struct {
	auth     AuthProvider
	profiles ProfileRepository
	policy   PasswordPolicy
	text     *sanitize.Text
	log      logger.Logger
	now      func() time.Time
}

func NewService(auth AuthProvider, profiles ProfileRepository, policy PasswordPolicy, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		auth:     auth,
		profiles: profiles,
		policy:   policy,
		text:     sanitize.NewText(),
		log:      log.With(map[string]any{"module": "accounts"}),
		now:      time.Now,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// RegisterResult: ProfileCreated=false es éxito parcial (la identidad existe igual).
type RegisterResult struct {
	Identity       Identity
	ProfileCreated bool
	Message        string
}

// Register: validated -> duplicate-check -> create-auth-identity -> create-profile-row.
// Si falla el perfil no se revierte la identidad.
func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	email := strings.TrimSpace(in.Email)
	if err := ValidateCredentials(email, in.Password); err != nil {
		return RegisterResult{}, err
	}
	if err := s.policy.Validate(in.Password); err != nil {
		return RegisterResult{}, err
	}

	name := s.text.Clean(in.Name)
	if name == "" {
		name = DefaultName(email)
	}

	_, err := s.profiles.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return RegisterResult{}, backend.Conflict("email already registered")
	case errors.Is(err, backend.ErrNotFound):
	default:
		s.log.Error("duplicate check failed", map[string]any{"op": "accounts.register", "err": err})
		return RegisterResult{}, err
	}

	id, err := s.auth.SignUp(ctx, SignUpInput{Email: email, Password: in.Password, Name: name})
	if err != nil {
		s.log.Warn("sign up failed", map[string]any{"op": "accounts.register", "err": err})
		return RegisterResult{}, err
	}

	now := s.now().UTC()
	p := Profile{
		ID:        id.ID,
		Email:     email,
		Name:      name,
		Settings:  Settings{EmailNotifications: true, Theme: ThemeSystem},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		s.log.Error("profile row creation failed", map[string]any{
			"op":      "accounts.register",
			"user_id": id.ID,
			"err":     err,
		})
		return RegisterResult{Identity: id, Message: MsgRegisteredPartial}, nil
	}

	return RegisterResult{Identity: id, ProfileCreated: true, Message: MsgRegistered}, nil
}

// Login valida, delega y devuelve el perfil (o uno derivado de la identidad si no hay fila).
func (s *Service) Login(ctx context.Context, email, password string) (Profile, Session, error) {
	email = strings.TrimSpace(email)
	if err := ValidateCredentials(email, password); err != nil {
		return Profile{}, Session{}, err
	}

	id, sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		if backend.KindOf(err) == backend.KindUnauthorized || backend.KindOf(err) == backend.KindInvalid {
			return Profile{}, Session{}, backend.Wrap(backend.KindUnauthorized, "invalid email or password", err)
		}
		s.log.Error("sign in failed", map[string]any{"op": "accounts.login", "err": err})
		return Profile{}, Session{}, err
	}

	p, err := s.profileFor(ctx, id)
	if err != nil {
		return Profile{}, Session{}, err
	}
	return p, sess, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.auth.SignOut(ctx, token); err != nil {
		// Un token ya vencido cuenta como sesión cerrada.
		if backend.KindOf(err) == backend.KindUnauthorized {
			return nil
		}
		s.log.Error("sign out failed", map[string]any{"op": "accounts.logout", "err": err})
		return err
	}
	return nil
}

// Me devuelve el perfil del usuario autenticado.
func (s *Service) Me(ctx context.Context, userID, email string) (Profile, error) {
	return s.profileFor(ctx, Identity{ID: userID, Email: email})
}

// UpdateProfile aplica solo campos permitidos. Si no existe la fila, la crea.
func (s *Service) UpdateProfile(ctx context.Context, userID, email string, patch ProfilePatch) (Profile, error) {
	if patch.IsEmpty() {
		return Profile{}, ErrNoValidFields
	}

	var name *string
	if patch.Name != nil {
		n := s.text.Clean(*patch.Name)
		if n == "" {
			return Profile{}, invalid("name cannot be empty")
		}
		name = &n
	}

	p, err := s.profiles.GetByID(ctx, userID)
	created := false
	if err != nil {
		if !errors.Is(err, backend.ErrNotFound) {
			s.log.Error("profile lookup failed", map[string]any{"op": "accounts.update_profile", "user_id": userID, "err": err})
			return Profile{}, err
		}
		p = s.derivedProfile(Identity{ID: userID, Email: email})
		created = true
	}

	if name != nil {
		p.Name = *name
	}
	if patch.AvatarURL.Present {
		p.AvatarURL = trimmedOrNil(patch.AvatarURL.Value)
	}
	p.UpdatedAt = s.now().UTC()

	if created {
		err = s.profiles.Create(ctx, p)
	} else {
		err = s.profiles.Update(ctx, p)
	}
	if err != nil {
		s.log.Error("profile update failed", map[string]any{"op": "accounts.update_profile", "user_id": userID, "err": err})
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) profileFor(ctx context.Context, id Identity) (Profile, error) {
	p, err := s.profiles.GetByID(ctx, id.ID)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, backend.ErrNotFound) {
		return s.derivedProfile(id), nil
	}
	s.log.Error("profile lookup failed", map[string]any{"op": "accounts.profile", "user_id": id.ID, "err": err})
	return Profile{}, err
}

func (s *Service) derivedProfile(id Identity) Profile {
	name := id.Name
	if name == "" {
		name = DefaultName(id.Email)
	}
	now := s.now().UTC()
	created := id.CreatedAt
	if created.IsZero() {
		created = now
	}
	return Profile{
		ID:        id.ID,
		Email:     id.Email,
		Name:      name,
		Settings:  Settings{EmailNotifications: true, Theme: ThemeSystem},
		CreatedAt: created,
		UpdatedAt: now,
	}
}

// DefaultName: parte local del email.
func DefaultName(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
