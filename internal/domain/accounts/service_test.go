package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dog-breed-social/internal/platform/validate"
	"dog-breed-social/internal/ports/backend"
)

// -------------------------
// Fakes
// -------------------------

type fakeAuth struct {
	calls     int
	signUpErr error
	signInErr error

	users map[string]string // email -> password
}

func newFakeAuth() *fakeAuth { return &fakeAuth{users: map[string]string{}} }

func (f *fakeAuth) SignUp(ctx context.Context, in SignUpInput) (Identity, error) {
	f.calls++
	if f.signUpErr != nil {
		return Identity{}, f.signUpErr
	}
	f.users[in.Email] = in.Password
	return Identity{ID: "u-" + in.Email, Email: in.Email, Name: in.Name}, nil
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (Identity, Session, error) {
	f.calls++
	if f.signInErr != nil {
		return Identity{}, Session{}, f.signInErr
	}
	if pw, ok := f.users[email]; !ok || pw != password {
		return Identity{}, Session{}, backend.Unauthorized("Invalid login credentials")
	}
	return Identity{ID: "u-" + email, Email: email}, Session{AccessToken: "tok-" + email, TokenType: "bearer"}, nil
}

func (f *fakeAuth) SignOut(ctx context.Context, token string) error {
	f.calls++
	return nil
}

func (f *fakeAuth) GetUser(ctx context.Context, token string) (Identity, error) {
	f.calls++
	return Identity{}, backend.Unauthorized("invalid token")
}

type fakeProfiles struct {
	byID      map[string]Profile
	createErr error
	lookupErr error
}

func newFakeProfiles() *fakeProfiles { return &fakeProfiles{byID: map[string]Profile{}} }

func (r *fakeProfiles) Create(ctx context.Context, p Profile) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProfiles) Update(ctx context.Context, p Profile) error {
	if _, ok := r.byID[p.ID]; !ok {
		return backend.NotFound("profile not found")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProfiles) GetByID(ctx context.Context, id string) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, backend.NotFound("profile not found")
	}
	return p, nil
}

func (r *fakeProfiles) GetByEmail(ctx context.Context, email string) (Profile, error) {
	if r.lookupErr != nil {
		return Profile{}, r.lookupErr
	}
	for _, p := range r.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return Profile{}, backend.NotFound("profile not found")
}

func newTestService() (*Service, *fakeAuth, *fakeProfiles) {
	a := newFakeAuth()
	p := newFakeProfiles()
	svc := NewService(a, p, DefaultPasswordPolicy(), nil)
	svc.now = func() time.Time { return time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC) }
	return svc, a, p
}

// -------------------------
// Validación
// -------------------------

func TestValidateCredentials_RejectsMalformedEmails_BeforeBackend(t *testing.T) {
	svc, a, _ := newTestService()

	for _, email := range []string{"plain", "no-domain@", "@no-local.com", "a@b", "with space@x.com", "a@b."} {
		_, err := svc.Register(context.Background(), RegisterInput{Email: email, Password: "secret1"})
		var ve *validate.Error
		if !errors.As(err, &ve) {
			t.Fatalf("register %q: expected validation error, got %v", email, err)
		}

		_, _, err = svc.Login(context.Background(), email, "secret1")
		if !errors.As(err, &ve) {
			t.Fatalf("login %q: expected validation error, got %v", email, err)
		}
	}
	if a.calls != 0 {
		t.Fatalf("expected no backend calls, got %d", a.calls)
	}
}

func TestPasswordPolicy_MinLength(t *testing.T) {
	p := PasswordPolicy{MinLength: 8}
	for _, pw := range []string{"", "a", "1234567"} {
		if err := p.Validate(pw); err == nil {
			t.Fatalf("expected %q to be rejected", pw)
		}
	}
	if err := p.Validate("12345678"); err != nil {
		t.Fatalf("expected 8 chars to pass, got %v", err)
	}
}

func TestPasswordPolicy_RequireClasses_NamesMissingClass(t *testing.T) {
	p := PasswordPolicy{MinLength: 6, RequireClasses: true}

	cases := map[string]CharClass{
		"ABCdef!!": ClassDigit,
		"abc123!!": ClassUpper,
		"ABC123!!": ClassLower,
		"Abc12345": ClassSpecial,
	}
	for pw, missing := range cases {
		err := p.Validate(pw)
		if err == nil {
			t.Fatalf("expected %q to be rejected", pw)
		}
		if !strings.Contains(err.Error(), string(missing)) {
			t.Fatalf("message for %q should name %q, got %q", pw, missing, err.Error())
		}
	}
	if err := p.Validate("Abc12!xy"); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}
}

// -------------------------
// Registro
// -------------------------

func TestService_Register_CreatesIdentityAndProfile(t *testing.T) {
	svc, _, profiles := newTestService()

	res, err := svc.Register(context.Background(), RegisterInput{Email: "ana@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if !res.ProfileCreated || res.Message != MsgRegistered {
		t.Fatalf("unexpected result: %#v", res)
	}

	p, ok := profiles.byID[res.Identity.ID]
	if !ok {
		t.Fatalf("expected profile row")
	}
	if p.Name != "ana" {
		t.Fatalf("expected default name from email local part, got %q", p.Name)
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, a, _ := newTestService()

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "ana@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	callsBefore := a.calls

	_, err := svc.Register(context.Background(), RegisterInput{Email: "ana@example.com", Password: "secret1"})
	if !errors.Is(err, backend.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if a.calls != callsBefore {
		t.Fatalf("duplicate check should stop before sign up")
	}
}

func TestService_Register_PartialSuccess_WhenProfileFails(t *testing.T) {
	svc, _, profiles := newTestService()
	profiles.createErr = errors.New("insert users: rls violation")

	res, err := svc.Register(context.Background(), RegisterInput{Email: "bob@example.com", Password: "secret1", Name: "Bob"})
	if err != nil {
		t.Fatalf("partial success must not be an error, got %v", err)
	}
	if res.ProfileCreated {
		t.Fatalf("expected ProfileCreated=false")
	}
	if res.Message != MsgRegisteredPartial {
		t.Fatalf("expected qualifying message, got %q", res.Message)
	}
	if res.Identity.ID == "" || res.Identity.Email != "bob@example.com" {
		t.Fatalf("expected identity id/email, got %#v", res.Identity)
	}
}

func TestService_Register_SignUpErrorPropagates(t *testing.T) {
	svc, a, _ := newTestService()
	a.signUpErr = backend.Invalid("Password should be at least 6 characters")

	_, err := svc.Register(context.Background(), RegisterInput{Email: "c@example.com", Password: "secret1"})
	if backend.KindOf(err) != backend.KindInvalid {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestService_Register_SanitizesName(t *testing.T) {
	svc, _, profiles := newTestService()

	res, err := svc.Register(context.Background(), RegisterInput{Email: "d@example.com", Password: "secret1", Name: "<b>Dee</b>"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if got := profiles.byID[res.Identity.ID].Name; got != "Dee" {
		t.Fatalf("expected sanitized name, got %q", got)
	}
}

// -------------------------
// Login / perfil
// -------------------------

func TestService_Login_BadCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	_, _ = svc.Register(context.Background(), RegisterInput{Email: "ana@example.com", Password: "secret1"})

	_, _, err := svc.Login(context.Background(), "ana@example.com", "wrong-pass")
	if backend.KindOf(err) != backend.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if backend.MessageOf(err, "") != "invalid email or password" {
		t.Fatalf("unexpected message: %q", backend.MessageOf(err, ""))
	}
}

func TestService_Login_ReturnsProfileAndSession(t *testing.T) {
	svc, _, _ := newTestService()
	_, _ = svc.Register(context.Background(), RegisterInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})

	p, sess, err := svc.Login(context.Background(), "ana@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if p.Name != "Ana" || sess.AccessToken == "" {
		t.Fatalf("unexpected login result: %#v %#v", p, sess)
	}
}

func TestService_UpdateProfile_NoValidFields(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateProfile(context.Background(), "u-1", "a@example.com", ProfilePatch{})
	if err != ErrNoValidFields {
		t.Fatalf("expected ErrNoValidFields, got %v", err)
	}
}

func TestService_UpdateProfile_AppliesAllowListedFields(t *testing.T) {
	svc, _, profiles := newTestService()
	res, _ := svc.Register(context.Background(), RegisterInput{Email: "ana@example.com", Password: "secret1"})

	name := "  Ana María "
	avatar := "https://cdn.example.com/a.png"
	p, err := svc.UpdateProfile(context.Background(), res.Identity.ID, "ana@example.com", ProfilePatch{
		Name:      &name,
		AvatarURL: OptionalString{Present: true, Value: &avatar},
	})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if p.Name != "Ana María" || p.AvatarURL == nil || *p.AvatarURL != avatar {
		t.Fatalf("unexpected profile: %#v", p)
	}

	// null limpia el avatar
	p, err = svc.UpdateProfile(context.Background(), res.Identity.ID, "ana@example.com", ProfilePatch{
		AvatarURL: OptionalString{Present: true},
	})
	if err != nil {
		t.Fatalf("UpdateProfile #2 error: %v", err)
	}
	if p.AvatarURL != nil || profiles.byID[res.Identity.ID].AvatarURL != nil {
		t.Fatalf("expected avatar cleared")
	}
}

func TestService_Me_FallsBackToIdentity_WhenNoProfileRow(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Me(context.Background(), "u-9", "zoe@example.com")
	if err != nil {
		t.Fatalf("Me error: %v", err)
	}
	if p.ID != "u-9" || p.Name != "zoe" {
		t.Fatalf("unexpected derived profile: %#v", p)
	}
}
