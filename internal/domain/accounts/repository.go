package accounts

import "context"

type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

// AuthProvider es el servicio de auth del backend. Errores: *backend.Error.
type AuthProvider interface {
	SignUp(ctx context.Context, in SignUpInput) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Identity, Session, error)
	SignOut(ctx context.Context, token string) error
	GetUser(ctx context.Context, token string) (Identity, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
}
