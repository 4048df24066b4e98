package accounts

import "time"

// Identity es la identidad de auth que vive en el backend (no el perfil).
type Identity struct {
	ID        string
	Email     string
	Name      string // metadata "name" enviada en el signup
	CreatedAt time.Time
}

// Session es el bearer emitido por el backend. Expira según el backend.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int // segundos
	ExpiresAt    time.Time
}

// Theme de la UI.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type Settings struct {
	EmailNotifications bool
	Theme              Theme
}

// Profile es la fila "users" que espeja la identidad.
type Profile struct {
	ID        string
	Email     string
	Name      string
	AvatarURL *string
	Bio       string
	Settings  Settings

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfilePatch: nil = no tocar. Solo los campos permitidos por PATCH /api/auth/me.
type ProfilePatch struct {
	Name *string

	// AvatarURL presente con Value nil => limpiar.
	AvatarURL OptionalString
}

type OptionalString struct {
	Present bool
	Value   *string
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && !p.AvatarURL.Present
}
