package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string

	// Token es el bearer original; lo necesitan logout y las llamadas al backend hosted.
	Token string
}
