package store

import (
	"context"

	"dog-breed-social/internal/client/api"
	"dog-breed-social/internal/client/model"
)

const keySession = "session"

type AuthState struct {
	User          *model.User
	Authenticated bool
	Loading       bool
	Error         string
	// Message es el último mensaje de éxito del servidor (registro con éxito parcial, etc).
	Message string
}

type Auth struct {
	base
	api   AuthAPI
	cache SessionCache

	user    *model.User
	message string
}

func NewAuth(a AuthAPI, cache SessionCache) *Auth {
	s := &Auth{api: a, cache: cache}
	s.init()
	return s
}

func (s *Auth) Snapshot() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := AuthState{
		Loading: s.inflight > 0,
		Error:   s.errMsg,
		Message: s.message,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
		st.Authenticated = true
	}
	return st
}

// Restore levanta la sesión guardada sin ir a la red.
func (s *Auth) Restore() bool {
	u, ok := s.cache.User()
	if !ok || s.cache.Token() == "" {
		return false
	}
	s.mutate(func() { s.user = &u })
	return true
}

func (s *Auth) Login(ctx context.Context, email, password string) bool {
	var seq uint64
	s.mutate(func() { seq = s.begin(keySession) })

	res, err := s.api.Login(ctx, email, password)

	s.mutate(func() {
		current := s.latest(keySession, seq)
		// un login superado no toca el cache: el token guardado es el de la sesión mostrada.
		if err == nil && current {
			err = s.persist(res.Session.AccessToken, res.User)
		}
		s.finish(err, current)
		if err != nil || !current {
			return
		}
		u := res.User
		s.user = &u
		s.message = res.Message
	})
	return err == nil
}

func (s *Auth) persist(token string, u model.User) error {
	if err := s.cache.SetToken(token); err != nil {
		return err
	}
	return s.cache.SetUser(u)
}

// Register no inicia sesión: el backend puede pedir confirmación del email.
func (s *Auth) Register(ctx context.Context, email, password, name string) bool {
	var seq uint64
	s.mutate(func() { seq = s.begin(keySession) })

	res, err := s.api.Register(ctx, email, password, name)

	s.mutate(func() {
		current := s.latest(keySession, seq)
		s.finish(err, current)
		if err == nil && current {
			s.message = res.Message
		}
	})
	return err == nil
}

// Logout borra la sesión local aunque el servidor falle, salvo que otra acción de sesión la haya superado.
func (s *Auth) Logout(ctx context.Context) bool {
	var seq uint64
	s.mutate(func() { seq = s.begin(keySession) })

	err := s.api.Logout(ctx)

	var cerr error
	s.mutate(func() {
		current := s.latest(keySession, seq)
		s.finish(err, current)
		if !current {
			return
		}
		cerr = s.cache.ClearSession()
		s.user = nil
		s.message = ""
		if err == nil && cerr != nil {
			s.errMsg = cerr.Error()
		}
	})
	return err == nil && cerr == nil
}

// Refresh relee el perfil. Un 401 cierra la sesión local.
func (s *Auth) Refresh(ctx context.Context) bool {
	var seq uint64
	s.mutate(func() { seq = s.begin(keySession) })

	u, err := s.api.Me(ctx)

	s.mutate(func() {
		current := s.latest(keySession, seq)
		s.finish(err, current)
		if !current {
			return
		}
		switch {
		case api.IsUnauthorized(err):
			_ = s.cache.ClearSession()
			s.user = nil
		case err == nil:
			_ = s.cache.SetUser(u)
			s.user = &u
		}
	})
	return err == nil
}

func (s *Auth) UpdateProfile(ctx context.Context, in api.ProfileUpdate) bool {
	var seq uint64
	s.mutate(func() { seq = s.begin(keySession) })

	u, err := s.api.UpdateProfile(ctx, in)

	s.mutate(func() {
		current := s.latest(keySession, seq)
		s.finish(err, current)
		if err == nil && current {
			_ = s.cache.SetUser(u)
			s.user = &u
		}
	})
	return err == nil
}
