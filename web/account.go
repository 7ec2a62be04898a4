package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/akinalp/pano/models"
	"github.com/akinalp/pano/pkg"
)

type loginForm struct {
	Username string
	Next     string
}

type signupForm struct {
	Username    string
	Email       string
	DisplayName string
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	next := SafeNext(r.URL.Query().Get("next"))
	if SessionFromContext(r.Context()).Viewer != nil {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login", "auth.loginTitle", loginForm{Next: next})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	r = s.clientContext(r)
	form := loginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Next:     SafeNext(r.PostFormValue("next")),
	}

	tokens, err := s.api.Login(r.Context(), models.LoginRequest{
		Username: form.Username,
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		if isFormError(err) || errors.Is(err, pkg.ErrUnauthorized) {
			s.renderForm(w, r, "login", "auth.loginTitle", form, err)
			return
		}
		s.fail(w, r, err)
		return
	}

	s.sessions.SetTokens(w, tokens)
	http.Redirect(w, r, form.Next, http.StatusSeeOther)
}

func (s *Server) signupForm(w http.ResponseWriter, r *http.Request) {
	if SessionFromContext(r.Context()).Viewer != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "signup", "auth.signupTitle", signupForm{})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	r = s.clientContext(r)
	form := signupForm{
		Username:    strings.TrimSpace(r.PostFormValue("username")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		DisplayName: strings.TrimSpace(r.PostFormValue("display_name")),
	}

	password := r.PostFormValue("password")
	if password != r.PostFormValue("password_confirm") {
		d := s.pageData(r, "auth.signupTitle", form)
		d.Error = d.T("auth.passwordMismatch")
		s.renderer.Render(w, http.StatusBadRequest, "signup", d)
		return
	}

	tokens, err := s.api.Register(r.Context(), models.CreateUserRequest{
		Username:    form.Username,
		Password:    password,
		Email:       form.Email,
		DisplayName: form.DisplayName,
	})
	if err != nil {
		if isFormError(err) {
			s.renderForm(w, r, "signup", "auth.signupTitle", form, err)
			return
		}
		s.fail(w, r, err)
		return
	}

	s.sessions.SetTokens(w, tokens)
	http.Redirect(w, r, "/?notice=welcome", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type profilePage struct {
	User          *models.User
	PasswordError string
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "profile", "profile.title", profilePage{
		User: SessionFromContext(r.Context()).Viewer,
	})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	displayName := r.PostFormValue("display_name")
	email := r.PostFormValue("email")

	_, err := s.api.UpdateMe(r.Context(), session.AccessToken, models.UpdateProfileRequest{
		DisplayName: &displayName,
		Email:       &email,
	})
	if err != nil {
		if isFormError(err) {
			edited := *session.Viewer
			edited.DisplayName = &displayName
			edited.Email = &email
			s.renderForm(w, r, "profile", "profile.title", profilePage{User: &edited}, err)
			return
		}
		s.fail(w, r, err)
		return
	}

	s.sessions.ForgetViewer(session.AccessToken)
	http.Redirect(w, r, "/me?notice=profileSaved", http.StatusSeeOther)
}

// changePassword: API tüm oturumları kapatır; kullanıcı yeniden giriş yapar.
func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	newPassword := r.PostFormValue("new_password")
	if newPassword != r.PostFormValue("new_password_confirm") {
		d := s.pageData(r, "profile.title", profilePage{User: session.Viewer})
		d.Data = profilePage{User: session.Viewer, PasswordError: d.T("auth.passwordMismatch")}
		s.renderer.Render(w, http.StatusBadRequest, "profile", d)
		return
	}

	err := s.api.ChangePassword(r.Context(), session.AccessToken, models.ChangePasswordRequest{
		CurrentPassword: r.PostFormValue("current_password"),
		NewPassword:     newPassword,
	})
	if err != nil {
		if isFormError(err) {
			d := s.pageData(r, "profile.title", nil)
			d.Data = profilePage{User: session.Viewer, PasswordError: formError(d.Loc, err)}
			s.renderer.Render(w, pkg.StatusFor(err), "profile", d)
			return
		}
		s.fail(w, r, err)
		return
	}

	s.sessions.Clear(w, r)
	http.Redirect(w, r, "/login?notice=passwordChanged", http.StatusSeeOther)
}
