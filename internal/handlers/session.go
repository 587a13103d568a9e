package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/webmoto/storefront/internal/services"
	"github.com/webmoto/storefront/internal/views"
)

// Login error codes carried in /login?err=.
const (
	errUserNotExist = "UserNotExist"
	errWrongPass    = "WrongPass"
	errUnAuth       = "unAuth"
	errUnAuthority  = "unAuthority"
	errRoleInvalid  = "RoleInvalid"
)

func loginMessage(code, role string) string {
	switch code {
	case errUserNotExist:
		return "Your username is wrong or does not exist"
	case errWrongPass:
		return "Wrong password, please try again!"
	case errUnAuth:
		return "You need to log in to continue"
	case errUnAuthority:
		return fmt.Sprintf("You need to log in with the %s role to continue", role)
	case errRoleInvalid:
		return "This account has no valid role, please contact an administrator"
	default:
		return ""
	}
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := page(r, "Log in", views.LoginView{Username: q.Get("username"), URL: q.Get("url")})
	data.Error = loginMessage(q.Get("err"), q.Get("role"))
	h.render(w, r, http.StatusOK, "login", data)
}

// Login checks the submitted credentials, sets the session cookie and
// returns the user to the page that sent them to the login form.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	id, err := h.accounts.Authenticate(r.Context(), username, password)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		redirect(w, r, "/login?err="+errUserNotExist+"&username="+url.QueryEscape(username))
		return
	case errors.Is(err, services.ErrWrongPassword):
		redirect(w, r, "/login?err="+errWrongPass+"&username="+url.QueryEscape(username))
		return
	case errors.Is(err, services.ErrInvalidRole):
		redirect(w, r, "/login?err="+errRoleInvalid+"&username="+url.QueryEscape(username))
		return
	case err != nil:
		h.internalError(w, r, "failed to authenticate", err)
		return
	}

	if err := h.sessions.SignIn(w, id); err != nil {
		h.internalError(w, r, "failed to create session", err)
		return
	}
	h.logger.Info(r.Context(), "user signed in", "user", id.Username, "role", id.Role.String())

	target := r.URL.Query().Get("url")
	if !localPath(target) {
		target = "/"
	}
	redirect(w, r, target)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(w)
	redirect(w, r, "/login")
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "create-user", page(r, "Sign up", views.RegisterView{}))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	reg := services.Registration{
		Username:  r.FormValue("username"),
		Password:  r.FormValue("password"),
		BirthDate: r.FormValue("NgaySinh"),
		Phone:     r.FormValue("SoDT"),
		Email:     r.FormValue("email"),
	}
	_, err := h.accounts.Register(r.Context(), reg)
	if err == nil {
		redirect(w, r, "/login")
		return
	}

	data := page(r, "Sign up", views.RegisterView{
		Username:  reg.Username,
		BirthDate: reg.BirthDate,
		Phone:     reg.Phone,
		Email:     reg.Email,
	})
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		data.Error = verr.Message
		h.render(w, r, http.StatusBadRequest, "create-user", data)
	case errors.Is(err, services.ErrUsernameTaken):
		data.Error = "Username already exists"
		h.render(w, r, http.StatusConflict, "create-user", data)
	default:
		h.logger.Error(r.Context(), "registration failed", "error", err)
		data.Error = "Something went wrong while creating your account"
		h.render(w, r, http.StatusInternalServerError, "create-user", data)
	}
}
