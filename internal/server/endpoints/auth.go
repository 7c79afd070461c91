package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/auth"
	"github.com/jackzampolin/formassist/internal/svcctx"
)

// LoginRequest is the body of login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// TokenResponse carries a new session token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

// MeResponse describes the current session.
type MeResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// OKResponse acknowledges an operation without a payload.
type OKResponse struct {
	OK bool `json:"ok"`
}

// LoginEndpoint handles POST /api/auth/login.
type LoginEndpoint struct{}

func (e *LoginEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/auth/login", e.handler
}

func (e *LoginEndpoint) RequiresInit() bool { return false }
func (e *LoginEndpoint) Group() string      { return "auth" }

// handler godoc
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		LoginRequest	true	"Credentials"
//	@Success	200		{object}	TokenResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/api/auth/login [post]
func (e *LoginEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a := svcctx.AuthFrom(r.Context())
	if a == nil {
		writeError(w, http.StatusServiceUnavailable, "auth not initialized")
		return
	}
	sess, err := a.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: sess.Token, Role: sess.Role})
}

func (e *LoginEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and print a session token",
		Long: `Log in and print a session token.

Pass the token to later commands with --token or FORMASSIST_TOKEN.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp TokenResponse
			if err := client.Post(cmd.Context(), "/api/auth/login", LoginRequest{Username: args[0], Password: args[1]}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// RegisterEndpoint handles POST /api/auth/register.
type RegisterEndpoint struct{}

func (e *RegisterEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/auth/register", e.handler
}

func (e *RegisterEndpoint) RequiresInit() bool { return false }
func (e *RegisterEndpoint) Group() string      { return "auth" }

// handler godoc
//
//	@Summary	Create an account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RegisterRequest	true	"Account"
//	@Success	200		{object}	TokenResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/auth/register [post]
func (e *RegisterEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a := svcctx.AuthFrom(r.Context())
	if a == nil {
		writeError(w, http.StatusServiceUnavailable, "auth not initialized")
		return
	}
	sess, err := a.Register(req.Username, req.Password, req.Role)
	switch {
	case errors.Is(err, auth.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "Role must be 'admin' or 'user'")
		return
	case errors.Is(err, auth.ErrUserExists):
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: sess.Token, Role: sess.Role})
}

func (e *RegisterEndpoint) Command(getServerURL func() string) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account and print its session token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp TokenResponse
			req := RegisterRequest{Username: args[0], Password: args[1], Role: role}
			if err := client.Post(cmd.Context(), "/api/auth/register", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&role, "role", "user", "Account role (admin or user)")
	return cmd
}

// MeEndpoint handles GET /api/auth/me.
type MeEndpoint struct{}

func (e *MeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/auth/me", requireSession(e.handler)
}

func (e *MeEndpoint) RequiresInit() bool { return false }
func (e *MeEndpoint) Group() string      { return "auth" }

// handler godoc
//
//	@Summary	Current user
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	MeResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/auth/me [get]
func (e *MeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, MeResponse{Username: sess.Username, Role: sess.Role})
}

func (e *MeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp MeResponse
			if err := client.Get(cmd.Context(), "/api/auth/me", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// LogoutEndpoint handles POST /api/auth/logout.
type LogoutEndpoint struct{}

func (e *LogoutEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/auth/logout", requireSession(e.handler)
}

func (e *LogoutEndpoint) RequiresInit() bool { return false }
func (e *LogoutEndpoint) Group() string      { return "auth" }

// handler godoc
//
//	@Summary	Log out
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	OKResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/api/auth/logout [post]
func (e *LogoutEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	a := svcctx.AuthFrom(r.Context())
	if err := a.Logout(sessionFrom(r).Token); err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

func (e *LogoutEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp OKResponse
			if err := client.Post(cmd.Context(), "/api/auth/logout", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
