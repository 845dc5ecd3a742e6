package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token    string        `json:"token"`
	Identity auth.Identity `json:"user"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type messageResp struct {
	Message string `json:"message"`
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id, err := a.Users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := a.Sessions.Create(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResp{Token: token, Identity: id})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Logout(r.Context(), sessionToken(r)); err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, messageResp{Message: "Logout berhasil!"})
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, IdentityFrom(r.Context()))
}

func (a *API) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	err := a.Users.ChangePassword(r.Context(), IdentityFrom(r.Context()), req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "Password berhasil diubah!"})
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	us, err := a.Users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, us)
}

func (a *API) addUser(w http.ResponseWriter, r *http.Request) {
	var in auth.UserInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	u, err := a.Users.AddUser(r.Context(), IdentityFrom(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (a *API) editUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in auth.UserInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	u, err := a.Users.EditUser(r.Context(), IdentityFrom(r.Context()), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) toggleUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := a.Users.ToggleActive(r.Context(), IdentityFrom(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
