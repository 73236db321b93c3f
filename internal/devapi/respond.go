package devapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	domainauth "github.com/target/catalog-admin/internal/domain/auth"
)

const maxRequestBytes = 1 << 20

// Messages returned by the development API, in the language of the real one.
const (
	msgInvalidData        = "Datos inválidos"
	msgInvalidCredentials = "Usuario o contraseña incorrectos"
	msgLoginOK            = "Inicio de sesión exitoso"
	msgLogoutOK           = "Sesión cerrada"
	msgSessionValid       = "Sesión válida"
	msgSessionInvalid     = "Sesión no válida"
	msgUnauthenticated    = "No autenticado"
	msgRegistered         = "Usuario registrado"
	msgUserExists         = "El usuario ya existe"
	msgProductNotFound    = "Producto no encontrado"
	msgDuplicateCode      = "Ya existe un producto con ese código"
	msgProductCreated     = "Producto creado"
	msgProductUpdated     = "Producto actualizado"
	msgProductDeleted     = "Producto eliminado"
	msgXSRFRejected       = "Token antiforgery inválido"
	msgInternal           = "Error interno del servidor"
)

// envelope is the wrapper every product and registration reply uses.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func writeEnvelope(w http.ResponseWriter, code int, e envelope) {
	writeJSON(w, code, e)
}

// decodeJSON decodes the request body into dst and writes a 400 reply when it
// cannot. It reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Message: msgInvalidData, Errors: []string{err.Error()}})
		return false
	}
	return true
}

type sessionKey struct{}

func withSession(ctx context.Context, sess domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

func sessionFromContext(ctx context.Context) (domainauth.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(domainauth.Session)
	return sess, ok
}
