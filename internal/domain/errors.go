package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// Rejection es un rechazo de regla de negocio. Su mensaje se devuelve tal cual al
// emisor del comando; cualquier otro error se considera fallo interno.
type Rejection struct {
	msg string
}

func (r *Rejection) Error() string { return r.msg }

// Reject construye un rechazo con el mensaje visible para el usuario.
func Reject(msg string) *Rejection { return &Rejection{msg: msg} }

// IsRejection indica si err (o algún error envuelto) es un rechazo de negocio.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// Rechazos del motor de comandos. Los textos forman parte del contrato con la capa HTTP.
var (
	ErrUnknownCommand       = Reject("unknown cmd")
	ErrBadPayload           = Reject("bad payload")
	ErrMissingCredentials   = Reject("missing username/password")
	ErrUsernameExists       = Reject("username exists")
	ErrUserNotFound         = Reject("user not found")
	ErrBadRequest           = Reject("bad request")
	ErrBadLeadOrUser        = Reject("bad lead/user")
	ErrBadUser              = Reject("bad user")
	ErrLeadNotFound         = Reject("lead not found")
	ErrLeadMissing          = Reject("lead missing")
	ErrOrderNotFound        = Reject("order not found")
	ErrClientNotFound       = Reject("client not found")
	ErrEventNotFound        = Reject("event not found")
	ErrMinCases             = Reject("min 25 cases per flavor")
	ErrBadCases             = Reject("bad cases")
	ErrMissingRepFields     = Reject("missing rep fields")
	ErrMustBePaidFirst      = Reject("must be paid first")
	ErrNotScheduled         = Reject("not scheduled")
	ErrMissingEventFields   = Reject("missing title/date/time")
	ErrDocumentRenderFailed = Reject("document generation failed")
)
