package http

import (
	"net/http"
	"strconv"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/auth"
	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/middleware"
	"github.com/apmb-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/apmb-hris/hrms-backend-go/internal/pkg/validator"
)

// requireActor returns the authenticated caller or writes a 401.
func requireActor(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
	}
	return actor, ok
}

// queryInt parses an optional integer query parameter. A malformed value is
// reported as a validation error on that field.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validator.ValidationErrors{{Field: name, Message: name + " must be a number"}}
	}
	return v, nil
}

func sessionFromRequest(r *http.Request) auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
