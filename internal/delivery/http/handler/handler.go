package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/response"

	"github.com/gorilla/mux"
)

var errInvalidID = errors.New("invalid id")

// pathID reads the numeric {id} route variable
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// accessError writes the reply for errors any protected usecase may return.
// It reports false when err is not one of them.
func accessError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		response.Unauthorized(w, "Invalid token")
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, "You don't have access to this resource")
	default:
		return false
	}
	return true
}
