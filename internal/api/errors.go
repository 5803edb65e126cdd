package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/orrery/internal/ephemeris"
	"github.com/signalsfoundry/orrery/internal/storage"
)

var (
	// ErrMissingParam is returned when a required query parameter is empty.
	ErrMissingParam = errors.New("missing parameter")
	// ErrNotFound is used when a route exists but the requested entity does not.
	ErrNotFound = errors.New("not found")
)

// ToStatusError maps lookup errors onto gRPC status codes. Errors that
// already carry a status pass through unchanged.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, ErrMissingParam),
		errors.Is(err, ephemeris.ErrInvalidDate),
		errors.Is(err, ephemeris.ErrUnknownBody):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, ErrNotFound),
		errors.Is(err, storage.ErrCacheMiss):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// HTTPStatus converts a gRPC code into the HTTP status written to clients.
func HTTPStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.Canceled:
		return 499
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorPayload struct {
	Error string `json:"error"`
}

// writeError renders err as {"error": "..."} with the mapped status and
// returns that status.
func writeError(w http.ResponseWriter, err error) int {
	st, _ := status.FromError(ToStatusError(err))
	code := HTTPStatus(st.Code())
	writeJSON(w, code, errorPayload{Error: st.Message()})
	return code
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
