package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard-project/backend/logging"
	"taskboard-project/backend/middleware"
	"taskboard-project/backend/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps domain errors onto HTTP statuses: validation 400, bad
// credentials 401, denial 403, absence 404, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: err.Error()})
	case errors.Is(err, models.ErrForbidden):
		writeJSON(w, http.StatusForbidden, messageResponse{Message: err.Error()})
	case models.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: err.Error()})
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: Unhandled error in request handler: %v", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "internal server error"})
	}
}

// actingUser pulls the user id the auth middleware resolved. A miss means the
// route was wired without the middleware; respond 401 rather than proceed.
func actingUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "authentication required"})
		return primitive.NilObjectID, false
	}
	return userID, true
}
