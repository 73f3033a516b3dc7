package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/guiamercado/guiamercado-backend/api/middleware"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
)

func requireUser(r *http.Request) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return userID, nil
}
