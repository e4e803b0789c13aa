package server

import (
	"errors"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/orderdesk/sales-admin-api/internal/domains/catalog/application"
	catalogports "github.com/orderdesk/sales-admin-api/internal/domains/catalog/ports"
	clientsapp "github.com/orderdesk/sales-admin-api/internal/domains/clients/application"
	clientsports "github.com/orderdesk/sales-admin-api/internal/domains/clients/ports"
	deliveriesapp "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/application"
	deliveriesports "github.com/orderdesk/sales-admin-api/internal/domains/deliveries/ports"
	metricsapp "github.com/orderdesk/sales-admin-api/internal/domains/metrics/application"
	ordersapp "github.com/orderdesk/sales-admin-api/internal/domains/orders/application"
	ordersports "github.com/orderdesk/sales-admin-api/internal/domains/orders/ports"
	usersapp "github.com/orderdesk/sales-admin-api/internal/domains/users/application"
	usersports "github.com/orderdesk/sales-admin-api/internal/domains/users/ports"
	apierrors "github.com/orderdesk/sales-admin-api/internal/shared/errors"
)

// problemResponder maps every bounded context's errors onto RFC 7807
// responses: 404 for missing entities, 409 for uniqueness and dependency
// conflicts, 400 for invariant violations, 401 for bad credentials.
var problemResponder = apierrors.NewChainedResponder("",
	mapNotFoundError,
	mapConflictError,
	mapValidationError,
	mapAuthError,
)

func mapNotFoundError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound),
		errors.Is(err, clientsports.ErrNotFound),
		errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, ordersports.ErrItemNotFound),
		errors.Is(err, ordersports.ErrProductNotFound),
		errors.Is(err, ordersports.ErrBuyerNotFound),
		errors.Is(err, deliveriesports.ErrNotFound),
		errors.Is(err, deliveriesports.ErrProductNotFound),
		errors.Is(err, usersports.ErrNotFound),
		errors.Is(err, usersports.ErrTokenNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflictError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrConflict):
		return apierrors.NewConflictProblem("product", "SKU already in use"), true
	case errors.Is(err, clientsports.ErrConflict):
		return apierrors.NewConflictProblem("client", "email already registered"), true
	case errors.Is(err, usersports.ErrConflict):
		return apierrors.NewConflictProblem("user", "email already registered"), true
	case errors.Is(err, clientsapp.ErrHasOrders):
		return apierrors.NewConflictProblem("client", "client still has orders"), true
	case errors.Is(err, ordersports.ErrInsufficientStock),
		errors.Is(err, deliveriesports.ErrInsufficientStock):
		return apierrors.NewConflictProblem("stock", err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapValidationError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, catalogapp.ErrUnknownCategory),
		errors.Is(err, clientsapp.ErrInvalidInput),
		errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, deliveriesapp.ErrInvalidInput),
		errors.Is(err, usersapp.ErrInvalidInput),
		errors.Is(err, metricsapp.ErrInvalidWindow):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapAuthError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, usersapp.ErrInvalidCredentials),
		errors.Is(err, usersapp.ErrInvalidToken),
		errors.Is(err, usersapp.ErrExpiredToken):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondServiceError renders a service error as a problem response.
func respondServiceError(c *gin.Context, err error) {
	problemResponder.RespondError(c, err)
}

// respondBadRequest renders a malformed-request problem.
func respondBadRequest(c *gin.Context, err error) {
	problemResponder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// respondProblem renders a prebuilt problem.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	problemResponder.Respond(c, problem)
}
