package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/haulwise/backoffice/internal/api/middleware"
	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
)

// actorFrom builds the calling actor from the claims injected by the Auth
// middleware and fails fast on tokens that cannot be used:
//   - role must be non-empty (presence proves the middleware ran).
//   - carrier role requires a company_id, otherwise nothing could be scoped.
func actorFrom(c echo.Context) (ports.Actor, error) {
	role, _ := c.Get(middleware.KeyRole).(string)
	if role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	companyID, _ := c.Get(middleware.KeyCompanyID).(string)
	if role == domain.RoleCarrier && companyID == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing company identity")
	}

	username, _ := c.Get(middleware.KeyUsername).(string)
	return ports.Actor{Username: username, Role: role, CompanyID: companyID}, nil
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
