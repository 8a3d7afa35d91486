package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
)

// CompanyHandler manages the shipper and carrier roster.
type CompanyHandler struct {
	companies ports.CompanyService
}

func NewCompanyHandler(companies ports.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// Create handles POST /v1/companies.
//
// @Summary      Register a shipper or carrier
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      companyRequest  true  "Company"
// @Success      201   {object}  companyResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/companies [post]
func (h *CompanyHandler) Create(c echo.Context) error {
	var req companyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	company, err := h.companies.Create(c.Request().Context(), toCompanyInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCompanyResponse(company))
}

// Get handles GET /v1/companies/:id.
//
// @Summary      Get a company
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Company id"
// @Success      200  {object}  companyResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/companies/{id} [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	company, err := h.companies.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompanyResponse(company))
}

// Search handles GET /v1/companies.
//
// @Summary      Search the roster
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        kind   query     string  false  "shipper or carrier"
// @Param        q      query     string  false  "Name fragment or business number prefix"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  searchCompaniesResponse
// @Failure      400    {object}  errorResponse
// @Router       /v1/companies [get]
func (h *CompanyHandler) Search(c echo.Context) error {
	kind, err := queryKind(c)
	if err != nil {
		return err
	}
	res, err := h.companies.Search(c.Request().Context(), ports.CompanyFilter{
		Kind:  kind,
		Query: c.QueryParam("q"),
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	items := make([]companyResponse, 0, len(res.Items))
	for _, company := range res.Items {
		items = append(items, toCompanyResponse(company))
	}
	return c.JSON(http.StatusOK, searchCompaniesResponse{Items: items, Total: res.Total, Page: res.Page, Limit: res.Limit})
}

// Update handles PUT /v1/companies/:id.
//
// @Summary      Update a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Company id"
// @Param        body  body      companyRequest  true  "Company"
// @Success      200   {object}  companyResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/companies/{id} [put]
func (h *CompanyHandler) Update(c echo.Context) error {
	var req companyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	company, err := h.companies.Update(c.Request().Context(), c.Param("id"), toCompanyInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompanyResponse(company))
}

// Delete handles DELETE /v1/companies/:id.
//
// @Summary      Delete a company
// @Tags         companies
// @Security     BearerAuth
// @Param        id  path  string  true  "Company id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/companies/{id} [delete]
func (h *CompanyHandler) Delete(c echo.Context) error {
	if err := h.companies.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddManager handles POST /v1/companies/:id/managers.
//
// @Summary      Add a manager contact
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Company id"
// @Param        body  body      managerRequest  true  "Manager"
// @Success      201   {object}  domain.Manager
// @Failure      404   {object}  errorResponse
// @Router       /v1/companies/{id}/managers [post]
func (h *CompanyHandler) AddManager(c echo.Context) error {
	var req managerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	m, err := h.companies.AddManager(c.Request().Context(), c.Param("id"), ports.ManagerInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

// RemoveManager handles DELETE /v1/companies/:id/managers/:manager_id.
//
// @Summary      Remove a manager contact
// @Tags         companies
// @Security     BearerAuth
// @Param        id          path  string  true  "Company id"
// @Param        manager_id  path  string  true  "Manager id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/companies/{id}/managers/{manager_id} [delete]
func (h *CompanyHandler) RemoveManager(c echo.Context) error {
	if err := h.companies.RemoveManager(c.Request().Context(), c.Param("id"), c.Param("manager_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Import handles POST /v1/companies/import with a multipart "file" field
// holding a roster CSV.
//
// @Summary      Import a roster CSV
// @Tags         companies
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Roster CSV"
// @Success      200   {object}  ports.ImportRosterResult
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/companies/import [post]
func (h *CompanyHandler) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file cannot be read")
	}
	defer f.Close()

	res, err := h.companies.ImportRoster(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Export handles GET /v1/companies/export.
//
// @Summary      Export the roster as CSV
// @Tags         companies
// @Produce      text/csv
// @Security     BearerAuth
// @Param        kind  query  string  false  "shipper or carrier"
// @Success      200
// @Router       /v1/companies/export [get]
func (h *CompanyHandler) Export(c echo.Context) error {
	kind, err := queryKind(c)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("roster-%s.csv", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	c.Response().WriteHeader(http.StatusOK)
	return h.companies.ExportRoster(c.Request().Context(), kind, c.Response())
}

func queryKind(c echo.Context) (domain.CompanyKind, error) {
	kind := domain.CompanyKind(c.QueryParam("kind"))
	switch kind {
	case "", domain.KindShipper, domain.KindCarrier:
		return kind, nil
	}
	return "", echo.NewHTTPError(http.StatusBadRequest, "kind must be shipper or carrier")
}

func toCompanyInput(r companyRequest) ports.CompanyInput {
	return ports.CompanyInput{
		Kind:           domain.CompanyKind(r.Kind),
		Name:           r.Name,
		BusinessNumber: r.BusinessNumber,
		Phone:          r.Phone,
		Address:        r.Address,
	}
}
