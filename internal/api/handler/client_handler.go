package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stitchboard/tailor-admin/internal/core/ports"
)

// ClientHandler handles HTTP requests for measurement records.
type ClientHandler struct {
	clients ports.ClientService
}

func NewClientHandler(clients ports.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// Create stores a measurement record attributed to the caller.
//
// @Summary      Create a measurement record
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client and measurements"
// @Success      200   {object}  clientEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/create-measurement [post]
func (h *ClientHandler) Create(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.clients.CreateMeasurement(c.Request().Context(), session.Identity, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientEnvelope{Success: true, Message: "client created successfully", Client: toClientResponse(client)})
}

// List returns every record for admins, with creators, and the caller's own records otherwise.
//
// @Summary      List measurement records
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  clientsEnvelope
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/client-details [get]
func (h *ClientHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	clients, err := h.clients.ListClients(c.Request().Context(), session.Identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientsEnvelope{Success: true, Message: "all clients", Clients: toClientResponses(clients)})
}

// Update merges the given fields into a record.
//
// @Summary      Update a measurement record
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client id"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  clientEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/update/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := req.toPatch()
	if patch.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	client, err := h.clients.UpdateClient(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientEnvelope{Success: true, Message: "client updated successfully", Client: toClientResponse(client)})
}

// Remove deletes a record.
//
// @Summary      Delete a measurement record
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  clientEnvelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/remove/{id} [delete]
func (h *ClientHandler) Remove(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	client, err := h.clients.RemoveClient(c.Request().Context(), session.Identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientEnvelope{Success: true, Message: "client deleted successfully", Client: toClientResponse(client)})
}
