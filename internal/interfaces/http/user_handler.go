package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ugcompta/invoiceflow/internal/application/usecase"
)

// UserHandler consulta de los usuarios del negocio (solo admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List GET /api/users?limit=20&offset=0
func (h *UserHandler) List(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	limit, offset := pagination(c)
	users, err := h.uc.List(c.UserContext(), businessID, limit, offset)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(users)
}

// GetByID GET /api/users/:id
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	user, err := h.uc.GetByID(c.UserContext(), businessID, c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(user)
}
