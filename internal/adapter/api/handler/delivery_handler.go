package handler

import (
	"ecobid/internal/usecase"
	"ecobid/pkg/response"
	"ecobid/pkg/utils"

	"github.com/labstack/echo/v4"
)

type DeliveryHandler struct {
	deliveryUseCase *usecase.DeliveryUseCase
}

func NewDeliveryHandler(deliveryUseCase *usecase.DeliveryUseCase) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryUseCase: deliveryUseCase,
	}
}

func (h *DeliveryHandler) GetDelivery(c echo.Context) error {
	userID := c.Get("uid").(string)

	delivery, err := h.deliveryUseCase.GetDelivery(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, delivery)
}

type advanceDeliveryRequest struct {
	Status string `json:"status" validate:"required,oneof=shipped out_for_delivery delivered"`
	Notes  string `json:"notes"`
}

func (h *DeliveryHandler) AdvanceStatus(c echo.Context) error {
	var req advanceDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actorID := c.Get("uid").(string)

	delivery, err := h.deliveryUseCase.AdvanceStatus(c.Request().Context(), c.Param("id"), actorID, req.Status, req.Notes)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, delivery)
}

func (h *DeliveryHandler) ListMyDeliveries(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	deliveries, total, err := h.deliveryUseCase.GetDeliveriesForUser(c.Request().Context(), userID, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, deliveries, total, pagination.Page, pagination.PageSize)
}

func (h *DeliveryHandler) ListAssignedDeliveries(c echo.Context) error {
	actorID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	deliveries, total, err := h.deliveryUseCase.GetDeliveriesForActor(c.Request().Context(), actorID, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, deliveries, total, pagination.Page, pagination.PageSize)
}
