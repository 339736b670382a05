package handler

import (
	"ecobid/internal/usecase"
	"ecobid/pkg/response"
	"ecobid/pkg/utils"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentUseCase *usecase.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	buyerID := c.Get("uid").(string)

	session, err := h.paymentUseCase.CreateCheckout(c.Request().Context(), c.Param("id"), buyerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"session_id":   session.SessionID,
		"redirect_url": session.RedirectURL,
	})
}

type verifyPaymentRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req verifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	result, err := h.paymentUseCase.VerifyPayment(c.Request().Context(), c.Param("id"), buyerID, req.SessionID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *PaymentHandler) GetTransaction(c echo.Context) error {
	userID := c.Get("uid").(string)

	transaction, err := h.paymentUseCase.GetTransaction(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *PaymentHandler) ListMyTransactions(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	transactions, total, err := h.paymentUseCase.ListTransactions(c.Request().Context(), userID, c.QueryParam("role"), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, transactions, total, pagination.Page, pagination.PageSize)
}
