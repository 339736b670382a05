package handler

import (
	"ecobid/internal/usecase"
	"ecobid/pkg/response"
	"ecobid/pkg/utils"

	"github.com/labstack/echo/v4"
)

type BidHandler struct {
	bidUseCase *usecase.BidUseCase
}

func NewBidHandler(bidUseCase *usecase.BidUseCase) *BidHandler {
	return &BidHandler{
		bidUseCase: bidUseCase,
	}
}

type placeBidRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func (h *BidHandler) PlaceBid(c echo.Context) error {
	var req placeBidRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	bidderID := c.Get("uid").(string)

	bid, err := h.bidUseCase.PlaceBid(c.Request().Context(), c.Param("id"), bidderID, req.Amount)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, bid)
}

func (h *BidHandler) WithdrawBid(c echo.Context) error {
	bidderID := c.Get("uid").(string)

	bid, err := h.bidUseCase.WithdrawBid(c.Request().Context(), c.Param("id"), bidderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, bid)
}

func (h *BidHandler) ListBids(c echo.Context) error {
	bids, err := h.bidUseCase.GetBidsForListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, bids)
}

func (h *BidHandler) GetHighestBid(c echo.Context) error {
	bid, err := h.bidUseCase.GetHighestBid(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, bid)
}

func (h *BidHandler) ListMyBids(c echo.Context) error {
	bidderID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	bids, total, err := h.bidUseCase.GetBidHistory(c.Request().Context(), bidderID, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, bids, total, pagination.Page, pagination.PageSize)
}
