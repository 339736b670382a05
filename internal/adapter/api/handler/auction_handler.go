package handler

import (
	"ecobid/internal/usecase"
	"ecobid/pkg/response"

	"github.com/labstack/echo/v4"
)

type AuctionHandler struct {
	auctionUseCase *usecase.AuctionUseCase
}

func NewAuctionHandler(auctionUseCase *usecase.AuctionUseCase) *AuctionHandler {
	return &AuctionHandler{
		auctionUseCase: auctionUseCase,
	}
}

type selectWinnerRequest struct {
	BidderID string `json:"bidder_id" validate:"required"`
}

func (h *AuctionHandler) SelectWinner(c echo.Context) error {
	var req selectWinnerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	listing, err := h.auctionUseCase.SelectWinner(c.Request().Context(), c.Param("id"), sellerID, req.BidderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *AuctionHandler) CloseListing(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	listing, err := h.auctionUseCase.CloseListing(c.Request().Context(), c.Param("id"), sellerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}
