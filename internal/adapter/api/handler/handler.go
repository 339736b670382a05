package handler

import (
	"ecobid/internal/usecase"
)

var (
	listingHandler  *ListingHandler
	bidHandler      *BidHandler
	auctionHandler  *AuctionHandler
	paymentHandler  *PaymentHandler
	deliveryHandler *DeliveryHandler
)

func Setup(
	listingUseCase *usecase.ListingUseCase,
	bidUseCase *usecase.BidUseCase,
	auctionUseCase *usecase.AuctionUseCase,
	paymentUseCase *usecase.PaymentUseCase,
	deliveryUseCase *usecase.DeliveryUseCase,
) {
	listingHandler = NewListingHandler(listingUseCase)
	bidHandler = NewBidHandler(bidUseCase)
	auctionHandler = NewAuctionHandler(auctionUseCase)
	paymentHandler = NewPaymentHandler(paymentUseCase)
	deliveryHandler = NewDeliveryHandler(deliveryUseCase)
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetBidHandler() *BidHandler {
	return bidHandler
}

func GetAuctionHandler() *AuctionHandler {
	return auctionHandler
}

func GetPaymentHandler() *PaymentHandler {
	return paymentHandler
}

func GetDeliveryHandler() *DeliveryHandler {
	return deliveryHandler
}
