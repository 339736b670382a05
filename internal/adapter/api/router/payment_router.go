package router

import (
	"ecobid/internal/adapter/api/handler"
	"ecobid/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupPaymentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	paymentHandler := handler.GetPaymentHandler()

	payments := e.Group("/v1/listings/:id")
	payments.Use(authMiddleware.Authenticate)
	payments.POST("/checkout", paymentHandler.CreateCheckout)
	payments.POST("/verify-payment", paymentHandler.VerifyPayment)

	transactions := e.Group("/v1/transactions")
	transactions.Use(authMiddleware.Authenticate)
	transactions.GET("/:id", paymentHandler.GetTransaction)

	myTransactions := e.Group("/v1/my-transactions")
	myTransactions.Use(authMiddleware.Authenticate)
	myTransactions.GET("", paymentHandler.ListMyTransactions)
}
