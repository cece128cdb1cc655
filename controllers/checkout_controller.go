package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"heritage-backend/common/logger"
	"heritage-backend/config"
	"heritage-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutController drives order creation and the payment provider flow:
// direct checkout, hosted payment links, the return redirect, and the
// server-to-server webhook.
type CheckoutController struct {
	orders   *services.OrderService
	payments *services.PaymentService
	gateway  services.PaymentGateway
	mock     *services.MockPaymentService
	baskets  *services.BasketService

	frontendResultURL string
}

func NewCheckoutController(cfg *config.Config, orders *services.OrderService, payments *services.PaymentService, gateway services.PaymentGateway, mock *services.MockPaymentService, baskets *services.BasketService) *CheckoutController {
	return &CheckoutController{
		orders:            orders,
		payments:          payments,
		gateway:           gateway,
		mock:              mock,
		baskets:           baskets,
		frontendResultURL: cfg.FrontendResultURL,
	}
}

type checkoutBody struct {
	services.CheckoutRequest
	BasketID string `json:"basketId"`
}

// Simple handles POST /api/checkout/simple: creates the order and a PENDING
// direct payment; an admin confirms it manually later.
func (ctrl *CheckoutController) Simple(c *gin.Context) {
	var body checkoutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := ctrl.orders.CreateOrder(c.Request.Context(), &body.CheckoutRequest)
	if err != nil {
		respondError(c, err)
		return
	}

	payment, err := ctrl.payments.CreateForOrder(c.Request.Context(), order, "DIRECT")
	if err != nil {
		respondError(c, err)
		return
	}

	ctrl.clearBasket(c, body.BasketID)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderCode":   order.OrderCode,
		"paymentCode": payment.PaymentCode,
		"message":     "Order created, awaiting confirmation",
	})
}

// PayOS handles POST /api/checkout/payos: creates the order, a PENDING
// payment, and a hosted payment link the client redirects to.
func (ctrl *CheckoutController) PayOS(c *gin.Context) {
	var body checkoutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := ctrl.orders.CreateOrder(c.Request.Context(), &body.CheckoutRequest)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.orders.SetPaymentMethod(c.Request.Context(), order, "PAYOS"); err != nil {
		respondError(c, err)
		return
	}

	payment, err := ctrl.payments.CreateForOrder(c.Request.Context(), order, "PAYOS")
	if err != nil {
		respondError(c, err)
		return
	}

	link, err := ctrl.gateway.CreatePaymentLink(c.Request.Context(), order)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.payments.AttachPaymentURL(c.Request.Context(), payment, link.CheckoutURL); err != nil {
		respondError(c, err)
		return
	}

	ctrl.clearBasket(c, body.BasketID)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderCode":   order.OrderCode,
		"paymentCode": payment.PaymentCode,
		"paymentUrl":  link.CheckoutURL,
	})
}

// Return handles GET /api/checkout/payos/return: the browser redirect back
// from the provider. On success the order is confirmed, then the customer is
// redirected to the frontend result page either way.
func (ctrl *CheckoutController) Return(c *gin.Context) {
	params := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	result := ctrl.gateway.HandleReturn(params)
	if !result.Success {
		ctrl.redirectResult(c, false, "", result.Message)
		return
	}

	order, err := ctrl.orders.GetOrderByPaymentRef(c.Request.Context(), result.PaymentRef)
	if err != nil {
		logger.Log.Warn("Provider return for unknown payment ref",
			zap.Int64("payment_ref", result.PaymentRef))
		ctrl.redirectResult(c, false, "", "Order not found")
		return
	}

	if err := ctrl.orders.ProcessOrderPayment(c.Request.Context(), order.OrderCode); err != nil {
		logger.Log.Error("Payment confirmation failed on return",
			zap.String("order_code", order.OrderCode),
			zap.Error(err),
		)
		ctrl.redirectResult(c, false, order.OrderCode, "Payment processing failed")
		return
	}

	ctrl.redirectResult(c, true, order.OrderCode, "")
}

// Webhook handles POST /api/checkout/payos/webhook: the provider's
// server-to-server settlement notification. The HMAC signature must verify
// before anything else is trusted.
func (ctrl *CheckoutController) Webhook(c *gin.Context) {
	var payload services.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed webhook payload"})
		return
	}

	if !ctrl.gateway.VerifyWebhook(&payload) {
		logger.Log.Warn("Webhook signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid signature"})
		return
	}

	data, err := services.DecodeWebhookData(&payload)
	if err != nil {
		respondError(c, err)
		return
	}

	if data.Code != "00" {
		logger.Log.Info("Webhook reported unpaid order",
			zap.Int64("payment_ref", data.OrderCode),
			zap.String("code", data.Code),
		)
		c.JSON(http.StatusOK, gin.H{"message": "Payment not completed"})
		return
	}

	order, err := ctrl.orders.GetOrderByPaymentRef(c.Request.Context(), data.OrderCode)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.orders.ProcessOrderPayment(c.Request.Context(), order.OrderCode); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed"})
}

// Mock handles POST /api/checkout/mock/:orderCode: the config-gated test
// settlement path.
func (ctrl *CheckoutController) Mock(c *gin.Context) {
	if !ctrl.mock.Enabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	order, err := ctrl.mock.SimulatePayment(c.Request.Context(), c.Param("orderCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order.ToResponse(),
	})
}

// OrderDetails handles GET /api/checkout/order/:orderCode: the public order
// lookup used by the result page.
func (ctrl *CheckoutController) OrderDetails(c *gin.Context) {
	order, err := ctrl.orders.GetOrderByCode(c.Request.Context(), c.Param("orderCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.ToResponse())
}

func (ctrl *CheckoutController) redirectResult(c *gin.Context, success bool, orderCode, message string) {
	q := url.Values{}
	q.Set("success", strconv.FormatBool(success))
	if orderCode != "" {
		q.Set("orderCode", orderCode)
	}
	if message != "" {
		q.Set("message", message)
	}
	c.Redirect(http.StatusFound, ctrl.frontendResultURL+"?"+q.Encode())
}

// clearBasket is best effort: a basket that fails to delete expires on its
// own TTL.
func (ctrl *CheckoutController) clearBasket(c *gin.Context, basketID string) {
	if basketID == "" {
		return
	}
	if err := ctrl.baskets.Delete(c.Request.Context(), basketID); err != nil {
		logger.Log.Warn("Failed to clear basket after checkout",
			zap.String("basket_id", basketID),
			zap.Error(err),
		)
	}
}
