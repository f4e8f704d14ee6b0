package handler

import (
	"io"
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	uc       *usecase.PaymentUsecase
	provider string
}

func NewPaymentHandler(uc *usecase.PaymentUsecase, provider string) *PaymentHandler {
	return &PaymentHandler{uc: uc, provider: provider}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/payments")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.ActiveUserGuard(userRepo))

	g.POST("/initiate", h.initiate)
	g.GET("/:intent_ref/status", h.status)
	g.POST("/verify", h.verify)

	//webhookは認証なし（署名で検証する）
	e.POST("/webhooks/payment", h.webhook)
}

func (h *PaymentHandler) initiate(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.InitiatePaymentInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Initiate(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PaymentHandler) status(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	intentRef := c.Param("intent_ref")
	if intentRef == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid intent_ref"})
	}

	out, err := h.uc.Status(c.Request().Context(), userID, intentRef)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) verify(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.ClientCallbackInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ConfirmClient(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// webhookは生のbodyと署名ヘッダをそのまま渡す
func (h *PaymentHandler) webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload"})
	}

	signature := c.Request().Header.Get(h.signatureHeader())

	if err := h.uc.HandleWebhook(c.Request().Context(), payload, signature); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PaymentHandler) signatureHeader() string {
	if h.provider == config.ProviderRazorpay {
		return "X-Razorpay-Signature"
	}
	return "Stripe-Signature"
}
