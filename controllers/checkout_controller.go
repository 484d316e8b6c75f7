package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/cart"
	"storefront/checkout"
	apperrors "storefront/common/errors"
	"storefront/middleware"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutController struct {
	orders services.OrderService
	logger *zap.Logger
}

func NewCheckoutController(orders services.OrderService, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{orders: orders, logger: logger}
}

// OrderSummary is the cart total shown on the review step.
type OrderSummary struct {
	Cart     cart.Cart `json:"cart"`
	Subtotal float64   `json:"subtotal"`
	Shipping float64   `json:"shipping"`
	Total    float64   `json:"total"`
}

// newCheckoutStorage binds the session draft and mirrors it into the
// checkout_progress cookie of this response.
func newCheckoutStorage(ctx *gin.Context, logger *zap.Logger) *checkout.Storage {
	return checkout.NewStorage(middleware.GetStore(ctx), logger, checkout.WithSinks(checkout.CookieSink(ctx)))
}

func progressOf(d checkout.Draft) checkout.Progress {
	raw, err := json.Marshal(d)
	if err != nil {
		return checkout.GetCheckoutProgress("")
	}
	return checkout.GetCheckoutProgress(string(raw))
}

// Resume sends the visitor to the first step they have not completed.
func (cc *CheckoutController) Resume(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, checkout.ResumePath(checkout.ReadCookie(ctx)))
}

func (cc *CheckoutController) ShowStep(ctx *gin.Context) {
	step, ok := checkout.ParseStep(ctx.Param("step"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown checkout step"})
		return
	}
	raw := checkout.ReadCookie(ctx)
	access := checkout.ValidateStepAccess(step, raw)
	if !access.CanAccess {
		ctx.Redirect(http.StatusFound, access.RedirectTo)
		return
	}

	store := newCheckoutStorage(ctx, cc.logger)
	data := store.GetStepData(ctx.Request.Context(), step)
	if data == nil {
		data = checkout.NewStepData(step)
	}

	resp := gin.H{
		"step":       step,
		"stepNumber": step.Number(),
		"data":       data,
		"progress":   checkout.GetCheckoutProgress(raw),
	}
	if step == checkout.StepReview {
		resp["checkoutData"] = store.GetCheckoutData(ctx.Request.Context())
		resp["summary"] = cc.summary(ctx, store)
	}
	ctx.JSON(http.StatusOK, resp)
}

func (cc *CheckoutController) summary(ctx *gin.Context, store *checkout.Storage) OrderSummary {
	current := cart.Load(ctx.Request.Context(), middleware.GetStore(ctx), cc.logger).Snapshot()
	method := checkout.ShippingStandard
	if shipping := store.GetCheckoutData(ctx.Request.Context()).Shipping; shipping != nil {
		method = shipping.ShippingMethod
	}
	shippingCost := services.ShippingCost(method)
	return OrderSummary{
		Cart:     current,
		Subtotal: current.TotalPrice,
		Shipping: shippingCost,
		Total:    cart.RoundCents(current.TotalPrice + shippingCost),
	}
}

// SaveStep validates the posted form and stores it in the draft.
func (cc *CheckoutController) SaveStep(ctx *gin.Context) {
	step, ok := checkout.ParseStep(ctx.Param("step"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Unknown checkout step"})
		return
	}
	access := checkout.ValidateStepAccess(step, checkout.ReadCookie(ctx))
	if !access.CanAccess {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Complete the previous steps first", "redirectTo": access.RedirectTo})
		return
	}

	form := checkout.NewStepData(step)
	if err := ctx.ShouldBindJSON(form); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	store := newCheckoutStorage(ctx, cc.logger)
	stored, err := store.UpdateStep(ctx.Request.Context(), form)
	var fieldErrs checkout.FieldErrors
	if errors.As(err, &fieldErrs) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fieldErrors": fieldErrs.ByField()})
		return
	}
	if !stored {
		cc.logger.Warn("Checkout step not persisted", zap.String("step", string(step)), zap.Error(err))
		_ = ctx.Error(apperrors.ErrStorageFailure.Wrap(err))
		return
	}

	next := checkout.StepReview.Path()
	if step.Number() < len(checkout.AllSteps) {
		next = checkout.StepPath(step.Number() + 1)
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"redirectTo": next,
		"progress":   progressOf(store.GetCheckoutData(ctx.Request.Context())),
	})
}

func (cc *CheckoutController) Progress(ctx *gin.Context) {
	store := newCheckoutStorage(ctx, cc.logger)
	ctx.JSON(http.StatusOK, gin.H{
		"progress":   checkout.GetCheckoutProgress(checkout.ReadCookie(ctx)),
		"percent":    store.GetProgress(ctx.Request.Context()),
		"submission": store.ValidateForSubmission(ctx.Request.Context()),
	})
}

func (cc *CheckoutController) Export(ctx *gin.Context) {
	store := newCheckoutStorage(ctx, cc.logger)
	ctx.JSON(http.StatusOK, store.ExportData(ctx.Request.Context(), ctx.Request.UserAgent()))
}

// Success shows a placed order. Missing or unknown orders go home.
func (cc *CheckoutController) Success(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Query("orderId"))
	if err != nil {
		ctx.Redirect(http.StatusFound, "/")
		return
	}
	order, serr := cc.orders.GetOrder(ctx.Request.Context(), orderID)
	if serr != nil {
		if serr.StatusCode != http.StatusNotFound {
			cc.logger.Error("Failed to load placed order", zap.String("order_id", orderID.String()), zap.String("error", serr.Message))
		}
		ctx.Redirect(http.StatusFound, "/")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": newOrderView(order)})
}

func (cc *CheckoutController) Reset(ctx *gin.Context) {
	newCheckoutStorage(ctx, cc.logger).ClearCheckoutData(ctx.Request.Context())
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
