package services

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"storefront/cart"
	"storefront/checkout"
	"storefront/events"
	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShippingRates maps a shipping method to its flat cost.
var ShippingRates = map[string]float64{
	checkout.ShippingStandard:  15.00,
	checkout.ShippingExpress:   25.00,
	checkout.ShippingOvernight: 45.00,
}

// ShippingCost falls back to the standard rate for unknown methods.
func ShippingCost(method string) float64 {
	if cost, ok := ShippingRates[method]; ok {
		return cost
	}
	return ShippingRates[checkout.ShippingStandard]
}

type PlaceOrderRequest struct {
	CheckoutData checkout.Draft `json:"checkoutData"`
	CartItems    []cart.Item    `json:"cartItems"`
}

type PlaceOrderResult struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
}

type OrderResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID *uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResult, *ServiceError)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, *ServiceError)
	GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, *ServiceError)
	GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderResponse, *ServiceError)
	GetAllOrders(ctx context.Context, filter repository.OrderFilter, page, limit int) (*OrderResponse, *ServiceError)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *ServiceError)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *ServiceError)
	UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string, estimatedDelivery *time.Time) (*models.Order, *ServiceError)
}

type orderService struct {
	orderRepo repository.OrderRepository
	publisher events.Publisher
	numbers   *OrderNumberGenerator
	logger    *zap.Logger
	now       func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository, publisher events.Publisher, logger *zap.Logger) OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &orderService{
		orderRepo: orderRepo,
		publisher: publisher,
		numbers:   NewOrderNumberGenerator(),
		logger:    logger,
		now:       time.Now,
	}
}

// PlaceOrder turns a completed checkout and the cart lines into a stored
// order. Nothing is written unless every check passes.
func (s *orderService) PlaceOrder(ctx context.Context, userID *uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResult, *ServiceError) {
	if sub := checkout.ValidateSubmission(req.CheckoutData); !sub.Valid {
		s.logger.Info("Order rejected: checkout incomplete",
			zap.Strings("missing_steps", stepNames(sub.MissingSteps)),
			zap.Strings("errors", sub.Errors),
		)
		return nil, newServiceError(http.StatusBadRequest, "Invalid checkout data")
	}
	if len(req.CartItems) == 0 {
		return nil, newServiceError(http.StatusBadRequest, "Cart is empty")
	}
	if err := (cart.Cart{Items: req.CartItems}).Validate(); err != nil {
		return nil, newServiceError(http.StatusBadRequest, "Invalid cart item")
	}
	items, err := orderItems(req.CartItems)
	if err != nil {
		return nil, newServiceError(http.StatusBadRequest, "Invalid cart item")
	}

	var order *models.Order
	for attempt := 0; attempt < 2; attempt++ {
		number, err := s.numbers.Generate(ctx, s.orderRepo.ExistsByOrderNumber)
		if err != nil {
			s.logger.Error("Failed to generate order number", zap.Error(err))
			return nil, newServiceError(http.StatusInternalServerError, "Failed to create order with items")
		}
		order = buildOrder(userID, number, req.CheckoutData, slices.Clone(items))

		err = s.orderRepo.CreateWithItems(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateOrderNumber) && attempt == 0 {
			s.logger.Warn("Order number collided on insert, regenerating", zap.String("order_number", number))
			continue
		}
		s.logger.Error("Failed to create order with items", zap.Error(err), zap.String("order_number", number))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to create order with items")
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
	)
	s.publishPlaced(ctx, order)

	return &PlaceOrderResult{OrderID: order.ID, OrderNumber: order.OrderNumber}, nil
}

func stepNames(steps []checkout.Step) []string {
	names := make([]string, len(steps))
	for i, st := range steps {
		names[i] = string(st)
	}
	return names
}

func orderItems(lines []cart.Item) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		productID, err := uuid.Parse(line.Product.ID)
		if err != nil {
			return nil, err
		}
		item := models.OrderItem{
			ProductID:    productID,
			ProductTitle: line.Product.Title,
			ProductSlug:  line.Product.Slug,
			Quantity:     line.Quantity,
			UnitPrice:    line.Product.CurrentPrice,
			TotalPrice:   line.LineTotal(),
			ProductAttributes: &models.ProductAttributes{
				SelectedSize:  line.SelectedSize,
				SelectedColor: line.SelectedColor,
			},
		}
		if len(line.Product.Images) > 0 {
			image := line.Product.Images[0]
			item.ProductImage = &image
		}
		items = append(items, item)
	}
	return items, nil
}

func buildOrder(userID *uuid.UUID, number string, d checkout.Draft, items []models.OrderItem) *models.Order {
	subtotal := 0.0
	for _, it := range items {
		subtotal += it.UnitPrice * float64(it.Quantity)
	}
	subtotal = cart.RoundCents(subtotal)
	shipping := ShippingCost(d.Shipping.ShippingMethod)

	country := d.Shipping.Country
	if country == "" {
		country = checkout.DefaultCountry
	}
	address := models.AddressSnapshot{
		FirstName: d.Customer.FirstName,
		LastName:  d.Customer.LastName,
		Address:   d.Shipping.Address,
		City:      d.Shipping.City,
		State:     d.Shipping.State,
		ZipCode:   d.Shipping.ZipCode,
		Country:   country,
	}
	billing := address

	return &models.Order{
		UserID:          userID,
		OrderNumber:     number,
		Status:          models.OrderStatusProcessing,
		Subtotal:        subtotal,
		Shipping:        shipping,
		Total:           cart.RoundCents(subtotal + shipping),
		ShippingAddress: &address,
		BillingAddress:  &billing,
		PaymentMethod:   checkout.PaymentCashOnDelivery,
		PaymentStatus:   models.PaymentStatusPending,
		Notes:           d.Review.OrderNotes,
		Items:           items,
	}
}

// publishPlaced is best effort; a failed publish never fails the order.
func (s *orderService) publishPlaced(ctx context.Context, order *models.Order) {
	evt := events.OrderPlaced{
		Type:        events.OrderPlacedType,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
		Items:       make([]events.OrderPlacedItem, 0, len(order.Items)),
		Timestamp:   s.now().UTC(),
	}
	if order.UserID != nil {
		evt.UserID = order.UserID.String()
	}
	for _, it := range order.Items {
		evt.Items = append(evt.Items, events.OrderPlacedItem{
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	if err := s.publisher.PublishOrderPlaced(ctx, evt); err != nil {
		s.logger.Warn("Order event not published", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, id)
	return s.orderResult(order, err, "order_id", id.String())
}

func (s *orderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	return s.orderResult(order, err, "order_number", orderNumber)
}

func (s *orderService) GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userID)
	return s.orderResult(order, err, "order_id", orderID.String())
}

func (s *orderService) orderResult(order *models.Order, err error, field, value string) (*models.Order, *ServiceError) {
	if err != nil {
		if isNotFound(err) {
			return nil, newServiceError(http.StatusNotFound, "Order not found")
		}
		s.logger.Error("Failed to fetch order", zap.String(field, value), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to fetch order")
	}
	return order, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderResponse, *ServiceError) {
	orders, total, err := s.orderRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch user orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to fetch orders")
	}
	return &OrderResponse{Orders: orders, Meta: newMetaData(page, limit, total)}, nil
}

func (s *orderService) GetAllOrders(ctx context.Context, filter repository.OrderFilter, page, limit int) (*OrderResponse, *ServiceError) {
	if filter.Status != "" && !slices.Contains(models.OrderStatuses, filter.Status) {
		return nil, newServiceError(http.StatusBadRequest, "Invalid order status")
	}
	if filter.PaymentStatus != "" && !slices.Contains(models.PaymentStatuses, filter.PaymentStatus) {
		return nil, newServiceError(http.StatusBadRequest, "Invalid payment status")
	}
	orders, total, err := s.orderRepo.FindAll(ctx, filter, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch all orders", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to fetch orders")
	}
	return &OrderResponse{Orders: orders, Meta: newMetaData(page, limit, total)}, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *ServiceError) {
	if !slices.Contains(models.OrderStatuses, status) {
		return nil, newServiceError(http.StatusBadRequest, "Invalid order status")
	}
	return s.update(ctx, id, map[string]interface{}{"status": status}, "Failed to update order status")
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, *ServiceError) {
	if !slices.Contains(models.PaymentStatuses, status) {
		return nil, newServiceError(http.StatusBadRequest, "Invalid payment status")
	}
	return s.update(ctx, id, map[string]interface{}{"payment_status": status}, "Failed to update payment status")
}

func (s *orderService) UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber string, estimatedDelivery *time.Time) (*models.Order, *ServiceError) {
	if trackingNumber == "" {
		return nil, newServiceError(http.StatusBadRequest, "Tracking number is required")
	}
	fields := map[string]interface{}{"tracking_number": trackingNumber}
	if estimatedDelivery != nil {
		fields["estimated_delivery"] = *estimatedDelivery
	}
	return s.update(ctx, id, fields, "Failed to update tracking information")
}

func (s *orderService) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}, failure string) (*models.Order, *ServiceError) {
	if err := s.orderRepo.UpdateFields(ctx, id, fields); err != nil {
		if isNotFound(err) {
			return nil, newServiceError(http.StatusNotFound, "Order not found")
		}
		s.logger.Error(failure, zap.String("order_id", id.String()), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, failure)
	}
	s.logger.Info("Order updated", zap.String("order_id", id.String()), zap.Any("fields", fields))
	return s.GetOrder(ctx, id)
}
