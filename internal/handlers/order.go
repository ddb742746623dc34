package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avorobev/storefront/internal/events"
	authmw "github.com/avorobev/storefront/internal/middleware/auth"
	"github.com/avorobev/storefront/internal/models"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

type orderLine struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type placeOrderRequest struct {
	Products    []orderLine `json:"products"`
	TotalAmount float64     `json:"total_amount"`
}

// Resolved listing shapes. A reference whose record has since been
// deleted resolves to null instead of failing the whole listing.
type userSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type productSummary struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type orderLineView struct {
	Product  *productSummary `json:"product"`
	Quantity uint            `json:"quantity"`
}

type orderView struct {
	ID          uint            `json:"id"`
	User        *userSummary    `json:"user"`
	Products    []orderLineView `json:"products"`
	TotalAmount float64         `json:"total_amount"`
	CreatedAt   int64           `json:"created_at"`
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// PlaceOrder turns the submitted cart snapshot into a durable order for
// the authenticated caller. The total is taken from the request as the
// client computed it from its cart.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ident, err := authmw.IdentityFrom(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Products) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	for _, line := range req.Products {
		if line.Quantity == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "quantity must be positive")
		}
	}

	var (
		order models.Order
		items []models.OrderItem
	)
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			UserID:      ident.UserID,
			TotalAmount: req.TotalAmount,
			CreatedAt:   time.Now().Unix(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items = make([]models.OrderItem, 0, len(req.Products))
		for _, line := range req.Products {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not place order")
	}

	h.publish(c, map[string]any{
		"type":    "order_placed",
		"userID":  ident.UserID,
		"orderID": order.ID,
		"total":   order.TotalAmount,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"id":           order.ID,
		"user_id":      order.UserID,
		"products":     items,
		"total_amount": order.TotalAmount,
		"created_at":   order.CreatedAt,
	})
}

// GetAllOrders lists every placed order with its user and product
// references resolved at read time.
func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.Order("id ASC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.OrderItem
	if err := h.DB.Order("id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	itemsByOrder := make(map[uint][]models.OrderItem, len(orders))
	productIDs := make([]uint, 0, len(items))
	for _, it := range items {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
		productIDs = append(productIDs, it.ProductID)
	}

	userIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
	}

	users, err := h.usersByID(userIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	products, err := h.productsByID(productIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		view := orderView{
			ID:          o.ID,
			TotalAmount: o.TotalAmount,
			CreatedAt:   o.CreatedAt,
			Products:    make([]orderLineView, 0, len(itemsByOrder[o.ID])),
		}
		if u, ok := users[o.UserID]; ok {
			view.User = &userSummary{Name: u.Name, Email: u.Email}
		}
		for _, it := range itemsByOrder[o.ID] {
			line := orderLineView{Quantity: it.Quantity}
			if p, ok := products[it.ProductID]; ok {
				line.Product = &productSummary{Name: p.Name, Price: p.Price}
			}
			view.Products = append(view.Products, line)
		}
		views = append(views, view)
	}

	return c.JSON(http.StatusOK, views)
}

func (h *OrderHandler) usersByID(ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := h.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (h *OrderHandler) productsByID(ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := h.DB.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}
