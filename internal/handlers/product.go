package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avorobev/storefront/internal/events"
	"github.com/avorobev/storefront/internal/imagehost"
	"github.com/avorobev/storefront/internal/logging"
	authmw "github.com/avorobev/storefront/internal/middleware/auth"
	"github.com/avorobev/storefront/internal/models"
	"github.com/avorobev/storefront/internal/role"
	"github.com/avorobev/storefront/internal/service/search"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	ES       *elasticsearch.Client
	Index    string
	Uploader *imagehost.Client
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicProductEvents, fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// GetProducts lists the catalog scoped by the caller's role: admins see
// only products they created, everyone else sees the full catalog.
// This is catalog-scoping, not access control.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	ident, err := authmw.IdentityFrom(c)
	if err != nil {
		return err
	}

	q := h.DB.Model(&models.Product{}).Order("id ASC")
	if ident.Role == role.Admin {
		q = q.Where("creator_id = ?", ident.UserID)
	}

	var items []models.Product
	if err := q.Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct persists a new catalog record owned by the calling
// admin. A multipart request may carry an image file, which is pushed
// to the external image host first.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ident, err := authmw.IdentityFrom(c)
	if err != nil {
		return err
	}

	prod, err := h.bindProduct(c)
	if err != nil {
		return err
	}
	if prod.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be non-negative")
	}
	prod.CreatorID = ident.UserID

	if err := h.DB.Create(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.ES != nil {
		if err := search.IndexProduct(c.Request().Context(), h.ES, h.Index, prod); err != nil {
			logging.FromContext(c.Request().Context()).Warn("product indexing failed", "productID", prod.ID, "error", err)
		}
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
		"creatorID": prod.CreatorID,
	})

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) bindProduct(c echo.Context) (models.Product, error) {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		return h.bindMultipart(c)
	}

	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Stock       uint    `json:"stock"`
		Category    string  `json:"category"`
		Image       string  `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return models.Product{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Image:       req.Image,
	}, nil
}

func (h *ProductHandler) bindMultipart(c echo.Context) (models.Product, error) {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return models.Product{}, echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	stock, _ := strconv.ParseUint(c.FormValue("stock"), 10, 64)

	prod := models.Product{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       price,
		Stock:       uint(stock),
		Category:    c.FormValue("category"),
	}

	fh, err := c.FormFile("image")
	if err != nil {
		// Image is optional.
		return prod, nil
	}
	if h.Uploader == nil {
		return models.Product{}, echo.NewHTTPError(http.StatusBadRequest, "image uploads are not configured")
	}

	f, err := fh.Open()
	if err != nil {
		return models.Product{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	uri, err := h.Uploader.Upload(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return models.Product{}, echo.NewHTTPError(http.StatusBadGateway, "image upload failed")
	}
	prod.Image = uri
	return prod, nil
}
