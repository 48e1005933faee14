package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mbrou/shop-backend/internal/middleware/auth"
	"github.com/mbrou/shop-backend/internal/mykafka"
	"github.com/mbrou/shop-backend/internal/service"
	"github.com/mbrou/shop-backend/internal/transport"
	"github.com/mbrou/shop-backend/internal/util"
)

type ProductHTTP struct {
	Svc      *service.ProductService
	Producer *mykafka.Producer
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.Svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	products, total, err := h.Svc.List(c.Request().Context(), offset, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": products,
		"meta": meta(page, limit, total),
	})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	p, err := auth.FromContext(c)
	if err != nil {
		return err
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.Create(c.Request().Context(), p.UserID, service.CreateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		StockInitial: req.StockInitial,
		CategoryID:   req.CategoryID,
	})
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_created",
		"userID":    p.UserID,
		"productID": product.ID,
		"name":      product.Name,
	})
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Svc.Update(c.Request().Context(), id, service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return c.NoContent(http.StatusNoContent)
}
