package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jeongwook5013/SecondHand-Shop/internal/middleware"
	"github.com/jeongwook5013/SecondHand-Shop/internal/repo"
	"github.com/jeongwook5013/SecondHand-Shop/internal/service"
	"github.com/jeongwook5013/SecondHand-Shop/internal/transport"
	"github.com/jeongwook5013/SecondHand-Shop/internal/upload"
	"github.com/jeongwook5013/SecondHand-Shop/internal/util"
	"github.com/jeongwook5013/SecondHand-Shop/pkg/logging"
)

type ProductHTTP struct {
	Svc     *service.CatalogService
	Uploads *upload.FileStore
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}
	return uint(id), nil
}

func listEnvelope(page, limit, offset int, total int64, rows []repo.ProductRow) map[string]any {
	return map[string]any{
		"data": rows,
		"meta": transport.ListMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	row, err := h.Svc.Get(ctx, id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, row)
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, rows, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		l.Error("list_error", "error", err)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, listEnvelope(page, limit, offset, total, rows))
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, rows, err := h.Svc.Search(ctx, q, offset, limit)
	if err != nil {
		l.Error("search_error", "error", err)
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, listEnvelope(page, limit, offset, total, rows))
}

// Create accepts either a JSON body or a multipart form with an optional
// image part, mirroring the two registration paths of the public API.
func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")
	username := middleware.Username(c)

	var req transport.CreateProductRequest
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		parsed, err := h.bindMultipart(c)
		if err != nil {
			return err
		}
		req = *parsed
	} else if err := c.Bind(&req); err != nil {
		l.Warn("create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	row, err := h.Svc.Create(ctx, req, username)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, row)
}

func (h *ProductHTTP) bindMultipart(c echo.Context) (*transport.CreateProductRequest, error) {
	ctx := c.Request().Context()

	price, err := strconv.ParseInt(c.FormValue("price"), 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "price is not an integer")
	}
	categoryID, err := strconv.ParseUint(c.FormValue("categoryId"), 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "categoryId is not an integer")
	}

	req := transport.CreateProductRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Price:       price,
		Location:    c.FormValue("location"),
		CategoryID:  uint(categoryID),
	}

	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		imageURL, uerr := h.Uploads.SaveImage(ctx, file)
		if uerr != nil {
			return nil, toHTTPError(uerr)
		}
		req.ImageURL = imageURL
	}

	return &req, nil
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")
	username := middleware.Username(c)

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	row, err := h.Svc.Update(ctx, id, req, username)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, row)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	username := middleware.Username(c)

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id, username); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "product deleted",
		"deletedBy": username,
	})
}

func (h *ProductHTTP) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	username := middleware.Username(c)

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}

	imageURL, err := h.Uploads.SaveImage(ctx, file)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"imageUrl":   imageURL,
		"uploadedBy": username,
	})
}

func (h *ProductHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cats)
}
