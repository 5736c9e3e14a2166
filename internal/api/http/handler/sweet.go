package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Harry9021/kata-sweet-shop/internal/api/http/response"
	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
	"github.com/Harry9021/kata-sweet-shop/internal/service"
)

// SweetService defines inventory operations.
type SweetService interface {
	Create(ctx context.Context, sweet model.Sweet) (model.Sweet, error)
	List(ctx context.Context) ([]model.Sweet, error)
	Get(ctx context.Context, id uuid.UUID) (model.Sweet, error)
	Update(ctx context.Context, id uuid.UUID, update model.SweetUpdate) (model.Sweet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Purchase(ctx context.Context, params model.PurchaseParams) (model.Sweet, model.Order, error)
	Restock(ctx context.Context, id uuid.UUID, quantity int) (model.Sweet, error)
	UploadImage(ctx context.Context, id uuid.UUID, r io.Reader, size int64, contentType string) (model.Sweet, error)
	Image(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error)
}

type createSweetRequest struct {
	Name        string         `json:"name" binding:"required"`
	Category    model.Category `json:"category" binding:"required"`
	Price       *float64       `json:"price" binding:"required"`
	Quantity    *int           `json:"quantity" binding:"required"`
	Description string         `json:"description"`
}

type updateSweetRequest struct {
	Name        *string         `json:"name"`
	Category    *model.Category `json:"category"`
	Price       *float64        `json:"price"`
	Quantity    *int            `json:"quantity"`
	Description *string         `json:"description"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

var (
	sweetMessages = fieldMessages{
		"name":        "Name must be 2-100 characters",
		"category":    "Invalid category",
		"price":       "Price must be a positive number",
		"quantity":    "Quantity must be a non-negative integer",
		"description": "Description max 500 characters",
	}
	quantityMessages = fieldMessages{
		"quantity": "Quantity must be a positive integer",
	}
)

// Sweet handles the /api/sweets endpoints.
type Sweet struct {
	sweetService   SweetService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewSweet creates a new Sweet handler.
func NewSweet(sweetService SweetService, contextManager model.ContextManager, logger *logger.Logger) *Sweet {
	useJSONNames()
	return &Sweet{sweetService: sweetService, contextManager: contextManager, logger: logger}
}

func (h *Sweet) Create(c *gin.Context) {
	var req createSweetRequest
	if err := bindJSON(c, &req, sweetMessages); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	sweet, err := h.sweetService.Create(c.Request.Context(), model.Sweet{
		Name:        req.Name,
		Category:    req.Category,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusCreated, "Sweet created successfully", sweet)
}

func (h *Sweet) List(c *gin.Context) {
	sweets, err := h.sweetService.List(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if sweets == nil {
		sweets = []model.Sweet{}
	}

	response.Success(c, http.StatusOK, "Sweets retrieved successfully", sweets)
}

func (h *Sweet) Get(c *gin.Context) {
	id, err := pathID(c, "sweet")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	sweet, err := h.sweetService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, "Sweet retrieved successfully", sweet)
}

// Update applies the fields present in the body.
func (h *Sweet) Update(c *gin.Context) {
	id, err := pathID(c, "sweet")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	var req updateSweetRequest
	if err := bindJSON(c, &req, sweetMessages); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	sweet, err := h.sweetService.Update(c.Request.Context(), id, model.SweetUpdate{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, "Sweet updated successfully", sweet)
}

func (h *Sweet) Delete(c *gin.Context) {
	id, err := pathID(c, "sweet")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	if err := h.sweetService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, "Sweet deleted successfully", nil)
}

// Purchase buys quantity items on behalf of the authenticated user.
func (h *Sweet) Purchase(c *gin.Context) {
	identity, ok := h.contextManager.GetIdentityFromContext(c.Request.Context())
	if !ok {
		response.Error(c, h.logger, apierror.NewErrUnauthenticated())
		return
	}

	id, err := pathID(c, "sweet")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	var req quantityRequest
	if err := bindJSON(c, &req, quantityMessages); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	sweet, _, err := h.sweetService.Purchase(c.Request.Context(), model.PurchaseParams{
		SweetID:  id,
		UserID:   identity.UserID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, "Purchase successful", sweet)
}

func (h *Sweet) Restock(c *gin.Context) {
	id, err := pathID(c, "sweet")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	var req quantityRequest
	if err := bindJSON(c, &req, quantityMessages); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	sweet, err := h.sweetService.Restock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, "Restock successful", sweet)
}

// UploadImage stores the multipart "image" file of the request.
func (h *Sweet) UploadImage(c *gin.Context) {
	id, err := pathID(c, "sweet")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, h.logger, apierror.NewErrValidation("Image must be at most 5 MiB"))
			return
		}
		response.Error(c, h.logger, apierror.NewErrValidation("Image file is required"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, h.logger, apierror.NewErrInternalServerError(err))
		return
	}
	defer f.Close()

	// The declared part type is not trusted; sniff the leading bytes instead.
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		response.Error(c, h.logger, apierror.NewErrInternalServerError(err))
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	sweet, err := h.sweetService.UploadImage(c.Request.Context(), id, io.MultiReader(bytes.NewReader(head), f), fh.Size, contentType)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, "Image uploaded successfully", sweet)
}

// Image streams the stored image of a sweet.
func (h *Sweet) Image(c *gin.Context) {
	id, err := pathID(c, "sweet")
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	rc, contentType, err := h.sweetService.Image(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
