package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// MaxImageSize bounds uploaded sweet images.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageContentType maps a stored image key back to its content type.
func ImageContentType(key string) string {
	ext := path.Ext(key)
	for ct, e := range imageExtensions {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}

// Sweet manages the inventory.
type Sweet struct {
	store   model.SweetStore
	storage model.Storage
	logger  *logger.Logger
}

// NewSweet creates the inventory service. storage may be nil when images are disabled.
func NewSweet(store model.SweetStore, storage model.Storage, logger *logger.Logger) *Sweet {
	return &Sweet{store: store, storage: storage, logger: logger}
}

func validateSweet(s model.Sweet) error {
	if n := utf8.RuneCountInString(s.Name); n < 2 || n > 100 {
		return apierror.NewErrValidation("Name must be 2-100 characters")
	}
	if !s.Category.Valid() {
		return apierror.NewErrValidation("Invalid category")
	}
	if s.Price < 0 {
		return apierror.NewErrValidation("Price must be a positive number")
	}
	if s.Quantity < 0 {
		return apierror.NewErrValidation("Quantity must be a non-negative integer")
	}
	if utf8.RuneCountInString(s.Description) > 500 {
		return apierror.NewErrValidation("Description max 500 characters")
	}
	return nil
}

func (s *Sweet) storeError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrNotFound("sweet")
	}
	s.logger.Error("Sweet service: failed to "+op,
		"sweet_id", id,
		"error", err.Error())
	return apierror.NewErrInternalServerError(err)
}

func (s *Sweet) Create(ctx context.Context, sweet model.Sweet) (model.Sweet, error) {
	sweet.Name = strings.TrimSpace(sweet.Name)
	sweet.Description = strings.TrimSpace(sweet.Description)
	if err := validateSweet(sweet); err != nil {
		return model.Sweet{}, err
	}

	created, err := s.store.Create(ctx, sweet)
	if err != nil {
		return model.Sweet{}, s.storeError("create sweet", sweet.ID, err)
	}

	s.logger.Info("Sweet service: sweet created",
		"sweet_id", created.ID,
		"name", created.Name)

	return created, nil
}

func (s *Sweet) List(ctx context.Context) ([]model.Sweet, error) {
	sweets, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storeError("list sweets", uuid.Nil, err)
	}
	return sweets, nil
}

func (s *Sweet) Get(ctx context.Context, id uuid.UUID) (model.Sweet, error) {
	sweet, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Sweet{}, s.storeError("get sweet", id, err)
	}
	return sweet, nil
}

// Update applies a partial update. An empty update returns the current sweet.
func (s *Sweet) Update(ctx context.Context, id uuid.UUID, update model.SweetUpdate) (model.Sweet, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Sweet{}, s.storeError("get sweet", id, err)
	}
	if update.Empty() {
		return current, nil
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		update.Name = &name
		current.Name = name
	}
	if update.Description != nil {
		desc := strings.TrimSpace(*update.Description)
		update.Description = &desc
		current.Description = desc
	}
	if update.Category != nil {
		current.Category = *update.Category
	}
	if update.Price != nil {
		current.Price = *update.Price
	}
	if update.Quantity != nil {
		current.Quantity = *update.Quantity
	}
	if err := validateSweet(current); err != nil {
		return model.Sweet{}, err
	}

	updated, err := s.store.Update(ctx, id, update)
	if err != nil {
		return model.Sweet{}, s.storeError("update sweet", id, err)
	}
	return updated, nil
}

// Delete removes the sweet and its stored image.
func (s *Sweet) Delete(ctx context.Context, id uuid.UUID) error {
	sweet, err := s.store.GetByID(ctx, id)
	if err != nil {
		return s.storeError("get sweet", id, err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeError("delete sweet", id, err)
	}

	if sweet.ImageKey != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, sweet.ImageKey); err != nil {
			s.logger.Warn("Sweet service: failed to delete image from storage",
				"sweet_id", id,
				"key", sweet.ImageKey,
				"error", err.Error())
		}
	}

	s.logger.Info("Sweet service: sweet deleted",
		"sweet_id", id)

	return nil
}

// Purchase takes stock and records the order in one step.
func (s *Sweet) Purchase(ctx context.Context, params model.PurchaseParams) (model.Sweet, model.Order, error) {
	if params.Quantity < 1 {
		return model.Sweet{}, model.Order{}, apierror.NewErrValidation("Quantity must be a positive integer")
	}

	sweet, order, err := s.store.Purchase(ctx, params)
	var stockErr *model.InsufficientStockError
	if errors.As(err, &stockErr) {
		return model.Sweet{}, model.Order{}, apierror.NewErrInsufficientStock(stockErr.Available)
	}
	if err != nil {
		return model.Sweet{}, model.Order{}, s.storeError("purchase sweet", params.SweetID, err)
	}

	s.logger.Info("Sweet service: purchase completed",
		"sweet_id", sweet.ID,
		"user_id", params.UserID,
		"quantity", params.Quantity,
		"order_id", order.ID)

	return sweet, order, nil
}

func (s *Sweet) Restock(ctx context.Context, id uuid.UUID, quantity int) (model.Sweet, error) {
	if quantity < 1 {
		return model.Sweet{}, apierror.NewErrValidation("Quantity must be a positive integer")
	}

	sweet, err := s.store.Restock(ctx, id, quantity)
	if err != nil {
		return model.Sweet{}, s.storeError("restock sweet", id, err)
	}

	s.logger.Info("Sweet service: sweet restocked",
		"sweet_id", id,
		"quantity", quantity,
		"stock", sweet.Quantity)

	return sweet, nil
}

// UploadImage stores a new image for the sweet and drops the previous one.
func (s *Sweet) UploadImage(ctx context.Context, id uuid.UUID, r io.Reader, size int64, contentType string) (model.Sweet, error) {
	if s.storage == nil {
		return model.Sweet{}, apierror.NewErrNotFound("image storage")
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return model.Sweet{}, apierror.NewErrValidation("Image must be JPEG, PNG or WebP")
	}
	if size <= 0 || size > MaxImageSize {
		return model.Sweet{}, apierror.NewErrValidation(fmt.Sprintf("Image must be at most %d MiB", MaxImageSize>>20))
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Sweet{}, s.storeError("get sweet", id, err)
	}

	key := fmt.Sprintf("sweets/%s/%s%s", id, uuid.NewString(), ext)
	if err := s.storage.Upload(ctx, key, r, size, contentType); err != nil {
		s.logger.Error("Sweet service: failed to upload image",
			"sweet_id", id,
			"error", err.Error())
		return model.Sweet{}, apierror.NewErrInternalServerError(err)
	}

	updated, err := s.store.SetImageKey(ctx, id, key)
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Error("Sweet service: failed to delete orphaned image",
				"key", key,
				"error", delErr.Error())
		}
		return model.Sweet{}, s.storeError("set sweet image", id, err)
	}

	if current.ImageKey != "" {
		if err := s.storage.Delete(ctx, current.ImageKey); err != nil {
			s.logger.Warn("Sweet service: failed to delete previous image",
				"key", current.ImageKey,
				"error", err.Error())
		}
	}

	return updated, nil
}

// Image opens the stored image of the sweet.
func (s *Sweet) Image(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	if s.storage == nil {
		return nil, "", apierror.NewErrNotFound("image storage")
	}

	sweet, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, "", s.storeError("get sweet", id, err)
	}
	if sweet.ImageKey == "" {
		return nil, "", apierror.NewErrNotFound("image")
	}

	rc, err := s.storage.Download(ctx, sweet.ImageKey)
	if errors.Is(err, model.ErrNotFound) {
		return nil, "", apierror.NewErrNotFound("image")
	}
	if err != nil {
		s.logger.Error("Sweet service: failed to download image",
			"sweet_id", id,
			"error", err.Error())
		return nil, "", apierror.NewErrInternalServerError(err)
	}

	return rc, ImageContentType(sweet.ImageKey), nil
}
