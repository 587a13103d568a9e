package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/webmoto/storefront/internal/storage"
	"github.com/webmoto/storefront/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	HomePageSize      = 3
	AutomakerPageSize = 8

	// AllOption is the catalog filter value that disables a filter.
	AllOption = "All"

	MediaPrefix = "/media/"
)

// MotoRepository defines persistence operations for listings.
type MotoRepository interface {
	List(ctx context.Context, filter types.MotoFilter, offset, limit int) ([]types.Moto, int, error)
	Get(ctx context.Context, id string) (types.Moto, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]types.Moto, error)
	Create(ctx context.Context, moto types.Moto) (types.Moto, error)
	Update(ctx context.Context, id string, patch types.MotoPatch) error
	Delete(ctx context.Context, id string) error
}

// ImageStore persists uploaded listing pictures.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Page is one page of listings.
type Page struct {
	Motos      []types.Moto
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// Upload is an image part of a listing form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MotoService encapsulates catalog use-cases.
type MotoService struct {
	repo   MotoRepository
	images ImageStore
}

func NewMotoService(repo MotoRepository, images ImageStore) *MotoService {
	return &MotoService{repo: repo, images: images}
}

// Home lists the new arrivals. page and limit fall back to 1 and 3.
func (s *MotoService) Home(ctx context.Context, page, limit int) (Page, error) {
	if limit < 1 {
		limit = HomePageSize
	}
	return s.page(ctx, types.MotoFilter{SaleTag: types.SaleTagNew}, page, limit)
}

// Automaker lists the catalog filtered by brand and type. "All" or an
// empty value disables a filter.
func (s *MotoService) Automaker(ctx context.Context, brand, motoType string, page int) (Page, error) {
	return s.page(ctx, types.MotoFilter{Brand: option(brand), Type: option(motoType)}, page, AutomakerPageSize)
}

func (s *MotoService) page(ctx context.Context, filter types.MotoFilter, page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	motos, total, err := s.repo.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Motos:      motos,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// Search returns every listing whose name contains all words of query.
func (s *MotoService) Search(ctx context.Context, query string) ([]types.Moto, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, invalid("Search query is empty")
	}
	motos, _, err := s.repo.List(ctx, types.MotoFilter{Terms: terms}, 0, 0)
	return motos, err
}

func (s *MotoService) List(ctx context.Context) ([]types.Moto, error) {
	motos, _, err := s.repo.List(ctx, types.MotoFilter{}, 0, 0)
	return motos, err
}

func (s *MotoService) Get(ctx context.Context, id string) (types.Moto, error) {
	return s.repo.Get(ctx, id)
}

// Create stores the listing and its image. Every text field is required.
func (s *MotoService) Create(ctx context.Context, moto types.Moto, image *Upload) (types.Moto, error) {
	if moto.Name == "" || moto.Brand == "" || moto.Type == "" || moto.Year == "" ||
		moto.OldPrice == "" || moto.Price == "" || moto.SaleTag == "" {
		return types.Moto{}, invalid("Please fill in all fields")
	}
	moto.Image = ""
	if image != nil {
		ref, err := s.storeImage(ctx, image)
		if err != nil {
			return types.Moto{}, err
		}
		moto.Image = ref
	}
	return s.repo.Create(ctx, moto)
}

// Update applies the non-empty fields of patch, plus the image if given.
func (s *MotoService) Update(ctx context.Context, id string, patch types.MotoPatch, image *Upload) error {
	patch.Image = ""
	if image != nil {
		ref, err := s.storeImage(ctx, image)
		if err != nil {
			return err
		}
		patch.Image = ref
	}
	if patch.IsEmpty() {
		return invalid("Nothing to update")
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the listing. Its stored image is removed when it was
// uploaded through this service.
func (s *MotoService) Delete(ctx context.Context, id string) error {
	moto, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if key, ok := strings.CutPrefix(moto.Image, MediaPrefix); ok {
		if err := s.images.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return err
		}
	}
	return nil
}

// storeImage returns the public reference of the stored upload. Non-image
// parts are ignored.
func (s *MotoService) storeImage(ctx context.Context, image *Upload) (string, error) {
	if image.Filename == "" || !strings.HasPrefix(image.ContentType, "image/") {
		return "", nil
	}
	key, err := s.images.Save(ctx, image.Filename, image.Body, image.Size, image.ContentType)
	if err != nil {
		return "", err
	}
	return MediaPrefix + key, nil
}

func option(v string) string {
	v = strings.TrimSpace(v)
	if v == AllOption {
		return ""
	}
	return v
}
