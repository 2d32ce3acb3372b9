package address

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocerly/storefront-api/pkg/db/models"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
)

// Input is the address payload. AddressLine2 is optional.
type Input struct {
	FullName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// DTO is the public representation of an address.
type DTO struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 string    `json:"address_line2"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Service exposes owner-scoped address CRUD. Another user's address is
// reported as not found, never forbidden.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input Input) (*DTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]DTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*DTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, input Input) (*DTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds an address service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*DTO, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}
	addr := &models.Address{UserID: userID}
	apply(addr, input)
	if err := s.repo.Create(ctx, addr); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
	}
	dto := FromModel(*addr)
	return &dto, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]DTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	out := make([]DTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*DTO, error) {
	addr, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*addr)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input Input) (*DTO, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}
	addr, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	apply(addr, input)
	if err := s.repo.Save(ctx, addr); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update address")
	}
	dto := FromModel(*addr)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.repo.DeleteByIDAndUser(ctx, id, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete address")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	addr, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
	}
	return addr, nil
}

func normalize(in Input) (Input, error) {
	out := Input{
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		AddressLine2: strings.TrimSpace(in.AddressLine2),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		PostalCode:   strings.TrimSpace(in.PostalCode),
		Country:      strings.TrimSpace(in.Country),
	}

	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"full_name", out.FullName},
		{"phone", out.Phone},
		{"address_line1", out.AddressLine1},
		{"city", out.City},
		{"state", out.State},
		{"postal_code", out.PostalCode},
		{"country", out.Country},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return Input{}, pkgerrors.New(pkgerrors.CodeValidation, "all required fields must be provided").
			WithDetails(map[string]any{"missing": missing})
	}
	return out, nil
}

func apply(addr *models.Address, in Input) {
	addr.FullName = in.FullName
	addr.Phone = in.Phone
	addr.AddressLine1 = in.AddressLine1
	addr.AddressLine2 = in.AddressLine2
	addr.City = in.City
	addr.State = in.State
	addr.PostalCode = in.PostalCode
	addr.Country = in.Country
}

// FromModel maps a stored address to its public form.
func FromModel(a models.Address) DTO {
	return DTO{
		ID:           a.ID,
		UserID:       a.UserID,
		FullName:     a.FullName,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
