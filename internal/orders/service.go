package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/grocerly/storefront-api/internal/address"
	"github.com/grocerly/storefront-api/internal/sequence"
	"github.com/grocerly/storefront-api/pkg/access"
	"github.com/grocerly/storefront-api/pkg/db/models"
	"github.com/grocerly/storefront-api/pkg/enums"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
	"github.com/grocerly/storefront-api/pkg/logger"
)

// Service writes orders and serves role-scoped reads.
type Service interface {
	Place(ctx context.Context, actor access.Actor, input PlaceInput) (*PlaceResult, error)
	Detail(ctx context.Context, actor access.Actor, orderID uuid.UUID) (*Detail, error)
	History(ctx context.Context, actor access.Actor) ([]Summary, error)
}

// Deps groups the collaborators of the order service.
type Deps struct {
	Repo         Repository
	Tx           txRunner
	Addresses    addressLookup
	Products     productLookup
	Sequencer    sequence.Sequencer
	SequenceName string
	Metrics      placementRecorder
	Logger       *logger.Logger
}

type service struct {
	repo         Repository
	tx           txRunner
	addresses    addressLookup
	products     productLookup
	seq          sequence.Sequencer
	sequenceName string
	metrics      placementRecorder
	logg         *logger.Logger
}

type nopRecorder struct{}

func (nopRecorder) IncPlaced(decimal.Decimal) {}
func (nopRecorder) IncRejected(string)        {}

// NewService builds an order service backed by the provided stack.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Addresses == nil {
		return nil, fmt.Errorf("address lookup required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if deps.Sequencer == nil {
		return nil, fmt.Errorf("sequencer required")
	}
	if deps.SequenceName == "" {
		deps.SequenceName = "order_number"
	}
	if deps.Metrics == nil {
		deps.Metrics = nopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &service{
		repo:         deps.Repo,
		tx:           deps.Tx,
		addresses:    deps.Addresses,
		products:     deps.Products,
		seq:          deps.Sequencer,
		sequenceName: deps.SequenceName,
		metrics:      deps.Metrics,
		logg:         deps.Logger,
	}, nil
}

// Place validates the submission, mints the next order number and writes the
// order with its items in one transaction. Prices are stored as submitted.
func (s *service) Place(ctx context.Context, actor access.Actor, input PlaceInput) (*PlaceResult, error) {
	result, err := s.place(ctx, actor, input)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			s.metrics.IncRejected(string(typed.Code()))
		}
		return nil, err
	}
	s.metrics.IncPlaced(input.TotalPrice)
	return result, nil
}

func (s *service) place(ctx context.Context, actor access.Actor, input PlaceInput) (*PlaceResult, error) {
	if !actor.IsCustomer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can place orders")
	}
	if err := validatePlaceInput(input); err != nil {
		return nil, err
	}

	if _, err := s.addresses.FindByIDAndUser(ctx, input.AddressID, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidAddress, "invalid address id for this user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
	}

	if computed := itemsTotal(input.Items); !computed.Equal(input.TotalPrice) {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"submitted_total": input.TotalPrice.String(),
			"computed_total":  computed.String(),
		})
		s.logg.Warn(warnCtx, "order total does not match line items")
	}

	order := &models.Order{
		UserID:    actor.UserID,
		AddressID: input.AddressID,
		Total:     input.TotalPrice,
		Status:    enums.OrderStatusPending,
		Items:     make([]models.OrderItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		number, err := s.nextNumber(ctx, tx)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "place order")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
	}), "order placed")

	return &PlaceResult{OrderID: order.ID, OrderNumber: order.OrderNumber}, nil
}

// nextNumber joins the transaction when the sequencer supports it so a failed
// insert does not burn a number.
func (s *service) nextNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	if binder, ok := s.seq.(sequence.TxBinder); ok {
		return binder.WithTx(tx).Next(ctx, s.sequenceName)
	}
	return s.seq.Next(ctx, s.sequenceName)
}

// Detail enforces visibility: customers see their own orders, sellers see
// orders holding at least one of their products, admins see everything.
func (s *service) Detail(ctx context.Context, actor access.Actor, orderID uuid.UUID) (*Detail, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if err := s.authorizeDetail(ctx, actor, order); err != nil {
		return nil, err
	}

	addresses, err := s.addressMap(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.products.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]DetailItem, 0, len(order.Items))
	for _, item := range order.Items {
		line := DetailItem{
			ProductID:   item.ProductID,
			ProductName: unknownProductName,
			UnitPrice:   item.Price,
			Quantity:    item.Quantity,
			Total:       item.LineTotal(),
		}
		if p, ok := byID[item.ProductID]; ok {
			line.ProductName = p.Name
			image := p.ImageURL
			line.ProductImage = &image
		}
		items = append(items, line)
	}

	return &Detail{
		Order: OrderHeader{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			CreatedAt:   order.CreatedAt,
			Total:       order.Total,
			Status:      order.Status,
			Address:     addresses[order.AddressID],
		},
		Items: items,
	}, nil
}

func (s *service) authorizeDetail(ctx context.Context, actor access.Actor, order *models.Order) error {
	switch actor.Role {
	case enums.RoleAdmin:
		return nil
	case enums.RoleCustomer:
		if order.UserID == actor.UserID {
			return nil
		}
	case enums.RoleSeller:
		ok, err := s.repo.SellerHasItem(ctx, order.ID, actor.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check seller items")
		}
		if ok {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not authorized to view this order")
}

// History lists orders newest first. Sellers receive whole orders, including
// other sellers' lines.
func (s *service) History(ctx context.Context, actor access.Actor) ([]Summary, error) {
	var (
		orders []models.Order
		err    error
	)
	switch actor.Role {
	case enums.RoleCustomer:
		orders, err = s.repo.ListByUser(ctx, actor.UserID)
	case enums.RoleSeller:
		orders, err = s.repo.ListContainingSellerProducts(ctx, actor.UserID)
	case enums.RoleAdmin:
		orders, err = s.repo.ListAll(ctx)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot view order history")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	addresses, err := s.addressMap(ctx, orders)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(orders))
	for _, o := range orders {
		out = append(out, summaryFromModel(o, addresses[o.AddressID]))
	}
	return out, nil
}

func (s *service) addressMap(ctx context.Context, orders []models.Order) (map[uuid.UUID]*address.DTO, error) {
	seen := make(map[uuid.UUID]struct{}, len(orders))
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.AddressID]; ok {
			continue
		}
		seen[o.AddressID] = struct{}{}
		ids = append(ids, o.AddressID)
	}
	rows, err := s.addresses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load addresses")
	}
	out := make(map[uuid.UUID]*address.DTO, len(rows))
	for _, row := range rows {
		dto := address.FromModel(row)
		out[row.ID] = &dto
	}
	return out, nil
}

func validatePlaceInput(input PlaceInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "items are required")
	}
	if input.AddressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "address_id is required")
	}
	if !input.TotalPrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total_price must be greater than zero")
	}
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required").
				WithDetails(map[string]any{"item": i})
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"item": i})
		}
		if item.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative").
				WithDetails(map[string]any{"item": i})
		}
	}
	return nil
}

func itemsTotal(items []ItemInput) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
