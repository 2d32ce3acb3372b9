package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grocerly/storefront-api/pkg/access"
	"github.com/grocerly/storefront-api/pkg/db"
	"github.com/grocerly/storefront-api/pkg/db/models"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
	"github.com/grocerly/storefront-api/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog reads and the seller/admin write paths.
type Service interface {
	ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListAllProducts(ctx context.Context) ([]ProductDTO, error)
	ListSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, actor access.Actor, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, actor access.Actor, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListSubcategories(ctx context.Context) ([]SubcategoryDTO, error)
	ListSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) ([]SubcategoryDTO, error)
	GetSubcategory(ctx context.Context, id uuid.UUID) (*SubcategoryDTO, error)
	CreateSubcategory(ctx context.Context, input SubcategoryInput) (*SubcategoryDTO, error)
	UpdateSubcategory(ctx context.Context, id uuid.UUID, input SubcategoryInput) (*SubcategoryDTO, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a catalog service backed by the provided stack.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minPrice must not exceed maxPrice")
	}
	filter.Page = filter.Page.Normalize()

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return &ProductPage{
		Meta:     pagination.NewMeta(filter.Page, total),
		Products: productsFromModels(products),
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := productFromModel(*product)
	return &dto, nil
}

func (s *service) ListAllProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListAllProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return productsFromModels(products), nil
}

func (s *service) ListSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error) {
	products, err := s.repo.ListProductsBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list seller products")
	}
	return productsFromModels(products), nil
}

func (s *service) CreateProduct(ctx context.Context, actor access.Actor, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if err := s.checkTaxonomy(ctx, input.CategoryID, input.SubCategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Quantity:      input.Quantity,
		ImageURL:      strings.TrimSpace(input.ImageURL),
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		SellerID:      actor.UserID,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	dto := productFromModel(*product)
	return &dto, nil
}

func (s *service) UpdateProduct(ctx context.Context, actor access.Actor, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(actor, product); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
		}
		product.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		product.OriginalPrice = input.OriginalPrice
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
		}
		product.Quantity = *input.Quantity
	}
	if input.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.CategoryID.Valid {
		product.CategoryID = input.CategoryID.Ptr()
	}
	if input.SubCategoryID.Valid {
		product.SubCategoryID = input.SubCategoryID.Ptr()
	}
	if input.CategoryID.Valid || input.SubCategoryID.Valid {
		if err := s.checkTaxonomy(ctx, product.CategoryID, product.SubCategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	dto := productFromModel(*product)
	return &dto, nil
}

// DeleteProduct removes the product and every cart line pointing at it in one transaction.
func (s *service) DeleteProduct(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureOwner(actor, product); err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.DeleteCartLinesForProduct(ctx, id); err != nil {
			return err
		}
		return repo.DeleteProduct(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryFromModel(c))
	}
	return out, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := categoryFromModel(*category)
	return &dto, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category := &models.Category{Name: name}
	if input.ImageURL != nil {
		category.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, mapCategoryWriteError(err, "create category")
	}
	dto := categoryFromModel(*category)
	return &dto, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	if input.ImageURL != nil {
		category.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if err := s.repo.SaveCategory(ctx, category); err != nil {
		return nil, mapCategoryWriteError(err, "update category")
	}
	dto := categoryFromModel(*category)
	return &dto, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return nil
}

func (s *service) ListSubcategories(ctx context.Context) ([]SubcategoryDTO, error) {
	rows, err := s.repo.ListSubcategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subcategories")
	}
	out := make([]SubcategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, subcategoryFromModel(row.Subcategory, row.CategoryName))
	}
	return out, nil
}

func (s *service) ListSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) ([]SubcategoryDTO, error) {
	subs, err := s.repo.ListSubcategoriesByCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subcategories")
	}
	out := make([]SubcategoryDTO, 0, len(subs))
	for _, sub := range subs {
		out = append(out, subcategoryFromModel(sub, nil))
	}
	return out, nil
}

func (s *service) GetSubcategory(ctx context.Context, id uuid.UUID) (*SubcategoryDTO, error) {
	sub, err := s.loadSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := subcategoryFromModel(*sub, nil)
	return &dto, nil
}

func (s *service) CreateSubcategory(ctx context.Context, input SubcategoryInput) (*SubcategoryDTO, error) {
	name, err := s.validateSubcategoryInput(ctx, input)
	if err != nil {
		return nil, err
	}
	sub := &models.Subcategory{Name: name, CategoryID: input.CategoryID}
	if input.ImageURL != nil {
		sub.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if err := s.repo.CreateSubcategory(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create subcategory")
	}
	dto := subcategoryFromModel(*sub, nil)
	return &dto, nil
}

func (s *service) UpdateSubcategory(ctx context.Context, id uuid.UUID, input SubcategoryInput) (*SubcategoryDTO, error) {
	name, err := s.validateSubcategoryInput(ctx, input)
	if err != nil {
		return nil, err
	}
	sub, err := s.loadSubcategory(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Name = name
	sub.CategoryID = input.CategoryID
	if input.ImageURL != nil {
		sub.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if err := s.repo.SaveSubcategory(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update subcategory")
	}
	dto := subcategoryFromModel(*sub, nil)
	return &dto, nil
}

func (s *service) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteSubcategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete subcategory")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "subcategory not found")
	}
	return nil
}

func (s *service) validateSubcategoryInput(ctx context.Context, input SubcategoryInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.CategoryID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name and category_id are required")
	}
	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "category not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return name, nil
}

// checkTaxonomy verifies referenced category/subcategory rows exist and agree.
func (s *service) checkTaxonomy(ctx context.Context, categoryID, subCategoryID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
	}
	if subCategoryID != nil {
		sub, err := s.repo.FindSubcategoryByID(ctx, *subCategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "subcategory not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load subcategory")
		}
		if categoryID != nil && sub.CategoryID != *categoryID {
			return pkgerrors.New(pkgerrors.CodeValidation, "subcategory does not belong to category")
		}
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func (s *service) loadCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return category, nil
}

func (s *service) loadSubcategory(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	sub, err := s.repo.FindSubcategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subcategory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load subcategory")
	}
	return sub, nil
}

func ensureOwner(actor access.Actor, product *models.Product) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsSeller() && product.SellerID == actor.UserID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to modify this product")
}

func mapCategoryWriteError(err error, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op)
}
