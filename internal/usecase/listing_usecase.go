package usecase

import (
	"context"
	"time"

	"ecobid/internal/domain/entity"
	"ecobid/internal/domain/repository"
	"ecobid/pkg/errors"
	"ecobid/pkg/utils"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	bidRepo     repository.BidRepository
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	bidRepo repository.BidRepository,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		bidRepo:     bidRepo,
	}
}

type CreateListingInput struct {
	Title           string
	Description     string
	Category        string
	WeightKg        float64
	Price           float64
	PriceType       string
	DeliveryOptions []string
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be positive", nil)
	}

	if input.PriceType != entity.PriceTypeFixed && input.PriceType != entity.PriceTypeNegotiable {
		return nil, errors.BadRequest("Invalid price type", nil)
	}

	if len(input.DeliveryOptions) == 0 {
		return nil, errors.BadRequest("At least one delivery option is required", nil)
	}
	for _, option := range input.DeliveryOptions {
		if !entity.ValidDeliveryOption(option) {
			return nil, errors.BadRequest("Invalid delivery option", nil)
		}
	}

	listing := &entity.Listing{
		SellerID:        sellerID,
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		WeightKg:        input.WeightKg,
		Price:           input.Price,
		PriceType:       input.PriceType,
		Status:          entity.ListingStatusOpen,
		DeliveryOptions: input.DeliveryOptions,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

func (uc *ListingUseCase) ListOpenListings(ctx context.Context, filter repository.ListingFilter, page, limit int) ([]*entity.Listing, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)
	return uc.listingRepo.ListOpen(ctx, filter, pagination.PageSize, pagination.Offset)
}

func (uc *ListingUseCase) ListMyListings(ctx context.Context, sellerID string, page, limit int) ([]*entity.Listing, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)
	return uc.listingRepo.ListBySeller(ctx, sellerID, pagination.PageSize, pagination.Offset)
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, id, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.SellerID != sellerID {
		return nil, errors.Forbidden("You don't have permission to update this listing", nil)
	}

	if listing.Status != entity.ListingStatusOpen {
		return nil, errors.InvalidState("Only open listings can be updated", nil)
	}

	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be positive", nil)
	}

	if input.PriceType != entity.PriceTypeFixed && input.PriceType != entity.PriceTypeNegotiable {
		return nil, errors.BadRequest("Invalid price type", nil)
	}

	if len(input.DeliveryOptions) == 0 {
		return nil, errors.BadRequest("At least one delivery option is required", nil)
	}
	for _, option := range input.DeliveryOptions {
		if !entity.ValidDeliveryOption(option) {
			return nil, errors.BadRequest("Invalid delivery option", nil)
		}
	}

	listing.Title = input.Title
	listing.Description = input.Description
	listing.Category = input.Category
	listing.WeightKg = input.WeightKg
	listing.Price = input.Price
	listing.PriceType = input.PriceType
	listing.DeliveryOptions = input.DeliveryOptions
	listing.UpdatedAt = time.Now()

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) DeleteListing(ctx context.Context, id, sellerID string) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if listing.SellerID != sellerID {
		return errors.Forbidden("You don't have permission to delete this listing", nil)
	}

	if listing.Status != entity.ListingStatusOpen {
		return errors.InvalidState("Only open listings can be deleted", nil)
	}

	bids, err := uc.bidRepo.ListLiveByListing(ctx, id)
	if err != nil {
		return err
	}
	if len(bids) > 0 {
		return errors.Conflict("Listing has active bids and cannot be deleted", nil)
	}

	return uc.listingRepo.SoftDelete(ctx, id)
}
