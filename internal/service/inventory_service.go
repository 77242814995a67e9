package service

import (
	"context"
	"time"

	"koalgroup/internal/dto"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
)

type InventoryItemService interface {
	List(ctx context.Context, c policy.Caller) ([]dto.InventoryItemResponse, error)
	Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.InventoryItemResponse, error)
	Create(ctx context.Context, c policy.Caller, req dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error)
	Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error)
	Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error
}

type inventoryItemService struct {
	repo repository.InventoryItemRepository
	now  func() time.Time
}

// NewInventoryItemService stamps last_updated from now on every write.
func NewInventoryItemService(repo repository.InventoryItemRepository, now func() time.Time) InventoryItemService {
	if now == nil {
		now = utcNow
	}
	return &inventoryItemService{repo: repo, now: now}
}

func (s *inventoryItemService) List(ctx context.Context, c policy.Caller) ([]dto.InventoryItemResponse, error) {
	rows, err := listVisible[model.InventoryItem](ctx, s.repo, policy.InventoryItems, c, repository.Filter{})
	if err != nil {
		return nil, err
	}
	resp := make([]dto.InventoryItemResponse, len(rows))
	for i := range rows {
		resp[i] = toInventoryItemResponse(&rows[i])
	}
	return resp, nil
}

func (s *inventoryItemService) Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.InventoryItemResponse, error) {
	it, err := findVisible[model.InventoryItem](ctx, s.repo, policy.InventoryItems, c, id)
	if err != nil {
		return nil, err
	}
	resp := toInventoryItemResponse(it)
	return &resp, nil
}

func (s *inventoryItemService) Create(ctx context.Context, c policy.Caller, req dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if _, err := createAllowed(policy.InventoryItems, c); err != nil {
		return nil, err
	}
	it := &model.InventoryItem{
		Name:        req.Name,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Location:    req.Location,
		Status:      req.Status,
		LastUpdated: s.now(),
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, fromDB(err)
	}
	resp := toInventoryItemResponse(it)
	return &resp, nil
}

func (s *inventoryItemService) Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	it, err := findMutable[model.InventoryItem](ctx, s.repo, policy.InventoryItems, c, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		it.Name = *req.Name
	}
	if req.Quantity != nil {
		it.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		it.Unit = *req.Unit
	}
	if req.Location != nil {
		it.Location = *req.Location
	}
	if req.Status != nil {
		it.Status = *req.Status
	}
	it.LastUpdated = s.now()
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, fromDB(err)
	}
	resp := toInventoryItemResponse(it)
	return &resp, nil
}

func (s *inventoryItemService) Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error {
	if _, err := findMutable[model.InventoryItem](ctx, s.repo, policy.InventoryItems, c, id); err != nil {
		return err
	}
	return fromDB(s.repo.Delete(ctx, id))
}

func toInventoryItemResponse(it *model.InventoryItem) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:          it.ID.String(),
		Name:        it.Name,
		Quantity:    it.Quantity,
		Unit:        it.Unit,
		Location:    it.Location,
		LastUpdated: formatTimestamp(it.LastUpdated),
		Status:      it.Status,
	}
}
