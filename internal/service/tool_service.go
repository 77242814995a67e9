package service

import (
	"context"

	"koalgroup/internal/dto"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
)

type ToolService interface {
	List(ctx context.Context, c policy.Caller) ([]dto.ToolResponse, error)
	Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.ToolResponse, error)
	Create(ctx context.Context, c policy.Caller, req dto.CreateToolRequest) (*dto.ToolResponse, error)
	Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateToolRequest) (*dto.ToolResponse, error)
	Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error
}

type toolService struct {
	repo repository.ToolRepository
	refs refChecker
}

func NewToolService(repo repository.ToolRepository, users repository.UserRepository) ToolService {
	return &toolService{repo: repo, refs: refChecker{users: users}}
}

func (s *toolService) List(ctx context.Context, c policy.Caller) ([]dto.ToolResponse, error) {
	rows, err := listVisible[model.Tool](ctx, s.repo, policy.Tools, c, repository.Filter{})
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ToolResponse, len(rows))
	for i := range rows {
		resp[i] = toToolResponse(&rows[i])
	}
	return resp, nil
}

func (s *toolService) Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.ToolResponse, error) {
	t, err := findVisible[model.Tool](ctx, s.repo, policy.Tools, c, id)
	if err != nil {
		return nil, err
	}
	resp := toToolResponse(t)
	return &resp, nil
}

func (s *toolService) Create(ctx context.Context, c policy.Caller, req dto.CreateToolRequest) (*dto.ToolResponse, error) {
	if _, err := createAllowed(policy.Tools, c); err != nil {
		return nil, err
	}
	t := &model.Tool{
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Quantity:     req.Quantity,
		Status:       req.Status,
		Location:     req.Location,
		Observations: req.Observations,
	}
	var err error
	if t.LastRevisionDate, err = parseOptionalDate("last_revision_date", req.LastRevisionDate); err != nil {
		return nil, err
	}
	if t.AssignedToID, err = parseOptionalRef("assigned_to", req.AssignedTo); err != nil {
		return nil, err
	}
	if err := s.refs.user(ctx, "assigned_to", t.AssignedToID, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, t.ID)
}

func (s *toolService) Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateToolRequest) (*dto.ToolResponse, error) {
	t, err := findMutable[model.Tool](ctx, s.repo, policy.Tools, c, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Quantity != nil {
		t.Quantity = *req.Quantity
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.LastRevisionDate != nil {
		if t.LastRevisionDate, err = parseOptionalDate("last_revision_date", req.LastRevisionDate); err != nil {
			return nil, err
		}
	}
	if req.Location != nil {
		t.Location = *req.Location
	}
	if req.Observations != nil {
		t.Observations = req.Observations
	}
	if req.AssignedTo != nil {
		if t.AssignedToID, err = parseRef("assigned_to", *req.AssignedTo); err != nil {
			return nil, err
		}
		if err := s.refs.user(ctx, "assigned_to", t.AssignedToID, ""); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, t.ID)
}

func (s *toolService) Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error {
	if _, err := findMutable[model.Tool](ctx, s.repo, policy.Tools, c, id); err != nil {
		return err
	}
	return fromDB(s.repo.Delete(ctx, id))
}

func (s *toolService) respond(ctx context.Context, id uuid.UUID) (*dto.ToolResponse, error) {
	t, err := reload[model.Tool](ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := toToolResponse(t)
	return &resp, nil
}

func toToolResponse(t *model.Tool) dto.ToolResponse {
	return dto.ToolResponse{
		ID:               t.ID.String(),
		Name:             t.Name,
		Category:         t.Category,
		Description:      t.Description,
		Quantity:         t.Quantity,
		Status:           t.Status,
		LastRevisionDate: formatOptionalDate(t.LastRevisionDate),
		Location:         t.Location,
		Observations:     t.Observations,
		AssignedTo:       idString(t.AssignedToID),
		AssignedToName:   userName(t.AssignedTo),
	}
}
