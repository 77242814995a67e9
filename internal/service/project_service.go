package service

import (
	"context"

	"koalgroup/internal/dto"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
)

type ProjectService interface {
	List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]dto.ProjectResponse, error)
	Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.ProjectResponse, error)
	Create(ctx context.Context, c policy.Caller, req dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error
}

type projectService struct {
	repo repository.ProjectRepository
	refs refChecker
}

func NewProjectService(repo repository.ProjectRepository, users repository.UserRepository) ProjectService {
	return &projectService{repo: repo, refs: refChecker{users: users, projects: repo}}
}

func (s *projectService) List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]dto.ProjectResponse, error) {
	filter, err := toFilter(f)
	if err != nil {
		return nil, err
	}
	rows, err := listVisible[model.Project](ctx, s.repo, policy.Projects, c, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProjectResponse, len(rows))
	for i := range rows {
		resp[i] = toProjectResponse(&rows[i])
	}
	return resp, nil
}

func (s *projectService) Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.ProjectResponse, error) {
	p, err := findVisible[model.Project](ctx, s.repo, policy.Projects, c, id)
	if err != nil {
		return nil, err
	}
	resp := toProjectResponse(p)
	return &resp, nil
}

// Create pins the manager to a supervisor caller; any manager in the request
// is ignored in that case.
func (s *projectService) Create(ctx context.Context, c policy.Caller, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	assigned, err := createAllowed(policy.Projects, c)
	if err != nil {
		return nil, err
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	p := &model.Project{
		Name:        req.Name,
		Location:    req.Location,
		StartDate:   start,
		Description: req.Description,
		Status:      req.Status,
	}
	if p.Status == "" {
		p.Status = model.DefaultProjectStatus
	}
	if id, ok := forced(assigned, policy.FieldManager); ok {
		p.ManagerID = id
	} else {
		if p.ManagerID, err = parseOptionalRef("manager", req.Manager); err != nil {
			return nil, err
		}
		if err := s.refs.user(ctx, "manager", p.ManagerID, model.RoleSupervisor); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, p.ID)
}

func (s *projectService) Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	p, err := findMutable[model.Project](ctx, s.repo, policy.Projects, c, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.StartDate != nil {
		if p.StartDate, err = parseDate("start_date", *req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Status != nil && *req.Status != "" {
		p.Status = *req.Status
	}
	if _, pinned := forced(policy.Assignments(policy.Projects, c), policy.FieldManager); req.Manager != nil && !pinned {
		if p.ManagerID, err = parseRef("manager", *req.Manager); err != nil {
			return nil, err
		}
		if err := s.refs.user(ctx, "manager", p.ManagerID, model.RoleSupervisor); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, p.ID)
}

func (s *projectService) Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error {
	if _, err := findMutable[model.Project](ctx, s.repo, policy.Projects, c, id); err != nil {
		return err
	}
	return fromDB(s.repo.Delete(ctx, id))
}

func (s *projectService) respond(ctx context.Context, id uuid.UUID) (*dto.ProjectResponse, error) {
	p, err := reload[model.Project](ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := toProjectResponse(p)
	return &resp, nil
}

func toProjectResponse(p *model.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Location:    p.Location,
		StartDate:   formatDate(p.StartDate),
		Description: p.Description,
		Manager:     idString(p.ManagerID),
		ManagerName: userName(p.Manager),
		Status:      p.Status,
		CreatedAt:   formatTimestamp(p.CreatedAt),
		UpdatedAt:   formatTimestamp(p.UpdatedAt),
	}
}
