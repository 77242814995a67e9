package service

import (
	"context"

	"koalgroup/internal/dto"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WorkFrontService interface {
	List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]dto.WorkFrontResponse, error)
	Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.WorkFrontResponse, error)
	Create(ctx context.Context, c policy.Caller, req dto.CreateWorkFrontRequest) (*dto.WorkFrontResponse, error)
	Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateWorkFrontRequest) (*dto.WorkFrontResponse, error)
	Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error
}

type workFrontService struct {
	repo repository.WorkFrontRepository
	refs refChecker
}

func NewWorkFrontService(repo repository.WorkFrontRepository, projects repository.ProjectRepository, users repository.UserRepository) WorkFrontService {
	return &workFrontService{repo: repo, refs: refChecker{users: users, projects: projects}}
}

func (s *workFrontService) List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]dto.WorkFrontResponse, error) {
	filter, err := toFilter(f)
	if err != nil {
		return nil, err
	}
	rows, err := listVisible[model.WorkFront](ctx, s.repo, policy.WorkFronts, c, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.WorkFrontResponse, len(rows))
	for i := range rows {
		resp[i] = toWorkFrontResponse(&rows[i])
	}
	return resp, nil
}

func (s *workFrontService) Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.WorkFrontResponse, error) {
	w, err := findVisible[model.WorkFront](ctx, s.repo, policy.WorkFronts, c, id)
	if err != nil {
		return nil, err
	}
	resp := toWorkFrontResponse(w)
	return &resp, nil
}

// Create pins the supervisor to a supervisor caller.
func (s *workFrontService) Create(ctx context.Context, c policy.Caller, req dto.CreateWorkFrontRequest) (*dto.WorkFrontResponse, error) {
	assigned, err := createAllowed(policy.WorkFronts, c)
	if err != nil {
		return nil, err
	}
	w := &model.WorkFront{
		Name:        req.Name,
		Location:    req.Location,
		Status:      model.WorkFrontStatus(req.Status),
		Workers:     req.Workers,
		Description: req.Description,
		Progress:    decimal.Zero,
	}
	if w.Status == "" {
		w.Status = model.WorkFrontPlanned
	}
	if req.Progress != nil {
		w.Progress = *req.Progress
	}
	if w.StartDate, err = parseDate("start_date", req.StartDate); err != nil {
		return nil, err
	}
	if w.EstimatedEndDate, err = parseDate("estimated_end_date", req.EstimatedEndDate); err != nil {
		return nil, err
	}
	if w.ProjectID, err = parseOptionalRef("project", req.Project); err != nil {
		return nil, err
	}
	if err := s.refs.project(ctx, policy.WorkFronts, c, "project", w.ProjectID); err != nil {
		return nil, err
	}
	if id, ok := forced(assigned, policy.FieldSupervisor); ok {
		w.SupervisorID = id
	} else {
		if w.SupervisorID, err = parseOptionalRef("supervisor", req.Supervisor); err != nil {
			return nil, err
		}
		if err := s.refs.user(ctx, "supervisor", w.SupervisorID, model.RoleSupervisor); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, w.ID)
}

func (s *workFrontService) Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateWorkFrontRequest) (*dto.WorkFrontResponse, error) {
	w, err := findMutable[model.WorkFront](ctx, s.repo, policy.WorkFronts, c, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Location != nil {
		w.Location = *req.Location
	}
	if req.Status != nil {
		w.Status = model.WorkFrontStatus(*req.Status)
	}
	if req.StartDate != nil {
		if w.StartDate, err = parseDate("start_date", *req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EstimatedEndDate != nil {
		if w.EstimatedEndDate, err = parseDate("estimated_end_date", *req.EstimatedEndDate); err != nil {
			return nil, err
		}
	}
	if req.Workers != nil {
		w.Workers = *req.Workers
	}
	if req.Description != nil {
		w.Description = req.Description
	}
	if req.Progress != nil {
		w.Progress = *req.Progress
	}
	if req.Project != nil {
		if w.ProjectID, err = parseRef("project", *req.Project); err != nil {
			return nil, err
		}
		if err := s.refs.project(ctx, policy.WorkFronts, c, "project", w.ProjectID); err != nil {
			return nil, err
		}
	}
	if _, pinned := forced(policy.Assignments(policy.WorkFronts, c), policy.FieldSupervisor); req.Supervisor != nil && !pinned {
		if w.SupervisorID, err = parseRef("supervisor", *req.Supervisor); err != nil {
			return nil, err
		}
		if err := s.refs.user(ctx, "supervisor", w.SupervisorID, model.RoleSupervisor); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, w.ID)
}

func (s *workFrontService) Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error {
	if _, err := findMutable[model.WorkFront](ctx, s.repo, policy.WorkFronts, c, id); err != nil {
		return err
	}
	return fromDB(s.repo.Delete(ctx, id))
}

func (s *workFrontService) respond(ctx context.Context, id uuid.UUID) (*dto.WorkFrontResponse, error) {
	w, err := reload[model.WorkFront](ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := toWorkFrontResponse(w)
	return &resp, nil
}

func toWorkFrontResponse(w *model.WorkFront) dto.WorkFrontResponse {
	var projectName *string
	if w.Project != nil {
		projectName = &w.Project.Name
	}
	return dto.WorkFrontResponse{
		ID:               w.ID.String(),
		Name:             w.Name,
		Location:         w.Location,
		Status:           string(w.Status),
		StartDate:        formatDate(w.StartDate),
		EstimatedEndDate: formatDate(w.EstimatedEndDate),
		Workers:          w.Workers,
		Description:      w.Description,
		Progress:         w.Progress,
		Project:          idString(w.ProjectID),
		ProjectName:      projectName,
		Supervisor:       idString(w.SupervisorID),
		SupervisorName:   userName(w.Supervisor),
	}
}
