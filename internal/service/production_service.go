package service

import (
	"context"

	"koalgroup/internal/dto"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
)

type ProductionRecordService interface {
	List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]dto.ProductionRecordResponse, error)
	Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.ProductionRecordResponse, error)
	Create(ctx context.Context, c policy.Caller, req dto.CreateProductionRecordRequest) (*dto.ProductionRecordResponse, error)
	Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateProductionRecordRequest) (*dto.ProductionRecordResponse, error)
	Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error
}

type productionRecordService struct {
	repo repository.ProductionRecordRepository
	refs refChecker
}

func NewProductionRecordService(repo repository.ProductionRecordRepository, projects repository.ProjectRepository, users repository.UserRepository) ProductionRecordService {
	return &productionRecordService{repo: repo, refs: refChecker{users: users, projects: projects}}
}

func (s *productionRecordService) List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]dto.ProductionRecordResponse, error) {
	filter, err := toFilter(f)
	if err != nil {
		return nil, err
	}
	rows, err := listVisible[model.ProductionRecord](ctx, s.repo, policy.ProductionRecords, c, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductionRecordResponse, len(rows))
	for i := range rows {
		resp[i] = toProductionRecordResponse(&rows[i])
	}
	return resp, nil
}

func (s *productionRecordService) Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.ProductionRecordResponse, error) {
	r, err := findVisible[model.ProductionRecord](ctx, s.repo, policy.ProductionRecords, c, id)
	if err != nil {
		return nil, err
	}
	resp := toProductionRecordResponse(r)
	return &resp, nil
}

func (s *productionRecordService) Create(ctx context.Context, c policy.Caller, req dto.CreateProductionRecordRequest) (*dto.ProductionRecordResponse, error) {
	if _, err := createAllowed(policy.ProductionRecords, c); err != nil {
		return nil, err
	}
	projectID, err := parseRef("project", req.Project)
	if err != nil {
		return nil, err
	}
	if projectID == nil {
		return nil, fieldError("project", "este campo es requerido")
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	employeeID, err := parseOptionalRef("employee", req.Employee)
	if err != nil {
		return nil, err
	}
	if err := s.refs.project(ctx, policy.ProductionRecords, c, "project", projectID); err != nil {
		return nil, err
	}
	if err := s.refs.user(ctx, "employee", employeeID, ""); err != nil {
		return nil, err
	}
	r := &model.ProductionRecord{
		ProjectID:    *projectID,
		EmployeeID:   employeeID,
		Date:         date,
		MaterialType: req.MaterialType,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Quality:      req.Quality,
		Observations: req.Observations,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, r.ID)
}

func (s *productionRecordService) Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateProductionRecordRequest) (*dto.ProductionRecordResponse, error) {
	r, err := findMutable[model.ProductionRecord](ctx, s.repo, policy.ProductionRecords, c, id)
	if err != nil {
		return nil, err
	}
	if req.Project != nil {
		projectID, err := parseRef("project", *req.Project)
		if err != nil {
			return nil, err
		}
		if projectID == nil {
			return nil, fieldError("project", "este campo no puede quedar vacio")
		}
		if err := s.refs.project(ctx, policy.ProductionRecords, c, "project", projectID); err != nil {
			return nil, err
		}
		r.ProjectID = *projectID
	}
	if req.Employee != nil {
		if r.EmployeeID, err = parseRef("employee", *req.Employee); err != nil {
			return nil, err
		}
		if err := s.refs.user(ctx, "employee", r.EmployeeID, ""); err != nil {
			return nil, err
		}
	}
	if req.Date != nil {
		if r.Date, err = parseDate("date", *req.Date); err != nil {
			return nil, err
		}
	}
	if req.MaterialType != nil {
		r.MaterialType = *req.MaterialType
	}
	if req.Quantity != nil {
		r.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		r.Unit = *req.Unit
	}
	if req.Quality != nil {
		r.Quality = blankToNil(req.Quality)
	}
	if req.Observations != nil {
		r.Observations = req.Observations
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, r.ID)
}

func (s *productionRecordService) Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error {
	if _, err := findMutable[model.ProductionRecord](ctx, s.repo, policy.ProductionRecords, c, id); err != nil {
		return err
	}
	return fromDB(s.repo.Delete(ctx, id))
}

func (s *productionRecordService) respond(ctx context.Context, id uuid.UUID) (*dto.ProductionRecordResponse, error) {
	r, err := reload[model.ProductionRecord](ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := toProductionRecordResponse(r)
	return &resp, nil
}

func toProductionRecordResponse(r *model.ProductionRecord) dto.ProductionRecordResponse {
	var projectName *string
	if r.Project != nil {
		projectName = &r.Project.Name
	}
	return dto.ProductionRecordResponse{
		ID:           r.ID.String(),
		Project:      r.ProjectID.String(),
		ProjectName:  projectName,
		Employee:     idString(r.EmployeeID),
		EmployeeName: userName(r.Employee),
		Date:         formatDate(r.Date),
		MaterialType: r.MaterialType,
		Quantity:     r.Quantity,
		Unit:         r.Unit,
		Quality:      r.Quality,
		Observations: r.Observations,
	}
}
