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

type AccessLogService interface {
	List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]dto.AccessLogResponse, error)
	Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.AccessLogResponse, error)
	Create(ctx context.Context, c policy.Caller, req dto.CreateAccessLogRequest) (*dto.AccessLogResponse, error)
	Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateAccessLogRequest) (*dto.AccessLogResponse, error)
	Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error
}

type accessLogService struct {
	repo repository.AccessLogRepository
	refs refChecker
	now  func() time.Time
}

func NewAccessLogService(repo repository.AccessLogRepository, users repository.UserRepository, now func() time.Time) AccessLogService {
	if now == nil {
		now = utcNow
	}
	return &accessLogService{repo: repo, refs: refChecker{users: users}, now: now}
}

func utcNow() time.Time { return time.Now().UTC() }

func (s *accessLogService) List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]dto.AccessLogResponse, error) {
	filter, err := toFilter(f)
	if err != nil {
		return nil, err
	}
	rows, err := listVisible[model.AccessLog](ctx, s.repo, policy.AccessLogs, c, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AccessLogResponse, len(rows))
	for i := range rows {
		resp[i] = toAccessLogResponse(&rows[i])
	}
	return resp, nil
}

func (s *accessLogService) Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.AccessLogResponse, error) {
	l, err := findVisible[model.AccessLog](ctx, s.repo, policy.AccessLogs, c, id)
	if err != nil {
		return nil, err
	}
	resp := toAccessLogResponse(l)
	return &resp, nil
}

// Create stamps the entry with the server clock. Employees always log for
// themselves; other roles must name the employee.
func (s *accessLogService) Create(ctx context.Context, c policy.Caller, req dto.CreateAccessLogRequest) (*dto.AccessLogResponse, error) {
	assigned, err := createAllowed(policy.AccessLogs, c)
	if err != nil {
		return nil, err
	}
	employeeID, pinned := forced(assigned, policy.FieldEmployee)
	if !pinned {
		if employeeID, err = parseOptionalRef("employee", req.Employee); err != nil {
			return nil, err
		}
		if employeeID == nil {
			return nil, fieldError("employee", "este campo es requerido")
		}
		if err := s.refs.user(ctx, "employee", employeeID, ""); err != nil {
			return nil, err
		}
	}
	l := &model.AccessLog{
		EmployeeID:        *employeeID,
		AccessType:        model.AccessType(req.AccessType),
		Timestamp:         s.now(),
		Area:              req.Area,
		Notes:             req.Notes,
		HealthStatusOrRFC: req.HealthStatusOrRFC,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, l.ID)
}

// Update never touches the timestamp, and an employee cannot move an entry to
// someone else.
func (s *accessLogService) Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateAccessLogRequest) (*dto.AccessLogResponse, error) {
	l, err := findMutable[model.AccessLog](ctx, s.repo, policy.AccessLogs, c, id)
	if err != nil {
		return nil, err
	}
	if _, pinned := forced(policy.Assignments(policy.AccessLogs, c), policy.FieldEmployee); req.Employee != nil && !pinned {
		employeeID, err := parseRef("employee", *req.Employee)
		if err != nil {
			return nil, err
		}
		if employeeID == nil {
			return nil, fieldError("employee", "este campo no puede quedar vacio")
		}
		if err := s.refs.user(ctx, "employee", employeeID, ""); err != nil {
			return nil, err
		}
		l.EmployeeID = *employeeID
	}
	if req.AccessType != nil {
		l.AccessType = model.AccessType(*req.AccessType)
	}
	if req.Area != nil {
		l.Area = *req.Area
	}
	if req.Notes != nil {
		l.Notes = req.Notes
	}
	if req.HealthStatusOrRFC != nil {
		l.HealthStatusOrRFC = blankToNil(req.HealthStatusOrRFC)
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, l.ID)
}

func (s *accessLogService) Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error {
	if _, err := findMutable[model.AccessLog](ctx, s.repo, policy.AccessLogs, c, id); err != nil {
		return err
	}
	return fromDB(s.repo.Delete(ctx, id))
}

func (s *accessLogService) respond(ctx context.Context, id uuid.UUID) (*dto.AccessLogResponse, error) {
	l, err := reload[model.AccessLog](ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := toAccessLogResponse(l)
	return &resp, nil
}

func toAccessLogResponse(l *model.AccessLog) dto.AccessLogResponse {
	return dto.AccessLogResponse{
		ID:                l.ID.String(),
		Employee:          l.EmployeeID.String(),
		EmployeeName:      userName(l.Employee),
		AccessType:        string(l.AccessType),
		Timestamp:         formatTimestamp(l.Timestamp),
		Area:              l.Area,
		Notes:             l.Notes,
		HealthStatusOrRFC: l.HealthStatusOrRFC,
	}
}
