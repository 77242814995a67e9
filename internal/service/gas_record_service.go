package service

import (
	"context"

	"koalgroup/internal/dto"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
)

type GasRecordService interface {
	List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]dto.GasRecordResponse, error)
	Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.GasRecordResponse, error)
	Create(ctx context.Context, c policy.Caller, req dto.CreateGasRecordRequest) (*dto.GasRecordResponse, error)
	Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateGasRecordRequest) (*dto.GasRecordResponse, error)
	Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error
}

type gasRecordService struct {
	repo repository.GasRecordRepository
}

func NewGasRecordService(repo repository.GasRecordRepository) GasRecordService {
	return &gasRecordService{repo: repo}
}

func (s *gasRecordService) List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]dto.GasRecordResponse, error) {
	filter, err := toFilter(f)
	if err != nil {
		return nil, err
	}
	rows, err := listVisible[model.GasRecord](ctx, s.repo, policy.GasRecords, c, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.GasRecordResponse, len(rows))
	for i := range rows {
		resp[i] = toGasRecordResponse(&rows[i])
	}
	return resp, nil
}

func (s *gasRecordService) Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.GasRecordResponse, error) {
	g, err := findVisible[model.GasRecord](ctx, s.repo, policy.GasRecords, c, id)
	if err != nil {
		return nil, err
	}
	resp := toGasRecordResponse(g)
	return &resp, nil
}

// Create attributes the reading to the caller.
func (s *gasRecordService) Create(ctx context.Context, c policy.Caller, req dto.CreateGasRecordRequest) (*dto.GasRecordResponse, error) {
	assigned, err := createAllowed(policy.GasRecords, c)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	tod, err := parseTimeOfDay("time", req.Time)
	if err != nil {
		return nil, err
	}
	recordedBy, _ := forced(assigned, policy.FieldRecordedBy)
	g := &model.GasRecord{
		Date:         date,
		Time:         tod,
		Location:     req.Location,
		GasType:      model.GasType(req.GasType),
		Level:        req.Level,
		Unit:         model.GasUnit(req.Unit),
		Status:       req.Status,
		RecordedByID: recordedBy,
		Observations: req.Observations,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, g.ID)
}

func (s *gasRecordService) Update(ctx context.Context, c policy.Caller, id uuid.UUID, req dto.UpdateGasRecordRequest) (*dto.GasRecordResponse, error) {
	g, err := findMutable[model.GasRecord](ctx, s.repo, policy.GasRecords, c, id)
	if err != nil {
		return nil, err
	}
	if req.Date != nil {
		if g.Date, err = parseDate("date", *req.Date); err != nil {
			return nil, err
		}
	}
	if req.Time != nil {
		if g.Time, err = parseTimeOfDay("time", *req.Time); err != nil {
			return nil, err
		}
	}
	if req.Location != nil {
		g.Location = *req.Location
	}
	if req.GasType != nil {
		g.GasType = model.GasType(*req.GasType)
	}
	if req.Level != nil {
		g.Level = *req.Level
	}
	if req.Unit != nil {
		g.Unit = model.GasUnit(*req.Unit)
	}
	if req.Status != nil {
		g.Status = *req.Status
	}
	if req.Observations != nil {
		g.Observations = req.Observations
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fromDB(err)
	}
	return s.respond(ctx, g.ID)
}

func (s *gasRecordService) Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error {
	if _, err := findMutable[model.GasRecord](ctx, s.repo, policy.GasRecords, c, id); err != nil {
		return err
	}
	return fromDB(s.repo.Delete(ctx, id))
}

func (s *gasRecordService) respond(ctx context.Context, id uuid.UUID) (*dto.GasRecordResponse, error) {
	g, err := reload[model.GasRecord](ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := toGasRecordResponse(g)
	return &resp, nil
}

func toGasRecordResponse(g *model.GasRecord) dto.GasRecordResponse {
	return dto.GasRecordResponse{
		ID:             g.ID.String(),
		Date:           formatDate(g.Date),
		Time:           g.Time,
		Location:       g.Location,
		GasType:        string(g.GasType),
		Level:          g.Level,
		Unit:           string(g.Unit),
		Status:         g.Status,
		RecordedBy:     idString(g.RecordedByID),
		RecordedByName: userName(g.RecordedBy),
		Observations:   g.Observations,
	}
}
