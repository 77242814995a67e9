package service

import (
	"context"
	"errors"
	"os"
	"time"

	"koalgroup/internal/dto"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportQueue hands a pending report to the worker pool.
type ReportQueue interface {
	EnqueueReport(ctx context.Context, reportID uuid.UUID) error
}

type ReportService interface {
	Generate(ctx context.Context, c policy.Caller, req dto.GenerateReportRequest) (*dto.ReportResponse, error)
	List(ctx context.Context, c policy.Caller) ([]dto.ReportResponse, error)
	Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.ReportResponse, error)
	Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error
	// Download returns the path of a ready PDF and the file name to offer.
	Download(ctx context.Context, c policy.Caller, id uuid.UUID) (path, filename string, err error)
}

type reportService struct {
	repo     repository.ReportRepository
	projects repository.ProjectRepository
	queue    ReportQueue
	now      func() time.Time
}

func NewReportService(repo repository.ReportRepository, projects repository.ProjectRepository, queue ReportQueue, now func() time.Time) ReportService {
	if now == nil {
		now = utcNow
	}
	return &reportService{repo: repo, projects: projects, queue: queue, now: now}
}

var reportTitles = map[model.ReportType]string{
	model.ReportProduction: "Reporte de produccion",
	model.ReportPersonnel:  "Reporte de personal",
	model.ReportProject:    "Reporte de proyectos",
}

// Generate stores a pending report and queues it. The requester's role is
// snapshotted so the worker renders exactly what the requester could see.
// When the queue is unreachable the report is left for the retry sweeper.
func (s *reportService) Generate(ctx context.Context, c policy.Caller, req dto.GenerateReportRequest) (*dto.ReportResponse, error) {
	assigned, err := createAllowed(policy.Reports, c)
	if err != nil {
		return nil, err
	}
	r := &model.Report{
		Title:            req.Title,
		Type:             model.ReportType(req.ReportType),
		Status:           model.ReportPending,
		RequestedByID:    c.ID,
		RequesterRole:    c.Role,
		RequesterIsSuper: c.IsSuperuser,
	}
	if id, ok := forced(assigned, policy.FieldRequestedBy); ok {
		r.RequestedByID = *id
	}
	if r.Title == "" {
		r.Title = reportTitles[r.Type]
	}
	if r.StartDate, err = parseOptionalDate("start_date", req.StartDate); err != nil {
		return nil, err
	}
	if r.EndDate, err = parseOptionalDate("end_date", req.EndDate); err != nil {
		return nil, err
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return nil, fieldError("end_date", "debe ser posterior a start_date")
	}
	if r.ProjectID, err = parseOptionalRef("project", req.Project); err != nil {
		return nil, err
	}
	if r.ProjectID != nil {
		// Only projects the requester can see may be used as a filter.
		if _, err := findVisible[model.Project](ctx, s.projects, policy.Projects, c, *r.ProjectID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fieldError("project", "el proyecto no existe")
			}
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fromDB(err)
	}
	if err := s.queue.EnqueueReport(ctx, r.ID); err != nil {
		log.Warn().Err(err).Str("report_id", r.ID.String()).Msg("report: enqueue failed, deferring to retry sweeper")
		next := s.now()
		r.NextRetryAt = &next
		if err := s.repo.Update(ctx, r); err != nil {
			return nil, fromDB(err)
		}
	}
	return s.respond(ctx, r.ID)
}

func (s *reportService) List(ctx context.Context, c policy.Caller) ([]dto.ReportResponse, error) {
	rows, err := listVisible[model.Report](ctx, s.repo, policy.Reports, c, repository.Filter{})
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ReportResponse, len(rows))
	for i := range rows {
		resp[i] = toReportResponse(&rows[i])
	}
	return resp, nil
}

func (s *reportService) Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*dto.ReportResponse, error) {
	r, err := findVisible[model.Report](ctx, s.repo, policy.Reports, c, id)
	if err != nil {
		return nil, err
	}
	resp := toReportResponse(r)
	return &resp, nil
}

func (s *reportService) Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error {
	r, err := findMutable[model.Report](ctx, s.repo, policy.Reports, c, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromDB(err)
	}
	if r.FilePath != nil {
		if err := os.Remove(*r.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", *r.FilePath).Msg("report: could not remove file")
		}
	}
	return nil
}

// Download refuses reports that are not ready with ErrConflict.
func (s *reportService) Download(ctx context.Context, c policy.Caller, id uuid.UUID) (string, string, error) {
	r, err := findVisible[model.Report](ctx, s.repo, policy.Reports, c, id)
	if err != nil {
		return "", "", err
	}
	if r.Status != model.ReportReady || r.FilePath == nil {
		return "", "", ErrConflict
	}
	if _, err := os.Stat(*r.FilePath); err != nil {
		return "", "", ErrNotFound
	}
	return *r.FilePath, ReportFileName(r), nil
}

// ReportFileName is the name a report is stored and downloaded under.
func ReportFileName(r *model.Report) string {
	return "reporte_" + string(r.Type) + "_" + r.ID.String() + ".pdf"
}

func (s *reportService) respond(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error) {
	r, err := reload[model.Report](ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := toReportResponse(r)
	return &resp, nil
}

func toReportResponse(r *model.Report) dto.ReportResponse {
	var projectName *string
	if r.Project != nil {
		projectName = &r.Project.Name
	}
	return dto.ReportResponse{
		ID:              r.ID.String(),
		Title:           r.Title,
		ReportType:      string(r.Type),
		Project:         idString(r.ProjectID),
		ProjectName:     projectName,
		StartDate:       formatOptionalDate(r.StartDate),
		EndDate:         formatOptionalDate(r.EndDate),
		Status:          string(r.Status),
		RetryCount:      r.RetryCount,
		LastError:       r.LastError,
		RequestedBy:     r.RequestedByID.String(),
		RequestedByName: userName(r.RequestedBy),
		CreatedAt:       formatTimestamp(r.CreatedAt),
	}
}
