package worker

import (
	"context"
	"fmt"
	"sort"

	"koalgroup/internal/dto"
	"koalgroup/internal/infra"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sources are the repositories report content is read from.
type Sources struct {
	Projects   repository.ProjectRepository
	Production repository.ProductionRecordRepository
	AccessLogs repository.AccessLogRepository
}

// requester rebuilds the identity a report was asked with, so rendering never
// sees more rows than the requester could.
func requester(r *model.Report) policy.Caller {
	return policy.Caller{ID: r.RequestedByID, Role: r.RequesterRole, IsSuperuser: r.RequesterIsSuper}
}

func (s Sources) build(ctx context.Context, r *model.Report) (infra.ReportDocument, error) {
	doc := infra.ReportDocument{Title: r.Title, Subtitle: subtitle(r)}
	c := requester(r)
	f := repository.Filter{ProjectID: r.ProjectID, From: r.StartDate, To: r.EndDate}

	switch r.Type {
	case model.ReportProduction:
		return s.production(ctx, doc, c, f)
	case model.ReportPersonnel:
		return s.personnel(ctx, doc, c, f)
	case model.ReportProject:
		return s.projects(ctx, doc, c, f)
	}
	return doc, fmt.Errorf("%w: unknown report type %q", errPermanent, r.Type)
}

func (s Sources) production(ctx context.Context, doc infra.ReportDocument, c policy.Caller, f repository.Filter) (infra.ReportDocument, error) {
	scope, err := visible(policy.ProductionRecords, c)
	if err != nil {
		return doc, err
	}
	rows, err := s.Production.List(ctx, scope, f)
	if err != nil {
		return doc, err
	}

	doc.Columns = []string{"Fecha", "Proyecto", "Material", "Cantidad", "Unidad", "Calidad", "Empleado"}
	doc.Widths = []float64{1.2, 2.4, 1.8, 1.1, 0.9, 1.1, 1.8}
	totals := map[string]decimal.Decimal{}
	for _, p := range rows {
		doc.Rows = append(doc.Rows, []string{
			p.Date.Format(dto.DateLayout),
			projectName(p.Project),
			p.MaterialType,
			p.Quantity.StringFixed(2),
			p.Unit,
			deref(p.Quality),
			username(p.Employee),
		})
		totals[p.Unit] = totals[p.Unit].Add(p.Quantity)
	}

	doc.Summary = []string{fmt.Sprintf("Registros: %d", len(rows))}
	units := make([]string, 0, len(totals))
	for u := range totals {
		units = append(units, u)
	}
	sort.Strings(units)
	for _, u := range units {
		doc.Summary = append(doc.Summary, fmt.Sprintf("Total %s: %s", u, totals[u].StringFixed(2)))
	}
	return doc, nil
}

func (s Sources) personnel(ctx context.Context, doc infra.ReportDocument, c policy.Caller, f repository.Filter) (infra.ReportDocument, error) {
	scope, err := visible(policy.AccessLogs, c)
	if err != nil {
		return doc, err
	}
	logs, err := s.AccessLogs.List(ctx, scope, f)
	if err != nil {
		return doc, err
	}

	doc.Columns = []string{"Fecha/hora", "Empleado", "Tipo", "Area", "Estado de salud"}
	doc.Widths = []float64{1.6, 1.8, 1, 1.8, 2.2}
	counts := map[model.AccessType]int{}
	for _, l := range logs {
		doc.Rows = append(doc.Rows, []string{
			l.Timestamp.UTC().Format("2006-01-02 15:04"),
			username(l.Employee),
			string(l.AccessType),
			l.Area,
			deref(l.HealthStatusOrRFC),
		})
		counts[l.AccessType]++
	}
	doc.Summary = []string{
		fmt.Sprintf("Registros: %d", len(logs)),
		fmt.Sprintf("Entradas: %d", counts[model.AccessEntry]),
		fmt.Sprintf("Salidas: %d", counts[model.AccessExit]),
	}
	return doc, nil
}

func (s Sources) projects(ctx context.Context, doc infra.ReportDocument, c policy.Caller, f repository.Filter) (infra.ReportDocument, error) {
	scope, err := visible(policy.Projects, c)
	if err != nil {
		return doc, err
	}
	// The date range narrows production, not which projects are listed.
	projects, err := s.Projects.List(ctx, scope, repository.Filter{})
	if err != nil {
		return doc, err
	}
	prodScope, err := visible(policy.ProductionRecords, c)
	if err != nil {
		return doc, err
	}
	records, err := s.Production.List(ctx, prodScope, f)
	if err != nil {
		return doc, err
	}
	perProject := map[uuid.UUID]int{}
	for _, r := range records {
		perProject[r.ProjectID]++
	}

	doc.Columns = []string{"Proyecto", "Ubicacion", "Inicio", "Estado", "Responsable", "Registros"}
	doc.Widths = []float64{2.4, 2, 1.1, 1, 1.6, 1}
	listed := 0
	for _, p := range projects {
		if f.ProjectID != nil && p.ID != *f.ProjectID {
			continue
		}
		doc.Rows = append(doc.Rows, []string{
			p.Name,
			p.Location,
			p.StartDate.Format(dto.DateLayout),
			p.Status,
			username(p.Manager),
			fmt.Sprintf("%d", perProject[p.ID]),
		})
		listed++
	}
	doc.Summary = []string{
		fmt.Sprintf("Proyectos: %d", listed),
		fmt.Sprintf("Registros de produccion: %d", len(records)),
	}
	return doc, nil
}

// visible turns a lost permission into a permanent failure.
func visible(res policy.Resource, c policy.Caller) (policy.Scope, error) {
	scope, err := policy.Visible(res, c)
	if err != nil {
		return scope, fmt.Errorf("%w: %v", errPermanent, err)
	}
	return scope, nil
}

func subtitle(r *model.Report) string {
	period := "todo el historial"
	switch {
	case r.StartDate != nil && r.EndDate != nil:
		period = r.StartDate.Format(dto.DateLayout) + " a " + r.EndDate.Format(dto.DateLayout)
	case r.StartDate != nil:
		period = "desde " + r.StartDate.Format(dto.DateLayout)
	case r.EndDate != nil:
		period = "hasta " + r.EndDate.Format(dto.DateLayout)
	}
	if r.Project != nil {
		return fmt.Sprintf("Proyecto: %s | Periodo: %s", r.Project.Name, period)
	}
	return "Periodo: " + period
}

func projectName(p *model.Project) string {
	if p == nil {
		return "-"
	}
	return p.Name
}

func username(u *model.User) string {
	if u == nil {
		return "-"
	}
	return u.Username
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
