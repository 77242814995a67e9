package service

import (
	"strings"
	"time"

	"koalgroup/internal/dto"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
)

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, fieldError(field, "fecha invalida, use AAAA-MM-DD")
	}
	return t, nil
}

func parseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseTimeOfDay accepts HH:MM or HH:MM:SS and normalizes to HH:MM:SS.
func parseTimeOfDay(field, s string) (string, error) {
	for _, layout := range []string{dto.TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.Format(dto.TimeLayout), nil
		}
	}
	return "", fieldError(field, "hora invalida, use HH:MM[:SS]")
}

// parseRef parses a reference id. The empty string means no reference.
func parseRef(field, s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fieldError(field, "identificador invalido")
	}
	return &id, nil
}

func parseOptionalRef(field string, s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	return parseRef(field, *s)
}

func toFilter(f dto.ListFilter) (repository.Filter, error) {
	var out repository.Filter
	var err error
	if out.ProjectID, err = parseRef("project", f.Project); err != nil {
		return out, err
	}
	if out.From, err = parseOptionalDate("from", &f.From); err != nil {
		return out, err
	}
	if out.To, err = parseOptionalDate("to", &f.To); err != nil {
		return out, err
	}
	return out, nil
}

func formatDate(t time.Time) string { return t.Format(dto.DateLayout) }

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func formatTimestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
