package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/funding"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/repository"
)

const tracerName = "github.com/akhadeatharv/Crowd-Funding-Project/internal/service"

// endSpan records err on span unless it is an expected business outcome.
func endSpan(span trace.Span, err error) {
	defer span.End()
	if err == nil || isExpected(err) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func isExpected(err error) bool {
	var ve *ValidationError
	var ex *funding.ExceedsRemainingError
	return errors.As(err, &ve) || errors.As(err, &ex) ||
		errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, funding.ErrInvalidAmount) ||
		errors.Is(err, funding.ErrAlreadyFunded)
}

type tracedProjectService struct {
	inner  ProjectService
	tracer trace.Tracer
}

// NewTracedProjectService wraps inner with one span per call.
func NewTracedProjectService(inner ProjectService, tp trace.TracerProvider) ProjectService {
	return &tracedProjectService{inner: inner, tracer: tp.Tracer(tracerName)}
}

func (s *tracedProjectService) List(ctx context.Context, sort model.ProjectSort, search string) (_ []*model.Project, err error) {
	ctx, span := s.tracer.Start(ctx, "ProjectService.List", trace.WithAttributes(
		attribute.String("project.sort", string(sort)),
		attribute.Bool("project.search", search != ""),
	))
	defer func() { endSpan(span, err) }()

	projects, err := s.inner.List(ctx, sort, search)
	span.SetAttributes(attribute.Int("project.count", len(projects)))
	return projects, err
}

func (s *tracedProjectService) GetByID(ctx context.Context, id string) (_ *model.Project, err error) {
	ctx, span := s.tracer.Start(ctx, "ProjectService.GetByID", trace.WithAttributes(attribute.String("project.id", id)))
	defer func() { endSpan(span, err) }()
	return s.inner.GetByID(ctx, id)
}

func (s *tracedProjectService) Create(ctx context.Context, in CreateProjectInput) (_ *model.Project, err error) {
	ctx, span := s.tracer.Start(ctx, "ProjectService.Create")
	defer func() { endSpan(span, err) }()

	p, err := s.inner.Create(ctx, in)
	if err == nil {
		span.SetAttributes(attribute.String("project.id", p.ID))
	}
	return p, err
}

func (s *tracedProjectService) Details(ctx context.Context, id, viewerID string) (_ *model.ProjectDetails, err error) {
	ctx, span := s.tracer.Start(ctx, "ProjectService.Details", trace.WithAttributes(attribute.String("project.id", id)))
	defer func() { endSpan(span, err) }()
	return s.inner.Details(ctx, id, viewerID)
}

func (s *tracedProjectService) Chart(ctx context.Context, id string) (_ []model.ChartPoint, err error) {
	ctx, span := s.tracer.Start(ctx, "ProjectService.Chart", trace.WithAttributes(attribute.String("project.id", id)))
	defer func() { endSpan(span, err) }()
	return s.inner.Chart(ctx, id)
}

type pledgeMetrics struct {
	created  metric.Int64Counter
	rejected metric.Int64Counter
	amount   metric.Float64Histogram
}

func newPledgeMetrics(m metric.Meter) pledgeMetrics {
	if m == nil {
		return pledgeMetrics{}
	}
	created, err := m.Int64Counter("pledges.created", metric.WithDescription("Number of pledges stored"))
	if err != nil {
		slog.Warn("otel: pledges.created counter", "error", err)
	}
	rejected, err := m.Int64Counter("pledges.rejected", metric.WithDescription("Number of pledges rejected by the guard"))
	if err != nil {
		slog.Warn("otel: pledges.rejected counter", "error", err)
	}
	amount, err := m.Float64Histogram("pledges.amount", metric.WithDescription("Pledged amount"), metric.WithUnit("USD"))
	if err != nil {
		slog.Warn("otel: pledges.amount histogram", "error", err)
	}
	return pledgeMetrics{created: created, rejected: rejected, amount: amount}
}

type tracedPledgeService struct {
	inner   PledgeService
	tracer  trace.Tracer
	metrics pledgeMetrics
}

// NewTracedPledgeService wraps inner with spans plus the pledges.* instruments.
func NewTracedPledgeService(inner PledgeService, tp trace.TracerProvider, m metric.Meter) PledgeService {
	return &tracedPledgeService{inner: inner, tracer: tp.Tracer(tracerName), metrics: newPledgeMetrics(m)}
}

func (s *tracedPledgeService) Pledge(ctx context.Context, projectID, userID string, amount float64) (_ *model.Pledge, err error) {
	ctx, span := s.tracer.Start(ctx, "PledgeService.Pledge", trace.WithAttributes(
		attribute.String("project.id", projectID),
		attribute.Float64("pledge.amount", amount),
	))
	defer func() { endSpan(span, err) }()

	p, err := s.inner.Pledge(ctx, projectID, userID, amount)
	attrs := metric.WithAttributes(attribute.String("project.id", projectID))
	switch {
	case err == nil:
		if s.metrics.created != nil {
			s.metrics.created.Add(ctx, 1, attrs)
		}
		if s.metrics.amount != nil {
			s.metrics.amount.Record(ctx, amount, attrs)
		}
	case isExpected(err):
		if s.metrics.rejected != nil {
			s.metrics.rejected.Add(ctx, 1, attrs)
		}
	}
	return p, err
}

func (s *tracedPledgeService) ListByProjectID(ctx context.Context, projectID string) (_ []*model.Pledge, err error) {
	ctx, span := s.tracer.Start(ctx, "PledgeService.ListByProjectID", trace.WithAttributes(attribute.String("project.id", projectID)))
	defer func() { endSpan(span, err) }()
	return s.inner.ListByProjectID(ctx, projectID)
}

type tracedUpdateService struct {
	inner  UpdateService
	tracer trace.Tracer
}

// NewTracedUpdateService wraps inner with one span per call.
func NewTracedUpdateService(inner UpdateService, tp trace.TracerProvider) UpdateService {
	return &tracedUpdateService{inner: inner, tracer: tp.Tracer(tracerName)}
}

func (s *tracedUpdateService) ListByProjectID(ctx context.Context, projectID string) (_ []*model.Update, err error) {
	ctx, span := s.tracer.Start(ctx, "UpdateService.ListByProjectID", trace.WithAttributes(attribute.String("project.id", projectID)))
	defer func() { endSpan(span, err) }()
	return s.inner.ListByProjectID(ctx, projectID)
}

func (s *tracedUpdateService) Create(ctx context.Context, projectID, userID, content string) (_ *model.Update, err error) {
	ctx, span := s.tracer.Start(ctx, "UpdateService.Create", trace.WithAttributes(attribute.String("project.id", projectID)))
	defer func() { endSpan(span, err) }()
	return s.inner.Create(ctx, projectID, userID, content)
}
