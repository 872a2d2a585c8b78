package services

import (
	"context"
	"log/slog"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/template"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Template browses the template catalog and creates workflows from it.
type Template struct {
	catalog   *template.Catalog
	workflows *Workflow
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewTemplate(catalog *template.Catalog, workflows *Workflow, tracer trace.Tracer, logger *slog.Logger) *Template {
	if tracer == nil {
		tracer = otelhelper.NoopTracer()
	}

	return &Template{
		catalog:   catalog,
		workflows: workflows,
		tracer:    tracer,
		logger:    logger.With("module", "template_service"),
	}
}

func (t *Template) Categories() []string {
	return t.catalog.Categories()
}

func (t *Template) List(category, search string) []template.Template {
	return t.catalog.List(category, search)
}

func (t *Template) Get(id string) (*template.Template, error) {
	return t.catalog.Get(id)
}

// Use saves a new workflow built from the template. It goes through the same
// validation and events as Create, and its first ledger entry names the
// template.
func (t *Template) Use(ctx context.Context, id string) (*models.Workflow, error) {
	ctx, span := otelhelper.StartSpan(ctx, t.tracer, "template.use", attribute.String(otelhelper.TemplateIDKey, id))
	defer span.End()

	tmpl, err := t.catalog.Get(id)
	if err != nil {
		return nil, err
	}

	created, err := t.workflows.create(ctx, tmpl.Instantiate(), "Created from template "+tmpl.Name)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	t.logger.InfoContext(ctx, "Workflow created from template", "template_id", id, "workflow_id", created.ID)

	return created, nil
}
