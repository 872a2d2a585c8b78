package services_test

import (
	"testing"

	"github.com/dukex/flowdesk/pkg/comment"
	"github.com/dukex/flowdesk/pkg/log"
	"github.com/dukex/flowdesk/pkg/mocks"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence/memory"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/dukex/flowdesk/pkg/team"
	"github.com/dukex/flowdesk/pkg/template"
	"github.com/dukex/flowdesk/pkg/testutil"
	"github.com/dukex/flowdesk/pkg/workflow"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fixture struct {
	workflows *services.Workflow
	teams     *services.Team
	comments  *services.Comment
	templates *services.Template

	workflowRepo *workflow.Repository
	teamRepo     *team.Repository
	commentRepo  *comment.Repository
	bus          *mocks.MockEventBus
	spans        *tracetest.SpanRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	logger := log.Discard()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("services-test")

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	workflowRepo := workflow.NewRepository(store, logger)
	teamRepo := team.NewRepository(store, logger)
	commentRepo := comment.NewRepository(store, logger)

	catalog, err := template.NewCatalog()
	require.NoError(t, err)

	workflows := services.NewWorkflow(workflowRepo, teamRepo, commentRepo, bus, tracer, logger)

	return &fixture{
		workflows:    workflows,
		teams:        services.NewTeam(teamRepo, workflowRepo, bus, tracer, logger),
		comments:     services.NewComment(commentRepo, workflowRepo, bus, tracer, logger),
		templates:    services.NewTemplate(catalog, workflows, tracer, logger),
		workflowRepo: workflowRepo,
		teamRepo:     teamRepo,
		commentRepo:  commentRepo,
		bus:          bus,
		spans:        recorder,
	}
}

func (f *fixture) spanNames() []string {
	names := []string{}
	for _, span := range f.spans.Ended() {
		names = append(names, span.Name())
	}

	return names
}

func sampleWorkflow() *models.Workflow {
	return testutil.CreateTestWorkflow(
		testutil.WithWorkflowName("Onboarding"),
		testutil.WithSchedule("0 9 * * *"),
	)
}
