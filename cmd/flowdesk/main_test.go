package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/log"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence/file"
	"github.com/dukex/flowdesk/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	command := NewCommand()
	command.Writer = &stdout
	command.ErrWriter = &stderr

	err := command.Run(context.Background(), append([]string{"flowdesk", "--database-url", "file://" + dir}, args...))

	return stdout.String(), err
}

func seedWorkflow(t *testing.T, dir string) *models.Workflow {
	t.Helper()

	bus, err := cmd.NewEventBus("sync", log.Discard(), nil, false)
	require.NoError(t, err)

	components, err := cmd.NewComponents(t.Context(), log.Discard(), file.NewStore(dir), bus, nil)
	require.NoError(t, err)

	defer func() { _ = components.Close(t.Context()) }()

	created, err := components.Workflows.Create(t.Context(), testutil.CreateTestWorkflow(testutil.WithWorkflowName("Invoices")))
	require.NoError(t, err)

	edit := created.Clone()
	edit.Description = "monthly"

	_, err = components.Workflows.Update(t.Context(), created.ID, edit, "add description")
	require.NoError(t, err)

	return created
}

func TestCLI_ListAndVersions(t *testing.T) {
	dir := t.TempDir()
	created := seedWorkflow(t, dir)

	out, err := runCLI(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, created.ID)
	assert.Contains(t, out, "Invoices")

	out, err = runCLI(t, dir, "versions", created.ID)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "add description")
}

func TestCLI_ExportImportClone(t *testing.T) {
	dir := t.TempDir()
	created := seedWorkflow(t, dir)
	exportPath := filepath.Join(t.TempDir(), "invoices.json")

	_, err := runCLI(t, dir, "export", "--versions", "--output", exportPath, created.ID)
	require.NoError(t, err)

	document, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(document), `"versions"`)

	out, err := runCLI(t, dir, "import", exportPath)
	require.NoError(t, err)

	var imported models.Workflow
	require.NoError(t, json.Unmarshal([]byte(out), &imported))
	assert.Equal(t, "Invoices (Imported)", imported.Name)

	out, err = runCLI(t, dir, "clone", "--name", "Invoices EU", created.ID)
	require.NoError(t, err)

	var cloned models.Workflow
	require.NoError(t, json.Unmarshal([]byte(out), &cloned))
	assert.Equal(t, created.ID, cloned.ParentID)
}

func TestCLI_RestoreAndActivity(t *testing.T) {
	dir := t.TempDir()
	created := seedWorkflow(t, dir)

	out, err := runCLI(t, dir, "restore", created.ID, "1")
	require.NoError(t, err)

	var restored models.Workflow
	require.NoError(t, json.Unmarshal([]byte(out), &restored))
	assert.Empty(t, restored.Description)

	_, err = runCLI(t, dir, "restore", created.ID, "one")
	assert.Error(t, err)

	out, err = runCLI(t, dir, "activity", "--type", "edit")
	require.NoError(t, err)
	assert.Contains(t, out, "Invoices")
}

func TestCLI_Teams(t *testing.T) {
	dir := t.TempDir()
	created := seedWorkflow(t, dir)

	out, err := runCLI(t, dir, "teams", "create", "--owner", "lead@example.com", "Finance")
	require.NoError(t, err)

	var team models.Team
	require.NoError(t, json.Unmarshal([]byte(out), &team))

	_, err = runCLI(t, dir, "teams", "share", "--permissions", "edit", created.ID, team.ID)
	require.NoError(t, err)

	out, err = runCLI(t, dir, "teams", "list", "--user", "lead@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Finance")
}

func TestCLI_MissingArgumentsAndUnknownIDs(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "show")
	require.ErrorIs(t, err, errMissingArgument)

	_, err = runCLI(t, dir, "delete", "nope")
	assert.Error(t, err)

	out, err := runCLI(t, dir, "export", "nope")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCLI_Templates(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "templates", "list", "--category", "Email Automation")
	require.NoError(t, err)
	assert.Contains(t, out, "email-campaign")
	assert.NotContains(t, out, "api-connector")

	out, err = runCLI(t, dir, "templates", "use", "api-connector")
	require.NoError(t, err)

	var created models.Workflow
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "API Data Connector Copy", created.Name)

	out, err = runCLI(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, created.ID)

	_, err = runCLI(t, dir, "templates", "use", "missing")
	require.Error(t, err)
}
