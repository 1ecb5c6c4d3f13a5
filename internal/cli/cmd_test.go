package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/planora/internal/contract"
	"github.com/alexanderramin/planora/internal/intelligence"
	"github.com/alexanderramin/planora/internal/repository"
	"github.com/alexanderramin/planora/internal/service"
	"github.com/alexanderramin/planora/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

var testNow = time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB and a fake model.
func testApp(t *testing.T, response string) *App {
	t.Helper()
	db := testutil.NewTestDB(t)

	var drafter intelligence.PlanDraftService
	if response != "" {
		drafter = intelligence.NewPlanDraftService(testutil.NewFakeModel(response), nil)
	}
	now := func() time.Time { return testNow }

	plans := service.NewPlanService(
		repository.NewSQLitePreferenceRepo(db),
		repository.NewSQLiteDraftRepo(db),
		repository.NewSQLitePlanRepo(db),
		testutil.NewTestUoW(db),
		drafter,
		service.PlanServiceOptions{Now: now},
	)
	return &App{
		Plans:         plans,
		UserID:        testutil.TestUserID,
		PurgeSchedule: "@hourly",
		Now:           now,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr without ANSI codes.
func executeCmd(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

var draftKeyRe = regexp.MustCompile(`planora confirm ([0-9a-f-]{36})`)

func generateDraft(t *testing.T, app *App) string {
	t.Helper()
	out, err := executeCmd(t, app, "", "generate", "--goals", "Build healthy habits")
	require.NoError(t, err)
	m := draftKeyRe.FindStringSubmatch(out)
	require.NotNil(t, m, "output should carry a confirm hint:\n%s", out)
	return m[1]
}

func TestGenerate_RequiresGoalsWhenNotInteractive(t *testing.T) {
	app := testApp(t, testutil.TestPlanJSON)

	_, err := executeCmd(t, app, "", "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--goals is required")
}

func TestGenerate_PrintsDraft(t *testing.T) {
	app := testApp(t, testutil.TestPlanJSON)

	out, err := executeCmd(t, app, "", "generate",
		"--goals", "Build healthy habits",
		"--complexity", "ambitious",
		"--focus", "Health,Learning",
		"--commitment", "Work|Wed|08:00-17:00",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "March 2025")
	assert.Contains(t, out, "● 90% json")
	assert.Contains(t, out, "Morning run")
	assert.Contains(t, out, "Warnings (1):")
	assert.Contains(t, out, "Long study block")
	assert.Regexp(t, draftKeyRe, out)
}

func TestGenerate_BadCommitment(t *testing.T) {
	app := testApp(t, testutil.TestPlanJSON)

	_, err := executeCmd(t, app, "", "generate", "--goals", "x", "--commitment", "Work|Mon|17:00-09:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
	assert.Contains(t, err.Error(), "start must be before end")
}

func TestGenerate_ModelDisabled(t *testing.T) {
	app := testApp(t, "")

	_, err := executeCmd(t, app, "", "generate", "--goals", "Learn Go")
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrModel)
	assert.Contains(t, err.Error(), "model is disabled")
}

func TestConfirmAndPlanCommands(t *testing.T) {
	app := testApp(t, testutil.TestPlanJSON)
	key := generateDraft(t, app)

	out, err := executeCmd(t, app, "", "confirm", key)
	require.NoError(t, err)
	assert.Contains(t, out, "Plan saved!")
	assert.Contains(t, out, "#1")

	_, err = executeCmd(t, app, "", "confirm", key)
	require.Error(t, err)
	assert.Equal(t, "Draft not found or expired. Generate a new plan to start over.", err.Error())

	out, err = executeCmd(t, app, "", "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "March 2025")
	assert.Contains(t, out, "0/3")

	out, err = executeCmd(t, app, "", "plan", "tasks", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Morning run")
	assert.Contains(t, out, "Sat Mar 1")

	out, err = executeCmd(t, app, "", "task", "done", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Morning run marked done")

	out, err = executeCmd(t, app, "", "plan", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1/3")

	out, err = executeCmd(t, app, "", "task", "done", "1", "--undo")
	require.NoError(t, err)
	assert.Contains(t, out, "marked not done")

	_, err = executeCmd(t, app, "", "plan", "show", "99")
	require.Error(t, err)
	assert.Equal(t, "Not found", err.Error())

	_, err = executeCmd(t, app, "", "plan", "show", "abc")
	assert.Error(t, err)
}

func TestDraftCommands(t *testing.T) {
	app := testApp(t, testutil.TestPlanJSON)
	key := generateDraft(t, app)

	out, err := executeCmd(t, app, "", "draft", "latest")
	require.NoError(t, err)
	assert.Contains(t, out, key)
	assert.Contains(t, out, "expires in 24h")

	out, err = executeCmd(t, app, "", "draft", "show", key)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully parsed as JSON")

	out, err = executeCmd(t, app, "", "draft", "discard", key)
	require.NoError(t, err)
	assert.Contains(t, out, "Discarded draft")

	out, err = executeCmd(t, app, "", "draft", "discard", key)
	require.NoError(t, err)
	assert.Contains(t, out, "No draft with that key.")

	_, err = executeCmd(t, app, "", "draft", "latest")
	assert.ErrorIs(t, err, contract.ErrDraftNotFound)

	out, err = executeCmd(t, app, "", "draft", "purge")
	require.NoError(t, err)
	assert.Contains(t, out, "Purged 0 expired draft(s)")
}

func TestExtract_FromStdinAndFile(t *testing.T) {
	app := testApp(t, "")

	out, err := executeCmd(t, app, "Monthly Summary\nLaunch the website.\n\nWeek 1\nGoals:\n• Finish homepage\nMonday:\n- Design homepage layout (2h)", "extract")
	require.NoError(t, err)
	assert.Contains(t, out, "● 60% text")
	assert.Contains(t, out, "Launch the website.")
	assert.Contains(t, out, "Design homepage layout")

	path := filepath.Join(t.TempDir(), "response.json")
	require.NoError(t, os.WriteFile(path, []byte(testutil.TestPlanJSON), 0o644))
	out, err = executeCmd(t, app, "", "extract", "--json", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"confidence": 90`)
	assert.Contains(t, out, `"detected_format": "json"`)

	_, err = executeCmd(t, app, "", "extract", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestJanitor_Once(t *testing.T) {
	app := testApp(t, testutil.TestPlanJSON)
	generateDraft(t, app)

	later := testNow.Add(48 * time.Hour)
	app.Now = func() time.Time { return later }

	out, err := executeCmd(t, app, "", "janitor", "--once")
	require.NoError(t, err)
	assert.Contains(t, out, "Purged 1 expired draft(s)")

	_, err = executeCmd(t, app, "", "janitor", "--once", "--schedule", "never")
	assert.Error(t, err)
}

func TestPresent_KeepsCause(t *testing.T) {
	err := present(contract.ErrSavePlan)
	assert.Equal(t, "Could not save your plan. Please try again.", err.Error())
	assert.ErrorIs(t, err, contract.ErrSavePlan)
	assert.Same(t, err, present(err))
	assert.NoError(t, present(nil))
}

func TestBuildGenerateRequest(t *testing.T) {
	req, err := buildGenerateRequest("u1", planInput{
		Goals:       "  Learn Go  ",
		Complexity:  "Simple",
		Focus:       "Health, ,Career",
		Weekend:     " Rest ",
		Commitments: "Work|Mon,Tue|09:00-17:00\n\nGym||18:00-19:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "Learn Go", req.GoalsText)
	assert.Equal(t, []string{"Health", "Career"}, req.FocusAreas)
	assert.Equal(t, "Rest", req.WeekendPreference)
	require.Len(t, req.FixedCommitments, 2)
	assert.Equal(t, "Gym", req.FixedCommitments[1].Label)
	assert.Empty(t, req.FixedCommitments[1].Days)
	assert.NoError(t, validateCommitments(""))
	assert.Error(t, validateCommitments("nonsense"))
}

func TestGenerate_RejectsUnknownComplexity(t *testing.T) {
	app := testApp(t, testutil.TestPlanJSON)

	_, err := executeCmd(t, app, "", "generate", "--goals", "x", "--complexity", "extreme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of Simple, Balanced or Ambitious")
}

func TestComplexityFlag_Canonicalizes(t *testing.T) {
	var c complexityFlag
	require.NoError(t, c.Set("  AMBITIOUS "))
	assert.Equal(t, "Ambitious", c.String())
	assert.Equal(t, "complexity", c.Type())
}
