package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake/internal/api"
	"github.com/keepsakehq/keepsake/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "keepsakectl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/keepsakectl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{
		SessionSecret: []byte("e2e-test-secret"),
		Logger:        logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		SessionService:   app.SessionService,
		ChallengeService: app.ChallengeService,
		AdminService:     app.AdminService,
		PetService:       app.PetService,
		RecordsService:   app.RecordsService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

func seedQuestion(t *testing.T, ts *testServer) string {
	t.Helper()

	q, err := ts.app.ChallengeService.CreateQuestion(
		context.Background(),
		"Where did we first meet?",
		"Think of that rainy afternoon",
		"the library",
	)
	require.NoError(t, err)
	return q.ID
}

// Response types for JSON parsing
type questionResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Hint     string `json:"hint"`
}

type verifyResponse struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role"`
}

type adminAccountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

type loginResponse struct {
	Token string               `json:"token"`
	Admin adminAccountResponse `json:"admin"`
}

type petResponse struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Level       int    `json:"level"`
	Experience  int    `json:"experience"`
	RequiredExp int    `json:"required_exp"`
	Happiness   int    `json:"happiness"`
	Hunger      int    `json:"hunger"`
	Evolution   int    `json:"evolution"`
}

type actionResponse struct {
	Pet       petResponse `json:"pet"`
	ExpGained int         `json:"exp_gained"`
	LeveledUp bool        `json:"leveled_up"`
	Evolved   bool        `json:"evolved"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_AuthFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()
	questionID := seedQuestion(t, ts)

	cli := newCLIRunner(t, ts.addr)

	// Fetch the challenge question
	output, err := cli.run("auth", "question")
	require.NoError(t, err, "output: %s", output)

	var question questionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &question))
	assert.Equal(t, questionID, question.ID)
	assert.Equal(t, "Where did we first meet?", question.Question)
	assert.Equal(t, "Think of that rainy afternoon", question.Hint)

	// Answer it (matching is case and whitespace insensitive)
	output, err = cli.run("auth", "verify",
		"--question-id", question.ID,
		"--answer", "  The LIBRARY ")
	require.NoError(t, err, "output: %s", output)

	var verify verifyResponse
	require.NoError(t, json.Unmarshal([]byte(output), &verify))
	assert.NotEmpty(t, verify.Token)

	// Token should be saved in the token file
	output, err = cli.run("auth", "session")
	require.NoError(t, err, "output: %s", output)

	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	assert.True(t, session.Authenticated)
	assert.Equal(t, "guest", session.Role)

	// Logout discards the saved token
	_, err = cli.run("auth", "logout")
	require.NoError(t, err)

	output, err = cli.run("auth", "session")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	assert.False(t, session.Authenticated)
}

func TestCLI_WrongAnswerFails(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()
	questionID := seedQuestion(t, ts)

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("auth", "verify",
		"--question-id", questionID,
		"--answer", "the park")
	require.Error(t, err, "output: %s", output)
}

func TestCLI_PetCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()
	questionID := seedQuestion(t, ts)

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("auth", "verify",
		"--question-id", questionID,
		"--answer", "the library")
	require.NoError(t, err, "output: %s", output)

	var verify verifyResponse
	require.NoError(t, json.Unmarshal([]byte(output), &verify))
	token := verify.Token

	// Status
	output, err = cli.runWithToken(token, "pet", "status")
	require.NoError(t, err, "output: %s", output)

	var pet petResponse
	require.NoError(t, json.Unmarshal([]byte(output), &pet))
	assert.Equal(t, 1, pet.Level)
	assert.Equal(t, 100, pet.RequiredExp)

	// Feed
	output, err = cli.runWithToken(token, "pet", "feed")
	require.NoError(t, err, "output: %s", output)

	var action actionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &action))
	assert.Equal(t, 10, action.ExpGained)
	assert.Equal(t, 10, action.Pet.Experience)

	// Rename and recolor
	output, err = cli.runWithToken(token, "pet", "rename", "--name", "Pudding")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &pet))
	assert.Equal(t, "Pudding", pet.Name)

	output, err = cli.runWithToken(token, "pet", "color", "--color", "mint")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &pet))
	assert.Equal(t, "mint", pet.Color)
}

func TestCLI_AdminCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// First registration is auto-approved
	output, err := cli.run("admin", "register", "--user", "alice", "--pass", "password123")
	require.NoError(t, err, "output: %s", output)

	var account adminAccountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &account))
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "approved", account.Status)

	// Login saves the token for the following commands
	output, err = cli.run("admin", "login", "--user", "alice", "--pass", "password123")
	require.NoError(t, err, "output: %s", output)

	var login loginResponse
	require.NoError(t, json.Unmarshal([]byte(output), &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, account.ID, login.Admin.ID)

	// Manage challenge questions
	output, err = cli.run("question", "add",
		"--question", "What is our song?",
		"--answer", "la vie en rose")
	require.NoError(t, err, "output: %s", output)

	var question questionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &question))
	assert.NotEmpty(t, question.ID)

	output, err = cli.run("question", "list")
	require.NoError(t, err, "output: %s", output)

	var questions []questionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &questions))
	require.Len(t, questions, 1)

	// Second registration lands pending and needs approval
	output, err = cli.runWithToken("", "admin", "register", "--user", "bob", "--pass", "password123")
	require.NoError(t, err, "output: %s", output)

	var bob adminAccountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &bob))
	assert.Equal(t, "pending", bob.Status)

	output, err = cli.run("admin", "approve", bob.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &bob))
	assert.Equal(t, "approved", bob.Status)

	output, err = cli.run("admin", "list")
	require.NoError(t, err, "output: %s", output)

	var accounts []adminAccountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &accounts))
	assert.Len(t, accounts, 2)
}
