// Package test holds helpers shared by the HTTP-level tests.
package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"forms-backend/src/middleware"
	"forms-backend/src/routes"
	"forms-backend/src/store"
	"forms-backend/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	Secret = "test_secret"
	APIKey = "test-api-key"
)

// TestTimer is a utility for measuring test execution time
type TestTimer struct {
	start time.Time
	name  string
}

func NewTestTimer(name string) *TestTimer {
	return &TestTimer{start: time.Now(), name: name}
}

// Stop stops the timer and prints the duration
func (t *TestTimer) Stop() time.Duration {
	duration := time.Since(t.start)
	fmt.Printf("⏱️  %s took %v\n", t.name, duration)
	return duration
}

// TestSuiteResult collects per-case results of one suite.
type TestSuiteResult struct {
	SuiteName   string
	TotalTests  int
	PassedTests int
	TotalTime   time.Duration
}

func NewTestSuiteResult(suiteName string) *TestSuiteResult {
	return &TestSuiteResult{SuiteName: suiteName}
}

// Track times fn as one case of the suite.
func (tsr *TestSuiteResult) Track(t *testing.T, name string, fn func(t *testing.T)) {
	t.Run(name, func(t *testing.T) {
		timer := NewTestTimer(name)
		defer func() {
			tsr.TotalTests++
			tsr.TotalTime += timer.Stop()
			if !t.Failed() {
				tsr.PassedTests++
			}
		}()
		fn(t)
	})
}

// PrintSummary prints a summary of the test suite results
func (tsr *TestSuiteResult) PrintSummary() {
	fmt.Printf("\n📊 Test Suite Summary: %s\n", tsr.SuiteName)
	fmt.Printf("   Passed: %d/%d ✅\n", tsr.PassedTests, tsr.TotalTests)
	fmt.Printf("   Total Time: %v\n\n", tsr.TotalTime)
}

// NewTestApp wires every route over a freshly seeded in-memory backend.
func NewTestApp(t *testing.T) (*fiber.App, *store.Backend) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(APIKey), bcrypt.MinCost)
	require.NoError(t, err)

	backend := store.NewFallbackBackend()
	app := fiber.New()
	app.Use(middleware.Metrics())
	routes.InitRoutes(app, routes.Deps{
		Backend:       backend,
		Auth:          middleware.NewAuth(Secret, string(hash), utils.NewTokenBlacklist(nil)),
		PublicFormURL: "http://forms.test/f",
	})
	return app, backend
}

// Token signs a one hour token for role.
func Token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := utils.GenerateJWT([]byte(Secret), userID, userID+"@example.com", role, time.Hour)
	require.NoError(t, err)
	return token
}

// Do sends body (JSON-encoded when not nil) and returns status and raw body.
func Do(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// Decode unmarshals raw into a value of type T.
func Decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}
