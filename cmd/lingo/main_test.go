package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/require"
)

const coffeeGreeting = "Hello! Welcome to Lingo Coffee. What can I get for you today?"

// isolateEnv keeps the developer's environment out of the command under test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY",
		"LINGO_OPENAI_API_KEY",
		"LINGO_OPENAI_REWRITE",
		"LINGO_CATALOG_DIR",
		"LINGO_LOG_FILE",
	} {
		unsetenv(t, k)
	}
	t.Setenv("LINGO_LOG_LEVEL", "error")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestScenariosCmd(t *testing.T) {
	isolateEnv(t)

	out, err := run(t, "", "scenarios")
	require.NoError(t, err)
	require.Contains(t, out, "ID")
	for _, id := range []string{"coffee_shop", "doctor_appointment", "job_interview", "weekend_trip"} {
		require.Contains(t, out, id)
	}
}

func TestScenariosCmd_CatalogDir(t *testing.T) {
	isolateEnv(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "custom.yaml"), tinyCatalog)
	t.Setenv("LINGO_CATALOG_DIR", dir)

	out, err := run(t, "", "scenarios")
	require.NoError(t, err)
	require.Contains(t, out, "greeting")
	require.NotContains(t, out, "coffee_shop")
}

func TestChatCmd_CoffeeShop(t *testing.T) {
	isolateEnv(t)

	stdin := "I'll have a latte\nmedium\nno thanks\ncard\nthis line is never read\n"
	out, err := run(t, stdin, "chat", "--scenario", "coffee_shop")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "tutor> "+coffeeGreeting+"\n"), "output: %q", out)
	require.Contains(t, out, "What size would you like for your latte?")
	require.Contains(t, out, "One medium latte, coming right up.")
	require.Contains(t, out, "Great job! You successfully ordered a drink.")
	require.Equal(t, 4, strings.Count(out, "you> "))
}

func TestChatCmd_QuitAndEOF(t *testing.T) {
	isolateEnv(t)

	out, err := run(t, "/quit\n", "chat")
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out, "you> "))

	out, err = run(t, "", "chat", "-s", "job_interview")
	require.NoError(t, err)
	require.Contains(t, out, "tell me a little bit about yourself")
}

func TestChatCmd_InvalidScenario(t *testing.T) {
	isolateEnv(t)

	out, err := run(t, "", "chat", "--scenario", "space_walk")
	require.ErrorContains(t, err, "scenario not found")
	require.Contains(t, out, "Error: Invalid scenario selected.")
}

func TestValidateCmd(t *testing.T) {
	isolateEnv(t)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, good, tinyCatalog)
	writeFile(t, bad, strings.Replace(tinyCatalog, "next_step: bye", "next_step: nowhere", 1))

	out, err := run(t, "", "validate", good)
	require.NoError(t, err)
	require.Equal(t, "ok: 1 scenarios\n", out)

	_, err = run(t, "", "validate", bad)
	require.ErrorContains(t, err, `"nowhere"`)

	_, err = run(t, "", "validate", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	_, err = run(t, "", "validate")
	require.Error(t, err)
}

func TestEnvFileFlag(t *testing.T) {
	isolateEnv(t)

	_, err := run(t, "", "--env-file", filepath.Join(t.TempDir(), "absent.env"), "scenarios")
	require.ErrorContains(t, err, "env file")

	file := filepath.Join(t.TempDir(), "bad.env")
	writeFile(t, file, "LINGO_LOG_LEVEL=loud\n")
	unsetenv(t, "LINGO_LOG_LEVEL")

	_, err = run(t, "", "--env-file", file, "scenarios")
	require.ErrorContains(t, err, "log level")
}

func TestServe_HealthAndShutdown(t *testing.T) {
	isolateEnv(t)

	a := &app{stderr: &bytes.Buffer{}}
	require.NoError(t, a.init())
	t.Cleanup(func() { _ = a.close() })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, ln) }()

	url := "http://" + ln.Addr().String()
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url + "/healthcheck")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(url + "/api/scenarios")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

var tinyCatalog = dedent.Dedent(`
	scenarios:
	  - id: greeting
	    title: Greeting
	    start_step: hello
	    steps:
	      - id: hello
	        bot: Hi there! How are you?
	        keywords: []
	        next_step: bye
	      - id: bye
	        bot: Nice talking to you.
	        feedback: Well done.
`)

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Unsetenv: %v", err)
	}
}
