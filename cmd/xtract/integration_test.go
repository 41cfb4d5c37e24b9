package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/xtract/internal/tuitest"
)

func fixtureBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.TrimSpace(r.URL.Query().Get("query")) == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Query cannot be empty."}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"42241","title":"Attention Is All You Need","authors":"Vaswani et al.","update_date":"2017-06-12","abstract":"We propose the Transformer."},{"id":"9","title":"Related Work","authors":"Someone Else"}]`))
	})
	mux.HandleFunc("/paper/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch strings.TrimPrefix(r.URL.Path, "/paper/") {
		case "42241":
			_, _ = w.Write([]byte(`{"id":"42241","title":"Attention Is All You Need","authors":"Vaswani et al.","update_date":"2017-06-12","abstract":"We propose the Transformer."}`))
		case "9":
			_, _ = w.Write([]byte(`{"id":"9","title":"Related Work","authors":"Someone Else"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Paper not found"}`))
		}
	})
	mux.HandleFunc("/recommend/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.TrimPrefix(r.URL.Path, "/recommend/") != "42241" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"9","title":"Related Work","authors":"Someone Else","similarity":0.87}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestXtractOpensPaperLocation(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	srv := fixtureBackend(t)
	logFile := filepath.Join(t.TempDir(), "xtract.log")

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: tuitest.Client{Binary: binary, API: srv.URL, LogFile: logFile, Location: "/paper/42241"}.Command(),
		Dir:     t.TempDir(),
		Env:     []string{"HOME=" + t.TempDir()},
		Width:   100,
		Height:  32,
		Steps: []tuitest.Step{
			tuitest.Wait(1500 * time.Millisecond),
			tuitest.Press(0, tuitest.KeyCtrlC),
		},
		Timeout:        8 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	for _, want := range []string{"Attention Is All You Need", "Related Research", "Relevance 87%", "/paper/9"} {
		if !rec.Contains(want) {
			t.Fatalf("screen never showed %q:\n%s", want, rec.Text())
		}
	}

	logged, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logged), "job finished") {
		t.Fatalf("log should record finished jobs:\n%s", logged)
	}
}

func TestXtractSearchFromHome(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	srv := fixtureBackend(t)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: tuitest.Client{Binary: binary, API: srv.URL}.Command(),
		Dir:     t.TempDir(),
		Env:     []string{"HOME=" + t.TempDir()},
		Width:   100,
		Height:  32,
		Steps: []tuitest.Step{
			tuitest.Wait(time.Second),
			tuitest.Type(0, "attention"),
			tuitest.Press(200*time.Millisecond, tuitest.KeyEnter),
			tuitest.Wait(time.Second),
			tuitest.Press(0, tuitest.KeyCtrlC),
		},
		Timeout:        8 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	for _, want := range []string{"Popular topics", "2 papers found", "By Vaswani et al.", "/paper/42241"} {
		if !rec.Contains(want) {
			t.Fatalf("screen never showed %q:\n%s", want, rec.Text())
		}
	}
}

func TestXtractNavigatesWithKeyboard(t *testing.T) {
	t.Parallel()

	binary := buildBinary(t, moduleDir(t))
	srv := fixtureBackend(t)
	logFile := filepath.Join(t.TempDir(), "xtract.log")

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: tuitest.Client{Binary: binary, API: srv.URL, LogFile: logFile}.Command(),
		Dir:     t.TempDir(),
		Env:     []string{"HOME=" + t.TempDir()},
		Width:   100,
		Height:  32,
		Steps: []tuitest.Step{
			tuitest.Wait(time.Second),
			tuitest.Press(0, tuitest.KeyTab),
			tuitest.Press(200*time.Millisecond, tuitest.KeyEnter),
			tuitest.Press(time.Second, tuitest.KeyDown),
			tuitest.Press(200*time.Millisecond, tuitest.KeyEnter),
			tuitest.Press(time.Second, tuitest.KeyEsc),
			tuitest.Wait(time.Second),
			tuitest.Press(0, tuitest.KeyCtrlC),
		},
		Timeout:        10 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	// tab highlights the first topic, down selects the second card.
	for _, want := range []string{`Search results for "Machine Learning"`, "Someone Else", "No related papers found"} {
		if !rec.Contains(want) {
			t.Fatalf("screen never showed %q:\n%s", want, rec.Text())
		}
	}

	logged, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Count(string(logged), "kind=search"); got < 2 {
		t.Fatalf("esc should reload the search, saw %d search jobs:\n%s", got, logged)
	}
}

func TestXtractRejectsUnknownLocation(t *testing.T) {
	t.Parallel()

	binary := buildBinary(t, moduleDir(t))
	cmd := exec.Command(binary, "--api", "http://127.0.0.1:1", "/authors/7")
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	cmd.Dir = t.TempDir()
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure, got output:\n%s", output)
	}
	if !strings.Contains(string(output), "unknown location") {
		t.Fatalf("error should name the problem:\n%s", output)
	}
}

func TestXtractVersion(t *testing.T) {
	t.Parallel()

	binary := buildBinary(t, moduleDir(t))
	output, err := exec.Command(binary, "version").CombinedOutput()
	if err != nil {
		t.Fatalf("version: %v\n%s", err, output)
	}
	if !strings.HasPrefix(string(output), "xtract ") {
		t.Fatalf("unexpected version output %q", output)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "xtract-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
