package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

// run executes the CLI with an isolated cache directory for the log file.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := runMain(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunMain_Version(t *testing.T) {
	code, stdout, _ := run(t, "-version")
	assert.Equal(t, config.ExitCodeSuccess, code)
	assert.Contains(t, stdout, config.AppName)
	assert.Contains(t, stdout, config.Version)
}

func TestRunMain_Help(t *testing.T) {
	code, _, stderr := run(t, "-h")
	assert.Equal(t, config.ExitCodeSuccess, code)
	assert.Contains(t, stderr, "Usage:")
}

func TestRunMain_UnknownCommand(t *testing.T) {
	code, _, stderr := run(t, "fly")
	assert.Equal(t, config.ExitCodeUsage, code)
	assert.Contains(t, stderr, config.ErrUnknownCommand)
}

func TestRunMain_BadFlag(t *testing.T) {
	code, _, _ := run(t, config.CmdRender, "-nope")
	assert.Equal(t, config.ExitCodeUsage, code)
}

func TestRender_ReferenceExample(t *testing.T) {
	code, stdout, stderr := run(t, config.CmdRender,
		"-birthdate", "2000-01-01", "-lifespan", "80", "-now", "2024-01-01")
	require.Equal(t, config.ExitCodeSuccess, code, stderr)

	assert.Contains(t, stdout, "Total weeks: 4,160")
	assert.Contains(t, stdout, "Weeks lived: 1,252")
	assert.Contains(t, stdout, "Weeks remaining: 2,908")
	assert.Contains(t, stdout, "Age: 24")
	assert.Equal(t, 1252, strings.Count(stdout, config.GlyphLived))
	assert.NotContains(t, stdout, config.MsgAppStarting, "logs stay off stdout")
}

func TestRender_DefaultBirthdate(t *testing.T) {
	code, stdout, _ := run(t, config.CmdRender, "-lifespan", "30", "-now", "2026-10-17")
	require.Equal(t, config.ExitCodeSuccess, code)
	assert.Contains(t, stdout, "Age: 25")
	assert.Contains(t, stdout, "2001 ")
}

func TestRender_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Lifespan too large", []string{"-birthdate", "2000-01-01", "-lifespan", "151"}, "Expected lifespan must be between 1 and 150."},
		{"Missing lifespan", []string{"-birthdate", "2000-01-01", "-lifespan", ""}, "Please fill in your birthdate and expected lifespan."},
		{"Bad color", []string{"-birthdate", "2000-01-01", "-color", "red"}, "Please pick a valid color (#rrggbb)."},
		{"Zero lifespan", []string{"-birthdate", "2000-01-01", "-lifespan", "0"}, "Please fill in your birthdate and expected lifespan."},
		{"French message", []string{"-birthdate", "2000-01-01", "-lifespan", "200", "-lang", "fr"}, "L'espérance de vie doit être comprise entre 1 et 150."},
		{"Unsupported language", []string{"-birthdate", "2000-01-01", "-lang", "de"}, `unsupported language: "de" (en, fr)`},
		{"Bad now", []string{"-now", "tomorrow"}, "Please enter a full birthdate (YYYY-MM-DD)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, append([]string{config.CmdRender}, tt.args...)...)
			assert.Equal(t, config.ExitCodeUsage, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRender_FromVCard(t *testing.T) {
	keyring.MockInit()

	path := filepath.Join(t.TempDir(), "grace.vcf")
	card := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Grace Hopper\r\nBDAY:1906-12-09\r\nEND:VCARD\r\n"
	require.NoError(t, os.WriteFile(path, []byte(card), config.FilePermUserRW))

	code, stdout, stderr := run(t, config.CmdRender,
		"-vcard", path, "-vcard-user", "grace", "-lifespan", "120", "-now", "2024-01-01")
	require.Equal(t, config.ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "Age: 117")
	assert.Contains(t, stdout, "1906 ")
}

func TestRender_RemoteVCardRemembersPassword(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.EnvVCardPass, "hunter2")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "grace" || pass != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Grace Hopper\r\nBDAY:1906-12-09\r\nEND:VCARD\r\n"))
	}))
	defer ts.Close()

	code, stdout, stderr := run(t, config.CmdRender,
		"-vcard", ts.URL+"/grace.vcf", "-vcard-user", "grace", "-vcard-remember",
		"-lifespan", "120", "-now", "2024-01-01")
	require.Equal(t, config.ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "1906 ")

	stored, err := keyring.Get(config.KeyringService, "grace")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", stored)
}

func TestRender_VCardWithoutBirthday(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nobody.vcf")
	card := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Nobody\r\nEND:VCARD\r\n"
	require.NoError(t, os.WriteFile(path, []byte(card), config.FilePermUserRW))

	code, _, _ := run(t, config.CmdRender, "-vcard", path)
	assert.Equal(t, config.ExitCodeUsage, code)
}

func TestExport_ICSFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "birthdays.ics")

	code, stdout, stderr := run(t, config.CmdExport,
		"-format", "ics", "-out", out, "-name", "Ada",
		"-birthdate", "2000-01-01", "-lifespan", "10", "-now", "2024-01-01")
	require.Equal(t, config.ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "BEGIN:VCALENDAR"))
	assert.Equal(t, 10, strings.Count(string(data), "BEGIN:VEVENT"))
	assert.Contains(t, string(data), "Ada turns 9")
}

func TestExport_DefaultFilename(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	code, stdout, stderr := run(t, config.CmdExport, "-birthdate", "2000-01-01", "-lifespan", "5")
	require.Equal(t, config.ExitCodeSuccess, code, stderr)
	assert.Contains(t, stdout, "life-in-weeks_5y.png")

	_, err := os.Stat(filepath.Join(dir, "life-in-weeks_5y.png"))
	assert.NoError(t, err)
}

func TestExport_PNGToStdout(t *testing.T) {
	code, stdout, stderr := run(t, config.CmdExport, "-out", "-", "-birthdate", "2000-01-01", "-lifespan", "2")
	require.Equal(t, config.ExitCodeSuccess, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "\x89PNG"))
}

func TestExport_UnsupportedFormat(t *testing.T) {
	code, _, stderr := run(t, config.CmdExport, "-format", "gif", "-birthdate", "2000-01-01")
	assert.Equal(t, config.ExitCodeUsage, code)
	assert.Contains(t, stderr, config.ErrFormatUnsupport)
}

func TestServe_BadPort(t *testing.T) {
	code, _, _ := run(t, config.CmdServe, "-port", "99999")
	assert.Equal(t, config.ExitCodeUsage, code)
}

func TestGUI_UnsupportedLanguage(t *testing.T) {
	code, _, stderr := run(t, config.CmdGUI, "-lang", "de")
	assert.Equal(t, config.ExitCodeUsage, code)
	assert.Contains(t, stderr, config.ErrLangUnsupported)
}

func TestGUI_BadFlag(t *testing.T) {
	code, _, _ := run(t, config.CmdGUI, "-nope")
	assert.Equal(t, config.ExitCodeUsage, code)
}

func TestServe_UnsupportedLanguage(t *testing.T) {
	code, _, stderr := run(t, config.CmdServe, "-lang", "xx")
	assert.Equal(t, config.ExitCodeUsage, code)
	assert.Contains(t, stderr, config.ErrLangUnsupported)
}
