package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSiteStatus_String verifies that SiteStatus values produce
// the expected string representations for CLI output and JSON serialization.
func TestSiteStatus_String(t *testing.T) {
	tests := []struct {
		status   SiteStatus
		expected string
	}{
		{StatusRunning, "running"},
		{StatusStopped, "stopped"},
		{StatusAbsent, "absent"},
		{StatusUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

// TestParseSiteStatus verifies string-to-status conversion,
// including case normalization and error cases.
func TestParseSiteStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected SiteStatus
		hasError bool
	}{
		{"running", StatusRunning, false},
		{"Stopped", StatusStopped, false},
		{"ABSENT", StatusAbsent, false},
		{"invalid", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseSiteStatus(tt.input)
			if tt.hasError {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestSanitizeSiteName covers every character class the sanitizer touches.
func TestSanitizeSiteName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"test site", "test-site"},
		{"test.site", "testsite"},
		{"test/site", "testsite"},
		{"test\\site", "testsite"},
		{"test?site", "testsite"},
		{"test:site", "testsite"},
		{"my blog.example.com", "my-blogexamplecom"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSiteName(tt.input))
		})
	}
}

func TestValidateSiteName(t *testing.T) {
	assert.NoError(t, ValidateSiteName("blog"))
	assert.ErrorIs(t, ValidateSiteName(""), ErrInvalidArgument)
	assert.ErrorIs(t, ValidateSiteName("   "), ErrInvalidArgument)
}

// TestValidateURL checks the scheme/host/path presence rules.
func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "valid", raw: "https://example.com/"},
		{name: "valid with deeper path", raw: "http://localhost:8000/blog"},
		{name: "missing scheme", raw: "example.com/path", wantErr: "missing scheme"},
		{name: "missing host", raw: "https:///path", wantErr: "missing host"},
		{name: "missing path", raw: "https://example.com", wantErr: "missing path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.raw)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSitePaths(t *testing.T) {
	s := &Site{Name: "blog", Path: filepath.Join("sites", "blog")}
	assert.Equal(t, filepath.Join("sites", "blog", "docker-compose.yml"), s.ComposePath())
	assert.Equal(t, filepath.Join("sites", "blog", ".env"), s.EnvPath())
}

func TestPortPair(t *testing.T) {
	assert.True(t, PortPair{}.IsZero())
	p := PortPair{WordPress: 8002, PhpMyAdmin: 9002}
	assert.False(t, p.IsZero())
	assert.Equal(t, "wordpress=8002 phpmyadmin=9002", p.String())
}

func TestVars(t *testing.T) {
	v := Vars{{Name: "B", Value: "2"}, {Name: "A", Value: "1"}}

	got, ok := v.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "1", got)

	_, ok = v.Get("C")
	assert.False(t, ok)

	assert.Equal(t, []string{"B", "A"}, v.Names())
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, v.Map())
}

// TestExitCodeFor verifies that wrapped sentinel errors are classified.
func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want ExitCode
	}{
		{nil, ExitSuccess},
		{fmt.Errorf("%w: empty", ErrInvalidArgument), ExitInvalidArgument},
		{fmt.Errorf("%w: port", ErrTypeMismatch), ExitInvalidArgument},
		{fmt.Errorf("%w: .env", ErrNotFound), ExitSiteNotFound},
		{ErrPortsExhausted, ExitPortAllocationFailed},
		{fmt.Errorf("%w: FOO", ErrMissingPlaceholder), ExitTemplateError},
		{ErrPermissionDenied, ExitPermissionDenied},
		{ErrLocked, ExitSiteLocked},
		{fmt.Errorf("%w: EOF", ErrCancelled), ExitUserCancelled},
		{errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCodeFor(tt.err), "error: %v", tt.err)
	}
}

// TestCLIError verifies the Error/Unwrap contract of CLIError.
func TestCLIError(t *testing.T) {
	inner := fmt.Errorf("%w: blog", ErrNotFound)

	err := WrapCLIError(ExitSiteNotFound, "failed to load site", inner)
	assert.Equal(t, "failed to load site: not found: blog", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	plain := NewCLIError(ExitUserCancelled, "operation cancelled by user")
	assert.Equal(t, "operation cancelled by user", plain.Error())
	assert.Nil(t, plain.Unwrap())
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError("anything", nil))

	err := WrapError("allocate", ErrPortsExhausted)
	var cliErr *CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, ExitPortAllocationFailed, cliErr.Code)
}

func TestClassifyFSError(t *testing.T) {
	assert.Nil(t, ClassifyFSError(nil))

	_, statErr := os.Stat(filepath.Join(t.TempDir(), "missing"))
	err := ClassifyFSError(statErr)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	err = ClassifyFSError(&fs.PathError{Op: "unlinkat", Path: "/x", Err: fs.ErrPermission})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	other := errors.New("disk on fire")
	assert.Equal(t, other, ClassifyFSError(other))
}
