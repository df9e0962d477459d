package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

func TestFormatPort(t *testing.T) {
	assert.Equal(t, "-", FormatPort(0))
	assert.Equal(t, "8000", FormatPort(8000))
	assert.Equal(t, "9999", FormatPort(9999))
}

func testSites() []*model.Site {
	return []*model.Site{
		{Name: "blog", Path: "/sites/blog", Ports: model.PortPair{WordPress: 8000, PhpMyAdmin: 9000}, Status: model.StatusRunning},
		{Name: "shop", Path: "/sites/shop", Status: model.StatusAbsent},
	}
}

func TestPrintListResultText(t *testing.T) {
	jsonOutput = false

	var buf bytes.Buffer
	require.NoError(t, printListResult(&buf, testSites(), false))

	out := buf.String()
	assert.Contains(t, out, "1. blog")
	assert.Contains(t, out, "wordpress=8000")
	assert.Contains(t, out, "phpmyadmin=9000")
	assert.Contains(t, out, "2. shop")
	assert.Contains(t, out, "wordpress=-")
	assert.NotContains(t, out, "running")
}

func TestPrintListResultTextWithStatus(t *testing.T) {
	jsonOutput = false

	var buf bytes.Buffer
	require.NoError(t, printListResult(&buf, testSites(), true))

	assert.Contains(t, buf.String(), "running")
	assert.Contains(t, buf.String(), "absent")
}

func TestPrintListResultTextEmpty(t *testing.T) {
	jsonOutput = false

	var buf bytes.Buffer
	require.NoError(t, printListResult(&buf, nil, false))
	assert.Equal(t, "No sites found.\n", buf.String())
}

func TestPrintListResultJSON(t *testing.T) {
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	var buf bytes.Buffer
	require.NoError(t, printListResult(&buf, testSites(), true))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "blog", got[0]["name"])
	assert.Equal(t, "running", got[0]["status"])
	assert.Equal(t, "shop", got[1]["name"])
}

func TestPrintListResultJSONEmpty(t *testing.T) {
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	var buf bytes.Buffer
	require.NoError(t, printListResult(&buf, nil, false))
	assert.Equal(t, "[]\n", buf.String())
}

func TestPrintError(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		jsonOutput = false

		var buf bytes.Buffer
		printError(&buf, "failed to load site", errors.New("boom"))
		assert.Equal(t, "Error: failed to load site: boom\n", buf.String())
	})

	t.Run("text without detail", func(t *testing.T) {
		jsonOutput = false

		var buf bytes.Buffer
		printError(&buf, "failed to load site", nil)
		assert.Equal(t, "Error: failed to load site\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		jsonOutput = true
		t.Cleanup(func() { jsonOutput = false })

		var buf bytes.Buffer
		printError(&buf, "failed to load site", errors.New("boom"))

		var got map[string]map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "failed to load site", got["error"]["message"])
		assert.Equal(t, "boom", got["error"]["detail"])
	})
}

func TestConfigureLogging(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, configureLogging(&buf, "warn", false))

	err := configureLogging(&buf, "chatty", false)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitInvalidArgument, cliErr.Code)
}
