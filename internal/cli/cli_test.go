package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestExecute_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "to-csv")

	out, _, err = execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands:")
}

func TestExecute_UsageErrors(t *testing.T) {
	dir := testutil.ParamDir(t)

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{
			name:    "unknown flag",
			args:    []string{"keys", "--this-is-not-a-valid-flag"},
			wantMsg: "unknown flag: --this-is-not-a-valid-flag",
		},
		{
			name:    "unknown command",
			args:    []string{"frobnicate"},
			wantMsg: "unknown command",
		},
		{
			name:    "missing key flag",
			args:    []string{"-d", dir, "update", "cmax", "1"},
			wantMsg: `required flag(s) "key" not set`,
		},
		{
			name:    "bad value",
			args:    []string{"-d", dir, "update", "cmax", "lots", "--key", "CMT05", "--pft", "0"},
			wantMsg: `invalid value "lots"`,
		},
		{
			name:    "bad table format",
			args:    []string{"-d", dir, "to-csv", "CMT05", "--format", "v9"},
			wantMsg: "invalid table format",
		},
		{
			name:    "bad log level",
			args:    []string{"-d", dir, "--log-level", "loud", "index"},
			wantMsg: "invalid log-level",
		},
		{
			name:    "wrong arg count",
			args:    []string{"-d", dir, "which"},
			wantMsg: "accepts 1 arg(s), received 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

func TestExecute_OperationFailure(t *testing.T) {
	dir := testutil.ParamDir(t)

	_, _, err := execute(t, "-d", dir, "which", "nope")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, exitErr.Message, "parameter not found")
}

func TestExecute_Commands(t *testing.T) {
	dir := testutil.ParamDir(t)

	out, _, err := execute(t, "-d", dir, "keys")
	require.NoError(t, err)
	assert.Equal(t, "CMT01\nCMT05\n", out)

	out, _, err = execute(t, "-d", dir, "which", "kra")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cmt_calparbgc.txt")+"\n", out)

	out, logs, err := execute(t, "-d", dir, "--log-format", "json", "update", "cmax", "55", "--key", "CMT05", "--pft", "3")
	require.NoError(t, err)
	assert.Equal(t, "cmt_calparbgc.txt CMT05 cmax[3]: 108.2 -> 55\n", out)
	assert.Contains(t, logs, `"msg":"Parameter updated."`)

	out, _, err = execute(t, "-d", dir, "update", "kc", "380", "-k", "5")
	require.NoError(t, err)
	assert.Equal(t, "cmt_bgcsoil.txt CMT05 kc: 400 -> 380\n", out)

	out, _, err = execute(t, "-d", dir, "locate", "cmt_bgcsoil.txt", "CMT05")
	require.NoError(t, err)
	assert.Contains(t, out, "380")

	csvPath := filepath.Join(t.TempDir(), "cmt05.csv")
	_, _, err = execute(t, "-d", dir, "to-csv", "CMT05", "-o", csvPath)
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadFile(t, csvPath), "cmt_calparbgc.txt,cmax,91,40.5,33.2,55,")

	out, _, err = execute(t, "-d", dir, "from-csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "cmt_bgcsoil.txt")

	out, _, err = execute(t, "-d", dir, "format", "cmt_bgcsoil.txt", "CMT05")
	require.NoError(t, err)
	assert.Contains(t, out, "// CMT05 // Tussock Tundra // Toolik")

	out, _, err = execute(t, "-d", dir, "compare", "CMT01", "CMT05")
	require.NoError(t, err)
	assert.Contains(t, out, "kra: only in CMT05")

	out, _, err = execute(t, "-d", dir, "sum", "nmax", "-k", "CMT01")
	require.NoError(t, err)
	assert.Equal(t, "4.5\n", out)

	out, _, err = execute(t, "-d", dir, "index")
	require.NoError(t, err)
	assert.Contains(t, out, "cmt_calparbgc.txt")
}
