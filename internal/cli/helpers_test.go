package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bomview/bomview/internal/config"
	"github.com/bomview/bomview/internal/launcher"
	"github.com/bomview/bomview/internal/media"
	"github.com/bomview/bomview/internal/testutil"
)

var (
	captureStdoutMu sync.Mutex
	fixedNow        = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	outputCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		outputCh <- buf.String()
	}()

	defer func() {
		os.Stdout = orig
	}()
	fn()
	_ = w.Close()
	return <-outputCh
}

// cliEnv runs commands against one workspace with private config and state
// files, a recording opener and a fixed clock.
type cliEnv struct {
	ws         *testutil.TestWorkspace
	configPath string
	statePath  string
	opener     *launcher.Recorder
}

func sampleWorkspace(t *testing.T) *testutil.TestWorkspace {
	return testutil.NewTestWorkspace(t).
		WithRelations(
			"TOP", "",
			"SUB1", "TOP",
			"SUB2", "TOP",
			"P1", "SUB1",
			"P2", "SUB1",
			"P2", "SUB2",
		).
		WithMedia(media.KindImage, "P1", "TOP").
		WithMedia(media.Kind3DXML, "P2").
		WithMedia(media.KindFBX, "SUB2")
}

func newCLIEnv(t *testing.T, ws *testutil.TestWorkspace) *cliEnv {
	t.Helper()
	ws.Build()
	dir := t.TempDir()
	env := &cliEnv{
		ws:         ws,
		configPath: filepath.Join(dir, "config.toml"),
		statePath:  filepath.Join(dir, "state.toml"),
		opener:     &launcher.Recorder{},
	}

	prevOpener, prevNow := newOpener, now
	t.Cleanup(func() {
		newOpener, now = prevOpener, prevNow
		resetCLI()
	})
	newOpener = func(*config.Config) launcher.Opener { return env.opener }
	now = func() time.Time { return fixedNow }
	return env
}

func resetCLI() {
	resetFlags(rootCmd)
	cfg, state, workspace = nil, nil, nil
	workspaceSource = ""
	logger = zap.NewNop()
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes bomv with args and returns stdout.
func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCLI()
	full := append([]string{
		"--config", e.configPath,
		"--state", e.statePath,
		"--workspace-path", e.ws.Path,
	}, args...)
	rootCmd.SetArgs(full)

	var err error
	out := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	return out, err
}

type jsonResponse struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []Warning       `json:"warnings"`
	Meta     *Meta           `json:"meta"`
}

// runJSON executes bomv --json with args and decodes the envelope.
func (e *cliEnv) runJSON(t *testing.T, args ...string) jsonResponse {
	t.Helper()
	out, err := e.run(t, append([]string{"--json"}, args...)...)
	if err != nil {
		require.ErrorIs(t, err, errReported)
	}
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func decodeData(t *testing.T, resp jsonResponse, v any) {
	t.Helper()
	require.True(t, resp.OK, "expected ok response, got error %+v", resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func requireErrorCode(t *testing.T, resp jsonResponse, code string) {
	t.Helper()
	require.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	require.Equal(t, code, resp.Error.Code, resp.Error.Message)
}
