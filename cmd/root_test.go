package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pavel7004/hdrconst/pkg/transcode"
)

const pioHeader = `#ifndef _HARDWARE_REGS_PIO_DEFINED
#define _HARDWARE_REGS_PIO_DEFINED
// Register : PIO_CTRL
#define PIO_CTRL_OFFSET _u(0x00000000)
#define PIO_CTRL_BITS   _u(0x00000fff)
#define PIO_CTRL_ACCESS "RW"
#endif
`

const pioConsts = `// Register : PIO_CTRL
const PIO_CTRL_OFFSET : u32  = 0x00000000;
const PIO_CTRL_BITS   : u32  = 0x00000fff;
const PIO_CTRL_ACCESS : &str = "RW";
`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := newRootCmd()
	c.SetArgs(append([]string{}, args...))
	c.SetIn(strings.NewReader(stdin))
	c.SetOut(&out)
	c.SetErr(&errOut)
	err := c.Execute()
	return out.String(), errOut.String(), err
}

func TestStdin(t *testing.T) {
	out, logs, err := run(t, pioHeader)
	require.NoError(t, err)
	require.Equal(t, pioConsts, out)
	require.Contains(t, logs, "definitions=3")

	out, _, err = run(t, pioHeader, "-")
	require.NoError(t, err)
	require.Equal(t, pioConsts, out)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "pio.h")
	dst := filepath.Join(dir, "proc_pio.rs")
	require.NoError(t, os.WriteFile(in, []byte(pioHeader), 0644))

	out, _, err := run(t, "", "-o", dst, in)
	require.NoError(t, err)
	require.Empty(t, out)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, pioConsts, string(got))
}

func TestMissingFile(t *testing.T) {
	_, _, err := run(t, "", filepath.Join(t.TempDir(), "nope.h"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStrict(t *testing.T) {
	in := "#define A _u(0x1)\n#define B (A << 1)\n"

	out, logs, err := run(t, in)
	require.NoError(t, err)
	require.Equal(t, "const A : u32 = 0x1;\n", out)
	require.Contains(t, logs, "skipped=1")

	_, _, err = run(t, in, "--strict")
	require.ErrorIs(t, err, transcode.ErrSkippedDefines)
}

func TestTypeFlagsFromEnv(t *testing.T) {
	t.Setenv("HDRCONST_NUMERIC_TYPE", "uint32")

	out, _, err := run(t, "#define A _u(0x1)\n#define B \"b\"\n", "--string-type", "string")
	require.NoError(t, err)
	require.Equal(t, "const A : uint32 = 0x1;\nconst B : string = \"b\";\n", out)

	out, _, err = run(t, "#define A _u(0x1)\n", "--numeric-type", "u64")
	require.NoError(t, err)
	require.Equal(t, "const A : u64 = 0x1;\n", out)
}

func TestBadVerbosity(t *testing.T) {
	_, _, err := run(t, "", "-v", "loud")
	require.Error(t, err)

	_, logs, err := run(t, "#define B (1)\n", "-v", "warn")
	require.NoError(t, err)
	require.NotContains(t, logs, "Transcoded header")
	require.Contains(t, logs, "skipped=1")
}

func TestOutputOverInput(t *testing.T) {
	in := filepath.Join(t.TempDir(), "pio.h")
	require.NoError(t, os.WriteFile(in, []byte(pioHeader), 0644))

	_, logs, err := run(t, "", "-o", in, in)
	require.NoError(t, err)
	require.Contains(t, logs, "definitions=3")

	got, err := os.ReadFile(in)
	require.NoError(t, err)
	require.Equal(t, pioConsts, string(got))
}

func TestFailedRunKeepsOutput(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "proc_pio.rs")
	require.NoError(t, os.WriteFile(dst, []byte("old\n"), 0644))

	_, _, err := run(t, "#define A _u(0x1)\n#define B (A << 1)\n", "--strict", "-o", dst)
	require.ErrorIs(t, err, transcode.ErrSkippedDefines)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "old\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestKeywordFlag(t *testing.T) {
	out, _, err := run(t, "#define A _u(0x1)\n", "--keyword", "pub const")
	require.NoError(t, err)
	require.Equal(t, "pub const A : u32 = 0x1;\n", out)
}

func TestInterruptedWhileWaiting(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := newRootCmd()
	c.SetArgs([]string{})
	c.SetIn(pr)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)

	done := make(chan error, 1)
	go func() {
		done <- c.ExecuteContext(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 130, exitCode(ctx, err))
	case <-time.After(5 * time.Second):
		t.Fatal("command did not return after cancel")
	}
}

func TestExitCode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	require.Equal(t, 0, exitCode(ctx, nil))
	require.Equal(t, 1, exitCode(ctx, errors.New("boom")))
	require.Equal(t, 1, exitCode(ctx, context.Canceled))

	cancel()
	require.Equal(t, 130, exitCode(ctx, context.Canceled))
	require.Equal(t, 1, exitCode(ctx, transcode.ErrSkippedDefines))
}
