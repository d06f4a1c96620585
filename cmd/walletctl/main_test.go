package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phrase12 = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WALLET_STORE", "file")
	t.Setenv("WALLET_DIR", dir)
	t.Setenv("SCRYPT_N", "1024")
	t.Setenv("LEDGER", "fake")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

// run executes one walletctl invocation with input piped to stdin.
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	c := &cli{}
	root := newRoot(c)
	defer c.close()

	var out, errOut bytes.Buffer
	root.SetArgs(append([]string{"--identity", "alice"}, args...))
	root.SetIn(strings.NewReader(input))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func addressLine(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if addr, ok := strings.CutPrefix(line, "address: "); ok {
			return addr
		}
	}
	t.Fatalf("no address in output:\n%s", out)
	return ""
}

func TestCreateAndStatus(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "correct-horse\n", "create", "--words", "24")
	require.NoError(t, err)
	assert.Contains(t, out, "Recovery phrase")
	assert.Contains(t, out, "words:   24")
	addr := addressLine(t, out)

	out, err = run(t, "", "status")
	require.NoError(t, err)
	assert.Equal(t, addr, addressLine(t, out))
	assert.Contains(t, out, "BASIC")

	_, err = run(t, "correct-horse\n", "create")
	assert.ErrorContains(t, err, "--force")

	_, err = run(t, "correct-horse\n", "create", "--words", "18", "--force")
	assert.ErrorContains(t, err, "12 or 24")
}

func TestRestoreRevealAndPasswd(t *testing.T) {
	setupEnv(t)

	out, err := run(t, phrase12+"\ncorrect-horse\n", "restore")
	require.NoError(t, err)
	addr := addressLine(t, out)
	assert.NotContains(t, out, "Recovery phrase")

	out, err = run(t, "correct-horse\n", "reveal")
	require.NoError(t, err)
	assert.Contains(t, out, phrase12)

	_, err = run(t, "wrong\n", "unlock")
	assert.Error(t, err)

	_, err = run(t, "correct-horse\nbattery-staple\n", "passwd")
	require.NoError(t, err)

	out, err = run(t, "battery-staple\n", "unlock")
	require.NoError(t, err)
	assert.Equal(t, addr, addressLine(t, out))
	assert.Contains(t, out, "session: open until")
}

func TestVerify(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "  ABANDON "+phrase12[len("abandon "):]+"\n", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	_, err = run(t, "abandon abandon abandon\n", "verify")
	assert.Error(t, err)
}

func TestClearRequiresConfirmation(t *testing.T) {
	setupEnv(t)

	_, err := run(t, phrase12+"\ncorrect-horse\n", "restore")
	require.NoError(t, err)

	_, err = run(t, "", "clear")
	assert.ErrorContains(t, err, "--yes")

	_, err = run(t, "", "clear", "--yes")
	require.NoError(t, err)

	_, err = run(t, "", "status")
	assert.Error(t, err)
}

func TestTierQRAndBalance(t *testing.T) {
	setupEnv(t)

	_, err := run(t, phrase12+"\ncorrect-horse\n", "restore")
	require.NoError(t, err)

	out, err := run(t, "", "tier", "maximum")
	require.NoError(t, err)
	assert.Contains(t, out, "MAXIMUM")

	_, err = run(t, "", "tier", "gold")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "qr.png")
	_, err = run(t, "", "qr", "--out", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	out, err = run(t, "", "balance")
	require.NoError(t, err)
	assert.Contains(t, out, "0.000000000 SOL")

	out, err = run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "received 0.000000000 SOL")

	_, err = run(t, "", "history", "--type", "SIDEWAYS")
	assert.Error(t, err)
}

func TestSendValidation(t *testing.T) {
	setupEnv(t)

	_, err := run(t, phrase12+"\ncorrect-horse\n", "restore")
	require.NoError(t, err)

	_, err = run(t, "correct-horse\n", "send", "not-an-address", "1")
	assert.Error(t, err)

	_, err = run(t, "wrong\n", "send", "11111111111111111111111111111111", "1")
	assert.Error(t, err)
}
