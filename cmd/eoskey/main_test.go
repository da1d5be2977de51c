package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Layr-Labs/eosio-keys-go/pkg/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWIF       = "5HrBLKfeEdqH9KLMv1daHLVjrXV3DGVERAkN5cdSSc58bzqqfT4"
	testPublicKey = "EOS8FdQ4gt16pFcSiXAYCcHnkHTS2nNLFWGZXW5sioAdvQuMxKhAm"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	require.NoError(t, app.Run(append([]string{"eoskey"}, args...)))
	return out.String()
}

// field returns the value printed after "label: "
func field(t *testing.T, output, label string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if value, ok := strings.CutPrefix(line, label+": "); ok {
			return value
		}
	}
	t.Fatalf("no %q line in output:\n%s", label, output)
	return ""
}

func TestPublicKeyCommand(t *testing.T) {
	out := run(t, "public-key", "--wif", testWIF)
	assert.Equal(t, testPublicKey, field(t, out, "Public key"))
	assert.True(t, strings.HasPrefix(field(t, out, "Public key (K1)"), "PUB_K1_"))
}

func TestGenerateCommand(t *testing.T) {
	out := run(t, "generate", "--network", "testnet", "--compressed")

	sk, err := keys.SecretKeyFromWIF(field(t, out, "Private key"))
	require.NoError(t, err)
	assert.Equal(t, keys.Testnet, sk.Network())
	assert.True(t, sk.Compressed())
	assert.Equal(t, sk.PublicKey().String(), field(t, out, "Public key"))
}

func TestSignAndVerifyCommands(t *testing.T) {
	sig := strings.TrimSpace(run(t, "sign", "--wif", testWIF, "--message", "hello"))
	require.True(t, strings.HasPrefix(sig, "SIG_K1_"))

	out := run(t, "verify", "--public-key", testPublicKey, "--signature", sig, "--message", "hello")
	assert.Contains(t, out, "signature is valid")

	out = run(t, "recover", "--signature", sig, "--message", "hello")
	assert.Equal(t, testPublicKey, field(t, out, "Public key"))

	digest := strings.TrimSpace(run(t, "digest", "--message", "hello"))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", digest)

	byDigest := strings.TrimSpace(run(t, "sign", "--wif", testWIF, "--digest", digest))
	assert.Equal(t, sig, byDigest)
}

func TestSignCommand_RequiresOneInput(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}

	require.Error(t, app.Run([]string{"eoskey", "sign", "--wif", testWIF}))
	require.Error(t, app.Run([]string{"eoskey", "sign", "--wif", testWIF, "--message", "a", "--digest", "00"}))
}

func TestPackTransferCommand(t *testing.T) {
	out := run(t, "pack-transfer", "--from", "testa", "--to", "testb", "--quantity", "1.0000 EOS", "--memo", "a memo")
	assert.Equal(t,
		"00a6823403ea3055000000572d3ccdcd01000000000093b1ca00000000a8ed323227000000000093b1ca000000008093b1ca102700000000000004454f53000000000661206d656d6f",
		field(t, out, "Action"))
	assert.Len(t, field(t, out, "Digest"), 64)
}

func TestWalletCommands(t *testing.T) {
	dataPath := t.TempDir()
	wallet := func(args ...string) string {
		return run(t, append([]string{"wallet", "--store", "badger", "--data-path", dataPath}, args...)...)
	}

	out := wallet("import", "--wif", testWIF, "--label", "main")
	assert.Equal(t, testPublicKey, field(t, out, "Public key"))
	assert.Contains(t, out, "Default: yes")

	created := field(t, wallet("create", "--label", "second"), "Public key")

	list := wallet("list")
	assert.Contains(t, list, testPublicKey)
	assert.Contains(t, list, created)

	sig := strings.TrimSpace(wallet("sign", "--message", "hello"))
	out = run(t, "verify", "--public-key", testPublicKey, "--signature", sig, "--message", "hello")
	assert.Contains(t, out, "signature is valid")

	wallet("default", "--public-key", created)
	sig = strings.TrimSpace(wallet("sign", "--message", "hello"))
	out = run(t, "recover", "--signature", sig, "--message", "hello")
	assert.Equal(t, created, field(t, out, "Public key"))

	wallet("remove", "--public-key", created)
	assert.NotContains(t, wallet("list"), created)
}
