package launcher

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloads(t *testing.T) map[string][]byte {
	t.Helper()
	large := make([]byte, 1<<20+17)
	_, err := rand.Read(large)
	require.NoError(t, err)

	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	return map[string][]byte{
		"empty":     {},
		"one byte":  {0x00},
		"elf magic": {0x7F, 0x45, 0x4C, 0x46, 0x02, 0x01, 0x01, 0x00},
		"quotes":    []byte("'\\\n\r`${}"),
		"all bytes": all,
		"over 1MB":  large,
	}
}

func TestEmbedDecodeRoundTrip(t *testing.T) {
	for name, b := range payloads(t) {
		t.Run(name, func(t *testing.T) {
			got, err := Decode(Embed(b))
			require.NoError(t, err)
			assert.True(t, bytes.Equal(b, got))
		})
	}
}

func TestEncodingNeverContainsDelimiters(t *testing.T) {
	for name, b := range payloads(t) {
		t.Run(name, func(t *testing.T) {
			enc := Encode(b)
			assert.False(t, strings.ContainsAny(enc, Delimiters))
			assert.NotContains(t, enc, placeholder)
		})
	}
}

func TestEmbedIsDeterministic(t *testing.T) {
	b := []byte{0x7F, 0x45, 0x4C, 0x46}
	assert.Equal(t, Embed(b), Embed(append([]byte(nil), b...)))
	assert.NotEqual(t, Embed(b), Embed([]byte{0x7F}))
}

func TestTemplateShape(t *testing.T) {
	assert.Equal(t, 1, strings.Count(template, placeholder))

	script := Embed([]byte("bin"))
	assert.NotContains(t, script, placeholder)
	assert.Contains(t, script, "const TRAP_BIN = Buffer.from('"+Encode([]byte("bin"))+"', 'base64');")
	assert.Contains(t, script, "writeFileSync(TRAP_PATH, TRAP_BIN);")
	assert.Contains(t, script, "chmodSync(TRAP_PATH, '755');")
	assert.Contains(t, script, "spawn(TRAP_PATH, [], { stdio: 'inherit' })")
	assert.Contains(t, script, "const TRAP_PATH = '/tmp/trap';")
	assert.True(t, strings.HasSuffix(script, "}\n"))

	// The payload is written inside the constructor, which the host runs once.
	ctor := strings.Index(script, "constructor()")
	method := strings.Index(script, "@GenezioMethod()")
	write := strings.Index(script, "writeFileSync(TRAP_PATH")
	assert.True(t, ctor < write && write < method)
}

func TestDecodeRejectsForeignText(t *testing.T) {
	_, err := Decode("console.log('hello')")
	assert.ErrorIs(t, err, ErrPayloadNotFound)

	_, err = Decode(payloadPrefix + "no closing quote")
	assert.ErrorIs(t, err, ErrPayloadNotFound)

	_, err = Decode(payloadPrefix + "!!not base64!!')")
	assert.ErrorIs(t, err, ErrPayloadNotFound)
}

func TestInspect(t *testing.T) {
	b := []byte{0x7F, 0x45, 0x4C, 0x46}
	script := Embed(b)
	sum := sha256.Sum256(b)

	s, err := Inspect(script)
	require.NoError(t, err)
	assert.Equal(t, 4, s.PayloadSize)
	assert.Equal(t, hex.EncodeToString(sum[:]), s.PayloadSHA256)
	assert.Equal(t, len(script), s.ScriptSize)
}
