package desensitize

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHookRules(t *testing.T) {
	hook := NewHook()
	require.NoError(t, hook.AddContentRule("hexkey", `[0-9a-f]{64}`, "<key>"))
	require.NoError(t, hook.AddFieldRule("pin", "pin", `.*`, "***"))
	assert.Equal(t, 2, hook.RuleCount())

	// Re-adding a rule replaces it.
	hook.AddRule(MustNewFieldRule("pin", "pin", `.*`, "xxx"))
	assert.Equal(t, 2, hook.RuleCount())

	key := "3c5d7e9f3c5d7e9f3c5d7e9f3c5d7e9f3c5d7e9f3c5d7e9f3c5d7e9f3c5d7e9f"
	got := hook.Desensitize(`{"sk":"` + key + `","pin":"123456"}`)
	assert.Equal(t, `{"sk":"<key>","pin":"xxx"}`, got)

	assert.True(t, hook.DisableRule("hexkey"))
	assert.Contains(t, hook.Desensitize(key), key)
	assert.True(t, hook.EnableRule("hexkey"))
	assert.False(t, hook.EnableRule("missing"))

	assert.ElementsMatch(t, []string{"hexkey", "pin"}, hook.GetRules())
	assert.True(t, hook.RemoveRule("pin"))
	assert.False(t, hook.RemoveRule("pin"))

	hook.Clear()
	assert.Zero(t, hook.RuleCount())
	assert.Equal(t, "abc", hook.Desensitize("abc"))
}

func TestInvalidRules(t *testing.T) {
	_, err := NewContentRule("", "x", "")
	assert.Error(t, err)
	_, err = NewContentRule("x", "(", "")
	assert.Error(t, err)
	_, err = NewFieldRule("x", "", ".*", "")
	assert.Error(t, err)
	assert.Panics(t, func() { MustNewFieldRule("x", "f", "(", "") })
}

func TestWriter(t *testing.T) {
	hook := NewHook()
	hook.AddBuiltin(BuiltinRules()...)

	var out bytes.Buffer
	w := NewWriter(&out, hook)

	line := []byte(`{"level":"info","private_key":"c0ffee","message":"loaded"}` + "\n")
	n, err := w.Write(line)
	require.NoError(t, err)
	assert.Equal(t, len(line), n)
	assert.Equal(t, `{"level":"info","private_key":"******","message":"loaded"}`+"\n", out.String())

	assert.Panics(t, func() { NewWriter(nil, hook) })
}

func TestBuiltinRules(t *testing.T) {
	hook := NewHook()
	hook.AddBuiltin(BuiltinRules()...)

	key := "3c5d7e9f3c5d7e9f3c5d7e9f3c5d7e9f3c5d7e9f3c5d7e9f3c5d7e9f3c5d7e9f"
	got := hook.Desensitize(`{"server_authority_private_key": "c0ffee","permanent_secret_key":"00ff","phone":"0612345678","message":"key ` + key + `"}`)
	assert.Equal(t, `{"server_authority_private_key": "******","permanent_secret_key":"******","phone":"********78","message":"key <redacted>"}`, got)

	// Empty values and unrelated fields are left alone.
	assert.Equal(t, `{"pin":"","pinned":"1"}`, hook.Desensitize(`{"pin":"","pinned":"1"}`))
}
