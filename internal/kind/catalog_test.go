package kind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"targetrules/internal/diagnostic"
)

func TestKindValidity(t *testing.T) {
	assert.False(t, Kind(0).IsValid())
	assert.False(t, Kind(KindTotal).IsValid())
	assert.Len(t, All(), KindTotal-1)

	for _, k := range All() {
		assert.True(t, k.IsValid(), k.String())
	}
}

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()
	assert.Equal(t, All(), c.Kinds())

	exe, err := c.Lookup(Executable)
	require.NoError(t, err)
	assert.Equal(t, StandaloneBinary, exe.Packaging)
	assert.Equal(t, EntryPointRequired, exe.EntryPoint)
	assert.Equal(t, "false", exe.Requirements[OptWithEditor])

	ed, err := c.Lookup(EditorExtension)
	require.NoError(t, err)
	assert.Equal(t, LoadableUnit, ed.Packaging)
	assert.Equal(t, EntryPointOptional, ed.EntryPoint)
	assert.Equal(t, Public, ed.Visibility)
}

func TestLookupUnknownKind(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register(Tool, Rule{}))

	_, err := c.Lookup(Server)
	require.ErrorIs(t, err, diagnostic.ErrUnknownKind)

	var d *diagnostic.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, "Server", d.Subject)

	_, err = c.Lookup(Kind(0))
	assert.ErrorIs(t, err, diagnostic.ErrUnknownKind)
}

func TestRegisterIsAppendOnly(t *testing.T) {
	c := Builtin()
	assert.ErrorIs(t, c.Register(Server, Rule{}), ErrAlreadyRegistered)
	assert.Error(t, NewCatalog().Register(Kind(0), Rule{}))
}

func TestLookupReturnsCopies(t *testing.T) {
	c := Builtin()

	r, err := c.Lookup(Server)
	require.NoError(t, err)
	r.Requirements[OptWithServerCode] = "false"

	again, err := c.Lookup(Server)
	require.NoError(t, err)
	assert.Equal(t, "true", again.Requirements[OptWithServerCode])
}

func TestKnownOption(t *testing.T) {
	c := Builtin()
	assert.True(t, c.KnownOption(OptLinkType))
	assert.True(t, c.KnownOption(OptWithClientCode))
	assert.False(t, c.KnownOption("cpp_standard"))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "loadable_unit", LoadableUnit.String())
	assert.Equal(t, "required", EntryPointRequired.String())
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "unknown", Visibility(7).String())
}
