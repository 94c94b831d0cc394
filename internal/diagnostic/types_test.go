package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticString(t *testing.T) {
	d := New(CodeUnknownModule, FieldModules, "Runnerz", "module not found in catalog")
	assert.Equal(t, `modules "Runnerz": [unknown_module] module not found in catalog`, d.String())

	cycle := Diagnostic{Code: CodeCyclicDependency, Field: FieldModules, Participants: []string{"A", "B"}}
	assert.Equal(t, "modules: [cyclic_dependency] cyclic module dependency [A, B]", cycle.String())
}

func TestDiagnosticUnwrap(t *testing.T) {
	d := New(CodeDuplicateModule, FieldModules, "Core", "")
	require.ErrorIs(t, d, ErrDuplicateModule)
	assert.NotErrorIs(t, d, ErrUnknownModule)

	warn := &Diagnostic{Severity: SeverityWarning, Code: CodeDeprecatedVersion}
	assert.NoError(t, warn.Unwrap())
}

func TestDiagnosticsErr(t *testing.T) {
	t.Run("valid diagnostics produce no error", func(t *testing.T) {
		var d Diagnostics
		d.AddWarning(CodeFloatingAlias, FieldSettingsVersion, "Latest", "alias")
		assert.True(t, d.IsValid())
		assert.NoError(t, d.Err())
	})

	t.Run("every error kind is reachable through errors.Is", func(t *testing.T) {
		var d Diagnostics
		d.AddError(CodeUnknownKind, FieldKind, "Widget", "")
		d.AddError(CodeUnknownSettingsVersion, FieldSettingsVersion, "V9", "")

		err := d.Err()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownKind)
		assert.ErrorIs(t, err, ErrUnknownSettingsVersion)
		assert.NotErrorIs(t, err, ErrCyclicDependency)

		var diag *Diagnostic
		require.ErrorAs(t, err, &diag)
		assert.Equal(t, "Widget", diag.Subject)
	})

	t.Run("wrapped validation errors keep their structure", func(t *testing.T) {
		var inner Diagnostics
		inner.AddError(CodeUnknownModule, FieldModules, "Ghost", "")

		wrapped := fmt.Errorf("building graph: %w", inner.Err())

		var outer Diagnostics
		outer.AddErr(FieldModules, wrapped)
		outer.AddErr(FieldModules, errors.New("plain failure"))

		require.Len(t, outer.Errors, 2)
		assert.Equal(t, CodeUnknownModule, outer.Errors[0].Code)
		assert.Equal(t, Code(""), outer.Errors[1].Code)
		assert.Equal(t, "plain failure", outer.Errors[1].Message)
	})
}

func TestValidationErrorFind(t *testing.T) {
	var d Diagnostics
	d.AddError(CodeDuplicateModule, FieldModules, "Core", "")
	d.AddError(CodeDuplicateModule, FieldModules, "Engine", "")

	var verr *ValidationError
	require.ErrorAs(t, d.Err(), &verr)

	found, ok := verr.Find(CodeDuplicateModule)
	require.True(t, ok)
	assert.Equal(t, "Core", found.Subject)

	_, ok = verr.Find(CodeLockedOption)
	assert.False(t, ok)
}
