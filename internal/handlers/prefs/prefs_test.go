package prefs

import (
	"testing"

	apperrors "farmgate/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFillsBlanksOnly(t *testing.T) {
	current := Preferences{Language: "lg", DateFormat: "DD/MM/YYYY", TimeFormat: "24h", Theme: "light"}

	merged := merge(current, Preferences{Theme: "dark"})

	assert.Equal(t, "lg", merged.Language)
	assert.Equal(t, "24h", merged.TimeFormat)
	assert.Equal(t, "dark", merged.Theme)
}

func TestValidate(t *testing.T) {
	t.Run("empty fields are fine", func(t *testing.T) {
		require.Nil(t, Preferences{}.validate())
	})

	t.Run("bad theme", func(t *testing.T) {
		err := Preferences{Theme: "sepia"}.validate()
		require.NotNil(t, err)
		assert.Equal(t, apperrors.ErrInvalidInput, err.Code)
	})

	t.Run("bad time format", func(t *testing.T) {
		err := Preferences{TimeFormat: "25h"}.validate()
		require.NotNil(t, err)
		assert.Equal(t, apperrors.ErrInvalidInput, err.Code)
	})
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "en", d.Language)
	assert.Equal(t, "light", d.Theme)
	assert.Nil(t, d.validate())
}
