package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	value int
	name  string
}

func TestApply(t *testing.T) {
	t.Run("Applies options in order", func(t *testing.T) {
		tgt := &target{}
		err := Apply(tgt,
			NoError(func(c *target) { c.value = 1 }),
			NoError(func(c *target) { c.name = "set" }),
			NoError(func(c *target) { c.value = 2 }),
		)

		require.NoError(t, err)
		require.Equal(t, 2, tgt.value)
		require.Equal(t, "set", tgt.name)
	})

	t.Run("Stops at the first error", func(t *testing.T) {
		tgt := &target{}
		boom := errors.New("boom")
		err := Apply(tgt,
			NoError(func(c *target) { c.value = 1 }),
			New(func(*target) error { return boom }),
			NoError(func(c *target) { c.value = 99 }),
		)

		require.ErrorIs(t, err, boom)
		require.Equal(t, 1, tgt.value, "later options must not run")
	})

	t.Run("No options is a no-op", func(t *testing.T) {
		require.NoError(t, Apply(&target{}))
	})
}
