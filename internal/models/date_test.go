package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	want := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{
		"1990-05-17",
		"1990-05-17T10:11:12Z",
		"1990-05-17T10:11:12.345Z",
		"1990-05-17T10:11:12+03:00",
		"1990-05-17T10:11:12",
	} {
		t.Run(value, func(t *testing.T) {
			got, err := ParseDate(value)

			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	for _, value := range []string{"", "17.05.1990", "1990-13-01", "1990-02-30", "1990/05/17", "yesterday"} {
		t.Run("invalid "+value, func(t *testing.T) {
			_, err := ParseDate(value)

			require.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}
