package saju

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBirthInputValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, BirthInput{Year: 1990, Month: 2, Day: 31}.Validate())

	err := BirthInput{Year: 1899, Month: 13, Day: 0}.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidBirthInput))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, []string{"year", "month", "day"}, verr.Fields)
}

func TestBirthInputNormalized(t *testing.T) {
	t.Parallel()

	in := BirthInput{Year: 2000, Month: 1, Day: 1, Hour: intPtr(24), Gender: "x"}
	out := in.Normalized()
	require.Nil(t, out.Hour)
	require.Equal(t, GenderUnspecified, out.Gender)

	in = BirthInput{Year: 2000, Month: 1, Day: 1, Hour: intPtr(7), Gender: "f"}
	out = in.Normalized()
	require.Equal(t, 7, *out.Hour)
	require.Equal(t, GenderFemale, out.Gender)

	*out.Hour = 8
	require.Equal(t, 7, *in.Hour)
}
