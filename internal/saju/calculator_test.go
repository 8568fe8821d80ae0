package saju

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCalculatePillarKnownDates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		cal   Calendar
		input BirthInput
		want  Pillar
	}{
		{
			name:  "identity without hour",
			cal:   IdentityCalendar{},
			input: BirthInput{Year: 1990, Month: 1, Day: 15},
			want: Pillar{
				Year:  Pair{StemJi, BranchSi},
				Month: Pair{StemRen, BranchChou},
				Day:   Pair{StemYi, BranchSi},
			},
		},
		{
			name:  "identity with morning hour",
			cal:   IdentityCalendar{},
			input: BirthInput{Year: 1990, Month: 1, Day: 15, Hour: intPtr(9)},
			want: Pillar{
				Year:  Pair{StemJi, BranchSi},
				Month: Pair{StemRen, BranchChou},
				Day:   Pair{StemYi, BranchSi},
				Hour:  &Pair{StemRen, BranchChen},
			},
		},
		{
			name:  "midnight wraps to first hour branch",
			cal:   IdentityCalendar{},
			input: BirthInput{Year: 1990, Month: 1, Day: 15, Hour: intPtr(0)},
			want: Pillar{
				Year:  Pair{StemJi, BranchSi},
				Month: Pair{StemRen, BranchChou},
				Day:   Pair{StemYi, BranchSi},
				Hour:  &Pair{StemDing, BranchHai},
			},
		},
		{
			name:  "lunar calendar shifts into previous lunar year",
			cal:   LunarCalendar{},
			input: BirthInput{Year: 1990, Month: 1, Day: 15},
			want: Pillar{
				Year:  Pair{StemWu, BranchChen},
				Month: Pair{StemJia, BranchZi},
				Day:   Pair{StemWu, BranchShen},
			},
		},
		{
			name:  "lower bound",
			cal:   IdentityCalendar{},
			input: BirthInput{Year: 1900, Month: 1, Day: 1},
			want: Pillar{
				Year:  Pair{StemJi, BranchHai},
				Month: Pair{StemRen, BranchChou},
				Day:   Pair{StemJi, BranchHai},
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, CalculatePillar(tc.cal, tc.input))
		})
	}
}

func TestCalculatePillarDeterministic(t *testing.T) {
	t.Parallel()

	for year := MinYear; year <= MaxYear; year += 7 {
		for month := 1; month <= 12; month++ {
			in := BirthInput{Year: year, Month: month, Day: (year+month)%31 + 1, Hour: intPtr((year + month) % 24)}
			first := CalculatePillar(LunarCalendar{}, in)
			second := CalculatePillar(LunarCalendar{}, in)
			require.Equal(t, first, second)
		}
	}
}

func TestCalculatePillarHourPairInvariant(t *testing.T) {
	t.Parallel()

	for _, hour := range []*int{nil, intPtr(-1), intPtr(0), intPtr(12), intPtr(23), intPtr(24)} {
		p := CalculatePillar(nil, BirthInput{Year: 2001, Month: 6, Day: 30, Hour: hour})
		inRange := hour != nil && *hour >= 0 && *hour <= 23
		require.Equal(t, inRange, p.HasHour())
		if p.Hour != nil {
			require.NotEmpty(t, p.Hour.Stem)
			require.NotEmpty(t, p.Hour.Branch)
		}
	}
}

func TestCalculatePillarIgnoresGender(t *testing.T) {
	t.Parallel()

	base := BirthInput{Year: 1978, Month: 11, Day: 3, Hour: intPtr(17)}
	male := base
	male.Gender = GenderMale
	female := base
	female.Gender = GenderFemale

	require.Equal(t, CalculatePillar(nil, male), CalculatePillar(nil, female))
	require.Equal(t, CalculatePillar(nil, base), CalculatePillar(nil, male))
}

func TestCalculatePillarToleratesImpossibleDates(t *testing.T) {
	t.Parallel()

	for _, cal := range []Calendar{IdentityCalendar{}, LunarCalendar{}} {
		require.NotPanics(t, func() {
			CalculatePillar(cal, BirthInput{Year: 2023, Month: 2, Day: 31})
			CalculatePillar(cal, BirthInput{Year: -40, Month: 0, Day: 0})
		})
	}
}

func TestMod(t *testing.T) {
	t.Parallel()

	require.Equal(t, 6, mod(-4, 10))
	require.Equal(t, 8, mod(-4, 12))
	require.Equal(t, 0, mod(10, 10))
	require.Equal(t, -1, floorDiv(-1, 4))
	require.Equal(t, 497, floorDiv(1990, 4))
}
