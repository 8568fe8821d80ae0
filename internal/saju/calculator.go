package saju

// Indexing orders for pillar derivation. They differ from the orders used by
// ClassifyType and both are load-bearing: changing either one changes which
// type every birth date maps to.
var (
	pillarStems = [10]Stem{
		StemGui, StemJia, StemYi, StemBing, StemDing,
		StemWu, StemJi, StemGeng, StemXin, StemRen,
	}
	pillarBranches = [12]Branch{
		BranchHai, BranchZi, BranchChou, BranchYin, BranchMao, BranchChen,
		BranchSi, BranchWu, BranchWei, BranchShen, BranchYou, BranchXu,
	}
)

// epochYear is subtracted from the lunar year before indexing the year pillar.
const epochYear = 4

// CalculatePillar derives the four pillars of in. The arithmetic is a fixed
// simplified rule rather than a solar-term based derivation; it must stay as
// is because result URLs are derived from it. Gender is ignored. An hour
// outside 0..23 is treated as absent.
func CalculatePillar(cal Calendar, in BirthInput) Pillar {
	if cal == nil {
		cal = IdentityCalendar{}
	}
	lunar := cal.SolarToLunar(in.Year, in.Month, in.Day)

	yearStemIdx := mod(lunar.Year-epochYear, 10)
	yearBranchIdx := mod(lunar.Year-epochYear, 12)

	monthOffset := mod(lunar.Year, 5)*2 + floorDiv(lunar.Month+1, 2)
	monthStemIdx := mod(yearStemIdx+monthOffset+2, 10)
	monthBranchIdx := mod(lunar.Month+1, 12)

	dayOffset := mod(lunar.Year+floorDiv(lunar.Year, 4)+lunar.Day, 60)
	dayStemIdx := dayOffset % 10
	dayBranchIdx := dayOffset % 12

	p := Pillar{
		Year:  Pair{Stem: pillarStems[yearStemIdx], Branch: pillarBranches[yearBranchIdx]},
		Month: Pair{Stem: pillarStems[monthStemIdx], Branch: pillarBranches[monthBranchIdx]},
		Day:   Pair{Stem: pillarStems[dayStemIdx], Branch: pillarBranches[dayBranchIdx]},
	}

	if in.Hour != nil && *in.Hour >= 0 && *in.Hour <= 23 {
		hourBranchIdx := ((*in.Hour + 1) % 24 / 2) % 12
		hourStemIdx := (dayStemIdx*2 + hourBranchIdx) % 10
		p.Hour = &Pair{Stem: pillarStems[hourStemIdx], Branch: pillarBranches[hourBranchIdx]}
	}
	return p
}

// mod returns a non-negative remainder.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

func floorDiv(a, n int) int {
	q := a / n
	if (a%n != 0) && ((a < 0) != (n < 0)) {
		q--
	}
	return q
}
