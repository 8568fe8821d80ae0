package saju

// Classification orders. See pillarStems for why these are kept separate.
var (
	classifierStems = [10]Stem{
		StemJia, StemYi, StemBing, StemDing, StemWu,
		StemJi, StemGeng, StemXin, StemRen, StemGui,
	}
	classifierBranches = [12]Branch{
		BranchZi, BranchChou, BranchYin, BranchMao, BranchChen, BranchSi,
		BranchWu, BranchWei, BranchShen, BranchYou, BranchXu, BranchHai,
	}
)

// ClassifyType maps a pillar to one of the ten chart types by hashing the day
// stem and the year branch. Unknown labels hash as index 0.
func ClassifyType(p Pillar) Type {
	stemIdx := indexOf(classifierStems[:], p.Day.Stem)
	branchIdx := indexOf(classifierBranches[:], p.Year.Branch)
	return typeOrder[(stemIdx*12+branchIdx)%len(typeOrder)]
}

func indexOf[T comparable](order []T, v T) int {
	for i, item := range order {
		if item == v {
			return i
		}
	}
	return 0
}
