package saju

import "math"

var stemElements = map[Stem]Element{
	StemJia:  Wood,
	StemYi:   Wood,
	StemBing: Fire,
	StemDing: Fire,
	StemWu:   Earth,
	StemJi:   Earth,
	StemGeng: Metal,
	StemXin:  Metal,
	StemRen:  Water,
	StemGui:  Water,
}

// Branches map by their principal element.
var branchElements = map[Branch]Element{
	BranchYin:  Wood,
	BranchMao:  Wood,
	BranchSi:   Fire,
	BranchWu:   Fire,
	BranchChen: Earth,
	BranchXu:   Earth,
	BranchChou: Earth,
	BranchWei:  Earth,
	BranchShen: Metal,
	BranchYou:  Metal,
	BranchHai:  Water,
	BranchZi:   Water,
}

var stemGlyphs = map[Stem]string{
	StemJia:  "甲",
	StemYi:   "乙",
	StemBing: "丙",
	StemDing: "丁",
	StemWu:   "戊",
	StemJi:   "己",
	StemGeng: "庚",
	StemXin:  "辛",
	StemRen:  "壬",
	StemGui:  "癸",
}

var branchGlyphs = map[Branch]string{
	BranchZi:   "子",
	BranchChou: "丑",
	BranchYin:  "寅",
	BranchMao:  "卯",
	BranchChen: "辰",
	BranchSi:   "巳",
	BranchWu:   "午",
	BranchWei:  "未",
	BranchShen: "申",
	BranchYou:  "酉",
	BranchXu:   "戌",
	BranchHai:  "亥",
}

var elementGlyphs = map[Element]string{
	Wood:  "木",
	Fire:  "火",
	Earth: "土",
	Metal: "金",
	Water: "水",
}

// StemElement returns the element of s, or "" for an unknown stem.
func StemElement(s Stem) Element { return stemElements[s] }

// BranchElement returns the element of b, or "" for an unknown branch.
func BranchElement(b Branch) Element { return branchElements[b] }

func StemGlyph(s Stem) string { return stemGlyphs[s] }

func BranchGlyph(b Branch) string { return branchGlyphs[b] }

func ElementGlyph(e Element) string { return elementGlyphs[e] }

// Glyph renders a pair as two characters, e.g. 甲子.
func (p Pair) Glyph() string {
	return StemGlyph(p.Stem) + BranchGlyph(p.Branch)
}

// Distribution is a percentage per element. Values produced by this package
// always carry all five keys and sum to 100.
type Distribution map[Element]int

// Sum adds every value.
func (d Distribution) Sum() int {
	total := 0
	for _, v := range d {
		total += v
	}
	return total
}

// Ordered returns the values in canonical element order.
func (d Distribution) Ordered() []ElementShare {
	out := make([]ElementShare, 0, len(elementOrder))
	for _, el := range elementOrder {
		out = append(out, ElementShare{Element: el, Percent: d[el]})
	}
	return out
}

// ElementShare is one entry of an ordered distribution.
type ElementShare struct {
	Element Element `json:"element"`
	Percent int     `json:"percent"`
}

func newDistribution() Distribution {
	d := make(Distribution, len(elementOrder))
	for _, el := range elementOrder {
		d[el] = 0
	}
	return d
}

// ElementDistribution counts the elements over the six mandatory slots (eight
// with an hour pillar) and returns whole percentages summing to exactly 100.
// Rounding drift goes to the largest share, first in canonical order on ties.
func ElementDistribution(p Pillar) Distribution {
	counts := newDistribution()
	total := 0
	for _, s := range p.Stems() {
		if el, ok := stemElements[s]; ok {
			counts[el]++
			total++
		}
	}
	for _, b := range p.Branches() {
		if el, ok := branchElements[b]; ok {
			counts[el]++
			total++
		}
	}

	pct := newDistribution()
	if total == 0 {
		return evenDistribution()
	}
	for _, el := range elementOrder {
		pct[el] = int(math.Round(float64(counts[el]) / float64(total) * 100))
	}
	correctDrift(pct)
	return pct
}

// DefaultDistribution is the synthetic distribution shown when no pillar is
// available: 35 for dominant, 25 for sub, 40 split across the remaining
// elements with the rounding residue on the first of them. When dominant
// equals sub the sub share overwrites it, so that element gets 25 and the
// first remaining element absorbs the rest. Unknown elements yield an even
// split.
func DefaultDistribution(dominant, sub Element) Distribution {
	_, okDom := elementGlyphs[dominant]
	_, okSub := elementGlyphs[sub]
	if !okDom || !okSub {
		return evenDistribution()
	}

	var others []Element
	for _, el := range elementOrder {
		if el != dominant && el != sub {
			others = append(others, el)
		}
	}
	d := newDistribution()
	d[dominant] = 35
	d[sub] = 25
	share := 40 / len(others)
	for _, el := range others {
		d[el] = share
	}
	d[others[0]] += 100 - d.Sum()
	return d
}

func evenDistribution() Distribution {
	d := newDistribution()
	for _, el := range elementOrder {
		d[el] = 100 / len(elementOrder)
	}
	return d
}

func correctDrift(pct Distribution) {
	sum := pct.Sum()
	if sum == 100 {
		return
	}
	maxEl := elementOrder[0]
	for _, el := range elementOrder[1:] {
		if pct[el] > pct[maxEl] {
			maxEl = el
		}
	}
	pct[maxEl] += 100 - sum
}
