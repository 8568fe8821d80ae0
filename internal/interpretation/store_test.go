package interpretation

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/saju"
)

func TestDefaultStoreCoversEveryType(t *testing.T) {
	t.Parallel()

	store, err := Default()
	require.NoError(t, err)

	for _, l := range i18n.Locales() {
		for _, typ := range saju.Types() {
			meta, ok := store.Metadata(typ, l)
			require.True(t, ok, "%s/%s", l, typ)
			require.NotEmpty(t, meta.Code)
			require.NotEmpty(t, meta.Label)
			require.NotEmpty(t, meta.CoreTraitSummary)
			require.Len(t, store.AnalysisSteps(typ, l), 5)
		}
		g := store.Glossary(l)
		require.NotEmpty(t, g.Disclaimer)
		require.Len(t, g.Terms, 6)
	}

	summary := store.Summary()
	require.Equal(t, StoreStats{Overview: 10, Metadata: 10, Steps: 10, StructuredAreas: 4, Glossary: 6}, summary[i18n.TraditionalChinese])
	require.Equal(t, StoreStats{Overview: 0, Metadata: 10, Steps: 0, StructuredAreas: 0, Glossary: 6}, summary[i18n.English])
}

func TestMetadataElementsMatchTypeSlug(t *testing.T) {
	t.Parallel()

	store, err := Default()
	require.NoError(t, err)

	want := map[saju.Type][2]saju.Element{
		saju.TypeWoodFire:   {saju.Wood, saju.Fire},
		saju.TypeMetalWater: {saju.Metal, saju.Water},
		saju.TypeEarthMetal: {saju.Earth, saju.Metal},
		saju.TypeWaterWood:  {saju.Water, saju.Wood},
		saju.TypeFireEarth:  {saju.Fire, saju.Earth},
		saju.TypeWoodMetal:  {saju.Wood, saju.Metal},
		saju.TypeMetalWood:  {saju.Metal, saju.Wood},
		saju.TypeWaterFire:  {saju.Water, saju.Fire},
		saju.TypeFireMetal:  {saju.Fire, saju.Metal},
		saju.TypeEarthWater: {saju.Earth, saju.Water},
	}
	for _, l := range i18n.Locales() {
		for typ, els := range want {
			meta, _ := store.Metadata(typ, l)
			require.Equal(t, els[0], meta.DominantElement, "%s/%s", l, typ)
			require.Equal(t, els[1], meta.SubElement, "%s/%s", l, typ)
		}
	}
}

func TestLoadRejectsBadData(t *testing.T) {
	t.Parallel()

	validMeta := []byte("types:\n  mu-huo-zhi-ren:\n    dominant_element: wood\n    sub_element: fire\n")

	cases := map[string]fstest.MapFS{
		"missing fallback metadata": {},
		"unknown type": {
			"zh-TW/metadata.yaml": {Data: validMeta},
			"zh-TW/overview.yaml": {Data: []byte("types:\n  ghost:\n    impression: [x]\n")},
		},
		"unknown area": {
			"zh-TW/metadata.yaml": {Data: validMeta},
			"zh-TW/areas.yaml":    {Data: []byte("default:\n  romance:\n    main: [x]\n")},
		},
		"unknown element": {
			"zh-TW/metadata.yaml": {Data: []byte("types:\n  mu-huo-zhi-ren:\n    dominant_element: aether\n    sub_element: fire\n")},
		},
		"malformed yaml": {
			"zh-TW/metadata.yaml": {Data: validMeta},
			"ko/steps.yaml":       {Data: []byte("types: [")},
		},
	}
	for name, fsys := range cases {
		fsys := fsys
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(fsys, i18n.TraditionalChinese)
			require.Error(t, err)
		})
	}
}

func TestDefaultDistributionWithSharedElement(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"zh-TW/metadata.yaml": {Data: []byte("types:\n  huo-tu-zhi-ren:\n    dominant_element: fire\n    sub_element: fire\n")},
	}
	store, err := Load(fsys, i18n.TraditionalChinese)
	require.NoError(t, err)

	got := NewComposer(store).FullVariantContent(saju.TypeFireEarth, 0, i18n.Korean, nil)
	require.Equal(t, saju.Distribution{saju.Wood: 45, saju.Fire: 25, saju.Earth: 10, saju.Metal: 10, saju.Water: 10}, got.Summary.ElementDistribution)
}

func TestParseAreaKey(t *testing.T) {
	t.Parallel()

	area, ok := ParseAreaKey("career")
	require.True(t, ok)
	require.Equal(t, Career, area)

	_, ok = ParseAreaKey("Career")
	require.False(t, ok)
	require.Equal(t, []AreaKey{Wealth, Love, Career, Health}, AreaKeys())
}
