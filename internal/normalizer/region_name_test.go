package normalizer

import (
	"testing"

	"github.com/egrul-parser/internal/regions"
	"github.com/stretchr/testify/assert"
)

func TestCastRegionName(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		{"МОСКВА Г", "Г. МОСКВА"},
		{"Г. МОСКВА", "Г. МОСКВА"},
		{"москва", "Г. МОСКВА"},
		{"САНКТ-ПЕТЕРБУРГ Г", "Г. САНКТ-ПЕТЕРБУРГ"},
		{"СЕВАСТОПОЛЬ Г", "Г. СЕВАСТОПОЛЬ"},
		{"КЕМЕРОВСКАЯ ОБЛ", "КЕМЕРОВСКАЯ ОБЛАСТЬ - КУЗБАСС"},
		{"ЧУВАШСКАЯ РЕСПУБЛИКА - ЧУВАШИЯ РЕСП", "ЧУВАШСКАЯ РЕСПУБЛИКА - ЧУВАШИЯ"},
		{"ХАНТЫ-МАНСИЙСКИЙ АВТОНОМНЫЙ ОКРУГ - ЮГРА АО", "ХАНТЫ-МАНСИЙСКИЙ АВТОНОМНЫЙ ОКРУГ - ЮГРА"},
		{"ЯМАЛО-НЕНЕЦКИЙ АО", "ЯМАЛО-НЕНЕЦКИЙ АВТОНОМНЫЙ ОКРУГ"},
		{"БАШКОРТОСТАН РЕСПУБЛИКА", "РЕСПУБЛИКА БАШКОРТОСТАН"},
		{"УДМУРТСКАЯ РЕСПУБЛИКА", "УДМУРТСКАЯ РЕСПУБЛИКА"},
		{"РЕСПУБЛИКА ТАТАРСТАН", "РЕСПУБЛИКА ТАТАРСТАН"},
		{"САХАЛИНСКАЯ  ОБЛ", "САХАЛИНСКАЯ ОБЛ"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.expected, CastRegionName(tc.raw))
		})
	}
}

func TestCastRegionName_Idempotent(t *testing.T) {
	inputs := []string{
		"МОСКВА Г", "САНКТ ПЕТЕРБУРГ", "КЕМЕРОВСКАЯ", "ЧУВАШИЯ",
		"ХАНТЫ МАНСИЙСКИЙ", "ЯМАЛО НЕНЕЦКИЙ", "СЕВАСТОПОЛЬ",
		"БАШКОРТОСТАН РЕСПУБЛИКА", "ЧЕЧЕНСКАЯ РЕСПУБЛИКА", "ТВЕРСКАЯ ОБЛ",
	}
	for _, in := range inputs {
		once := CastRegionName(in)
		assert.Equal(t, once, CastRegionName(once), "input %q", in)
	}
}

func TestCastRegionName_OfficialNamesAreFixedPoints(t *testing.T) {
	dir := regions.Default()
	for _, code := range dir.Codes() {
		name, _ := dir.Lookup(code)
		assert.Equal(t, name, CastRegionName(name), "region %s", code)
	}
}
