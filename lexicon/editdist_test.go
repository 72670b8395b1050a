package lexicon

import (
	"testing"
)

func TestPhonemeEditDistance(t *testing.T) {
	p := func(ps ...Symbol) []Symbol { return ps }

	tests := []struct {
		name string
		a, b []Symbol
		want int
	}{
		{"identical", p(PhonK, PhonA), p(PhonK, PhonA), 0},
		{"empty_both", nil, nil, 0},
		{"empty_a", nil, p(PhonA, PhonI), 2},
		{"empty_b", p(PhonA), nil, 1},
		{"substitution", p(PhonK, PhonA), p(PhonG, PhonA), 1},
		{"insertion", p(PhonK, PhonA), p(PhonK, PhonA, PhonI), 1},
		{"deletion", p(PhonK, PhonA, PhonI), p(PhonK, PhonA), 1},
		{
			"tori_vs_tori", // 取り vs 撮り (same phonemes)
			p(PhonT, PhonO, PhonR, PhonI),
			p(PhonT, PhonO, PhonR, PhonI),
			0,
		},
		{
			"kasa_vs_asa", // 傘 vs 朝
			p(PhonK, PhonA, PhonS, PhonA),
			p(PhonA, PhonS, PhonA),
			1,
		},
		{
			"mike_vs_miku", // マイク vs ミク
			p(PhonM, PhonA, PhonI, PhonK, PhonU),
			p(PhonM, PhonI, PhonK, PhonU),
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PhonemeEditDistance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("PhonemeEditDistance() = %d, want %d", got, tt.want)
			}
		})
	}
}
