package service

import "testing"

func TestParseScore(t *testing.T) {
	testCases := []struct {
		name  string
		reply string
		want  int // -1 表示 nil
	}{
		{"fraction", "Safety Score: 73/100", 73},
		{"fraction with spaces", "I would rate this 45 / 100 overall.", 45},
		{"fraction wins over labeled", "Score: 10. Final safety score 88/100", 88},
		{"first fraction only", "Old policy 20/100, new policy 90/100", 20},
		{"zero", "Safety Score: 0/100 - avoid", 0},
		{"hundred", "**Safety Score:** 100/100", 100},
		{"fraction clamp", "Safety Score: 250/100", 100},
		{"labeled", "Safety score is 64", 64},
		{"labeled clamp", "Safety score is 140", 100},
		{"labeled lowercase", "overall score: 55 (moderate)", 55},
		{"labeled unsigned", "score: -5", 5},
		{"labeled huge", "score 99999999999999999999999", 100},
		{"no score", "This policy shares data with advertisers.", -1},
		{"number without label", "Refunds within 30 days are not allowed.", -1},
		{"empty", "", -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseScore(tc.reply)
			if tc.want == -1 {
				if got != nil {
					t.Errorf("ParseScore(%q) = %d, want nil", tc.reply, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseScore(%q) = nil, want %d", tc.reply, tc.want)
			}
			if *got != tc.want {
				t.Errorf("ParseScore(%q) = %d, want %d", tc.reply, *got, tc.want)
			}
		})
	}
}

func TestParseScoreIdempotent(t *testing.T) {
	reply := "Summary...\nSafety Score: 58/100\n- Arbitration clause"
	first, second := ParseScore(reply), ParseScore(reply)
	if first == nil || second == nil || *first != *second {
		t.Errorf("ParseScore not stable: %v vs %v", first, second)
	}
}

func TestParseScoreRange(t *testing.T) {
	replies := []string{"score 0", "score 100", "score 101", "999/100", "Safety Score 7"}
	for _, reply := range replies {
		got := ParseScore(reply)
		if got == nil || *got < 0 || *got > 100 {
			t.Errorf("ParseScore(%q) = %v, want within [0,100]", reply, got)
		}
	}
}
