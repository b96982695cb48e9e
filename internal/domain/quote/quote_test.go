package quote

import "testing"

func TestTotals(t *testing.T) {
	tests := []struct {
		name   string
		quote  Quote
		wantHT float64
	}{
		{"empty quote", Quote{}, 0},
		{"two lines", Quote{Lines: []Line{
			{LineTotal: Num(260)},
			{LineTotal: Num(400)},
		}}, 660},
		{"invalid line counts its default", Quote{Lines: []Line{
			{LineTotal: Num(100)},
			{LineTotal: Amount{Value: 0, Valid: false}},
		}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ht, ttc := Totals(tt.quote)
			if !approx(ht, tt.wantHT) {
				t.Errorf("ht = %v, want %v", ht, tt.wantHT)
			}
			if !approx(ttc, tt.wantHT*1.2) {
				t.Errorf("ttc = %v, want %v", ttc, tt.wantHT*1.2)
			}
		})
	}
}
