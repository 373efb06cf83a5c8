package corpus

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"full iso date kept", "1973-05-10", "1973-05-10"},
		{"year and month padded", "1973-05", "1973-05-01"},
		{"bare year padded", "1973", "1973-01-01"},
		{"slash date reordered", "10/05/1973", "1973-05-10"},
		{"short slash date zero padded", "5/3/1973", "1973-03-05"},
		{"surrounding whitespace trimmed", "  1973-05-10  ", "1973-05-10"},
		{"unknown format passes through", "circa 1973", "circa 1973"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestYearOf(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantYear int
		wantOK   bool
	}{
		{"full date", "1973-05-10", 1973, true},
		{"bare year", "1988", 1988, true},
		{"empty", "", 0, false},
		{"not a date", "circa 1973", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, ok := YearOf(tt.input)
			if year != tt.wantYear || ok != tt.wantOK {
				t.Errorf("YearOf(%q) = (%d, %v), want (%d, %v)", tt.input, year, ok, tt.wantYear, tt.wantOK)
			}
		})
	}
}
