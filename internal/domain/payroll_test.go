package domain

import "testing"

func TestNetSalary(t *testing.T) {
	tests := []struct {
		name                          string
		basic, allowances, deductions float64
		want                          float64
	}{
		{"basic only", 6000, 0, 0, 6000},
		{"with allowances", 6000, 500, 200, 6300},
		{"deductions exceed allowances", 6000, 100, 400, 5700},
		{"all zero", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NetSalary(tt.basic, tt.allowances, tt.deductions); got != tt.want {
				t.Errorf("NetSalary(%v, %v, %v) = %v, want %v", tt.basic, tt.allowances, tt.deductions, got, tt.want)
			}
		})
	}
}

func TestRecompute(t *testing.T) {
	rec := &PayrollRecord{BasicSalary: 6000, Allowances: 500, Deductions: 200, NetSalary: 1}

	rec.Recompute()
	if rec.NetSalary != 6300 {
		t.Errorf("NetSalary after Recompute = %v, want 6300", rec.NetSalary)
	}

	rec.Deductions = 300
	rec.Recompute()
	if rec.NetSalary != 6200 {
		t.Errorf("NetSalary after second Recompute = %v, want 6200", rec.NetSalary)
	}
}
