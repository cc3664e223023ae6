package tax_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

func TestStampSchedule_Compute(t *testing.T) {
	cases := []struct{ base, want string }{
		{"0", "0"},
		{"300", "0"},
		{"300.01", "5"},
		{"400", "5"},
		{"1000", "10"},
		{"30000", "300"},
		{"50000", "750"},
		{"100000", "1500"},
		{"200000", "4000"},
		{"12345.67", "123.46"},
	}
	for _, tc := range cases {
		assertDec(t, tc.want, tax.DefaultStampSchedule.Compute(dec(tc.base)), "base %s", tc.base)
	}
}

func TestStampSchedule_Overrides(t *testing.T) {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	biz := "biz-1"
	params := []*entity.FiscalParameter{
		{BusinessID: &biz, Code: entity.ParamStampMinimum, Value: dec("20"), EffectiveFrom: at.AddDate(0, -1, 0)},
		{Code: entity.ParamStampExemptUpTo, Value: dec("1000"), EffectiveFrom: at.AddDate(-1, 0, 0)},
	}
	s := tax.DefaultStampSchedule.Overrides(params, biz, at)
	assertDec(t, "0", s.Compute(dec("900")))
	assertDec(t, "20", s.Compute(dec("1500")))

	other := tax.DefaultStampSchedule.Overrides(params, "biz-2", at)
	assertDec(t, "15", other.Compute(dec("1500")))
}

func TestStampDutyApplies(t *testing.T) {
	m := tax.Modules{Stamp: true}
	assert.True(t, tax.StampDutyApplies(m, "cash", true))
	assert.False(t, tax.StampDutyApplies(m, "transfer", true))
	assert.False(t, tax.StampDutyApplies(m, "cash", false))
	assert.False(t, tax.StampDutyApplies(tax.Modules{}, "cash", true))
}
