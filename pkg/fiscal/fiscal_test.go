package fiscal_test

import (
	"strings"
	"testing"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/ugcompta/invoiceflow/pkg/fiscal"
)

func TestValidateNIF(t *testing.T) {
	assert.NoError(t, fiscal.ValidateNIF("000016001234567"))
	assert.NoError(t, fiscal.ValidateNIF("0000 1600 1234 567"))
	assert.NoError(t, fiscal.ValidateNIF("00001600123456789012"))
	assert.Error(t, fiscal.ValidateNIF("12345"))
	assert.Error(t, fiscal.ValidateNIF("00001600123456A"))
}

func TestValidateNISyAI(t *testing.T) {
	assert.NoError(t, fiscal.ValidateNIS("098716010012345"))
	assert.Error(t, fiscal.ValidateNIS("0987"))
	assert.NoError(t, fiscal.ValidateAI("16012345678"))
	assert.Error(t, fiscal.ValidateAI("160123456789"))
}

func TestValidateRC(t *testing.T) {
	assert.NoError(t, fiscal.ValidateRC("16/00-1234567B19"))
	assert.Error(t, fiscal.ValidateRC("B19"))
	assert.Error(t, fiscal.ValidateRC("AB/00-1234567"))
	assert.Error(t, fiscal.ValidateRC("16/00-12345#7"))
}

func TestIdentifiers_OmiteVacios(t *testing.T) {
	ids := fiscal.Identifiers{NIF: "000016001234567"}
	assert.NoError(t, ids.Validate())

	ids.NIS = "123"
	assert.Error(t, ids.Validate())
}

func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func TestFormatInteger_AgrupaMiles(t *testing.T) {
	out := fiscal.FormatInteger(decimal.NewFromInt(1000000))
	assert.Equal(t, "1000000", digitsOf(out))
	assert.NotEqual(t, "1000000", out, "fr-DZ debe insertar separadores de miles")
	assert.NotContains(t, out, ",")
}

func TestFormatMoney(t *testing.T) {
	out := fiscal.FormatMoney(decimal.RequireFromString("1234.5"))
	assert.True(t, strings.HasSuffix(out, " DA"))
	assert.Equal(t, "123450", digitsOf(out))
	assert.Contains(t, out, ",50")
}
