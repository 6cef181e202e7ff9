package xlsw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSheet(t *testing.T) *Document {
	t.Helper()
	d, err := NewBuffer()
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.OpenSheet("rules"))
	return d
}

func TestOperandCounts(t *testing.T) {
	assert.Equal(t, 2, Between.operandCount())
	assert.Equal(t, 2, NotBetween.operandCount())
	for _, op := range []Operator{Equal, NotEqual, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual} {
		assert.Equal(t, 1, op.operandCount(), string(op))
	}
}

func TestCellIsFormatOperands(t *testing.T) {
	d := openTestSheet(t)

	require.NoError(t, d.AddCellIsFormat("A1:A9", GreaterThan, 0, "100"))
	require.NoError(t, d.AddCellIsFormat("B1:B9", Between, 0, "1", "10"))

	// too few
	err := d.AddCellIsFormat("C1:C9", Between, 0, "1")
	assert.ErrorIs(t, err, ErrMissingOperand)
	// too many
	err = d.AddCellIsFormat("C1:C9", LessThan, 0, "1", "2")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	// unknown operator
	err = d.AddCellIsFormat("C1:C9", Operator("bogus"), 0, "1")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// rejected rules were not queued
	assert.Len(t, d.cur.cfRules, 2)
}

func TestFormatPriorities(t *testing.T) {
	d := openTestSheet(t)

	require.NoError(t, d.AddFormulaFormat("A1:A9", "A1>0", 0))
	require.NoError(t, d.AddDuplicateValuesFormat("B1:B9", 0))
	require.NoError(t, d.AddCellIsFormat("C1:C9", Equal, 0, "7"))

	rules := d.cur.cfRules
	require.Len(t, rules, 3)
	for i, r := range rules {
		assert.Equal(t, i+1, r.priority)
	}
}

func TestFormulaFormatValidation(t *testing.T) {
	d := openTestSheet(t)

	assert.ErrorIs(t, d.AddFormulaFormat("A1:A9", "", 0), ErrInvalidArgument)
	assert.ErrorIs(t, d.AddFormulaFormat("A1:A9", "A1>0", -1), ErrInvalidArgument)
	assert.ErrorIs(t, d.AddFormulaFormat("no good", "A1>0", 0), ErrInvalidRange)
}

func TestIntegerValidationOperands(t *testing.T) {
	d := openTestSheet(t)

	require.NoError(t, d.AddIntegerValidation("A1:A9", Between, []int64{1, 100}))
	assert.ErrorIs(t, d.AddIntegerValidation("B1:B9", Between, []int64{1}), ErrMissingOperand)
	assert.ErrorIs(t, d.AddIntegerValidation("B1:B9", GreaterThan, []int64{1, 2}), ErrInvalidArgument)

	require.Len(t, d.cur.validations, 1)
	v := d.cur.validations[0]
	assert.Equal(t, []string{"1", "100"}, v.operands)
	assert.True(t, v.allowBlank)
	assert.True(t, v.showInput)
	assert.True(t, v.showError)
}

func TestDecimalValidationFormatting(t *testing.T) {
	d := openTestSheet(t)

	require.NoError(t, d.AddDecimalValidation("A1:A9", Between, []float64{0.5, 99.25}))
	v := d.cur.validations[0]
	assert.Equal(t, []string{"0.5", "99.25"}, v.operands)
}

func TestListValidationOptions(t *testing.T) {
	d := openTestSheet(t)

	require.NoError(t, d.AddListValidation("A1:A9", `"Yes,No"`,
		DisallowBlank(),
		HideInputMessage(),
		WithErrorMessage("Invalid", "Pick Yes or No")))
	assert.ErrorIs(t, d.AddListValidation("B1:B9", ""), ErrInvalidArgument)

	require.Len(t, d.cur.validations, 1)
	v := d.cur.validations[0]
	assert.False(t, v.allowBlank)
	assert.False(t, v.showInput)
	assert.True(t, v.showError)
	assert.Equal(t, "Invalid", v.errorTitle)
	assert.Equal(t, "Pick Yes or No", v.errorMessage)
}

func TestRulesNeedOpenSheet(t *testing.T) {
	d, err := NewBuffer()
	require.NoError(t, err)
	defer d.Close()

	assert.ErrorIs(t, d.AddFormulaFormat("A1", "A1>0", 0), ErrNoOpenSheet)
	assert.ErrorIs(t, d.AddListValidation("A1", `"a"`), ErrNoOpenSheet)
}
