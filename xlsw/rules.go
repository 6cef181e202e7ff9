package xlsw

import (
	"fmt"
	"strconv"
)

// Operator is a comparison operator shared by cell-is conditional formatting
// rules and data validation rules (ST_ConditionalFormattingOperator /
// ST_DataValidationOperator).
type Operator string

const (
	Between            Operator = "between"
	NotBetween         Operator = "notBetween"
	Equal              Operator = "equal"
	NotEqual           Operator = "notEqual"
	GreaterThan        Operator = "greaterThan"
	GreaterThanOrEqual Operator = "greaterThanOrEqual"
	LessThan           Operator = "lessThan"
	LessThanOrEqual    Operator = "lessThanOrEqual"
)

func (op Operator) valid() bool {
	switch op {
	case Between, NotBetween, Equal, NotEqual,
		GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual:
		return true
	}
	return false
}

// operandCount is the number of literal operands the operator consumes.
func (op Operator) operandCount() int {
	if op == Between || op == NotBetween {
		return 2
	}
	return 1
}

func checkOperands(op Operator, got int) error {
	if !op.valid() {
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidArgument, string(op))
	}
	want := op.operandCount()
	switch {
	case got < want:
		return fmt.Errorf("%w: operator %q needs %d operand(s), got %d", ErrMissingOperand, string(op), want, got)
	case got > want:
		return fmt.Errorf("%w: operator %q takes %d operand(s), got %d", ErrInvalidArgument, string(op), want, got)
	}
	return nil
}

type cfRuleKind int

const (
	cfFormula cfRuleKind = iota
	cfCellIs
	cfDuplicateValues
)

// cfRule is one queued conditional formatting rule. Priority is assigned on
// queueing: 1 + number of rules already queued on the sheet.
type cfRule struct {
	kind     cfRuleKind
	rng      Range
	diffID   int
	priority int
	op       Operator // cellIs only
	operands []string
}

type validationKind int

const (
	validateList validationKind = iota
	validateInteger
	validateDecimal
)

func (k validationKind) attr() string {
	switch k {
	case validateList:
		return "list"
	case validateInteger:
		return "whole"
	default:
		return "decimal"
	}
}

// validation is one queued data validation rule.
type validation struct {
	kind     validationKind
	rng      Range
	op       Operator // integer/decimal only
	operands []string // pre-formatted, locale-invariant

	allowBlank   bool
	showInput    bool
	showError    bool
	promptTitle  string
	prompt       string
	errorTitle   string
	errorMessage string
}

// ValidationOption adjusts a data validation rule's display behavior.
// Blank cells are allowed and both messages are shown unless turned off.
type ValidationOption func(*validation)

// DisallowBlank makes blank cells fail the validation.
func DisallowBlank() ValidationOption {
	return func(v *validation) { v.allowBlank = false }
}

// HideInputMessage suppresses the input prompt.
func HideInputMessage() ValidationOption {
	return func(v *validation) { v.showInput = false }
}

// HideErrorMessage suppresses the rejection alert.
func HideErrorMessage() ValidationOption {
	return func(v *validation) { v.showError = false }
}

// WithPrompt sets the input message shown while a validated cell is selected.
func WithPrompt(title, text string) ValidationOption {
	return func(v *validation) { v.promptTitle, v.prompt = title, text }
}

// WithErrorMessage sets the alert shown when input fails the validation.
func WithErrorMessage(title, text string) ValidationOption {
	return func(v *validation) { v.errorTitle, v.errorMessage = title, text }
}

// AddFormulaFormat queues a conditional formatting rule that applies the
// differential style diffStyle wherever the boolean formula holds.
func (d *Document) AddFormulaFormat(ref, formula string, diffStyle int) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	rng, err := ParseRange(ref)
	if err != nil {
		return err
	}
	if formula == "" {
		return fmt.Errorf("%w: empty formula", ErrInvalidArgument)
	}
	if diffStyle < 0 {
		return fmt.Errorf("%w: negative differential style index", ErrInvalidArgument)
	}
	sh.cfRules = append(sh.cfRules, cfRule{
		kind:     cfFormula,
		rng:      rng,
		diffID:   diffStyle,
		priority: len(sh.cfRules) + 1,
		operands: []string{formula},
	})
	return nil
}

// AddCellIsFormat queues a cell-is conditional formatting rule. Between and
// NotBetween take two operands, every other operator exactly one.
func (d *Document) AddCellIsFormat(ref string, op Operator, diffStyle int, operands ...string) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	rng, err := ParseRange(ref)
	if err != nil {
		return err
	}
	if diffStyle < 0 {
		return fmt.Errorf("%w: negative differential style index", ErrInvalidArgument)
	}
	if err := checkOperands(op, len(operands)); err != nil {
		return err
	}
	sh.cfRules = append(sh.cfRules, cfRule{
		kind:     cfCellIs,
		rng:      rng,
		diffID:   diffStyle,
		priority: len(sh.cfRules) + 1,
		op:       op,
		operands: append([]string(nil), operands...),
	})
	return nil
}

// AddDuplicateValuesFormat queues a rule highlighting duplicate values in
// the range with the differential style diffStyle.
func (d *Document) AddDuplicateValuesFormat(ref string, diffStyle int) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	rng, err := ParseRange(ref)
	if err != nil {
		return err
	}
	if diffStyle < 0 {
		return fmt.Errorf("%w: negative differential style index", ErrInvalidArgument)
	}
	sh.cfRules = append(sh.cfRules, cfRule{
		kind:     cfDuplicateValues,
		rng:      rng,
		diffID:   diffStyle,
		priority: len(sh.cfRules) + 1,
	})
	return nil
}

// AddListValidation queues a list validation restricting the range to the
// values produced by source, e.g. `"Yes,No"` or `$D$1:$D$4`.
func (d *Document) AddListValidation(ref, source string, opts ...ValidationOption) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	rng, err := ParseRange(ref)
	if err != nil {
		return err
	}
	if source == "" {
		return fmt.Errorf("%w: empty list source", ErrInvalidArgument)
	}
	v := validation{
		kind:     validateList,
		rng:      rng,
		operands: []string{source},
	}
	sh.validations = append(sh.validations, applyValidationOpts(v, opts))
	return nil
}

// AddIntegerValidation queues a whole-number validation. Between and
// NotBetween take two operands, every other operator exactly one.
func (d *Document) AddIntegerValidation(ref string, op Operator, operands []int64, opts ...ValidationOption) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	rng, err := ParseRange(ref)
	if err != nil {
		return err
	}
	if err := checkOperands(op, len(operands)); err != nil {
		return err
	}
	v := validation{kind: validateInteger, rng: rng, op: op}
	for _, n := range operands {
		v.operands = append(v.operands, strconv.FormatInt(n, 10))
	}
	sh.validations = append(sh.validations, applyValidationOpts(v, opts))
	return nil
}

// AddDecimalValidation queues a decimal validation with the same operand
// rules as AddIntegerValidation. Operands are formatted locale-invariantly.
func (d *Document) AddDecimalValidation(ref string, op Operator, operands []float64, opts ...ValidationOption) error {
	sh, err := d.openSheet()
	if err != nil {
		return err
	}
	rng, err := ParseRange(ref)
	if err != nil {
		return err
	}
	if err := checkOperands(op, len(operands)); err != nil {
		return err
	}
	v := validation{kind: validateDecimal, rng: rng, op: op}
	for _, f := range operands {
		v.operands = append(v.operands, strconv.FormatFloat(f, 'f', -1, 64))
	}
	sh.validations = append(sh.validations, applyValidationOpts(v, opts))
	return nil
}

func applyValidationOpts(v validation, opts []ValidationOption) validation {
	v.allowBlank = true
	v.showInput = true
	v.showError = true
	for _, o := range opts {
		o(&v)
	}
	return v
}
