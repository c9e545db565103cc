package stock

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// DefaultLowStockRule flags an item once it falls to its reorder threshold.
const DefaultLowStockRule = "current_stock <= minimum_stock"

// LowStockRule is a compiled CEL predicate over an item's stock level.
//
// Variables: current_stock (double), minimum_stock (double), item_type (string), name (string).
type LowStockRule struct {
	expr string
	prg  cel.Program
}

// NewLowStockRule compiles expr. An empty expr selects DefaultLowStockRule.
func NewLowStockRule(expr string) (*LowStockRule, error) {
	if expr == "" {
		expr = DefaultLowStockRule
	}

	env, err := cel.NewEnv(
		cel.Variable("current_stock", cel.DoubleType),
		cel.Variable("minimum_stock", cel.DoubleType),
		cel.Variable("item_type", cel.StringType),
		cel.Variable("name", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("low stock rule env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile low stock rule %q: %w", expr, iss.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program low stock rule %q: %w", expr, err)
	}

	rule := &LowStockRule{expr: expr, prg: prg}
	if _, err := rule.Matches(Level{}); err != nil {
		return nil, err
	}
	return rule, nil
}

// String returns the source expression.
func (r *LowStockRule) String() string { return r.expr }

// Matches evaluates the rule against level.
func (r *LowStockRule) Matches(level Level) (bool, error) {
	out, _, err := r.prg.Eval(map[string]any{
		"current_stock": level.CurrentStock.Float64(),
		"minimum_stock": level.MinimumStock.Float64(),
		"item_type":     level.ItemType,
		"name":          level.Name,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate low stock rule: %w", err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("low stock rule %q must evaluate to bool, got %T", r.expr, out.Value())
	}
	return matched, nil
}
