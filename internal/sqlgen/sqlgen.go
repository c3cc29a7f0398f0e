// Package sqlgen renders query descriptions into executable PostgreSQL.
// It is the only place that interprets scope view descriptors and
// operator semantics as SQL; the query package stays database-agnostic.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/eventware/queryspec/pkg/query"
)

const dialectPostgres = "postgres"

// fuzzyThreshold is the trigram similarity cutoff for the fuzzy
// operator.
const fuzzyThreshold = 0.5

// Build renders the query into a parameterized SELECT. The scope's
// primary key is always projected first and appended as the final sort
// key, so result order is total even when the user sorts by a
// non-unique column.
func Build(q *query.Query) (string, []any, error) {
	view, err := q.Scope.GetView()
	if err != nil {
		return "", nil, err
	}
	primaryKey, err := q.Scope.GetPrimaryKey(false)
	if err != nil {
		return "", nil, err
	}

	cols := []any{goqu.L(primaryKey)}
	for _, field := range q.Fields {
		for _, path := range query.SplitMoniker(field) {
			if path == primaryKey {
				continue
			}
			cols = append(cols, goqu.L(path))
		}
	}

	ds := goqu.Dialect(dialectPostgres).
		From(goqu.L(view)).
		Select(cols...)

	for _, c := range q.Constraints {
		entry, _ := q.Spec.Get(c.Field)
		cond, err := constraintExpr(c, entry.Type)
		if err != nil {
			return "", nil, err
		}
		ds = ds.Where(cond)
	}

	for _, o := range q.Order {
		if o.Ascending {
			ds = ds.OrderAppend(goqu.L(o.Field).Asc())
		} else {
			ds = ds.OrderAppend(goqu.L(o.Field).Desc())
		}
	}
	ds = ds.OrderAppend(goqu.L(primaryKey).Asc())

	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("building query for scope %q: %w", q.Scope, err)
	}
	return sql, args, nil
}

// constraintExpr renders one constraint. Composite monikers become a
// disjunction of the same condition over every constituent.
func constraintExpr(c query.Constraint, typ query.FieldType) (exp.Expression, error) {
	paths := query.SplitMoniker(c.Field)
	if len(paths) == 1 {
		return operatorExpr(paths[0], c.Operator, c.Value, typ)
	}

	conds := make([]exp.Expression, len(paths))
	for i, path := range paths {
		cond, err := operatorExpr(path, c.Operator, c.Value, typ)
		if err != nil {
			return nil, err
		}
		conds[i] = cond
	}
	return goqu.Or(conds...), nil
}

func operatorExpr(col string, op query.Operator, value any, typ query.FieldType) (exp.Expression, error) {
	lit := goqu.L(col)

	switch op {
	case query.OpEmpty:
		if typ == query.TypeStr {
			return goqu.Or(lit.IsNull(), lit.Eq("")), nil
		}
		return lit.IsNull(), nil
	case query.OpNonEmpty:
		if typ == query.TypeStr {
			return goqu.And(lit.IsNotNull(), lit.Neq("")), nil
		}
		return lit.IsNotNull(), nil

	case query.OpEqual:
		return lit.Eq(value), nil
	case query.OpUnequal:
		return lit.Neq(value), nil
	case query.OpEqualOrNull:
		return goqu.Or(lit.Eq(value), lit.IsNull()), nil
	case query.OpUnequalOrNull:
		return goqu.Or(lit.Neq(value), lit.IsNull()), nil

	case query.OpOneOf:
		values, err := valueList(op, value)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return goqu.L("FALSE"), nil
		}
		return lit.In(values...), nil
	case query.OpOtherThan:
		values, err := valueList(op, value)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return goqu.L("TRUE"), nil
		}
		return lit.NotIn(values...), nil

	case query.OpContainsAll, query.OpContainsNone, query.OpContainsSome:
		return containsExpr(lit, op, value)

	case query.OpMatch:
		return lit.ILike(patternFor(value)), nil
	case query.OpNoMatch:
		return lit.NotILike(patternFor(value)), nil
	case query.OpRegex:
		return goqu.L(col+" ~ ?", value), nil
	case query.OpNotRegex:
		return goqu.L(col+" !~ ?", value), nil
	case query.OpFuzzy:
		return goqu.L(fmt.Sprintf("similarity(%s, ?) > %g", col, fuzzyThreshold), value), nil

	case query.OpLess:
		return lit.Lt(value), nil
	case query.OpLessEqual:
		return lit.Lte(value), nil
	case query.OpMoreEqual:
		return lit.Gte(value), nil
	case query.OpMore:
		return lit.Gt(value), nil
	case query.OpBetween, query.OpOutside:
		values, err := valueList(op, value)
		if err != nil {
			return nil, err
		}
		if len(values) != 2 {
			return nil, fmt.Errorf("operator %s on %s: want two operands, got %d", op, col, len(values))
		}
		if op == query.OpBetween {
			return lit.Between(goqu.Range(values[0], values[1])), nil
		}
		return lit.NotBetween(goqu.Range(values[0], values[1])), nil
	}

	return nil, fmt.Errorf("operator %s on %s: no SQL rendering", op, col)
}

// containsExpr renders the substring set operators as a conjunction or
// disjunction of case-insensitive pattern matches.
func containsExpr(lit exp.LiteralExpression, op query.Operator, value any) (exp.Expression, error) {
	values, err := valueList(op, value)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return goqu.L("TRUE"), nil
	}

	conds := make([]exp.Expression, len(values))
	for i, v := range values {
		if op == query.OpContainsNone {
			conds[i] = lit.NotILike(patternFor(v))
		} else {
			conds[i] = lit.ILike(patternFor(v))
		}
	}
	if op == query.OpContainsSome {
		return goqu.Or(conds...), nil
	}
	return goqu.And(conds...), nil
}

func valueList(op query.Operator, value any) ([]any, error) {
	values, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("operator %s: operand is not a list", op)
	}
	return values, nil
}

// patternFor wraps the operand in wildcards for substring matching,
// escaping LIKE metacharacters inside the operand itself.
func patternFor(value any) string {
	s := fmt.Sprintf("%v", value)
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}
