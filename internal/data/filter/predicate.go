package filter

import (
	"fmt"
	"strings"

	"gorm.io/gorm/clause"
)

// Pred is a node of the predicate tree. Column names are relative to the table in scope
// where the node is compiled; Exists moves the scope to its subquery table.
type Pred interface {
	build(c *compiler) clause.Expression
}

type Op string

const (
	OpEq  Op = "="
	OpNeq Op = "<>"
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
)

type (
	And []Pred
	Or  []Pred
	Not struct{ P Pred }

	Cmp struct {
		Column string
		Op     Op
		Value  interface{}
	}

	// Like matches Pattern as-is; callers escape user input with EscapeLike.
	// Fold compares lowercased column and pattern.
	Like struct {
		Column  string
		Pattern string
		Fold    bool
	}

	In struct {
		Column string
		Values []interface{}
		Fold   bool
	}

	// Exists is a correlated subquery: a row of Table whose Link column equals the
	// outer OuterColumn (default "id") and which satisfies Where.
	Exists struct {
		Table       string
		Link        string
		OuterColumn string
		Where       Pred
	}
)

// Compile renders p against table. A nil predicate compiles to nil.
func Compile(table string, p Pred) clause.Expression {
	if p == nil {
		return nil
	}
	c := &compiler{table: table}
	return c.build(p)
}

type compiler struct {
	table string
	n     int
}

func (c *compiler) build(p Pred) clause.Expression {
	if p == nil {
		return nil
	}
	return p.build(c)
}

func (c *compiler) col(name string) clause.Column {
	return clause.Column{Table: c.table, Name: name}
}

func (a And) build(c *compiler) clause.Expression {
	exprs := make([]clause.Expression, 0, len(a))
	for _, p := range a {
		if e := c.build(p); e != nil {
			exprs = append(exprs, e)
		}
	}
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	return clause.Expr{SQL: "(" + joinPlaceholders(len(exprs), " AND ") + ")", Vars: toVars(exprs)}
}

func (o Or) build(c *compiler) clause.Expression {
	exprs := make([]clause.Expression, 0, len(o))
	for _, p := range o {
		if e := c.build(p); e != nil {
			exprs = append(exprs, e)
		}
	}
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	return clause.Expr{SQL: "(" + joinPlaceholders(len(exprs), " OR ") + ")", Vars: toVars(exprs)}
}

func (n Not) build(c *compiler) clause.Expression {
	e := c.build(n.P)
	if e == nil {
		return nil
	}
	return clause.Expr{SQL: "NOT (?)", Vars: []interface{}{e}}
}

func (p Cmp) build(c *compiler) clause.Expression {
	op := p.Op
	if op == "" {
		op = OpEq
	}
	return clause.Expr{SQL: "? " + string(op) + " ?", Vars: []interface{}{c.col(p.Column), p.Value}}
}

func (p Like) build(c *compiler) clause.Expression {
	if p.Fold {
		return clause.Expr{
			SQL:  `LOWER(?) LIKE ? ESCAPE '\'`,
			Vars: []interface{}{c.col(p.Column), strings.ToLower(p.Pattern)},
		}
	}
	return clause.Expr{SQL: `? LIKE ? ESCAPE '\'`, Vars: []interface{}{c.col(p.Column), p.Pattern}}
}

func (p In) build(c *compiler) clause.Expression {
	if len(p.Values) == 0 {
		return clause.Expr{SQL: "1 = 0"}
	}
	if p.Fold {
		vals := make([]interface{}, len(p.Values))
		for i, v := range p.Values {
			if s, ok := v.(string); ok {
				v = strings.ToLower(s)
			}
			vals[i] = v
		}
		return clause.Expr{SQL: "LOWER(?) IN ?", Vars: []interface{}{c.col(p.Column), vals}}
	}
	return clause.Expr{SQL: "? IN ?", Vars: []interface{}{c.col(p.Column), p.Values}}
}

func (p Exists) build(c *compiler) clause.Expression {
	outer := p.OuterColumn
	if outer == "" {
		outer = "id"
	}
	outerCol := c.col(outer)

	c.n++
	alias := fmt.Sprintf("x%d", c.n)
	saved := c.table
	c.table = alias
	inner := c.build(p.Where)
	link := c.col(p.Link)
	c.table = saved

	from := clause.Table{Name: p.Table, Alias: alias}
	if inner == nil {
		return clause.Expr{
			SQL:  "EXISTS (SELECT 1 FROM ? WHERE ? = ?)",
			Vars: []interface{}{from, link, outerCol},
		}
	}
	return clause.Expr{
		SQL:  "EXISTS (SELECT 1 FROM ? WHERE ? = ? AND ?)",
		Vars: []interface{}{from, link, outerCol, inner},
	}
}

// EscapeLike escapes LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func joinPlaceholders(n int, sep string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "(?)"
	}
	return strings.Join(parts, sep)
}

func toVars(exprs []clause.Expression) []interface{} {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		out[i] = e
	}
	return out
}
