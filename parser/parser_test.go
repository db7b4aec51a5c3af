package parser

import (
	"testing"

	"github.com/selectql/selectql/ast"
)

func TestParseSelectShapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCols int
	}{
		{"star", "SELECT * FROM users", 1},
		{"two columns", "SELECT id, name FROM users", 2},
		{"three columns with where", "SELECT id, name, email FROM users WHERE id = 1", 3},
		{"dotted columns with join", "SELECT a.id, b.name FROM a JOIN b ON a.id = b.a_id", 2},
		{"function call", "SELECT COUNT(*) FROM users", 1},
		{"distinct", "SELECT DISTINCT name FROM users", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := ParseSelectStatement(tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if len(stmt.Body.Projection) != tt.wantCols {
				t.Errorf("expected %d projection items, got %d", tt.wantCols, len(stmt.Body.Projection))
			}
		})
	}
}

func TestParseWildcardOptions(t *testing.T) {
	stmt, err := ParseSelectStatement("SELECT * EXCLUDE (a, b) EXCEPT (c) FROM t")
	if err != nil {
		t.Fatal(err)
	}
	item, ok := stmt.Body.Projection[0].(*ast.WildcardItem)
	if !ok {
		t.Fatalf("expected WildcardItem, got %T", stmt.Body.Projection[0])
	}
	if len(item.Options.Exclude) != 2 || len(item.Options.Except) != 1 {
		t.Errorf("unexpected wildcard options: %+v", item.Options)
	}
}

func TestParseExprPrecedence(t *testing.T) {
	stmt, err := ParseSelectStatement("SELECT a + b * c FROM t")
	if err != nil {
		t.Fatal(err)
	}
	item, ok := stmt.Body.Projection[0].(*ast.UnnamedExpr)
	if !ok {
		t.Fatalf("expected UnnamedExpr, got %T", stmt.Body.Projection[0])
	}
	top, ok := item.Expr.(*ast.BinaryOp)
	if !ok || top.Op != ast.OpAdd {
		t.Fatalf("expected top-level '+', got %#v", item.Expr)
	}
	if _, ok := top.Right.(*ast.BinaryOp); !ok {
		t.Fatalf("expected right side to be the tighter-binding '*' subtree, got %#v", top.Right)
	}
}

func TestParseInListAndInSubquery(t *testing.T) {
	stmt, err := ParseSelectStatement("SELECT * FROM t WHERE a IN (1, 2, 3)")
	if err != nil {
		t.Fatal(err)
	}
	in, ok := stmt.Body.Selection.(*ast.InList)
	if !ok {
		t.Fatalf("expected InList, got %#v", stmt.Body.Selection)
	}
	if in.Not || len(in.List) != 3 {
		t.Errorf("unexpected InList: %+v", in)
	}

	stmt, err = ParseSelectStatement("SELECT * FROM t WHERE a NOT IN (SELECT a FROM u)")
	if err != nil {
		t.Fatal(err)
	}
	sub, ok := stmt.Body.Selection.(*ast.InSubquery)
	if !ok || !sub.Not {
		t.Fatalf("expected negated InSubquery, got %#v", stmt.Body.Selection)
	}
}

func TestParseExistsRequiresExistsAfterNot(t *testing.T) {
	if _, err := ParseSelectStatement("SELECT * FROM t WHERE NOT a"); err == nil {
		t.Fatal("expected error: bare NOT is not in the accepted grammar")
	}
}

func TestParseJoinTree(t *testing.T) {
	stmt, err := ParseSelectStatement("SELECT * FROM a LEFT JOIN b ON a.id = b.id CROSS JOIN c")
	if err != nil {
		t.Fatal(err)
	}
	outer, ok := stmt.Body.From.(*ast.Join)
	if !ok || outer.Op != ast.CrossJoin {
		t.Fatalf("expected outer join to be the cross join, got %#v", stmt.Body.From)
	}
	inner, ok := outer.Left.(*ast.Join)
	if !ok || inner.Op != ast.LeftOuter {
		t.Fatalf("expected left subtree to be the left-outer join, got %#v", outer.Left)
	}
	if _, ok := inner.Condition.(*ast.OnCondition); !ok {
		t.Errorf("expected ON condition on the left-outer join")
	}
	if _, ok := outer.Condition.(*ast.NoCondition); !ok {
		t.Errorf("expected no ON condition on the cross join")
	}
}

func TestParseJoinRejectsAliasOnParenthesizedJoin(t *testing.T) {
	if _, err := ParseSelectStatement("SELECT * FROM (a JOIN b ON a.id = b.id) AS t"); err == nil {
		t.Fatal("expected error: a parenthesized join cannot be aliased")
	}
}

func TestParseCTE(t *testing.T) {
	stmt, err := ParseSelectStatement("WITH c(x, y) AS (SELECT a, b FROM t) SELECT * FROM c")
	if err != nil {
		t.Fatal(err)
	}
	if stmt.With == nil || len(stmt.With.CTEs) != 1 {
		t.Fatalf("expected one CTE, got %#v", stmt.With)
	}
	cte := stmt.With.CTEs[0]
	if cte.Alias.Name != "c" || len(cte.Alias.Columns) != 2 {
		t.Errorf("unexpected CTE alias: %+v", cte.Alias)
	}
}

func TestParseLimitOffsetShapes(t *testing.T) {
	tests := []struct {
		input      string
		wantLimit  bool
		wantOffset bool
	}{
		{"SELECT a FROM t LIMIT 10", true, false},
		{"SELECT a FROM t LIMIT 10 OFFSET 5", true, true},
		{"SELECT a FROM t LIMIT 5, 10", true, true},
		{"SELECT a FROM t OFFSET 5", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := ParseSelectStatement(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if (stmt.Limit != nil) != tt.wantLimit {
				t.Errorf("Limit presence = %v, want %v", stmt.Limit != nil, tt.wantLimit)
			}
			if (stmt.Offset != nil) != tt.wantOffset {
				t.Errorf("Offset presence = %v, want %v", stmt.Offset != nil, tt.wantOffset)
			}
		})
	}
}

func TestParseOrderByDirection(t *testing.T) {
	stmt, err := ParseSelectStatement("SELECT a FROM t ORDER BY a DESC, b, c ASC")
	if err != nil {
		t.Fatal(err)
	}
	want := []ast.OrderDirection{ast.Desc, ast.Unspecified, ast.Asc}
	if len(stmt.OrderBy) != len(want) {
		t.Fatalf("expected %d ORDER BY items, got %d", len(want), len(stmt.OrderBy))
	}
	for i, ob := range stmt.OrderBy {
		if ob.Dir != want[i] {
			t.Errorf("item %d: got direction %v, want %v", i, ob.Dir, want[i])
		}
	}
}

func TestParseWindowFunction(t *testing.T) {
	stmt, err := ParseSelectStatement("SELECT rank() OVER (PARTITION BY a ORDER BY b DESC) FROM t")
	if err != nil {
		t.Fatal(err)
	}
	item, ok := stmt.Body.Projection[0].(*ast.UnnamedExpr)
	if !ok {
		t.Fatalf("expected UnnamedExpr, got %T", stmt.Body.Projection[0])
	}
	fn, ok := item.Expr.(*ast.Function)
	if !ok {
		t.Fatalf("expected Function, got %#v", item.Expr)
	}
	spec, ok := fn.Over.(*ast.WindowSpec)
	if !ok {
		t.Fatalf("expected inline WindowSpec, got %#v", fn.Over)
	}
	if len(spec.PartitionBy) != 1 || len(spec.OrderBy) != 1 {
		t.Errorf("unexpected window spec: %+v", spec)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"SELECT a FROM",
		"SELECT a + FROM t",
		"(SELECT 1) AS t INNER JOIN",
		"SELECT a FROM t WHERE",
		"SELECT a FROM t WHERE a IN (1, 2",
	}
	for _, input := range tests {
		if _, err := ParseSelectStatement(input); err == nil {
			t.Errorf("ParseSelectStatement(%q): expected error, got none", input)
		}
	}
}
