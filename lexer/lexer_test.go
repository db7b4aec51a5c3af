package lexer

import (
	"testing"

	"github.com/selectql/selectql/token"
)

func collect(t *testing.T, input string) []token.Item {
	t.Helper()
	l := New(input)
	var items []token.Item
	for {
		it, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		items = append(items, it)
		if it.Type == token.EOF {
			return items
		}
	}
}

func TestScanBasics(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Item
	}{
		{
			input: "SELECT a, b FROM t",
			expected: []token.Item{
				{Type: token.SELECT, Value: "SELECT"},
				{Type: token.IDENT, Value: "a"},
				{Type: token.COMMA, Value: ","},
				{Type: token.IDENT, Value: "b"},
				{Type: token.FROM, Value: "FROM"},
				{Type: token.IDENT, Value: "t"},
				{Type: token.EOF},
			},
		},
		{
			input: "a.b.c",
			expected: []token.Item{
				{Type: token.IDENT, Value: "a"},
				{Type: token.DOT, Value: "."},
				{Type: token.IDENT, Value: "b"},
				{Type: token.DOT, Value: "."},
				{Type: token.IDENT, Value: "c"},
				{Type: token.EOF},
			},
		},
		{
			input: "1 1.5 1.5e10 1e-3 'it''s' \"q\"",
			expected: []token.Item{
				{Type: token.INT, Value: "1"},
				{Type: token.FLOAT, Value: "1.5"},
				{Type: token.FLOAT, Value: "1.5e10"},
				{Type: token.FLOAT, Value: "1e-3"},
				{Type: token.STRING, Value: "'it''s'"},
				{Type: token.STRING, Value: "\"q\""},
				{Type: token.EOF},
			},
		},
		{
			input: "<= >= <> != || * / // %",
			expected: []token.Item{
				{Type: token.LEQ, Value: "<="},
				{Type: token.GEQ, Value: ">="},
				{Type: token.NEQ, Value: "<>"},
				{Type: token.NEQ, Value: "!="},
				{Type: token.CONCAT, Value: "||"},
				{Type: token.STAR, Value: "*"},
				{Type: token.SLASH, Value: "/"},
				{Type: token.IDIV, Value: "//"},
				{Type: token.PERCENT, Value: "%"},
				{Type: token.EOF},
			},
		},
		{
			input: "select -- trailing comment\n  /* block\n comment */ from",
			expected: []token.Item{
				{Type: token.SELECT, Value: "select"},
				{Type: token.FROM, Value: "from"},
				{Type: token.EOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := collect(t, tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d tokens, want %d: %v", len(got), len(tt.expected), got)
			}
			for i, exp := range tt.expected {
				if got[i].Type != exp.Type || got[i].Value != exp.Value {
					t.Errorf("token %d: got %s(%q), want %s(%q)", i, got[i].Type, got[i].Value, exp.Type, exp.Value)
				}
			}
		})
	}
}

func TestKeywordCaseInsensitive(t *testing.T) {
	for _, form := range []string{"SELECT", "select", "SeLeCt"} {
		it, err := New(form).Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if it.Type != token.SELECT {
			t.Errorf("%q: got %s, want SELECT", form, it.Type)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("SELECT a")
	peeked, err := l.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peeked.Type != token.SELECT {
		t.Fatalf("peek: got %s, want SELECT", peeked.Type)
	}
	next, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Type != token.SELECT {
		t.Fatalf("next after peek: got %s, want SELECT", next.Type)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := New("'unterminated").Next()
	if err == nil {
		t.Fatal("expected lex error for unterminated string")
	}
}
