package token

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keywords maps lowercase keyword strings to token types.
var keywords = map[string]Token{
	"and":       AND,
	"or":        OR,
	"not":       NOT,
	"as":        AS,
	"asc":       ASC,
	"desc":      DESC,
	"by":        BY,
	"distinct":  DISTINCT,
	"exists":    EXISTS,
	"from":      FROM,
	"full":      FULL,
	"group":     GROUP,
	"having":    HAVING,
	"in":        IN,
	"inner":     INNER,
	"into":      INTO,
	"is":        IS,
	"join":      JOIN,
	"left":      LEFT,
	"like":      LIKE,
	"limit":     LIMIT,
	"null":      NULL,
	"offset":    OFFSET,
	"on":        ON,
	"order":     ORDER,
	"outer":     OUTER,
	"over":      OVER,
	"partition": PARTITION,
	"select":    SELECT,
	"where":     WHERE,
	"window":    WINDOW,
	"with":      WITH,
	"recursive": RECURSIVE,
	"cross":     CROSS,
	"right":     RIGHT,
	"first":     FIRST,
	"last":      LAST,
	"except":    EXCEPT,
	"exclude":   EXCLUDE,
}

// fold normalizes an identifier's case the way the keyword table is keyed:
// lowercase-folded per Unicode case-folding rules, not a naive ASCII
// downcase, so keyword matching stays correct for any future non-ASCII
// keyword without further changes here.
var fold = cases.Fold()

// LookupIdent returns the token type for an identifier: a keyword token if
// ident case-insensitively matches one, else IDENT. Keyword matching is
// case-insensitive; identifier values themselves are never altered by this
// function — it only classifies.
func LookupIdent(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	folded := fold.String(ident)
	if folded == ident {
		return IDENT
	}
	if tok, ok := keywords[folded]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether ident case-insensitively names a keyword.
func IsKeyword(ident string) bool {
	return LookupIdent(ident) != IDENT
}
