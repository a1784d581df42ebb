// Package formula carries the model-description side of the pipeline: the
// Frame tree handed over by the (external) formula layer, the addition-term
// slots attached to a response, and a small expression evaluator that turns
// an addition-term right-hand side into a per-observation column.
//
// Expression grammar (deliberately tiny):
//
//	expr    := term (('+'|'-') term)*
//	term    := unary (('*'|'/') unary)*
//	unary   := '-' unary | primary
//	primary := NUMBER | IDENT | IDENT '(' expr ')' | '(' expr ')'
//
// Identifiers name table columns; the supported calls are abs, log, log1p,
// exp and sqrt. A bare identifier evaluates to the column itself (any kind);
// as soon as arithmetic is involved every operand must be numeric-coercible.
// Scalars broadcast against vectors inside binary operators.
//
// Failure contract: a declared-but-absent term fails with
// ErrMissingAdditionTerm; anything that cannot be parsed or evaluated against
// the table fails with ErrMalformedAdditionTerm. Both are fatal to the
// enclosing bundle assembly.
package formula
