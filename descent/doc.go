// Package descent implements a fail-fast validator for a small imperative
// teaching grammar.
//
// The grammar has blocks, assignments, conditionals, while loops and
// two-operand prefix arithmetic over the variables a, b, c and the digits
// 0, 1, 2:
//
//	<program>   ::= program <block> .
//	<block>     ::= begin <stmtlist> end
//	<stmtlist>  ::= <stmt> <morestmts>
//	<morestmts> ::= ; <stmtlist> | empty
//	<stmt>      ::= <assign> | <ifstmt> | <whilestmt> | <block>
//	<assign>    ::= <variable> = <expr>
//	<ifstmt>    ::= if <testexpr> then <stmt> else <stmt>
//	<whilestmt> ::= while <testexpr> do <stmt>
//	<testexpr>  ::= <variable> <= <expr>
//	<expr>      ::= + <expr> <expr> | * <expr> <expr> | <variable> | <digit>
//	<variable>  ::= a | b | c
//	<digit>     ::= 0 | 1 | 2
//
// The package has three layers:
//
//   - LineSource: supplies raw text lines on demand.
//   - Lexer: splits lines into whitespace-delimited lexemes and keeps the
//     single lookahead token.
//   - Parser: one method per production, driven by the lookahead token.
//
// No tree is built. A successful parse reports how many assignments and
// variable references were seen; the first violation stops the parse with a
// *SyntaxError naming the production that failed.
//
// Usage:
//
//	res, err := descent.ParseString("program begin a = 0 end.", descent.Options{})
//	if err != nil {
//	    os.Exit(descent.ExitCode(err))
//	}
//	fmt.Println(res.Assignments, res.VariableRefs)
//
// By default the operands of + and * must be a variable or a digit, not a
// nested expression. Options.NestedExpr accepts the fully recursive form.
package descent
