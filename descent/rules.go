package descent

import "fmt"

// Rule identifies a grammar production. Its code is the process status used
// when the production is fatally violated.
type Rule int

const (
	RuleProgram   Rule = 100
	RuleBlock     Rule = 101
	RuleStmtList  Rule = 102
	RuleMoreStmts Rule = 103
	RuleStmt      Rule = 104
	RuleAssign    Rule = 105 // reserved: rejection is reported by stmt
	RuleIfStmt    Rule = 106
	RuleWhileStmt Rule = 107
	RuleTestExpr  Rule = 108 // reserved: escalated by ifstmt or whilestmt
	RuleExpr      Rule = 109
	RuleVariable  Rule = 110 // reserved
	RuleDigit     Rule = 111 // reserved
)

// Exit statuses for failures that are not grammar violations.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitInputExhausted = 112
	ExitTokenTooLong   = 113
)

type ruleInfo struct {
	name       string
	production string
}

var rules = map[Rule]ruleInfo{
	RuleProgram:   {"program", "<program> ::= program <block> ."},
	RuleBlock:     {"block", "<block> ::= begin <stmtlist> end"},
	RuleStmtList:  {"stmtlist", "<stmtlist> ::= <stmt> <morestmts>"},
	RuleMoreStmts: {"morestmts", "<morestmts> ::= ; <stmtlist> | empty"},
	RuleStmt:      {"stmt", "<stmt> ::= <assign> | <ifstmt> | <whilestmt> | <block>"},
	RuleAssign:    {"assign", "<assign> ::= <variable> = <expr>"},
	RuleIfStmt:    {"ifstmt", "<ifstmt> ::= if <testexpr> then <stmt> else <stmt>"},
	RuleWhileStmt: {"whilestmt", "<whilestmt> ::= while <testexpr> do <stmt>"},
	RuleTestExpr:  {"testexpr", "<testexpr> ::= <variable> <= <expr>"},
	RuleExpr:      {"expr", "<expr> ::= + <expr> <expr> | * <expr> <expr> | <variable> | <digit>"},
	RuleVariable:  {"variable", "<variable> ::= a | b | c"},
	RuleDigit:     {"digit", "<digit> ::= 0 | 1 | 2"},
}

// Rules returns every production in code order.
func Rules() []Rule {
	out := make([]Rule, 0, len(rules))
	for r := RuleProgram; r <= RuleDigit; r++ {
		out = append(out, r)
	}
	return out
}

func (r Rule) String() string {
	if info, ok := rules[r]; ok {
		return info.name
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// Code returns the exit status reported when r is violated.
func (r Rule) Code() int { return int(r) }

// Production returns the BNF form of r.
func (r Rule) Production() string {
	return rules[r].production
}
