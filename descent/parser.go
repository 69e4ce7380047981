package descent

import (
	"fmt"
	"strings"
	"time"
)

// Options configures a parse.
type Options struct {
	// NestedExpr lets the operands of + and * be full expressions instead
	// of only a variable or a digit.
	NestedExpr bool
	// MaxTokenLength bounds lexeme length; 0 means DefaultMaxTokenLength.
	MaxTokenLength int
	// Events, if set, receives line, rule and token events as the parse
	// runs.
	Events *EventEmitter
}

// Result summarises a successful parse.
type Result struct {
	Assignments  int `json:"assignments" yaml:"assignments"`
	VariableRefs int `json:"variable_refs" yaml:"variable_refs"`
	Lines        int `json:"lines" yaml:"lines"`
}

// Parse validates one program read from src.
// Returns a *SyntaxError for a grammar violation or a *LexError when the
// input cannot be tokenized.
func Parse(src LineSource, opts Options) (*Result, error) {
	start := time.Now()
	p := newParser(src, opts)
	if err := p.parse(); err != nil {
		p.events.Emit(ParseFailedEvent(err, time.Since(start)))
		return nil, err
	}
	res := &Result{
		Assignments:  p.assignments,
		VariableRefs: p.varRefs,
		Lines:        p.lex.LinesRead(),
	}
	p.events.Emit(ParseCompletedEvent(res, time.Since(start)))
	return res, nil
}

// ParseString validates the program in text.
func ParseString(text string, opts Options) (*Result, error) {
	return Parse(NewReaderSource(strings.NewReader(text)), opts)
}

// parser holds the state shared by every rule: the lexer with its lookahead
// token and the two counters. Each rule is entered with the next unconsumed
// lexeme as the lookahead and, when it matches, leaves the first lexeme past
// its match there.
type parser struct {
	lex    *Lexer
	opts   Options
	events *EventEmitter
	depth  int

	assignments int
	varRefs     int
}

func newParser(src LineSource, opts Options) *parser {
	p := &parser{
		lex:    NewLexer(src, WithMaxTokenLength(opts.MaxTokenLength)),
		opts:   opts,
		events: opts.Events,
	}
	if p.events != nil {
		p.lex.OnLine = func(lineNo int, text string) {
			p.events.Emit(LineReadEvent(lineNo, text))
		}
	}
	return p
}

func (p *parser) parse() error {
	if _, err := p.lex.Next(); err != nil {
		return err
	}
	return p.program()
}

func (p *parser) at(kinds ...TokenKind) bool {
	cur := p.lex.Current().Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// consume moves past the current token.
func (p *parser) consume() error {
	tok := p.lex.Current()
	if _, err := p.lex.Next(); err != nil {
		return err
	}
	if p.events != nil {
		p.events.Emit(TokenConsumedEvent(tok, p.depth))
	}
	return nil
}

// fail builds the fatal error for rule at the current token.
func (p *parser) fail(rule Rule, expected, format string, args ...any) error {
	tok := p.lex.Current()
	if p.events != nil {
		p.events.Emit(RuleEvent(EventRuleFailed, rule, p.depth, tok))
	}
	return &SyntaxError{
		ParseError: ParseError{
			Message: fmt.Sprintf(format, args...),
			Pos:     tok.Pos,
		},
		Rule:       rule,
		Expected:   expected,
		Got:        tok.Literal,
		Source:     p.lex.Line(),
		SourceLine: p.lex.LineNumber(),
	}
}

// trace reports rule entry now and rule exit when the returned func runs.
// matched may be nil for rules that either match or fail fatally.
func (p *parser) trace(rule Rule) func(matched *bool, err *error) {
	p.depth++
	if p.events != nil {
		p.events.Emit(RuleEvent(EventRuleEntered, rule, p.depth, p.lex.Current()))
	}
	return func(matched *bool, err *error) {
		if p.events != nil {
			switch {
			case *err != nil:
				// Already reported where it was raised.
			case matched != nil && !*matched:
				p.events.Emit(RuleEvent(EventRuleRejected, rule, p.depth, p.lex.Current()))
			default:
				p.events.Emit(RuleEvent(EventRuleMatched, rule, p.depth, p.lex.Current()))
			}
		}
		p.depth--
	}
}

type checkpoint struct {
	lex         Checkpoint
	assignments int
	varRefs     int
}

func (p *parser) mark() checkpoint {
	return checkpoint{
		lex:         p.lex.Mark(),
		assignments: p.assignments,
		varRefs:     p.varRefs,
	}
}

func (p *parser) restore(rule Rule, cp checkpoint) {
	p.lex.Restore(cp.lex)
	p.assignments, p.varRefs = cp.assignments, cp.varRefs
	if p.events != nil {
		p.events.Emit(BacktrackedEvent(rule, p.lex.Current(), p.depth))
	}
}

func (p *parser) release(cp checkpoint) {
	p.lex.Release(cp.lex)
}

// program ::= program <block> .
func (p *parser) program() (err error) {
	defer p.trace(RuleProgram)(nil, &err)

	if !p.at(TokenProgram) {
		return p.fail(RuleProgram, "'program'", `reserved word "program" missing`)
	}
	if err := p.consume(); err != nil {
		return err
	}

	ok, err := p.block()
	if err != nil {
		return err
	}
	if !ok {
		return p.fail(RuleBlock, "'begin'", `block missing reserved word "begin"`)
	}

	// block leaves a fused "end." unconsumed; it doubles as the terminator.
	if !p.at(TokenDot, TokenEndDot) {
		return p.fail(RuleProgram, "'.'", `program missing terminating "."`)
	}
	return nil
}

// block ::= begin <stmtlist> end
//
// A missing "begin" is a rejection, not a failure, so stmt can try its
// other alternatives.
func (p *parser) block() (matched bool, err error) {
	defer p.trace(RuleBlock)(&matched, &err)

	if !p.at(TokenBegin) {
		return false, nil
	}
	if err := p.consume(); err != nil {
		return false, err
	}
	if err := p.stmtlist(); err != nil {
		return false, err
	}

	switch {
	case p.at(TokenEnd):
		if err := p.consume(); err != nil {
			return false, err
		}
	case p.at(TokenEndDot):
		// Left for program.
	default:
		return false, p.fail(RuleBlock, "'end'", `block missing reserved word "end"`)
	}
	return true, nil
}

// stmtlist ::= <stmt> <morestmts>
func (p *parser) stmtlist() (err error) {
	defer p.trace(RuleStmtList)(nil, &err)

	if err := p.stmt(); err != nil {
		return err
	}
	return p.morestmts()
}

// morestmts ::= ; <stmtlist> | empty
func (p *parser) morestmts() (err error) {
	defer p.trace(RuleMoreStmts)(nil, &err)

	switch {
	case p.at(TokenEnd, TokenEndDot):
		return nil
	case p.at(TokenSemicolon):
		if err := p.consume(); err != nil {
			return err
		}
		return p.stmtlist()
	default:
		return p.fail(RuleMoreStmts, "';' or 'end'", "bad morestmts")
	}
}

// stmt ::= <assign> | <ifstmt> | <whilestmt> | <block>
func (p *parser) stmt() (err error) {
	defer p.trace(RuleStmt)(nil, &err)

	alternatives := []func() (bool, error){p.assign, p.ifstmt, p.whilestmt, p.block}
	for _, alt := range alternatives {
		ok, err := alt()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return p.fail(RuleStmt, "statement", "bad stmt")
}

// assign ::= <variable> = <expr>
//
// The variable is consumed and counted before "=" is checked; without "="
// the lexer and counters are rolled back so the lookahead is unchanged.
func (p *parser) assign() (matched bool, err error) {
	defer p.trace(RuleAssign)(&matched, &err)

	cp := p.mark()
	ok, err := p.variable()
	if err != nil || !ok {
		p.release(cp)
		return false, err
	}
	if !p.at(TokenAssign) {
		p.restore(RuleAssign, cp)
		return false, nil
	}
	p.release(cp)

	if err := p.consume(); err != nil {
		return false, err
	}
	if err := p.expr(); err != nil {
		return false, err
	}
	p.assignments++
	return true, nil
}

// ifstmt ::= if <testexpr> then <stmt> else <stmt>
func (p *parser) ifstmt() (matched bool, err error) {
	defer p.trace(RuleIfStmt)(&matched, &err)

	if !p.at(TokenIf) {
		return false, nil
	}
	if err := p.consume(); err != nil {
		return false, err
	}

	ok, err := p.testexpr()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, p.fail(RuleIfStmt, "<testexpr>", "bad testexpr in ifstmt")
	}

	if !p.at(TokenThen) {
		return false, p.fail(RuleIfStmt, "'then'", "improperly formed ifstmt")
	}
	if err := p.consume(); err != nil {
		return false, err
	}
	if err := p.stmt(); err != nil {
		return false, err
	}

	if !p.at(TokenElse) {
		return false, p.fail(RuleIfStmt, "'else'", "improperly formed ifstmt")
	}
	if err := p.consume(); err != nil {
		return false, err
	}
	if err := p.stmt(); err != nil {
		return false, err
	}
	return true, nil
}

// whilestmt ::= while <testexpr> do <stmt>
func (p *parser) whilestmt() (matched bool, err error) {
	defer p.trace(RuleWhileStmt)(&matched, &err)

	if !p.at(TokenWhile) {
		return false, nil
	}
	if err := p.consume(); err != nil {
		return false, err
	}

	ok, err := p.testexpr()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, p.fail(RuleWhileStmt, "<testexpr>", "bad testexpr in whilestmt")
	}

	if !p.at(TokenDo) {
		return false, p.fail(RuleWhileStmt, "'do'", "improperly formed whilestmt")
	}
	if err := p.consume(); err != nil {
		return false, err
	}
	if err := p.stmt(); err != nil {
		return false, err
	}
	return true, nil
}

// testexpr ::= <variable> <= <expr>
//
// Never fatal on its own: ifstmt and whilestmt escalate a rejection.
func (p *parser) testexpr() (matched bool, err error) {
	defer p.trace(RuleTestExpr)(&matched, &err)

	ok, err := p.variable()
	if err != nil || !ok {
		return false, err
	}
	if !p.at(TokenLessEqual) {
		return false, nil
	}
	if err := p.consume(); err != nil {
		return false, err
	}
	if err := p.expr(); err != nil {
		return false, err
	}
	return true, nil
}

// expr ::= + <operand> <operand> | * <operand> <operand> | <variable> | <digit>
//
// An operand is a variable or a digit, or a full expr with NestedExpr.
func (p *parser) expr() (err error) {
	defer p.trace(RuleExpr)(nil, &err)

	if !p.at(TokenPlus, TokenStar) {
		ok, err := p.operand()
		if err != nil {
			return err
		}
		if !ok {
			return p.fail(RuleExpr, "<variable> or <digit>", "invalid expr")
		}
		return nil
	}

	if err := p.consume(); err != nil {
		return err
	}
	for range 2 {
		if p.opts.NestedExpr {
			if err := p.expr(); err != nil {
				return err
			}
			continue
		}
		ok, err := p.operand()
		if err != nil {
			return err
		}
		if !ok {
			return p.fail(RuleExpr, "<variable> or <digit>", "invalid expr operation")
		}
	}
	return nil
}

func (p *parser) operand() (bool, error) {
	ok, err := p.variable()
	if err != nil || ok {
		return ok, err
	}
	return p.digit()
}

// variable ::= a | b | c
func (p *parser) variable() (matched bool, err error) {
	defer p.trace(RuleVariable)(&matched, &err)

	if !p.at(TokenVariable) {
		return false, nil
	}
	if err := p.consume(); err != nil {
		return false, err
	}
	p.varRefs++
	return true, nil
}

// digit ::= 0 | 1 | 2
func (p *parser) digit() (matched bool, err error) {
	defer p.trace(RuleDigit)(&matched, &err)

	if !p.at(TokenDigit) {
		return false, nil
	}
	if err := p.consume(); err != nil {
		return false, err
	}
	return true, nil
}
