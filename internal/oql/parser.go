package oql

// Parse parses a single query into a statement.
//
// Whitespace and line breaks between tokens are insignificant and keyword
// matching ignores case. Parsing is tolerant by design: expressions are
// consumed as opaque token runs, and constructs the rewriter has no use for
// (set operations, provider hints) are skipped rather than rejected. The
// grammar check still collects problems, and any problem other than a
// missing bind-parameter value fails the parse with a *SyntaxError.
func Parse(src string) (Statement, error) {
	p := &parser{src: src, toks: NewLexer(src).Tokens()}
	p.checkBalance()
	stmt := p.parseStatement()
	p.noteBindParameters()

	var fatal []Problem
	for _, prob := range p.problems {
		if prob.Code != ProblemMissingBindValue {
			fatal = append(fatal, prob)
		}
	}
	if len(fatal) > 0 {
		return nil, &SyntaxError{Problems: fatal}
	}
	return stmt, nil
}

// parser is a hand-rolled recursive descent parser over the token slice.
type parser struct {
	src      string
	toks     []Token
	i        int
	problems []Problem
}

func (p *parser) cur() Token { return p.toks[p.i] }

func (p *parser) peek() Token {
	if p.i+1 < len(p.toks) {
		return p.toks[p.i+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	t := p.toks[p.i]
	if t.Kind != TokenEOF {
		p.i++
	}
	return t
}

func (p *parser) problem(code, message string) {
	p.problems = append(p.problems, Problem{Code: code, Message: message})
}

func (p *parser) parseStatement() Statement {
	t := p.cur()
	switch {
	case t.Kind == TokenEOF:
		p.problem(ProblemUnknownStatement, "query text is empty")
		return nil
	case t.Is("update") || t.Is("delete"):
		return &DMLStatement{Keyword: t.Text, Span: Span{Start: t.Start, End: len(p.src)}}
	case t.Is("select"):
		stmt := &SelectStatement{}
		stmt.Select = p.parseSelectClause()
		if p.cur().Is("from") {
			stmt.From = p.parseFromClause()
		} else {
			p.problem(ProblemMissingFromClause, "select statement has no from clause")
		}
		p.parseTrailingClauses(stmt)
		return stmt
	case t.Is("from"):
		// Short form: the select clause is implicit.
		stmt := &SelectStatement{From: p.parseFromClause()}
		p.parseTrailingClauses(stmt)
		return stmt
	default:
		p.problem(ProblemUnknownStatement, "cannot parse "+t.Text+" as a statement")
		return nil
	}
}

func (p *parser) parseSelectClause() *SelectClause {
	kw := p.next() // select
	sc := &SelectClause{Span: Span{Start: kw.Start, End: kw.End}}

	if p.cur().Is("distinct") {
		d := p.next()
		sc.Distinct = Span{Start: d.Start, End: d.End}
		sc.Span.End = d.End
	}

	for {
		item, ok := p.parseSelectItem()
		if ok {
			sc.Items = append(sc.Items, item)
			sc.Span.End = item.Span.End
		}
		if p.cur().Kind == TokenComma {
			p.next()
			continue
		}
		break
	}
	return sc
}

// parseSelectItem consumes one projection entry: everything up to a
// top-level comma or the FROM keyword. Parenthesized groups (function
// arguments, subselects) are opaque, so a FROM or comma inside them never
// ends the item.
func (p *parser) parseSelectItem() (SelectItem, bool) {
	var item SelectItem
	var first, last, exprLast Token
	depth := 0
	count := 0

	for {
		t := p.cur()
		if t.Kind == TokenEOF {
			break
		}
		if depth == 0 && (t.Kind == TokenComma || t.Is("from")) {
			break
		}

		// Window specification: over (...).
		if depth == 0 && t.Is("over") && p.peek().Kind == TokenLParen {
			over := p.next()
			count++
			if count == 1 {
				first = over
			}
			w, end := p.parseWindow()
			item.Windows = append(item.Windows, w)
			last, exprLast = end, end
			count++
			continue
		}

		p.next()
		count++
		if count == 1 {
			first = t
			if t.Is("new") {
				item.Constructor = true
			}
		}
		last, exprLast = t, t

		switch t.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			if depth > 0 {
				depth--
			}
		}

		// AS alias at item level.
		if depth == 0 && t.Is("as") && p.cur().Kind == TokenIdent {
			exprLast = prevToken(p, 2)
			alias := p.next()
			item.Alias = alias.Text
			last = alias
			count++
		}
	}

	if count == 0 {
		return item, false
	}
	item.Span = Span{Start: first.Start, End: last.End}
	item.ExprSpan = Span{Start: first.Start, End: exprLast.End}
	if count == 1 {
		item.Star = first.Kind == TokenStar
		item.SimplePath = first.Kind == TokenIdent
	}
	return item, true
}

// prevToken returns the token n positions before the cursor.
func prevToken(p *parser, n int) Token {
	if p.i-n >= 0 {
		return p.toks[p.i-n]
	}
	return p.toks[0]
}

// parseWindow consumes a balanced OVER group and extracts the partition
// references and order-by presence. The cursor is on the opening paren.
func (p *parser) parseWindow() (WindowSpec, Token) {
	var w WindowSpec
	end := p.next() // (
	depth := 1

	for depth > 0 {
		t := p.cur()
		if t.Kind == TokenEOF {
			break
		}
		if depth == 1 && t.Is("partition") && p.peek().Is("by") {
			p.next()
			p.next()
			for p.cur().Kind == TokenIdent && !isWindowStop(p.cur()) {
				term := p.next()
				w.PartitionTerms = append(w.PartitionTerms, term.Text)
				end = term
				if p.cur().Kind == TokenComma {
					p.next()
					continue
				}
				break
			}
			continue
		}
		if depth == 1 && t.Is("order") && p.peek().Is("by") {
			w.HasOrderBy = true
		}
		p.next()
		end = t
		switch t.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		}
	}
	return w, end
}

func isWindowStop(t Token) bool {
	return t.Is("order") || t.Is("rows") || t.Is("range") || t.Is("groups")
}

func (p *parser) parseFromClause() *FromClause {
	kw := p.next() // from
	fc := &FromClause{Span: Span{Start: kw.Start, End: kw.End}}

	for {
		decl, end, ok := p.parseDeclaration()
		if !ok {
			break
		}
		fc.Declarations = append(fc.Declarations, decl)
		fc.Span.End = end
		if p.cur().Kind == TokenComma {
			p.next()
			continue
		}
		break
	}
	return fc
}

func (p *parser) parseDeclaration() (Declaration, int, bool) {
	var d Declaration
	t := p.cur()

	switch {
	case t.Kind == TokenLParen:
		d.Range.Target = p.consumeGroup()
	case t.Kind == TokenIdent && !isClauseStart(t, p.peek()) && !t.Is("union"):
		p.next()
		d.Range.Target = Span{Start: t.Start, End: t.End}
	default:
		return d, 0, false
	}

	d.Range.Alias = p.parseOptionalAlias()
	end := d.Range.Target.End
	if d.Range.Alias != "" {
		end = prevToken(p, 1).End
	}

	for p.joinAhead() {
		j, jEnd := p.parseJoin()
		d.Joins = append(d.Joins, j)
		end = jEnd
	}
	return d, end, true
}

// parseOptionalAlias consumes an optional AS keyword and identification
// variable. An identifier that starts a join or a trailing clause is not an
// alias.
func (p *parser) parseOptionalAlias() string {
	if p.cur().Is("as") {
		p.next()
	}
	t := p.cur()
	if t.Kind == TokenIdent && !isDeclStop(t) {
		p.next()
		return t.Text
	}
	return ""
}

func (p *parser) joinAhead() bool {
	c, n := p.cur(), p.peek()
	if c.Is("join") {
		return true
	}
	if (c.Is("left") || c.Is("right") || c.Is("full")) && (n.Is("join") || n.Is("outer")) {
		return true
	}
	if (c.Is("inner") || c.Is("cross")) && n.Is("join") {
		return true
	}
	return false
}

func (p *parser) parseJoin() (Join, int) {
	var j Join
	for {
		t := p.cur()
		switch {
		case t.Is("left"), t.Is("right"), t.Is("full"):
			j.Outer = true
			p.next()
		case t.Is("outer"), t.Is("inner"), t.Is("cross"):
			p.next()
		default:
			goto joined
		}
	}
joined:
	end := p.cur().End
	if p.cur().Is("join") {
		end = p.next().End
	}
	if p.cur().Is("fetch") {
		j.Fetch = true
		end = p.next().End
	}

	t := p.cur()
	switch {
	case t.Kind == TokenLParen:
		j.Target = p.consumeGroup()
		end = j.Target.End
	case t.Kind == TokenIdent && !isDeclStop(t):
		p.next()
		j.Target = Span{Start: t.Start, End: t.End}
		end = t.End
	}

	j.Alias = p.parseOptionalAlias()
	if j.Alias != "" {
		end = prevToken(p, 1).End
	}

	if p.cur().Is("on") {
		p.next()
		end = p.consumeJoinCondition()
	}
	return j, end
}

// consumeJoinCondition scans an ON expression up to the next join, the next
// top-level comma, or a trailing clause keyword.
func (p *parser) consumeJoinCondition() int {
	depth := 0
	end := p.cur().End
	for {
		t := p.cur()
		if t.Kind == TokenEOF {
			return end
		}
		if depth == 0 {
			if t.Kind == TokenComma || p.joinAhead() || isClauseStart(t, p.peek()) || t.Is("union") {
				return end
			}
		}
		p.next()
		end = t.End
		switch t.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			if depth > 0 {
				depth--
			}
		}
	}
}

func (p *parser) parseTrailingClauses(stmt *SelectStatement) {
	for {
		t := p.cur()
		switch {
		case t.Kind == TokenEOF:
			return
		case t.Is("where"):
			stmt.Where = p.parseGenericClause("where", 1)
		case t.Is("group") && p.peek().Is("by"):
			stmt.GroupBy = p.parseGenericClause("group by", 2)
		case t.Is("having"):
			stmt.Having = p.parseGenericClause("having", 1)
		case t.Is("order") && p.peek().Is("by"):
			stmt.OrderBy = p.parseOrderBy()
		default:
			// Tolerate constructs the rewriter keeps opaque (set
			// operations, provider-native trailing syntax).
			p.next()
		}
	}
}

func (p *parser) parseGenericClause(keyword string, kwTokens int) *GenericClause {
	start := p.cur().Start
	end := p.cur().End
	for i := 0; i < kwTokens; i++ {
		end = p.next().End
	}

	depth := 0
	for {
		t := p.cur()
		if t.Kind == TokenEOF {
			break
		}
		if depth == 0 && (isClauseStart(t, p.peek()) || t.Is("union")) {
			break
		}
		p.next()
		end = t.End
		switch t.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			if depth > 0 {
				depth--
			}
		}
	}
	return &GenericClause{Keyword: keyword, Span: Span{Start: start, End: end}}
}

func (p *parser) parseOrderBy() *OrderByClause {
	ob := &OrderByClause{}
	start := p.next() // order
	end := start.End
	if p.cur().Is("by") {
		end = p.next().End
	}

	for {
		key, keyEnd, ok := p.consumeOrderKey()
		if !ok {
			break
		}
		ob.Keys = append(ob.Keys, key)
		end = keyEnd
		if p.cur().Kind == TokenComma {
			p.next()
			continue
		}
		break
	}
	ob.Span = Span{Start: start.Start, End: end}
	return ob
}

func (p *parser) consumeOrderKey() (Span, int, bool) {
	var first, last Token
	depth := 0
	count := 0
	for {
		t := p.cur()
		if t.Kind == TokenEOF {
			break
		}
		if depth == 0 && (t.Kind == TokenComma || t.Is("limit") || t.Is("offset") || t.Is("union")) {
			break
		}
		p.next()
		count++
		if count == 1 {
			first = t
		}
		last = t
		switch t.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			if depth > 0 {
				depth--
			}
		}
	}
	if count == 0 {
		return Span{}, 0, false
	}
	return Span{Start: first.Start, End: last.End}, last.End, true
}

// consumeGroup consumes a balanced parenthesized group, cursor on the
// opening paren. The returned span includes both parens.
func (p *parser) consumeGroup() Span {
	open := p.next()
	end := open.End
	depth := 1
	for depth > 0 {
		t := p.cur()
		if t.Kind == TokenEOF {
			break
		}
		p.next()
		end = t.End
		switch t.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		}
	}
	return Span{Start: open.Start, End: end}
}

// isClauseStart reports whether t begins a trailing clause.
func isClauseStart(t, next Token) bool {
	if t.Is("where") || t.Is("having") {
		return true
	}
	return (t.Is("group") || t.Is("order")) && next.Is("by")
}

// isDeclStop lists identifiers that terminate an alias position inside a
// FROM declaration.
func isDeclStop(t Token) bool {
	switch {
	case t.Is("where"), t.Is("group"), t.Is("having"), t.Is("order"), t.Is("union"),
		t.Is("left"), t.Is("right"), t.Is("full"), t.Is("inner"), t.Is("cross"),
		t.Is("join"), t.Is("on"), t.Is("fetch"), t.Is("set"), t.Is("limit"), t.Is("offset"):
		return true
	}
	return false
}

// checkBalance verifies parentheses pair up across the whole token stream.
func (p *parser) checkBalance() {
	depth := 0
	for _, t := range p.toks {
		switch t.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth < 0 {
				p.problem(ProblemUnbalancedParens, "unexpected closing parenthesis")
				return
			}
		}
	}
	if depth > 0 {
		p.problem(ProblemUnbalancedParens, "unclosed parenthesis")
	}
}

// noteBindParameters records a missing-value problem for every bind
// parameter. The rewrite engine runs before parameter binding, so Parse
// filters exactly this code; the problems still surface through any future
// strict validation entry point.
func (p *parser) noteBindParameters() {
	for _, t := range p.toks {
		if t.Kind == TokenParam {
			p.problem(ProblemMissingBindValue, "no value bound for parameter "+t.Text)
		}
	}
}
