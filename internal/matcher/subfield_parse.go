package matcher

// ParseSubfieldMatcher parses a complete subfield matcher expression:
//
//	or      = xor { "||" xor }
//	xor     = and { "^" and }
//	and     = unary { "&&" unary }
//	unary   = "!" unary | primary
//	primary = "(" or ")" | cardinality | singleton
func (p *Parser) ParseSubfieldMatcher() (SubfieldMatcher, error) {
	return p.parseSubfieldOr()
}

func (p *Parser) parseSubfieldOr() (SubfieldMatcher, error) {
	lhs, err := p.parseSubfieldXor()
	if err != nil {
		return nil, err
	}
	for {
		p.SkipSpace()
		if !p.Consume("||") {
			return lhs, nil
		}
		rhs, err := p.parseSubfieldXor()
		if err != nil {
			return nil, err
		}
		lhs = &CompositeMatcher{Lhs: lhs, Op: Or, Rhs: rhs}
	}
}

func (p *Parser) parseSubfieldXor() (SubfieldMatcher, error) {
	lhs, err := p.parseSubfieldAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.SkipSpace()
		if !p.Consume("^") {
			return lhs, nil
		}
		rhs, err := p.parseSubfieldAnd()
		if err != nil {
			return nil, err
		}
		lhs = &CompositeMatcher{Lhs: lhs, Op: Xor, Rhs: rhs}
	}
}

func (p *Parser) parseSubfieldAnd() (SubfieldMatcher, error) {
	lhs, err := p.parseSubfieldUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.SkipSpace()
		if !p.Consume("&&") {
			return lhs, nil
		}
		rhs, err := p.parseSubfieldUnary()
		if err != nil {
			return nil, err
		}
		lhs = &CompositeMatcher{Lhs: lhs, Op: And, Rhs: rhs}
	}
}

func (p *Parser) parseSubfieldUnary() (SubfieldMatcher, error) {
	p.SkipSpace()
	if p.Consume("!") {
		inner, err := p.parseSubfieldUnary()
		if err != nil {
			return nil, err
		}
		return &NotMatcher{Inner: inner}, nil
	}
	return p.parseSubfieldPrimary()
}

func (p *Parser) parseSubfieldPrimary() (SubfieldMatcher, error) {
	p.SkipSpace()
	if p.Consume("(") {
		inner, err := p.parseSubfieldOr()
		if err != nil {
			return nil, err
		}
		p.SkipSpace()
		if err := p.Expect(")"); err != nil {
			return nil, err
		}
		return &GroupMatcher{Inner: inner}, nil
	}
	return p.ParseSubfieldSingleton()
}

// ParseSubfieldSingleton parses a matcher without boolean connectives:
// existence, relation, regex, set membership or cardinality. It is the
// form allowed after the '.' of "012A.a == 'x'".
func (p *Parser) ParseSubfieldSingleton() (SubfieldMatcher, error) {
	p.SkipSpace()
	if p.Peek() == '#' {
		return p.parseSubfieldCardinality()
	}

	quantifier, explicit := Any, false
	if p.ConsumeKeyword("ANY") {
		explicit = true
	} else if p.ConsumeKeyword("ALL") {
		quantifier, explicit = All, true
	}
	if explicit {
		p.SkipSpace()
	}
	quantPos := p.pos

	codes, err := p.ParseCodes()
	if err != nil {
		return nil, err
	}
	p.SkipSpace()

	if p.Consume("?") {
		if explicit {
			return nil, p.ErrorAt(quantPos, "quantifier not allowed on existence check")
		}
		return &ExistsMatcher{Codes: codes}, nil
	}

	if p.ConsumeKeyword("in") {
		return p.parseMembership(quantifier, codes, OpEq)
	}
	if p.ConsumeKeyword("not") {
		p.SkipSpace()
		if !p.ConsumeKeyword("in") {
			return nil, p.Errorf("expected \"in\" after \"not\"")
		}
		return p.parseMembership(quantifier, codes, OpNe)
	}

	if p.Consume("=~") {
		return p.parseRegex(quantifier, codes, false)
	}
	if p.Consume("!~") {
		return p.parseRegex(quantifier, codes, true)
	}

	opPos := p.pos
	op, ok := p.parseRelationalOp()
	if !ok {
		return nil, p.Errorf("expected '?' or relational operator")
	}
	if !op.IsStringOp() {
		return nil, p.ErrorAt(opPos, "operator %s is only valid in cardinality expressions", op)
	}

	p.SkipSpace()
	if p.Peek() == '[' {
		values, err := p.ParseStringList()
		if err != nil {
			return nil, err
		}
		m := NewRelationMatcher(quantifier, codes, op, values...)
		m.isSet = true
		return m, nil
	}
	value, err := p.ParseString()
	if err != nil {
		return nil, err
	}
	return NewRelationMatcher(quantifier, codes, op, value), nil
}

func (p *Parser) parseMembership(q Quantifier, codes CodeSet, op RelationalOp) (SubfieldMatcher, error) {
	p.SkipSpace()
	values, err := p.ParseStringList()
	if err != nil {
		return nil, err
	}
	m := NewRelationMatcher(q, codes, op, values...)
	m.isSet = true
	return m, nil
}

func (p *Parser) parseRegex(q Quantifier, codes CodeSet, invert bool) (SubfieldMatcher, error) {
	p.SkipSpace()
	start := p.pos

	var patterns []string
	if p.Peek() == '[' {
		list, err := p.ParseStringList()
		if err != nil {
			return nil, err
		}
		patterns = list
	} else {
		pat, err := p.ParseString()
		if err != nil {
			return nil, err
		}
		patterns = []string{pat}
	}

	m, err := NewRegexMatcher(q, codes, invert, patterns...)
	if err != nil {
		return nil, p.ErrorAt(start, "%v", err)
	}
	return m, nil
}

func (p *Parser) parseSubfieldCardinality() (SubfieldMatcher, error) {
	if err := p.Expect("#"); err != nil {
		return nil, err
	}
	p.SkipSpace()
	codes, err := p.ParseCodes()
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	op, err := p.parseCardinalityOp()
	if err != nil {
		return nil, err
	}
	p.SkipSpace()
	n, err := p.ParseInt()
	if err != nil {
		return nil, err
	}
	return &CardinalityMatcher{Codes: codes, Op: op, Count: n}, nil
}
