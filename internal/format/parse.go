package format

import "github.com/roach88/pica/internal/matcher"

func parseFormat(p *matcher.Parser) (*Format, error) {
	p.SkipSpace()
	tag, err := p.ParseTagMatcher()
	if err != nil {
		return nil, err
	}
	occ, err := p.ParseOccurrenceMatcher()
	if err != nil {
		return nil, err
	}
	f := &Format{Tag: tag, Occurrence: occ}

	p.SkipSpace()
	if err := p.Expect("{"); err != nil {
		return nil, err
	}
	if f.Root, err = parseBody(p); err != nil {
		return nil, err
	}

	p.SkipSpace()
	if p.Consume("|") {
		if f.Filter, err = p.ParseSubfieldMatcher(); err != nil {
			return nil, err
		}
		p.SkipSpace()
	}
	if err := p.Expect("}"); err != nil {
		return nil, err
	}
	return f, nil
}

// parseBody parses optional modifiers followed by a fragment list. With
// modifiers the list is wrapped in a Group.
func parseBody(p *matcher.Parser) (Fragment, error) {
	p.SkipSpace()
	mods, err := parseModifiers(p)
	if err != nil {
		return nil, err
	}
	list, err := parseList(p)
	if err != nil {
		return nil, err
	}
	if len(mods) > 0 {
		return &Group{Modifiers: mods, Inner: list}, nil
	}
	return list, nil
}

func parseModifiers(p *matcher.Parser) ([]Modifier, error) {
	var mods []Modifier
	for p.Peek() == '?' {
		c := p.PeekAt(1)
		if !isModifier(c) || isWordByte(p.PeekAt(2)) {
			return nil, p.Errorf("unknown modifier")
		}
		p.Consume("?")
		p.Consume(string(c))
		mods = append(mods, Modifier(c))
		p.SkipSpace()
	}
	return mods, nil
}

func parseList(p *matcher.Parser) (Fragment, error) {
	first, err := parseItem(p)
	if err != nil {
		return nil, err
	}
	items := []Fragment{first}

	var op ListOp
	for {
		p.SkipSpace()
		pos := p.Pos()

		var next ListOp
		switch {
		case p.Consume("<$>"):
			next = AndThen
		case p.Consume("<*>"):
			next = Cons
		case startsItem(p.Peek()):
			next = Cons
		default:
			if len(items) == 1 {
				return first, nil
			}
			return &List{Op: op, Items: items}, nil
		}

		if len(items) > 1 && next != op {
			return nil, p.ErrorAt(pos, "cannot mix <$> and <*> without parentheses")
		}
		op = next

		item, err := parseItem(p)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func parseItem(p *matcher.Parser) (Fragment, error) {
	p.SkipSpace()
	if p.Consume("(") {
		inner, err := parseBody(p)
		if err != nil {
			return nil, err
		}
		p.SkipSpace()
		if err := p.Expect(")"); err != nil {
			return nil, err
		}
		g, ok := inner.(*Group)
		if !ok {
			g = &Group{Inner: inner}
		}
		return g, nil
	}
	return parseValue(p)
}

func parseValue(p *matcher.Parser) (Fragment, error) {
	v := &Value{}
	if isQuote(p.Peek()) {
		prefix, err := p.ParseString()
		if err != nil {
			return nil, err
		}
		v.Prefix = prefix
		p.SkipSpace()
	}

	codes, err := p.ParseCodes()
	if err != nil {
		return nil, err
	}
	v.Codes = codes

	pos := p.Pos()
	p.SkipSpace()
	if isQuote(p.Peek()) {
		suffix, err := p.ParseString()
		if err != nil {
			return nil, err
		}
		v.Suffix = suffix
	} else {
		p.Reset(pos)
	}
	return v, nil
}

func startsItem(c byte) bool {
	return c == '(' || c == '[' || c == '*' || isQuote(c) || isWordByte(c)
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}

func isWordByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
