package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cortexai/cortex/model"
)

// CalculatorTool evaluates arithmetic expressions found in the query.
// It never calls an LLM or a retriever — deterministic, local
// computation, the one tool that can run with no collaborators wired at
// all.
type CalculatorTool struct{}

// NewCalculatorTool creates the calculator tool.
func NewCalculatorTool() *CalculatorTool { return &CalculatorTool{} }

func (t *CalculatorTool) Name() string { return "calculator" }

func (t *CalculatorTool) Description() string {
	return "Evaluates arithmetic expressions (addition, subtraction, multiplication, division, integer modulo)"
}

func (t *CalculatorTool) CanHandle(ctx context.Context, query string, ectx *model.ExecutionContext) float64 {
	if ectx == nil {
		return 0
	}
	if ectx.Intent == model.IntentCalculation {
		return 0.9
	}
	if len(ectx.Keywords[model.KeywordCalculation]) > 0 {
		return 0.6
	}
	if expr := extractExpression(query); expr != "" {
		return 0.5
	}
	return 0
}

func (t *CalculatorTool) Execute(ctx context.Context, query string, ectx *model.ExecutionContext) model.ToolResult {
	expr := extractExpression(query)
	if expr == "" {
		return fail(NewToolError(t.Name(), "parse", "no arithmetic expression found in query", nil))
	}

	value, err := evaluateExpression(expr)
	if err != nil {
		return fail(NewToolError(t.Name(), "evaluate", "could not evaluate expression", err))
	}

	answer := fmt.Sprintf("%s = %s", expr, formatNumber(value))

	return model.ToolResult{
		Success: true,
		Data: map[string]interface{}{
			"answer":     answer,
			"expression": expr,
			"result":     value,
		},
		Metadata: map[string]interface{}{
			"tool":       t.Name(),
			"confidence": 1.0,
		},
	}
}

// extractExpression pulls the longest arithmetic-looking substring out
// of the query: digits, decimal points, and the operators +-*/%() with
// surrounding whitespace collapsed.
func extractExpression(query string) string {
	var b strings.Builder
	var best string
	flush := func() {
		candidate := strings.TrimSpace(b.String())
		candidate = strings.Trim(candidate, "+-*/%^ ")
		if len(candidate) > len(best) && containsDigit(candidate) && containsOperator(candidate) {
			best = candidate
		}
		b.Reset()
	}
	for _, r := range query {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '+', r == '-', r == '*', r == '/', r == '%', r == '(', r == ')', r == ' ':
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return best
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func containsOperator(s string) bool {
	return strings.ContainsAny(s, "+-*/%")
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// evaluateExpression parses and evaluates a restricted arithmetic
// grammar (+ - * / % and parentheses, left-to-right precedence of
// * / % over + -) without invoking any interpreter.
func evaluateExpression(expr string) (float64, error) {
	p := &exprParser{input: expr}
	p.skipSpace()
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected trailing input at position %d", p.pos)
	}
	return v, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v += rhs
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	v, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case '/':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v /= rhs
		case '%':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			v = float64(int64(v) % int64(rhs))
		default:
			return v, nil
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseFactor()
		return -v, err
	}
	if p.peek() == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return 0, fmt.Errorf("expected ')' at position %d", p.pos)
		}
		p.pos++
		return v, nil
	}
	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected number at position %d", p.pos)
	}
	return strconv.ParseFloat(p.input[start:p.pos], 64)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
