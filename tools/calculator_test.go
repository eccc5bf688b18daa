package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cortexai/cortex/model"
)

func TestCalculatorCanHandleByIntent(t *testing.T) {
	c := NewCalculatorTool()
	ectx := &model.ExecutionContext{Intent: model.IntentCalculation}
	assert.Equal(t, 0.9, c.CanHandle(context.Background(), "what is 2+2", ectx))
}

func TestCalculatorCanHandleByKeyword(t *testing.T) {
	c := NewCalculatorTool()
	ectx := &model.ExecutionContext{
		Intent:   model.IntentFactual,
		Keywords: map[model.KeywordCategory][]string{model.KeywordCalculation: {"calculate"}},
	}
	assert.Equal(t, 0.6, c.CanHandle(context.Background(), "please calculate this", ectx))
}

func TestCalculatorCanHandleByExtractableExpression(t *testing.T) {
	c := NewCalculatorTool()
	ectx := &model.ExecutionContext{Intent: model.IntentFactual}
	assert.Equal(t, 0.5, c.CanHandle(context.Background(), "what's 12 + 30 in total", ectx))
}

func TestCalculatorCanHandleNoMatch(t *testing.T) {
	c := NewCalculatorTool()
	ectx := &model.ExecutionContext{Intent: model.IntentFactual}
	assert.Equal(t, 0.0, c.CanHandle(context.Background(), "what is the remote work policy", ectx))
}

func TestCalculatorCanHandleNilContext(t *testing.T) {
	c := NewCalculatorTool()
	assert.Equal(t, 0.0, c.CanHandle(context.Background(), "2+2", nil))
}

func TestCalculatorExecuteAddition(t *testing.T) {
	c := NewCalculatorTool()
	result := c.Execute(context.Background(), "what is 12 + 30?", &model.ExecutionContext{})
	assert.True(t, result.Success)
	data := result.Data.(map[string]interface{})
	assert.Equal(t, "12 + 30 = 42", data["answer"])
	assert.Equal(t, 42.0, data["result"])
}

func TestCalculatorExecuteOperatorPrecedence(t *testing.T) {
	c := NewCalculatorTool()
	result := c.Execute(context.Background(), "2 + 3 * 4", &model.ExecutionContext{})
	assert.True(t, result.Success)
	assert.Equal(t, 14.0, result.Data.(map[string]interface{})["result"])
}

func TestCalculatorExecuteParentheses(t *testing.T) {
	c := NewCalculatorTool()
	result := c.Execute(context.Background(), "(2 + 3) * 4", &model.ExecutionContext{})
	assert.True(t, result.Success)
	assert.Equal(t, 20.0, result.Data.(map[string]interface{})["result"])
}

func TestCalculatorExecuteDivisionByZero(t *testing.T) {
	c := NewCalculatorTool()
	result := c.Execute(context.Background(), "5 / 0", &model.ExecutionContext{})
	assert.False(t, result.Success)
}

func TestCalculatorExecuteNoExpression(t *testing.T) {
	c := NewCalculatorTool()
	result := c.Execute(context.Background(), "hello there", &model.ExecutionContext{})
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "[calculator:parse]")
}

func TestCalculatorExecuteDecimalResult(t *testing.T) {
	c := NewCalculatorTool()
	result := c.Execute(context.Background(), "1 / 4", &model.ExecutionContext{})
	assert.True(t, result.Success)
	answer := result.Data.(map[string]interface{})["answer"].(string)
	assert.Equal(t, "0.25", answer[len("1 / 4 = "):])
}

func TestFormatNumberIntegerVsDecimal(t *testing.T) {
	assert.Equal(t, "42", formatNumber(42.0))
	assert.Equal(t, "0.25", formatNumber(0.25))
}

func TestExtractExpressionPicksLongestArithmeticSubstring(t *testing.T) {
	expr := extractExpression("Room 42 costs 12 + 30 dollars total")
	assert.Equal(t, "12 + 30", expr)
}

func TestExtractExpressionNoMatch(t *testing.T) {
	expr := extractExpression("what is the weather today")
	assert.Equal(t, "", expr)
}
