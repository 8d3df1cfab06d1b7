package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestInsightsEmptyHistory(t *testing.T) {
	g := NewGenerator(fakeLister{})
	insights, err := g.Insights(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Nil(t, insights)
}

func TestInsightsTopCategoryAndWeekday(t *testing.T) {
	sat := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC) // Saturday
	wed := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC) // Wednesday

	g := NewGenerator(fakeLister{txs: []core.Transaction{
		tx(core.Expense, "Entertainment", "300", sat),
		tx(core.Expense, "Food", "100", wed),
	}})

	insights, err := g.Insights(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Len(t, insights, 2) // no income, so no savings-rate insight

	assert.Contains(t, insights[0].Message, "Entertainment")
	assert.Contains(t, insights[0].Message, "300.00")
	assert.Contains(t, insights[1].Message, "Saturday")
}

func TestInsightsSavingsRate(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// Savings rate 10% -> warning.
	g := NewGenerator(fakeLister{txs: []core.Transaction{
		tx(core.Income, "Salary", "1000", day),
		tx(core.Expense, "Food", "900", day),
	}})
	insights, err := g.Insights(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Len(t, insights, 3)
	assert.Equal(t, InsightWarning, insights[2].Kind)

	// Savings rate 40% -> success with the rate in the message.
	g = NewGenerator(fakeLister{txs: []core.Transaction{
		tx(core.Income, "Salary", "1000", day),
		tx(core.Expense, "Food", "600", day),
	}})
	insights, err = g.Insights(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Len(t, insights, 3)
	assert.Equal(t, InsightSuccess, insights[2].Kind)
	assert.Contains(t, insights[2].Message, "40.0%")
}
