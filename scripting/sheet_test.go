package scripting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGojaEngine_ContextCancellation(t *testing.T) {
	engine := NewEngine()

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	if _, err := engine.Execute(ctx, "while (true) {}"); err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}

	if _, err := engine.Execute(context.Background(), "1 + 1"); err != nil {
		t.Fatalf("engine should recover after cancellation, got %v", err)
	}
}

func TestGojaEngine_ImmediateCancel(t *testing.T) {
	engine := NewEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Execute(ctx, "42"); err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
}

func TestGojaEngine_SyntaxError(t *testing.T) {
	_, err := NewEngine().Execute(context.Background(), `var x = "open;`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScriptFailed)
}

func TestDryRun(t *testing.T) {
	code := `function fill() {
  var sheet = SpreadsheetApp.getActiveSpreadsheet().getActiveSheet();
  sheet.getRange(1, 1).setValue("a");
  sheet.getRange(1, 3).setValue("c");
  sheet.getRange(2, 1).setValue(7);
}`
	sheet, err := DryRun(context.Background(), code, "fill")
	require.NoError(t, err)

	assert.Equal(t, []Write{
		{Cell: Cell{Row: 1, Column: 1}, Value: "a"},
		{Cell: Cell{Row: 1, Column: 3}, Value: "c"},
		{Cell: Cell{Row: 2, Column: 1}, Value: "7"},
	}, sheet.Writes())
	assert.Equal(t, [][]string{{"a", "", "c"}, {"7"}}, sheet.Grid())
	assert.Equal(t, []Cell{{1, 1}, {1, 3}, {2, 1}}, sheet.Cells())

	v, ok := sheet.Value(1, 3)
	assert.True(t, ok)
	assert.Equal(t, "c", v)
	_, ok = sheet.Value(2, 2)
	assert.False(t, ok)
}

func TestDryRunOutOfBounds(t *testing.T) {
	code := `function fill() { SpreadsheetApp.getActiveSpreadsheet().getActiveSheet().getRange(0, 1).setValue("x"); }`
	_, err := DryRun(context.Background(), code, "fill")
	assert.ErrorIs(t, err, ErrScriptFailed)
}

func TestDryRunMissingEntryPoint(t *testing.T) {
	_, err := DryRun(context.Background(), "var a = 1;", "fill")
	assert.ErrorIs(t, err, ErrScriptFailed)
}

func TestSheetGridEmpty(t *testing.T) {
	assert.Empty(t, NewSheet().Grid())
}

func TestGojaEngine_CancelAfterRun(t *testing.T) {
	engine := NewEngine()

	for i := 0; i < 50; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		go cancel()
		_, _ = engine.Execute(ctx, "1")

		v, err := engine.Execute(context.Background(), "1 + 1")
		require.NoError(t, err, "iteration %d", i)
		assert.EqualValues(t, 2, v)
	}
}
