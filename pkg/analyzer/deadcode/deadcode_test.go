package deadcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/scry/pkg/ast"
	"github.com/panbanda/scry/pkg/models"
	"github.com/panbanda/scry/pkg/testutil"
)

func TestReturnThenPrint(t *testing.T) {
	src := "def f():\n    return 1\n    print('never')\n"
	issues := New().Analyze(testutil.ParseModule(t, src))
	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].Line)
	assert.Equal(t, models.CategoryUnreachableCode, issues[0].Category)
	assert.Equal(t, Message, issues[0].Message)
}

func TestUnreachable(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		lines []int
	}{
		{
			name:  "no terminal",
			src:   "def f():\n    x = 1\n    return x\n",
			lines: nil,
		},
		{
			name:  "every sibling after raise",
			src:   "def f():\n    raise ValueError()\n    a = 1\n    b = 2\n",
			lines: []int{3, 4},
		},
		{
			name:  "nested definitions skipped",
			src:   "def f():\n    return\n    def g():\n        pass\n    class C:\n        pass\n    x = 1\n",
			lines: []int{7},
		},
		{
			name:  "only first terminal considered",
			src:   "def f():\n    return\n    return\n    x = 1\n",
			lines: []int{3, 4},
		},
		{
			name:  "nested blocks not scanned",
			src:   "def f(xs):\n    for x in xs:\n        break\n        print(x)\n    return xs\n",
			lines: nil,
		},
		{
			name:  "break at function level",
			src:   "def f():\n    break\n    x = 1\n",
			lines: []int{3},
		},
		{
			name:  "nested function bodies scanned independently",
			src:   "def f():\n    def g():\n        return\n        y = 2\n    return g\n",
			lines: []int{4},
		},
		{
			name:  "async function",
			src:   "async def f():\n    return\n    await g()\n",
			lines: []int{3},
		},
		{
			name:  "module level ignored",
			src:   "x = 1\n",
			lines: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := testutil.ParseModule(t, tt.src)
			var got []int
			for _, issue := range New().Analyze(mod) {
				got = append(got, issue.Line)
			}
			assert.Equal(t, tt.lines, got)
		})
	}
}

func TestSameLineStatements(t *testing.T) {
	mod := testutil.ParseModule(t, "def f():\n    return\n    a = 1; b = 2\n")
	issues := New().Analyze(mod)
	require.Len(t, issues, 2)
	assert.Equal(t, 3, issues[0].Line)
	assert.Equal(t, 3, issues[1].Line)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(&ast.Return{}))
	assert.True(t, IsTerminal(&ast.Raise{}))
	assert.True(t, IsTerminal(&ast.Break{}))
	assert.True(t, IsTerminal(&ast.Continue{}))
	assert.False(t, IsTerminal(&ast.Pass{}))
	assert.False(t, IsTerminal(&ast.If{}))
}

func TestName(t *testing.T) {
	assert.Equal(t, "deadcode", New().Name())
}
