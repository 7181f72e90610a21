package loops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/scry/pkg/models"
	"github.com/panbanda/scry/pkg/testutil"
)

type finding struct {
	line     int
	category models.Category
}

func findings(t *testing.T, src string) []finding {
	t.Helper()
	var out []finding
	for _, issue := range New().Analyze(testutil.ParseModule(t, src)) {
		out = append(out, finding{issue.Line, issue.Category})
	}
	return out
}

func TestNestedForLoop(t *testing.T) {
	src := "for i in a:\n    for j in b:\n        print(i, j)\n"
	issues := New().Analyze(testutil.ParseModule(t, src))
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line, "reported at the inner loop")
	assert.Equal(t, models.CategoryNestedLoop, issues[0].Category)
}

func TestLoopPatterns(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []finding
	}{
		{
			name: "range len",
			src:  "for i in range(len(items)):\n    print(items[i])\n",
			want: []finding{{1, models.CategoryInefficientLoop}},
		},
		{
			name: "range len over attribute",
			src:  "for i in range(len(self.items)):\n    print(i)\n",
			want: []finding{{1, models.CategoryInefficientLoop}},
		},
		{
			name: "range with two arguments",
			src:  "for i in range(0, len(items)):\n    print(i)\n",
			want: nil,
		},
		{
			name: "plain range",
			src:  "for i in range(10):\n    print(i)\n",
			want: nil,
		},
		{
			name: "mutation in body",
			src:  "for item in items:\n    if item:\n        items.remove(item)\n",
			want: []finding{{1, models.CategoryMutationDuringIteration}},
		},
		{
			name: "mutation reported once per loop",
			src:  "for x in xs:\n    out.append(x)\n    out.pop()\n",
			want: []finding{{1, models.CategoryMutationDuringIteration}},
		},
		{
			name: "tuple target skips mutation check",
			src:  "for k, v in pairs:\n    out.append(k)\n",
			want: nil,
		},
		{
			name: "mutation in else clause ignored",
			src:  "for x in xs:\n    pass\nelse:\n    out.append(1)\n",
			want: nil,
		},
		{
			name: "other method calls ignored",
			src:  "for x in xs:\n    out.add(x)\n",
			want: nil,
		},
		{
			name: "while nested in for",
			src:  "for x in xs:\n    while x:\n        x -= 1\n",
			want: []finding{{2, models.CategoryNestedLoop}},
		},
		{
			name: "for nested in while",
			src:  "while running:\n    for x in xs:\n        print(x)\n",
			want: []finding{{2, models.CategoryNestedLoop}},
		},
		{
			name: "loop inside if is not directly nested",
			src:  "for x in xs:\n    if x:\n        for y in x:\n            print(y)\n",
			want: nil,
		},
		{
			name: "while gets only nested check",
			src:  "while items:\n    items.pop()\n",
			want: nil,
		},
		{
			name: "all rules in pre-order",
			src:  "for i in range(len(xs)):\n    xs.append(i)\n    for j in range(len(ys)):\n        pass\n",
			want: []finding{
				{1, models.CategoryInefficientLoop},
				{1, models.CategoryMutationDuringIteration},
				{3, models.CategoryNestedLoop},
				{3, models.CategoryInefficientLoop},
			},
		},
		{
			name: "loops inside functions",
			src:  "def f(rows):\n    for r in rows:\n        for c in r:\n            print(c)\n",
			want: []finding{{3, models.CategoryNestedLoop}},
		},
		{
			name: "async for",
			src:  "async def f(xs):\n    async for x in xs:\n        for y in x:\n            pass\n",
			want: []finding{{3, models.CategoryNestedLoop}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findings(t, tt.src))
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "loops", New().Name())
}
