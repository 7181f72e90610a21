package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeReviewFiles() string {
	return `Reviews Python files and directories for common code problems.

USE WHEN:
- Reviewing a change set or a whole project before merging
- Looking for dead code to delete
- Finding functions that are too complex to test comfortably

INTERPRETING RESULTS:
- unused_import / unused_variable: names bound but never read in the module
- unreachable_code: statements after return, raise, break or continue in the same block
- inefficient_loop: for i in range(len(x)) where enumerate or direct iteration fits
- mutation_during_iteration: the loop body appends to or removes from the list it iterates
- nested_loop: a loop directly inside another loop body
- high_complexity: cyclomatic complexity above the threshold (default 10)
- A line 0 issue starting with "Error parsing code" means the file was not analyzed

METRICS RETURNED:
- files: per-file issues and per-function complexity scores
- summary: file and issue counts, counts by category, complexity mean, median, P90 and max`
}

func describeReviewSource() string {
	return `Reviews a snippet of Python source passed inline.

USE WHEN:
- Checking code that is not saved to disk yet
- Reviewing a single function or a pasted example

INTERPRETING RESULTS:
- Same issue categories as review_python_files
- Line numbers are relative to the submitted code, starting at 1

METRICS RETURNED:
- files: a single entry with the issues and function complexity of the snippet
- summary: issue counts and complexity statistics`
}

func describeSuggestFix() string {
	return `Suggests a fix for one review issue as a fenced python block.

USE WHEN:
- An issue from review_python_files or review_python_source needs a concrete change
- You want a starting point for a refactoring

INTERPRETING RESULTS:
- Common categories get a short canned fix
- Other issues are sent to the configured code model with the surrounding lines
- A block starting with "# AI Fix not available" means no model is configured or it failed

METRICS RETURNED:
- fix: the suggested code block`
}
