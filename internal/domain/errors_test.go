package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/flowsim/internal/domain"
)

func TestCompilationIssueCollection_Empty(t *testing.T) {
	c := domain.NewCompilationIssueCollection()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Count())
	assert.Empty(t, c.All())

	var nilColl *domain.CompilationIssueCollection
	assert.True(t, nilColl.IsEmpty())
	assert.Equal(t, 0, nilColl.Count())
	assert.Nil(t, nilColl.All())
	assert.Nil(t, nilColl.For(domain.NewObjectID()))
}

func TestCompilationIssueCollection_AddAndOrder(t *testing.T) {
	a := domain.NewObjectID()
	b := domain.NewObjectID()
	c := domain.NewCompilationIssueCollection()

	c.Add(a, domain.IssueDuplicateName, "first on a")
	c.Add(b, domain.IssueEmptyName, "first on b")
	c.Add(a, domain.IssueUnusedInput, "second on a")

	assert.False(t, c.IsEmpty())
	assert.Equal(t, 3, c.Count())

	aIssues := c.For(a)
	assert.Len(t, aIssues, 2)
	assert.Equal(t, domain.IssueDuplicateName, aIssues[0].Kind)
	assert.Equal(t, domain.IssueUnusedInput, aIssues[1].Kind)

	all := c.All()
	assert.Len(t, all, 3)
	// a was first-seen before b, so a's issues precede b's despite the
	// interleaved Add order.
	assert.Equal(t, a, all[0].ObjectID)
	assert.Equal(t, a, all[1].ObjectID)
	assert.Equal(t, b, all[2].ObjectID)
}

func TestIssue_Error(t *testing.T) {
	id := domain.NewObjectID()
	i := domain.NewIssue(id, domain.IssueEmptyName, "name is blank")
	assert.Contains(t, i.Error(), "empty_name")
	assert.Contains(t, i.Error(), "name is blank")
}

func TestCompilerError_Error(t *testing.T) {
	c := domain.NewCompilationIssueCollection()
	c.Add(domain.NewObjectID(), domain.IssueDuplicateName, "x")
	err := domain.NewIssuesError(c)
	assert.Equal(t, "compilation failed: 1 issue", err.Error())

	c.Add(domain.NewObjectID(), domain.IssueEmptyName, "y")
	assert.Equal(t, "compilation failed: 2 issues", err.Error())

	cause := domain.NewInternalError(domain.ErrObjectNotFound, "missing node")
	internalErr := domain.NewInternalCompilerError(cause)
	assert.ErrorIs(t, internalErr, cause)
	assert.Contains(t, internalErr.Error(), "object_not_found")
}

func TestInternalError_Unwrap(t *testing.T) {
	id := domain.NewObjectID()
	e := domain.NewObjectInternalError(domain.ErrStructureTypeMismatch, id, "bad shape")
	assert.Contains(t, e.Error(), id.String())
	assert.Nil(t, e.Unwrap())
}

func TestSimulationError_Unwrap(t *testing.T) {
	id := domain.NewObjectID()
	cause := domain.NewValueError("boom")
	e := domain.NewSimulationError(id, 7, cause)
	assert.Contains(t, e.Error(), "step 7")
	var ve *domain.ValueError
	assert.True(t, errors.As(e, &ve))
}

func TestFunctionError_Error(t *testing.T) {
	e := domain.NewFunctionError("abs", "expected %d args, got %d", 1, 2)
	assert.Equal(t, "function abs: expected 1 args, got 2", e.Error())
}
