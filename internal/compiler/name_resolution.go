package compiler

import (
	"fmt"
	"strings"

	"github.com/smilemakc/flowsim/internal/domain"
)

// ResolveNames implements the name-resolution sub-phase (C6, §4.2): for each
// node in dependency order, read and trim its "name" attribute, then flag
// empty and duplicate names. Name uniqueness is enforced only among the
// simulation nodes passed in — internal-state slots get synthetic names
// that can never collide (§3).
//
// A missing "name" attribute is a violated ValidatedFrame precondition, not
// a user issue, and aborts resolution immediately (§4.2: "fail with
// AttributeExpectationFailure internal if absent").
func ResolveNames(ordered []domain.ObjectID, frame domain.Frame, issues *domain.CompilationIssueCollection) (map[domain.ObjectID]string, error) {
	names := make(map[domain.ObjectID]string, len(ordered))
	for _, id := range ordered {
		attr, ok := frame.Attribute(id, "name")
		if !ok {
			return nil, domain.NewObjectInternalError(domain.ErrAttributeExpectationFailure, id, "name")
		}
		raw, err := attr.AsString()
		if err != nil {
			return nil, domain.NewObjectInternalError(domain.ErrStructureTypeMismatch, id, "name is not a string")
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			issues.Add(id, domain.IssueEmptyName, "name is missing or whitespace only")
		} else if domain.IsReservedBuiltinName(trimmed) {
			issues.Add(id, domain.IssueDuplicateName, fmt.Sprintf("name %q collides with a reserved builtin name", trimmed))
		}
		names[id] = trimmed
	}

	byName := make(map[string][]domain.ObjectID)
	for _, id := range ordered {
		n := names[id]
		if n == "" {
			continue
		}
		byName[n] = append(byName[n], id)
	}
	for name, owners := range byName {
		if len(owners) < 2 {
			continue
		}
		for _, id := range owners {
			issues.Add(id, domain.IssueDuplicateName, fmt.Sprintf("name %q is used by %d objects", name, len(owners)))
		}
	}

	return names, nil
}
