package craft

import (
	"fmt"

	"github.com/matzehuels/arcforge/pkg/errors"
)

// Fault codes specific to graph construction. The dangling and unknown
// relation codes are shared with pkg/errors so they surface identically in
// logs and API responses.
const (
	FaultDanglingRelation  = errors.ErrCodeDanglingRelation
	FaultUnknownRelation   = errors.ErrCodeUnknownRelation
	FaultSelfLoop          = errors.Code("SELF_LOOP")
	FaultDuplicateNode     = errors.Code("DUPLICATE_NODE")
	FaultDuplicateRelation = errors.Code("DUPLICATE_RELATION")
)

// Fault is a data-integrity problem found while building a graph. Faults
// never abort construction: the offending record is dropped (or, for
// unknown relations, kept with default styling) and the fault is reported.
type Fault struct {
	Code     errors.Code
	NodeID   string         // offending node, if the fault concerns a node
	Relation RelationRecord // offending relation, if the fault concerns an edge
	Message  string
}

// Error implements the error interface.
func (f Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Fatal reports whether the offending record was dropped from the graph.
func (f Fault) Fatal() bool {
	return f.Code != FaultUnknownRelation
}

func danglingFault(r RelationRecord, missing string) Fault {
	return Fault{
		Code:     FaultDanglingRelation,
		NodeID:   missing,
		Relation: r,
		Message:  fmt.Sprintf("relation %s -> %s (%s) references unknown node %q", r.Source, r.Target, r.Relation, missing),
	}
}

func unknownRelationFault(r RelationRecord) Fault {
	return Fault{
		Code:     FaultUnknownRelation,
		Relation: r,
		Message:  fmt.Sprintf("relation %s -> %s has unknown label %q", r.Source, r.Target, r.Relation),
	}
}

func selfLoopFault(r RelationRecord) Fault {
	return Fault{
		Code:     FaultSelfLoop,
		NodeID:   r.Source,
		Relation: r,
		Message:  fmt.Sprintf("relation %s -> %s (%s) is a self loop", r.Source, r.Target, r.Relation),
	}
}

func duplicateRelationFault(r RelationRecord) Fault {
	return Fault{
		Code:     FaultDuplicateRelation,
		Relation: r,
		Message:  fmt.Sprintf("relation %s -> %s (%s) appears more than once", r.Source, r.Target, r.Relation),
	}
}

func duplicateNodeFault(id string) Fault {
	return Fault{
		Code:    FaultDuplicateNode,
		NodeID:  id,
		Message: fmt.Sprintf("node %q appears more than once", id),
	}
}
