package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixPlan     = "plan"
	PrefixSnapshot = "snap"
	PrefixObject   = "obj"
	PrefixLayer    = "layer"
	PrefixOp       = "op"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewPlanID() string     { return New(PrefixPlan) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewObjectID() string   { return New(PrefixObject) }
func NewLayerID() string    { return New(PrefixLayer) }
func NewOpID() string       { return New(PrefixOp) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
