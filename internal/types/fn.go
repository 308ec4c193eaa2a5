package types //nolint:revive

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params []TypeID // in order; a trailing Ellipsis marks a variadic function
	Result TypeID
}

// Variadic reports whether the parameter list ends with an ellipsis.
func (in *Interner) Variadic(info *FnInfo) bool {
	if info == nil || len(info.Params) == 0 {
		return false
	}
	return info.Params[len(info.Params)-1] == in.builtins.Ellipsis
}

// RegisterFn returns the function type with the given signature, creating
// it on first use.
func (in *Interner) RegisterFn(params []TypeID, result TypeID) TypeID {
	key := signatureKey(params, result)
	if id, ok := in.fnBy[key]; ok {
		return id
	}
	in.fns = append(in.fns, FnInfo{Params: slices.Clone(params), Result: result})
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	id := in.internRaw(Type{Kind: KindFunction, Payload: slot})
	in.fnBy[key] = id
	return id
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFunction || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// signatureKey renders "result(p1,p2,...)" over type ids.
func signatureKey(params []TypeID, result TypeID) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(result), 10))
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(p), 10))
	}
	b.WriteByte(')')
	return b.String()
}
