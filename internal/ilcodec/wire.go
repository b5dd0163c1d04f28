package ilcodec

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/p4lang/p4spectec-core/internal/value"
)

// ToStructpb renders v as a structpb.Value: a looser, type-erased shape
// than Marshal's node tree, plain JSON-ish data rather than the IL's own
// discriminated encoding. Neither cmd/p4batchd nor cmd/p4ilrun calls it;
// p4batchd exports no results, only phantom logs and edges via
// internal/store.
func ToStructpb(v value.Value) (*structpb.Value, error) {
	switch x := v.(type) {
	case value.Bool:
		return structpb.NewBoolValue(x.Val), nil
	case value.NumV:
		return structpb.NewStringValue(x.Val.String()), nil
	case value.Text:
		return structpb.NewStringValue(x.Val), nil
	case value.List:
		elems := make([]*structpb.Value, len(x.Elems))
		for i, e := range x.Elems {
			sv, err := ToStructpb(e)
			if err != nil {
				return nil, err
			}
			elems[i] = sv
		}
		return structpb.NewListValue(&structpb.ListValue{Values: elems}), nil
	case value.Tuple:
		elems := make([]*structpb.Value, len(x.Elems))
		for i, e := range x.Elems {
			sv, err := ToStructpb(e)
			if err != nil {
				return nil, err
			}
			elems[i] = sv
		}
		return structpb.NewListValue(&structpb.ListValue{Values: elems}), nil
	case value.Opt:
		if x.Elem == nil {
			return structpb.NewNullValue(), nil
		}
		return ToStructpb(x.Elem)
	case value.Case:
		fields := make(map[string]*structpb.Value, len(x.Args)+1)
		fields["op"] = structpb.NewStringValue(x.Op.String())
		args := make([]*structpb.Value, len(x.Args))
		for i, a := range x.Args {
			sv, err := ToStructpb(a)
			if err != nil {
				return nil, err
			}
			args[i] = sv
		}
		fields["args"] = structpb.NewListValue(&structpb.ListValue{Values: args})
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	case value.Struct:
		fields := make(map[string]*structpb.Value, len(x.Order))
		for _, name := range x.Order {
			sv, err := ToStructpb(x.Fields[name])
			if err != nil {
				return nil, err
			}
			fields[name] = sv
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	case value.Func:
		return structpb.NewStringValue("&" + x.Id), nil
	default:
		return nil, fmt.Errorf("ilcodec: value %T has no structpb encoding", v)
	}
}
