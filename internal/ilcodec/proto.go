package ilcodec

import (
	"fmt"
	"reflect"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"

	"github.com/p4lang/p4spectec-core/internal/value"
)

// ilProto is a hand-authored IDL describing the same tag-discriminated
// tree json.go encodes, flattened to proto3's field model (no elem_typ /
// result_typ — the conformance check only needs to survive a value's
// shape, not its type annotations). Parsed at runtime via protoparse,
// never through protoc, mirroring the teacher's own
// internal/evaluator/builtins_grpc.go grpcLoadProto path.
const ilProto = `
syntax = "proto3";
package ilcodec;

message Num {
  string kind = 1;
  int32 width = 2;
  string val = 3;
}

message IlValue {
  string kind = 1;
  bool bool_val = 2;
  Num num_val = 3;
  string text_val = 4;
  repeated IlValue elems = 5;
  bool opt_some = 6;
  IlValue opt_elem = 7;
  repeated string op_tokens = 8;
  int32 op_arity = 9;
  map<string, IlValue> fields = 10;
  repeated string order = 11;
  string func_id = 12;
}
`

var ilValueDesc *desc.MessageDescriptor

func ilValueDescriptor() (*desc.MessageDescriptor, error) {
	if ilValueDesc != nil {
		return ilValueDesc, nil
	}
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{"il.proto": ilProto}),
	}
	fds, err := parser.ParseFiles("il.proto")
	if err != nil {
		return nil, fmt.Errorf("ilcodec: parsing conformance schema: %w", err)
	}
	md := fds[0].FindMessage("ilcodec.IlValue")
	if md == nil {
		return nil, fmt.Errorf("ilcodec: IlValue message missing from conformance schema")
	}
	ilValueDesc = md
	return md, nil
}

// CheckRoundTrip is a secondary conformance check (§4.J, Testable
// Property 2): it encodes v into a dynamic protobuf message, marshals
// and unmarshals the wire bytes, decodes back into json.go's node
// shape, and reports any structural drift. It is deliberately NOT the
// engine's hot path — Marshal/Unmarshal (json.go) are — this only
// guards that the tree format stays representable in a schema-bound
// wire encoding too.
func CheckRoundTrip(v value.Value) error {
	n, err := toNode(v)
	if err != nil {
		return err
	}
	md, err := ilValueDescriptor()
	if err != nil {
		return err
	}
	msg, err := nodeToDynamic(md, n)
	if err != nil {
		return fmt.Errorf("ilcodec: encoding to dynamic message: %w", err)
	}
	wire, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("ilcodec: marshaling dynamic message: %w", err)
	}
	roundTripped := dynamic.NewMessage(md)
	if err := roundTripped.Unmarshal(wire); err != nil {
		return fmt.Errorf("ilcodec: unmarshaling dynamic message: %w", err)
	}
	got, err := dynamicToNode(roundTripped)
	if err != nil {
		return fmt.Errorf("ilcodec: decoding round-tripped message: %w", err)
	}
	if !reflect.DeepEqual(stripTyps(n), got) {
		return fmt.Errorf("ilcodec: round trip mismatch: got %+v, want %+v", got, stripTyps(n))
	}
	return nil
}

// stripTyps drops the ElemTyp/ResultTyp fields the proto schema doesn't
// carry, so the comparison in CheckRoundTrip only judges what the
// schema claims to preserve.
func stripTyps(n *node) *node {
	cp := *n
	cp.ElemTyp = nil
	cp.ResultTyp = nil
	for i, e := range cp.Elems {
		cp.Elems[i] = stripTyps(e)
	}
	if cp.Elem != nil {
		cp.Elem = stripTyps(cp.Elem)
	}
	for k, f := range cp.Fields {
		cp.Fields[k] = stripTyps(f)
	}
	return &cp
}

func nodeToDynamic(md *desc.MessageDescriptor, n *node) (*dynamic.Message, error) {
	msg := dynamic.NewMessage(md)
	msg.SetFieldByName("kind", n.Kind)
	msg.SetFieldByName("bool_val", n.Bool)
	msg.SetFieldByName("text_val", n.Text)
	msg.SetFieldByName("opt_some", n.Some)
	msg.SetFieldByName("func_id", n.FuncID)
	msg.SetFieldByName("order", toAnySlice(n.Order))

	if n.NumKind != "" || n.NumVal != "" {
		numDesc := md.FindFieldByName("num_val").GetMessageType()
		numMsg := dynamic.NewMessage(numDesc)
		numMsg.SetFieldByName("kind", n.NumKind)
		numMsg.SetFieldByName("width", int32(n.NumWidth))
		numMsg.SetFieldByName("val", n.NumVal)
		msg.SetFieldByName("num_val", numMsg)
	}

	elemDesc := md
	for _, e := range n.Elems {
		em, err := nodeToDynamic(elemDesc, e)
		if err != nil {
			return nil, err
		}
		if err := msg.TryAddRepeatedField("elems", em); err != nil {
			return nil, err
		}
	}
	if n.Elem != nil {
		em, err := nodeToDynamic(md, n.Elem)
		if err != nil {
			return nil, err
		}
		msg.SetFieldByName("opt_elem", em)
	}
	if n.Op != nil {
		msg.SetFieldByName("op_tokens", toAnySlice(n.Op.Tokens))
		msg.SetFieldByName("op_arity", int32(n.Op.Arity))
	}
	if n.Fields != nil {
		fieldsMap := make(map[interface{}]interface{}, len(n.Fields))
		for k, fv := range n.Fields {
			fm, err := nodeToDynamic(md, fv)
			if err != nil {
				return nil, err
			}
			fieldsMap[k] = fm
		}
		for k, fv := range fieldsMap {
			if err := msg.TryPutMapField("fields", k, fv); err != nil {
				return nil, err
			}
		}
	}
	return msg, nil
}

func toAnySlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func dynamicToNode(msg *dynamic.Message) (*node, error) {
	n := &node{
		Kind:   msg.GetFieldByName("kind").(string),
		Bool:   msg.GetFieldByName("bool_val").(bool),
		Text:   msg.GetFieldByName("text_val").(string),
		Some:   msg.GetFieldByName("opt_some").(bool),
		FuncID: msg.GetFieldByName("func_id").(string),
	}
	if order, ok := msg.GetFieldByName("order").([]interface{}); ok {
		for _, o := range order {
			n.Order = append(n.Order, o.(string))
		}
	}
	if numRaw := msg.GetFieldByName("num_val"); numRaw != nil {
		if numMsg, ok := numRaw.(*dynamic.Message); ok && numMsg != nil {
			n.NumKind = numMsg.GetFieldByName("kind").(string)
			n.NumWidth = int(numMsg.GetFieldByName("width").(int32))
			n.NumVal = numMsg.GetFieldByName("val").(string)
		}
	}
	if elemsRaw, ok := msg.GetFieldByName("elems").([]interface{}); ok {
		for _, e := range elemsRaw {
			em, ok := e.(*dynamic.Message)
			if !ok {
				continue
			}
			sub, err := dynamicToNode(em)
			if err != nil {
				return nil, err
			}
			n.Elems = append(n.Elems, sub)
		}
	}
	if elemRaw := msg.GetFieldByName("opt_elem"); elemRaw != nil {
		if em, ok := elemRaw.(*dynamic.Message); ok && em != nil {
			sub, err := dynamicToNode(em)
			if err != nil {
				return nil, err
			}
			n.Elem = sub
		}
	}
	if tokensRaw, ok := msg.GetFieldByName("op_tokens").([]interface{}); ok && len(tokensRaw) > 0 {
		tokens := make([]string, len(tokensRaw))
		for i, t := range tokensRaw {
			tokens[i] = t.(string)
		}
		n.Op = &mixOpNode{Tokens: tokens, Arity: int(msg.GetFieldByName("op_arity").(int32))}
	}
	if fieldsRaw, ok := msg.GetFieldByName("fields").(map[interface{}]interface{}); ok && len(fieldsRaw) > 0 {
		n.Fields = make(map[string]*node, len(fieldsRaw))
		for k, v := range fieldsRaw {
			em, ok := v.(*dynamic.Message)
			if !ok {
				continue
			}
			sub, err := dynamicToNode(em)
			if err != nil {
				return nil, err
			}
			n.Fields[k.(string)] = sub
		}
	}
	return n, nil
}
