package engine

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/roach88/splice/internal/model"
)

// Argument names used by the command codec.
const (
	ArgClip     = "clip"
	ArgIndex    = "index"
	ArgPosition = "position"
	ArgInPoint  = "in_point"
	ArgOutPoint = "out_point"
	ArgTarget   = "target_ms"
	ArgDelta    = "delta_ms"

	argClipID  = "id"
	argClipURL = "url"
)

// EncodeCommand flattens a command into its kind and an argument map.
// Values are strings, ints and uint64s so the map is accepted by
// model.MarshalCanonical.
func EncodeCommand(cmd Command) (Kind, map[string]any) {
	switch c := cmd.(type) {
	case AddClip:
		return KindAddClip, map[string]any{
			ArgClip: map[string]any{
				argClipID:   c.Clip.ID,
				argClipURL:  c.Clip.URL,
				ArgInPoint:  c.Clip.InPoint,
				ArgOutPoint: c.Clip.OutPoint,
			},
			ArgIndex: c.Index,
		}
	case RemoveClip:
		return KindRemoveClip, map[string]any{ArgIndex: c.Index}
	case CutClip:
		return KindCutClip, map[string]any{ArgIndex: c.Index, ArgPosition: c.Position}
	case UpdateClipRange:
		return KindUpdateClipRange, map[string]any{ArgIndex: c.Index, ArgInPoint: c.In, ArgOutPoint: c.Out}
	case Play:
		return KindPlay, map[string]any{}
	case Pause:
		return KindPause, map[string]any{}
	case Seek:
		return KindSeek, map[string]any{ArgTarget: c.Target}
	case Tick:
		return KindTick, map[string]any{ArgDelta: c.Delta}
	default:
		return "", map[string]any{}
	}
}

// DecodeCommand builds a command from its kind and arguments.
//
// Numbers may be any Go integer type, an integral float64 (as produced by
// encoding/json) or a json.Number. Negative or fractional numbers, missing
// arguments and unknown kinds return a *CommandError. Unknown extra
// arguments are ignored.
func DecodeCommand(kind string, args map[string]any) (Command, error) {
	k := Kind(kind)
	d := argDecoder{kind: k, args: args}

	var cmd Command
	switch k {
	case KindAddClip:
		clip := d.clip(ArgClip)
		cmd = AddClip{Clip: clip, Index: d.index(ArgIndex)}
	case KindRemoveClip:
		cmd = RemoveClip{Index: d.index(ArgIndex)}
	case KindCutClip:
		cmd = CutClip{Index: d.index(ArgIndex), Position: d.millis(ArgPosition)}
	case KindUpdateClipRange:
		cmd = UpdateClipRange{Index: d.index(ArgIndex), In: d.millis(ArgInPoint), Out: d.millis(ArgOutPoint)}
	case KindPlay:
		cmd = Play{}
	case KindPause:
		cmd = Pause{}
	case KindSeek:
		cmd = Seek{Target: d.millis(ArgTarget)}
	case KindTick:
		cmd = Tick{Delta: d.millis(ArgDelta)}
	default:
		return nil, &CommandError{
			Code:    ErrCodeUnknownKind,
			Kind:    kind,
			Message: "unknown command kind",
		}
	}

	if d.err != nil {
		return nil, d.err
	}
	return cmd, nil
}

// argDecoder records the first error so call sites stay linear.
type argDecoder struct {
	kind Kind
	args map[string]any
	err  *CommandError
}

func (d *argDecoder) lookup(args map[string]any, name string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	v, ok := args[name]
	if !ok || v == nil {
		d.err = missingArg(d.kind, name)
		return nil, false
	}
	return v, true
}

func (d *argDecoder) millis(name string) uint64 {
	return d.millisFrom(d.args, name)
}

func (d *argDecoder) millisFrom(args map[string]any, name string) uint64 {
	v, ok := d.lookup(args, name)
	if !ok {
		return 0
	}
	n, err := toUint64(v)
	if err != nil {
		d.err = invalidArg(d.kind, name, "%v", err)
		return 0
	}
	return n
}

func (d *argDecoder) index(name string) int {
	n := d.millis(name)
	if d.err != nil {
		return 0
	}
	if n > math.MaxInt {
		d.err = invalidArg(d.kind, name, "index %d overflows int", n)
		return 0
	}
	return int(n)
}

func (d *argDecoder) str(args map[string]any, name string) string {
	v, ok := d.lookup(args, name)
	if !ok {
		return ""
	}
	s, isString := v.(string)
	if !isString {
		d.err = invalidArg(d.kind, name, "expected string, got %T", v)
		return ""
	}
	return s
}

func (d *argDecoder) clip(name string) model.Clip {
	v, ok := d.lookup(d.args, name)
	if !ok {
		return model.Clip{}
	}
	m, isMap := v.(map[string]any)
	if !isMap {
		d.err = invalidArg(d.kind, name, "expected object, got %T", v)
		return model.Clip{}
	}
	return model.Clip{
		ID:       d.str(m, argClipID),
		URL:      d.str(m, argClipURL),
		InPoint:  d.millisFrom(m, ArgInPoint),
		OutPoint: d.millisFrom(m, ArgOutPoint),
	}
}

// toUint64 converts a decoded number to uint64.
func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case int:
		return nonNegative(int64(n))
	case int64:
		return nonNegative(n)
	case int32:
		return nonNegative(int64(n))
	case float64:
		if n < 0 || n != math.Trunc(n) || n >= math.MaxUint64 {
			return 0, &numberError{value: strconv.FormatFloat(n, 'g', -1, 64)}
		}
		return uint64(n), nil
	case json.Number:
		u, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			return 0, &numberError{value: n.String()}
		}
		return u, nil
	default:
		return 0, &numberError{value: strconv.Quote(typeName(v))}
	}
}

func nonNegative(n int64) (uint64, error) {
	if n < 0 {
		return 0, &numberError{value: strconv.FormatInt(n, 10)}
	}
	return uint64(n), nil
}

type numberError struct {
	value string
}

func (e *numberError) Error() string {
	return "expected non-negative integer, got " + e.value
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "value"
	}
}
