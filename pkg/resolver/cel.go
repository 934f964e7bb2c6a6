// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"context"
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/uuid"

	"github.com/buildcomp/buildcomp/pkg/manifest"
)

// celHook evaluates a type-checked CEL program against the hook environment.
type celHook struct {
	path    string
	program celgo.Program
}

func celEnv() (*celgo.Env, error) {
	return celgo.NewEnv(
		celgo.Variable("manifest", celgo.StringType),
		celgo.Variable("section", celgo.StringType),
		celgo.Variable("option", celgo.StringType),
		celgo.Variable("fallback", celgo.DynType),
		celgo.Variable("defaults", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("options", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("now", celgo.TimestampType),
		celgo.Function("uuid",
			celgo.Overload("uuid_string", []*celgo.Type{}, celgo.StringType,
				celgo.FunctionBinding(func(...ref.Val) ref.Val {
					return types.String(uuid.NewString())
				}),
			),
		),
	)
}

func compileCELHook(path string, src []byte, _ *manifest.Manifest, _ hookConfig) (Resolver, error) {
	env, err := celEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(string(src))
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, err
	}
	return &celHook{path: path, program: prg}, nil
}

func (h *celHook) Resolve(ctx context.Context, req *Request) (any, error) {
	out, _, err := h.program.ContextEval(ctx, hookEnv(req))
	if err != nil {
		return nil, fmt.Errorf("cel hook %s: %w", h.path, err)
	}
	return celToNative(out), nil
}

// celToNative unwraps CEL lists and maps into []any and map[string]any.
func celToNative(v ref.Val) any {
	switch t := v.(type) {
	case types.Null:
		return nil
	case traits.Mapper:
		out := make(map[string]any)
		it := t.Iterator()
		for it.HasNext() == types.True {
			k := it.Next()
			out[fmt.Sprint(k.Value())] = celToNative(t.Get(k))
		}
		return out
	case traits.Lister:
		n, _ := t.Size().(types.Int)
		out := make([]any, 0, int(n))
		for i := types.Int(0); i < n; i++ {
			out = append(out, celToNative(t.Get(i)))
		}
		return out
	default:
		return v.Value()
	}
}
