// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"context"
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/google/uuid"

	"github.com/buildcomp/buildcomp/pkg/manifest"
)

// exprHook evaluates an expr-lang expression against the hook environment.
type exprHook struct {
	path    string
	program *exprvm.Program
}

func compileExprHook(path string, src []byte, _ *manifest.Manifest, _ hookConfig) (Resolver, error) {
	program, err := exprlang.Compile(string(src),
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.Function("uuid", func(...any) (any, error) {
			return uuid.NewString(), nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return &exprHook{path: path, program: program}, nil
}

func (h *exprHook) Resolve(ctx context.Context, req *Request) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := exprlang.Run(h.program, hookEnv(req))
	if err != nil {
		return nil, fmt.Errorf("expr hook %s: %w", h.path, err)
	}
	return out, nil
}
