// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/google/uuid"

	"github.com/buildcomp/buildcomp/pkg/buildcfg"
	"github.com/buildcomp/buildcomp/pkg/manifest"
)

// jsEntryPoint is the function a JavaScript hook must define.
const jsEntryPoint = "collect"

// jsHook runs collect(ctx) from a compiled script in a fresh runtime per call.
type jsHook struct {
	path    string
	program *goja.Program
}

func compileJSHook(path string, src []byte, _ *manifest.Manifest, _ hookConfig) (Resolver, error) {
	program, err := goja.Compile(path, string(src), false)
	if err != nil {
		return nil, err
	}
	return &jsHook{path: path, program: program}, nil
}

func (h *jsHook) Resolve(ctx context.Context, req *Request) (any, error) {
	vm := goja.New()
	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	if _, err := vm.RunProgram(h.program); err != nil {
		return nil, h.wrap(ctx, err)
	}
	collect, ok := goja.AssertFunction(vm.Get(jsEntryPoint))
	if !ok {
		return nil, fmt.Errorf("js hook %s does not define %s(): %w", h.path, jsEntryPoint, ErrUnavailable)
	}

	hookCtx, err := h.context(vm, req)
	if err != nil {
		return nil, err
	}
	out, err := collect(goja.Undefined(), hookCtx)
	if err != nil {
		return nil, h.wrap(ctx, err)
	}
	if out == nil || goja.IsUndefined(out) || goja.IsNull(out) {
		return nil, nil
	}
	return out.Export(), nil
}

// context builds the ctx argument of collect(). ctx.config writes into the
// request fragment.
func (h *jsHook) context(vm *goja.Runtime, req *Request) (*goja.Object, error) {
	obj := vm.NewObject()
	for name, value := range hookEnv(req) {
		if name == "now" {
			continue
		}
		if err := obj.Set(name, value); err != nil {
			return nil, err
		}
	}

	now, err := vm.New(vm.Get("Date"), vm.ToValue(req.Now.UnixMilli()))
	if err != nil {
		return nil, err
	}
	if err := obj.Set("now", now); err != nil {
		return nil, err
	}
	if err := obj.Set("uuid", uuid.NewString); err != nil {
		return nil, err
	}

	config := vm.NewObject()
	fragment := req.Fragment
	if fragment == nil {
		fragment = buildcfg.NewRoot(nil)
	}
	setters := map[string]any{
		"set": func(section, key string, value any) {
			fragment.Section(section).Set(key, value)
		},
		"append": func(section, key string, value any) {
			fragment.Section(section).Add(key, value)
		},
		"operator": func(section, key, op string) {
			operator := buildcfg.Operator(op)
			if !operator.IsValid() {
				panic(vm.NewTypeError("invalid operator %q for %s.%s", op, section, key))
			}
			fragment.Section(section).SetOperator(key, operator)
		},
		"comment": func(section, key, text string) {
			fragment.Section(section).Set(key, buildcfg.Comment(text))
		},
	}
	for name, fn := range setters {
		if err := config.Set(name, fn); err != nil {
			return nil, err
		}
	}
	if err := obj.Set("config", config); err != nil {
		return nil, err
	}
	return obj, nil
}

func (h *jsHook) wrap(ctx context.Context, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) && ctx.Err() != nil {
		return fmt.Errorf("js hook %s interrupted: %w", h.path, ctx.Err())
	}
	return fmt.Errorf("js hook %s: %w", h.path, err)
}
