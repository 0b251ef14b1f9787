package system

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/categories/category"
	"github.com/milk9111/categories/ecs"
)

var categoryScriptModules = []string{"fmt", "math", "text", "enum"}

// RunCategoryScript runs a tengo script with the `categories` query map in
// scope and returns the value of its top-level `result` variable, converted
// to Go values. A script that sets result to an error value fails the run.
func RunCategoryScript(ctx context.Context, src []byte, s *CategorySystem) (any, error) {
	if s == nil || s.registry == nil {
		return nil, fmt.Errorf("category script: no category system")
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(categoryScriptModules...))
	if err := script.Add("categories", buildCategoryScriptModule(s)); err != nil {
		return nil, fmt.Errorf("category script: %w", err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("category script: compile: %w", err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("category script: run: %w", err)
	}

	if !compiled.IsDefined("result") {
		return nil, nil
	}
	obj := compiled.Get("result").Object()
	if e, ok := obj.(*tengo.Error); ok {
		return nil, fmt.Errorf("category script: %w", errors.New(objectAsString(e.Value)))
	}
	return objectToAny(obj), nil
}

func buildCategoryScriptModule(s *CategorySystem) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	table := s.registry.Table()

	values["names"] = &tengo.UserFunction{Name: "names", Value: func(args ...tengo.Object) (tengo.Object, error) {
		names := table.Names()
		out := make([]tengo.Object, 0, len(names))
		for _, n := range names {
			out = append(out, &tengo.String{Value: n})
		}
		return &tengo.Array{Value: out}, nil
	}}

	values["mask"] = &tengo.UserFunction{Name: "mask", Value: func(args ...tengo.Object) (tengo.Object, error) {
		names := make([]string, 0, len(args))
		for _, arg := range args {
			names = append(names, strings.TrimSpace(objectAsString(arg)))
		}
		m, err := table.MaskOf(names...)
		if err != nil {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Int{Value: int64(m)}, nil
	}}

	values["find_first"] = &tengo.UserFunction{Name: "find_first", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, ok := s.FindFirst(objectAsString(args[0]), optionalBool(args, 1))
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return entityObject(e), nil
	}}

	values["find_all"] = &tengo.UserFunction{Name: "find_all", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		ents := s.FindAll(objectAsString(args[0]), optionalBool(args, 1))
		out := make([]tengo.Object, 0, len(ents))
		for _, e := range ents {
			out = append(out, entityObject(e))
		}
		return &tengo.Array{Value: out}, nil
	}}

	values["is_of_category"] = &tengo.UserFunction{Name: "is_of_category", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, ok := objectAsEntity(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		return boolObject(s.IsOfCategory(e, objectAsString(args[1]))), nil
	}}

	values["is_of_mask"] = &tengo.UserFunction{Name: "is_of_mask", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		e, _ := objectAsEntity(args[0])
		m, ok := tengo.ToInt64(args[1])
		if !ok {
			return tengo.FalseValue, nil
		}
		return boolObject(s.IsOfCategoryMask(e, category.Mask(uint32(m)))), nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func entityObject(e ecs.Entity) tengo.Object {
	return &tengo.Int{Value: int64(e)}
}

func objectAsEntity(obj tengo.Object) (ecs.Entity, bool) {
	v, ok := tengo.ToInt64(obj)
	if !ok || v <= 0 {
		return 0, false
	}
	return ecs.Entity(v), true
}

func optionalBool(args []tengo.Object, i int) bool {
	if i >= len(args) {
		return false
	}
	return !args[i].IsFalsy()
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return v.Value
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.ImmutableArray:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
