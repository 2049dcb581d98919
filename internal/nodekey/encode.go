package nodekey

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ErrUnencodable is returned for a parameter that has no canonical encoding.
var ErrUnencodable = errors.New("parameter cannot be encoded as key data")

// Encode returns the canonical key data for the given parameters.
func Encode(positional []any, keyword map[string]any) (string, error) {
	parts := make([]string, 0, len(positional)+len(keyword))
	for i, p := range positional {
		s, err := EncodeParam(p)
		if err != nil {
			return "", fmt.Errorf("positional parameter %d: %w", i, err)
		}
		parts = append(parts, s)
	}

	names := make([]string, 0, len(keyword))
	for name := range keyword {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s, err := EncodeParam(keyword[name])
		if err != nil {
			return "", fmt.Errorf("keyword parameter %q: %w", name, err)
		}
		parts = append(parts, name+"="+s)
	}

	return strings.Join(parts, ", "), nil
}

// EncodeParam returns the canonical encoding of a single parameter.
func EncodeParam(p any) (string, error) {
	switch v := p.(type) {
	case nil:
		return "nil", nil
	case Keyer:
		return "@" + v.Key().String(), nil
	case cty.Value:
		return encodeValue(v)
	}

	ty, err := gocty.ImpliedType(p)
	if err != nil {
		return "", fmt.Errorf("%w: %T: %v", ErrUnencodable, p, err)
	}
	if !ty.IsPrimitiveType() {
		return "", fmt.Errorf("%w: %T is not a primitive type", ErrUnencodable, p)
	}
	v, err := gocty.ToCtyValue(p, ty)
	if err != nil {
		return "", fmt.Errorf("%w: %T: %v", ErrUnencodable, p, err)
	}
	return encodeValue(v)
}

func encodeValue(v cty.Value) (string, error) {
	if v.Type() == cty.NilType {
		return "", fmt.Errorf("%w: cty.NilVal", ErrUnencodable)
	}
	v, _ = v.UnmarkDeep()
	if !v.IsWhollyKnown() {
		return "", fmt.Errorf("%w: value is not wholly known", ErrUnencodable)
	}
	buf, err := ctyjson.Marshal(v, cty.DynamicPseudoType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnencodable, err)
	}
	return string(buf), nil
}
