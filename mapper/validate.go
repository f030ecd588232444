package mapper

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/maptools/maptools/internal/severity"
)

// validate runs every constraint a descriptor declares against the derived
// value, appending one issue per violation. It runs after the value is fully
// derived and transformed but before "default" and "as" apply, so constraints
// always see the raw derived value.
//
// Zero bounds are enforced: a constraint applies whenever its key is present
// on the descriptor, not merely when its bound is truthy.
func validate(desc *Object, value any, ec *Context) {
	if desc == nil {
		return
	}
	checkType(desc, value, ec)
	checkBounds(desc, value, ec)
	checkMultipleOf(desc, value, ec)
	checkLength(desc, value, ec)
	checkEnum(desc, value, ec)
	checkPattern(desc, value, ec)
	checkRequired(desc, value, ec)
}

func report(ec *Context, constraint string, bound, value any, format string, args ...any) {
	ec.AddIssue(ValidationIssue{
		Constraint: constraint,
		Bound:      bound,
		Value:      value,
		Message:    fmt.Sprintf(format, args...),
		Severity:   severity.SeverityError,
	})
}

func checkType(desc *Object, value any, ec *Context) {
	expected, ok := desc.str("type")
	if !ok || value == nil {
		return
	}
	var matches bool
	switch expected {
	case "array":
		_, matches = value.([]any)
	case "boolean":
		_, matches = value.(bool)
	case "integer":
		if n, isNum := coerceNumber(value); isNum {
			matches = n == math.Trunc(n)
		}
	case "null":
		matches = false // value != nil here; null never matches a present value
	case "number":
		_, matches = toNumber(value)
	case "object":
		switch value.(type) {
		case map[string]any, *Object:
			matches = true
		}
	case "string":
		_, matches = value.(string)
	default:
		return
	}
	if !matches {
		report(ec, "type", expected, value, "value %v is not of type %s", value, expected)
	}
}

func checkBounds(desc *Object, value any, ec *Context) {
	num, isNum := toNumber(value)
	if !isNum || math.IsInf(num, 0) || math.IsNaN(num) {
		return
	}
	if bound, ok := desc.Get("maximum"); ok {
		if maxVal, isBound := toNumber(bound); isBound && num > maxVal {
			report(ec, "maximum", bound, value, "value %v exceeds maximum %v", value, bound)
		}
	}
	if bound, ok := desc.Get("minimum"); ok {
		if minVal, isBound := toNumber(bound); isBound && num < minVal {
			report(ec, "minimum", bound, value, "value %v is below minimum %v", value, bound)
		}
	}
}

func checkMultipleOf(desc *Object, value any, ec *Context) {
	bound, ok := desc.Get("multipleOf")
	if !ok {
		return
	}
	num, isNum := toNumber(value)
	divisor, isBound := toNumber(bound)
	if !isNum || !isBound || divisor == 0 {
		return
	}
	// Scale both operands to integers so decimal divisors like 0.01 divide
	// exactly despite float representation.
	scale := math.Pow10(decimals(divisor))
	if math.Mod(math.Round(num*scale), math.Round(divisor*scale)) != 0 {
		report(ec, "multipleOf", bound, value, "value %v is not a multiple of %v", value, bound)
	}
}

// decimals counts the fractional digits of a bound as it would be written.
func decimals(n float64) int {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func checkLength(desc *Object, value any, ec *Context) {
	length, hasLength := lengthOf(value)
	if !hasLength {
		return
	}
	if bound, ok := desc.Get("minLength"); ok {
		if minLen, isBound := toNumber(bound); isBound && float64(length) < minLen {
			report(ec, "minLength", bound, value, "length %d is below minLength %v", length, bound)
		}
	}
	if bound, ok := desc.Get("maxLength"); ok {
		if maxLen, isBound := toNumber(bound); isBound && float64(length) > maxLen {
			report(ec, "maxLength", bound, value, "length %d exceeds maxLength %v", length, bound)
		}
	}
}

func checkEnum(desc *Object, value any, ec *Context) {
	allowed, ok := desc.Get("enum")
	if !ok || value == nil {
		return
	}
	list, isList := allowed.([]any)
	if !isList {
		return
	}
	for _, candidate := range list {
		if looseEqual(value, candidate) {
			return
		}
	}
	report(ec, "enum", allowed, value, "value %v is not in the enumeration", value)
}

func checkPattern(desc *Object, value any, ec *Context) {
	pattern, ok := desc.str("pattern")
	if !ok {
		return
	}
	s, isString := value.(string)
	if !isString {
		return
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		// Malformed descriptors degrade gracefully; an uncompilable
		// pattern validates nothing.
		return
	}
	if !re.MatchString(s) {
		report(ec, "pattern", pattern, value, "value %q does not match pattern %s", s, pattern)
	}
}

func checkRequired(desc *Object, value any, ec *Context) {
	required, ok := desc.Get("required")
	if !ok || !truthy(required) {
		return
	}
	if value == nil {
		report(ec, "required", true, nil, "a value is required")
	}
}
