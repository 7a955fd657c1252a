// Package validate checks request input structs against rules in their
// `validate` tag. Rules are comma-separated; the first failing rule per
// field wins and errors are keyed by the field's json name.
//
//	type Input struct {
//	    Name     string  `json:"name"     validate:"required,max=100"`
//	    Email    string  `json:"email"    validate:"required,email"`
//	    Password string  `json:"password" validate:"required,min=6"`
//	    Price    float64 `json:"price"    validate:"gte=0"`
//	}
//
// Available rules:
//
//	required      non-zero value
//	nullable      empty value skips the rest of the rules
//	email         well-formed address
//	numeric       parses as a number
//	integer       parses as a whole number
//	boolean       bool, or one of true/false/1/0
//	alpha_dash    letters, digits, '-', '_'
//	min=N max=N   length bound for strings, value bound for numbers
//	gte=N lte=N   numeric bounds
//	in=a,b,c      membership in the listed values
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Struct runs every tagged field of v through its rules. The result maps
// json field name to the first failure; an empty map is a pass.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("validate")
		if tag == "" {
			continue
		}
		name := fieldName(rt.Field(i))
		if msg := checkField(name, rv.Field(i), parseRules(tag)); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// HasErrors reports whether Struct found anything.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

type rule struct {
	name  string
	param string
}

func checkField(name string, v reflect.Value, rules []rule) string {
	for _, r := range rules {
		if r.name == "nullable" && isZero(v) {
			return ""
		}
	}
	for _, r := range rules {
		if r.name == "nullable" {
			continue
		}
		check, known := checks[r.name]
		if !known {
			continue
		}
		if msg := check(name, r.param, v); msg != "" {
			return msg
		}
	}
	return ""
}

// checks maps a rule name to its implementation. Each returns "" on pass
// or the user-facing message on failure.
var checks = map[string]func(field, param string, v reflect.Value) string{
	"required": func(field, _ string, v reflect.Value) string {
		if isZero(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
		return ""
	},
	"email": func(field, _ string, v reflect.Value) string {
		if !emailRE.MatchString(text(v)) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
		return ""
	},
	"boolean": func(field, _ string, v reflect.Value) string {
		if v.Kind() == reflect.Bool {
			return ""
		}
		switch strings.ToLower(text(v)) {
		case "true", "false", "1", "0":
			return ""
		}
		return fmt.Sprintf("The %s field must be true or false.", field)
	},
	"alpha_dash": func(field, _ string, v reflect.Value) string {
		for _, c := range text(v) {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", field)
			}
		}
		return ""
	},
	"numeric": func(field, _ string, v reflect.Value) string {
		if _, err := strconv.ParseFloat(text(v), 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", field)
		}
		return ""
	},
	"integer": func(field, _ string, v reflect.Value) string {
		if _, err := strconv.ParseInt(text(v), 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}
		return ""
	},
	"min": func(field, param string, v reflect.Value) string {
		bound := num(param)
		if isNumeric(v) {
			if asFloat(v) < bound {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
			return ""
		}
		if float64(len([]rune(text(v)))) < bound {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
		return ""
	},
	"max": func(field, param string, v reflect.Value) string {
		bound := num(param)
		if isNumeric(v) {
			if asFloat(v) > bound {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
			return ""
		}
		if float64(len([]rune(text(v)))) > bound {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
		return ""
	},
	"gte": func(field, param string, v reflect.Value) string {
		if asFloat(v) < num(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
		return ""
	},
	"lte": func(field, param string, v reflect.Value) string {
		if asFloat(v) > num(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
		return ""
	},
	"in": func(field, param string, v reflect.Value) string {
		raw := text(v)
		for _, option := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(option) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	},
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func text(v reflect.Value) string { return fmt.Sprintf("%v", v.Interface()) }

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		// false is a legitimate value, never "missing"
		return false
	default:
		return isNumeric(v) && asFloat(v) == 0
	}
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func asFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(text(v), 64)
	return f
}

func num(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// fieldName prefers the json tag so error keys match what the client sent.
func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return strings.ToLower(f.Name)
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// parseRules splits the tag on commas, gluing the multi-valued in= list
// back together: "required,in=a,b,c,max=5" parses as three rules.
func parseRules(tag string) []rule {
	var rules []rule
	parts := strings.Split(tag, ",")

	for i := 0; i < len(parts); i++ {
		tok := strings.TrimSpace(parts[i])
		if tok == "" {
			continue
		}
		name, param, _ := strings.Cut(tok, "=")
		if name == "in" {
			values := []string{param}
			for i+1 < len(parts) && !looksLikeRule(strings.TrimSpace(parts[i+1])) {
				values = append(values, strings.TrimSpace(parts[i+1]))
				i++
			}
			param = strings.Join(values, ",")
		}
		rules = append(rules, rule{name: name, param: param})
	}
	return rules
}

func looksLikeRule(tok string) bool {
	switch tok {
	case "required", "nullable", "email", "numeric", "integer", "boolean", "alpha_dash":
		return true
	}
	for _, p := range []string{"min=", "max=", "gte=", "lte=", "in="} {
		if strings.HasPrefix(tok, p) {
			return true
		}
	}
	return false
}
