package validation

import (
	"math"
	"regexp"
	"strconv"
)

// Raw is an untrusted form submission as decoded from the request
// body. Values are strings or JSON numbers; anything else fails the
// type check of the field it is submitted under. Keys not covered by
// the schema are stripped, never rejected.
type Raw map[string]any

type kind int

const (
	kindText kind = iota
	kindEmail
	kindPattern
	kindEnum
	kindLiteral
	kindInt
)

type failure int

const (
	failRequired failure = iota
	failType
	failEmail
	failPattern
	failEnum
	failLiteral
	failInteger
	failTooShort
	failTooLong
	failMin
	failMax
)

// emailRegex matches RFC-shaped addresses; deliverability is not our
// problem, the notification mail simply bounces.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// field is one declarative schema rule. Per field the first failing
// check wins; the pipeline still evaluates every field so the client
// can render all mistakes at once.
type field struct {
	name     string
	aliases  []string // alternate payload keys, e.g. mandatory-shares vs mandatoryShares
	required bool
	kind     kind

	minLen, maxLen int // rune bounds for string kinds; maxLen 0 = unbounded
	min, max       int // value bounds for kindInt
	pattern        *regexp.Regexp
	enum           []string
	literal        string

	defaultStr string // optional string fields fall back to this
	defaultInt int    // optional int fields fall back to this

	messages map[failure]string
}

func (f field) message(k failure) string {
	if msg, ok := f.messages[k]; ok {
		return msg
	}
	return "Ungültige Eingabe"
}

// lookup resolves the submitted value under the canonical name or any
// alias. The canonical key wins when both are present.
func (f field) lookup(raw Raw) (any, bool) {
	if v, ok := raw[f.name]; ok && v != nil {
		return v, true
	}
	for _, alias := range f.aliases {
		if v, ok := raw[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// evaluate checks every field of the schema against the raw submission
// and returns the normalized record alongside a field-keyed error map.
// Exactly one of the two is meaningful: the record only when the error
// map is empty.
func evaluate(fields []field, raw Raw) (map[string]any, map[string]string) {
	data := make(map[string]any, len(fields))
	errs := make(map[string]string)

	for _, f := range fields {
		value, present := f.lookup(raw)
		if !present || isBlank(value) {
			if f.required {
				errs[f.name] = f.message(failRequired)
				continue
			}
			if f.kind == kindInt {
				data[f.name] = f.defaultInt
			} else {
				data[f.name] = f.defaultStr
			}
			continue
		}

		if f.kind == kindInt {
			n, fail := intValue(value)
			if fail != nil {
				errs[f.name] = f.message(*fail)
				continue
			}
			switch {
			case n < f.min:
				errs[f.name] = f.message(failMin)
			case n > f.max:
				errs[f.name] = f.message(failMax)
			default:
				data[f.name] = n
			}
			continue
		}

		s, ok := value.(string)
		if !ok {
			errs[f.name] = f.message(failType)
			continue
		}

		if fail := f.checkString(s); fail != nil {
			errs[f.name] = f.message(*fail)
			continue
		}

		data[f.name] = s
	}

	return data, errs
}

func (f field) checkString(s string) *failure {
	switch f.kind {
	case kindEmail:
		if !emailRegex.MatchString(s) {
			return failPtr(failEmail)
		}
	case kindPattern:
		if !f.pattern.MatchString(s) {
			return failPtr(failPattern)
		}
	case kindEnum:
		found := false
		for _, allowed := range f.enum {
			if s == allowed {
				found = true
				break
			}
		}
		if !found {
			return failPtr(failEnum)
		}
	case kindLiteral:
		if s != f.literal {
			return failPtr(failLiteral)
		}
	}

	length := len([]rune(s))
	if f.minLen > 0 && length < f.minLen {
		return failPtr(failTooShort)
	}
	if f.maxLen > 0 && length > f.maxLen {
		return failPtr(failTooLong)
	}

	return nil
}

// intValue coerces a submitted value to an integer. JSON numbers come
// in as float64; form-encoded bodies submit numeric strings. A
// fractional value is rejected, never truncated.
func intValue(value any) (int, *failure) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, failPtr(failInteger)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, failPtr(failType)
		}
		if parsed != math.Trunc(parsed) {
			return 0, failPtr(failInteger)
		}
		return int(parsed), nil
	default:
		return 0, failPtr(failType)
	}
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

func failPtr(k failure) *failure {
	return &k
}
