package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"absenceio/filter"
)

var dateLiteral = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseWhere parses one filter expression:
//
//	[<key>:<entity>[.<id>]/...]<field><op><value>
//
// where op is one of = > >= < <= =in(a,b,...) =nin(a,b,...). Each leading
// relation segment nests the rest of the expression under that relation.
func ParseWhere(expr string) (filter.Node, error) {
	opAt := strings.IndexAny(expr, "=<>")
	if opAt < 0 {
		return nil, fmt.Errorf("expression %q: no operator", expr)
	}
	segments := strings.Split(expr[:opAt], "/")
	field := strings.TrimSpace(segments[len(segments)-1])
	if field == "" {
		return nil, fmt.Errorf("expression %q: missing field", expr)
	}

	node, err := parseComparison(filter.Key(field), expr[opAt:])
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", expr, err)
	}

	for i := len(segments) - 2; i >= 0; i-- {
		seg := strings.TrimSpace(segments[i])
		key, entity, id, ok := filter.ParseRelationKey(seg)
		if !ok {
			key, entity, id, ok = filter.ParseRelationKey(seg + "." + filter.DefaultRelationID)
		}
		if !ok {
			return nil, fmt.Errorf("expression %q: bad relation %q, want <key>:<entity>[.<id>]", expr, seg)
		}
		node = filter.NewRelation(key, entity, node).WithID(id)
	}
	return node, nil
}

func parseComparison(key filter.Key, rest string) (filter.Node, error) {
	switch {
	case strings.HasPrefix(rest, ">="):
		return filter.GreaterOrEqual(key, parseValue(rest[2:])), nil
	case strings.HasPrefix(rest, "<="):
		return filter.LessOrEqual(key, parseValue(rest[2:])), nil
	case strings.HasPrefix(rest, ">"):
		return filter.GreaterThan(key, parseValue(rest[1:])), nil
	case strings.HasPrefix(rest, "<"):
		return filter.LessThan(key, parseValue(rest[1:])), nil
	case strings.HasPrefix(rest, "=nin("):
		values, err := parseList(rest[len("=nin("):])
		if err != nil {
			return nil, err
		}
		return filter.NotIn(key, values...), nil
	case strings.HasPrefix(rest, "=in("):
		values, err := parseList(rest[len("=in("):])
		if err != nil {
			return nil, err
		}
		return filter.In(key, values...), nil
	case strings.HasPrefix(rest, "="):
		return filter.EqualTo(key, parseValue(rest[1:])), nil
	}
	return nil, fmt.Errorf("unknown operator in %q", rest)
}

func parseList(s string) ([]interface{}, error) {
	if !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("unterminated list %q", s)
	}
	s = strings.TrimSpace(s[:len(s)-1])
	values := []interface{}{}
	if s == "" {
		return values, nil
	}
	for _, item := range strings.Split(s, ",") {
		values = append(values, parseValue(item))
	}
	return values, nil
}

// parseValue types a literal: YYYY-MM-DD dates, integers, floats and
// booleans; anything else, or a double-quoted literal, stays a string.
func parseValue(s string) interface{} {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	if dateLiteral.MatchString(s) {
		if day, err := time.ParseInLocation(filter.DefaultDateLayout, s, time.UTC); err == nil {
			return day
		}
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

// BuildFilter ANDs every where expression with one OrFilter per any
// expression, whose alternatives are separated by '|'.
func BuildFilter(where, anyOf []string) (filter.Node, error) {
	var nodes []filter.Node
	for _, expr := range where {
		node, err := ParseWhere(expr)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	for _, expr := range anyOf {
		var alternatives []filter.Node
		for _, alt := range strings.Split(expr, "|") {
			node, err := ParseWhere(alt)
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, node)
		}
		nodes = append(nodes, filter.AnyOf(alternatives...))
	}
	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return nodes[0], nil
	}
	return filter.AllOf(nodes...), nil
}
