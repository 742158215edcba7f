package api

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/intelliwave/intelliwave/internal/errors"
	"github.com/intelliwave/intelliwave/internal/models"
)

// IsJSONContentType reports whether a Content-Type header declares JSON
func IsJSONContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), models.ContentTypeJSON)
}

// ExtractReply turns a successful webhook body into reply text.
//
// JSON bodies yield the first present, non-null field among models.ReplyFields,
// which must be a string. A JSON body without any of those fields is returned
// whole, indented with two spaces. Any other content type is returned as plain text.
func ExtractReply(contentType string, body []byte) (string, error) {
	if !IsJSONContentType(contentType) {
		return string(body), nil
	}

	body = bytes.TrimSpace(body)
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response declared JSON but body is not valid JSON", contentType)
	}

	root := gjson.ParseBytes(body)
	if root.Type == gjson.Null {
		return "", apierrors.NewParseError("response payload is null", contentType)
	}

	if root.IsObject() {
		_, values := objectEntries(root)
		for _, field := range models.ReplyFields {
			value, ok := values[field]
			if !ok || value.Type == gjson.Null {
				continue
			}
			if value.Type != gjson.String {
				return "", apierrors.NewParseError(
					fmt.Sprintf("reply field %q is not a string", field), contentType)
			}
			return value.String(), nil
		}
	}

	return stringify(root), nil
}

// objectEntries lists the keys of obj in serialisation order. A repeated key
// keeps its first position and its last value.
func objectEntries(obj gjson.Result) ([]string, map[string]gjson.Result) {
	var keys []string
	values := make(map[string]gjson.Result)

	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = v
		return true
	})

	// Integer-like keys come first, in ascending order
	var indices, names []string
	for _, k := range keys {
		if isArrayIndex(k) {
			indices = append(indices, k)
		} else {
			names = append(names, k)
		}
	}
	sort.Slice(indices, func(i, j int) bool {
		a, _ := strconv.ParseUint(indices[i], 10, 32)
		b, _ := strconv.ParseUint(indices[j], 10, 32)
		return a < b
	})

	return append(indices, names...), values
}

func isArrayIndex(k string) bool {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return false
	}
	n, err := strconv.ParseUint(k, 10, 32)
	return err == nil && n < math.MaxUint32
}

// stringify renders a JSON value indented with two spaces
func stringify(v gjson.Result) string {
	var b strings.Builder
	writeValue(&b, v, "")
	return b.String()
}

func writeValue(b *strings.Builder, v gjson.Result, indent string) {
	inner := indent + "  "

	switch {
	case v.IsObject():
		keys, values := objectEntries(v)
		if len(keys) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",\n")
			}
			b.WriteString(inner)
			writeString(b, k)
			b.WriteString(": ")
			writeValue(b, values[k], inner)
		}
		b.WriteString("\n" + indent + "}")

	case v.IsArray():
		items := v.Array()
		if len(items) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[\n")
		for i, item := range items {
			if i > 0 {
				b.WriteString(",\n")
			}
			b.WriteString(inner)
			writeValue(b, item, inner)
		}
		b.WriteString("\n" + indent + "]")

	case v.Type == gjson.String:
		writeString(b, v.String())

	case v.Type == gjson.Number:
		b.WriteString(formatNumber(v.Float()))

	case v.Type == gjson.True:
		b.WriteString("true")

	case v.Type == gjson.False:
		b.WriteString("false")

	default:
		b.WriteString("null")
	}
}

// formatNumber prints f in its shortest round-trip form, switching to
// exponent notation below 1e-6 and from 1e21 up.
func formatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// writeString quotes s, escaping only quotes, backslashes and control characters
func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
