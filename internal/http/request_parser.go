// Package http serves the expense API.
//
// This file turns request bodies into expense input. JSON and
// form-encoded bodies are both accepted.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

var (
	errMalformedBody    = errors.New("malformed request body")
	errAmountNotANumber = errors.New("amount must be a number")
)

// expenseInput is the decoded create request. A missing or empty amount is
// left at zero so validation reports it as absent.
type expenseInput struct {
	Title  string
	Amount float64
}

// parseExpenseInput reads the body once and decodes it according to its
// content type, sniffing JSON when no type is given.
func parseExpenseInput(r *http.Request) (expenseInput, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return expenseInput{}, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return expenseInput{}, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json", mediaType == "" && body[0] == '{':
		return parseJSONInput(body)
	case mediaType == "application/x-www-form-urlencoded", mediaType == "":
		return parseFormInput(body)
	default:
		return expenseInput{}, fmt.Errorf("%w: unsupported content type %q", errMalformedBody, mediaType)
	}
}

func parseJSONInput(body []byte) (expenseInput, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return expenseInput{}, fmt.Errorf("%w: %v", errMalformedBody, err)
	}

	amount, err := amountValue(raw["amount"])
	if err != nil {
		return expenseInput{}, err
	}
	return expenseInput{Title: stringValue(raw["title"]), Amount: amount}, nil
}

func parseFormInput(body []byte) (expenseInput, error) {
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return expenseInput{}, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	amount, err := parseAmount(form.Get("amount"))
	if err != nil {
		return expenseInput{}, err
	}
	return expenseInput{Title: sanitizeInput(form.Get("title")), Amount: amount}, nil
}

// stringValue coerces scalar JSON values to their string form. Falsy
// scalars (false, numeric zero) and non-scalars count as absent.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return sanitizeInput(val)
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return ""
		}
		return val.String()
	case bool:
		if !val {
			return ""
		}
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func amountValue(v any) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		return parseAmount(val.String())
	case string:
		return parseAmount(val)
	default:
		return 0, errAmountNotANumber
	}
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errAmountNotANumber
	}
	return f, nil
}

// sanitizeInput drops control characters other than tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
