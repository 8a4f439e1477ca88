// Package main provides a CLI for checking post text against X's weighted
// character limit.
// Usage: digestpost-validate [--max N] [--url URL] [--truncate] [--output json] [text]
//
// Text is taken from the arguments, or from stdin when no arguments are
// given. The exit code is 0 when the text fits and 1 when it does not, so
// the command can gate CI checks and shell pipelines.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"digestpost/internal/usecase/publish"
	"digestpost/internal/utils/text"
)

// ValidationOutput is the JSON output format.
type ValidationOutput struct {
	Valid          bool   `json:"valid"`
	WeightedLength int    `json:"weighted_length"`
	MaxLength      int    `json:"max_length"`
	CharsOver      int    `json:"chars_over"`
	URLCount       int    `json:"url_count"`
	Weight1Chars   int    `json:"weight1_chars"`
	Weight2Chars   int    `json:"weight2_chars"`
	Text           string `json:"text"`
	Truncated      bool   `json:"truncated,omitempty"`
}

func main() {
	var (
		maxLength    int
		articleURL   string
		truncate     bool
		outputFormat string
	)

	flag.IntVar(&maxLength, "max", text.DefaultMaxLength, "Weighted length limit")
	flag.StringVar(&articleURL, "url", "", "Compose the text with this article URL before validating")
	flag.BoolVar(&truncate, "truncate", false, "Truncate the text to fit instead of failing")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.Parse()

	input, err := readInput(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read input: %v\n", err)
		os.Exit(2)
	}

	output := validate(input, articleURL, maxLength, truncate)

	if outputFormat == "json" {
		outputJSON(output)
	} else {
		outputText(output)
	}

	if !output.Valid {
		os.Exit(1)
	}
}

// readInput returns the argument text, or stdin when no arguments are given.
func readInput(args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// validate runs the requested check: plain validation, composition with an
// article URL, or truncation to fit.
func validate(input, articleURL string, maxLength int, truncate bool) ValidationOutput {
	if articleURL != "" {
		composed, truncated := publish.ComposePost(input, articleURL, maxLength)
		result := text.ValidatePost(composed, maxLength)
		return toOutput(result, truncated)
	}

	if truncate {
		truncated := text.Truncate(input, maxLength, "")
		result := text.ValidatePost(truncated.Text, maxLength)
		return toOutput(result, truncated.WasTruncated)
	}

	return toOutput(text.ValidatePost(input, maxLength), false)
}

func toOutput(result text.ValidationResult, truncated bool) ValidationOutput {
	return ValidationOutput{
		Valid:          result.IsValid,
		WeightedLength: result.WeightedLength,
		MaxLength:      result.MaxLength,
		CharsOver:      result.CharsOver,
		URLCount:       result.URLCount,
		Weight1Chars:   result.Breakdown.Weight1,
		Weight2Chars:   result.Breakdown.Weight2,
		Text:           result.NormalizedText,
		Truncated:      truncated,
	}
}

// outputText prints the result in human-readable form.
func outputText(output ValidationOutput) {
	status := "OK"
	if !output.Valid {
		status = fmt.Sprintf("TOO LONG (+%d)", output.CharsOver)
	}

	fmt.Printf("%s  %d/%d weighted characters\n", status, output.WeightedLength, output.MaxLength)
	fmt.Printf("  weight-1: %d  weight-2: %d  urls: %d\n",
		output.Weight1Chars, output.Weight2Chars, output.URLCount)
	if output.Truncated {
		fmt.Println("  (truncated to fit)")
	}
	fmt.Println()
	fmt.Println(output.Text)
}

// outputJSON prints the result as indented JSON.
func outputJSON(output ValidationOutput) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to encode JSON: %v\n", err)
		os.Exit(2)
	}
}
