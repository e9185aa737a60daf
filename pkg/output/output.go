package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/zfogg/picfeed/pkg/config"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Out is where all command output goes
var Out io.Writer = color.Output

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	switch config.GetString("output.format") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// IsJSON reports whether commands should print raw JSON
func IsJSON() bool {
	return GetOutputFormat() == FormatJSON
}

// Print outputs data as indented JSON, preceded by title in text mode
func Print(title string, data interface{}) error {
	if title != "" && !IsJSON() {
		fmt.Fprintf(Out, "%s:\n", title)
	}
	s, err := FormatAsPrettyJSON(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, s)
	return nil
}

// PrintTable prints rows under bold headers, or the rows as JSON in json mode
func PrintTable(headers []string, rows [][]string) error {
	if IsJSON() {
		records := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			rec := make(map[string]string, len(headers))
			for i, h := range headers {
				if i < len(row) {
					rec[h] = row[i]
				}
			}
			records = append(records, rec)
		}
		return Print("", records)
	}

	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)
	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(w, cell)
			if i < len(row)-1 {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// Println writes a plain line
func Println(a ...interface{}) {
	fmt.Fprintln(Out, a...)
}

// Printf writes formatted text
func Printf(format string, args ...interface{}) {
	fmt.Fprintf(Out, format, args...)
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(Out, msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(Out, "Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(Out, msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(Out, "Warning: "+msg+"\n", args...)
}

// FormatAsPrettyJSON converts data to indented JSON
func FormatAsPrettyJSON(data interface{}) (string, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
