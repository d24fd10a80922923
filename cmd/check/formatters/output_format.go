package formatters

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}
