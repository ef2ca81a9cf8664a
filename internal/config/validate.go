package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/relog/internal/changelog"
)

// ValidationError is a configuration error with file context.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("config validation failed")
	if e.FilePath != "" {
		sb.WriteString(fmt.Sprintf(" in %s", e.FilePath))
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(" at line %d", e.Line))
		if e.Column > 0 {
			sb.WriteString(fmt.Sprintf(", column %d", e.Column))
		}
	}
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(" (field: %s)", e.Field))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

// ValidateYAMLSyntax parses the file as YAML and reports syntax errors with
// line and column information where the parser provides it.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return &ValidationError{
			FilePath: filePath,
			Message:  fmt.Sprintf("cannot read file: %v", err),
		}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}
	return nil
}

// Validate checks field constraints and the classification rule list.
// source names the config origin used in error messages, typically the
// file path.
func Validate(cfg *Config, source string) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{
				FilePath: source,
				Field:    toSnakeCase(fe.Field()),
				Message:  formatValidationError(fe),
			}
		}
		return &ValidationError{FilePath: source, Message: err.Error()}
	}

	if _, err := changelog.NewRuleSet(engineRules(cfg.GroupRules)); err != nil {
		return &ValidationError{
			FilePath: source,
			Field:    "group_rules",
			Message:  err.Error(),
		}
	}

	if cfg.TagPattern != "" {
		if _, err := regexp.Compile(cfg.TagPattern); err != nil {
			return &ValidationError{
				FilePath: source,
				Field:    "tag_pattern",
				Message:  fmt.Sprintf("invalid pattern: %v", err),
			}
		}
	}

	return nil
}

// extractLineColumn pulls position information out of a yaml.v3 error
// message. Returns zeros when the message carries none.
func extractLineColumn(msg string) (line, column int) {
	if _, err := fmt.Sscanf(msg, "yaml: line %d:", &line); err == nil {
		return line, 0
	}
	if idx := strings.Index(msg, "line "); idx >= 0 {
		fmt.Sscanf(msg[idx:], "line %d", &line)
	}
	return line, 0
}

// cleanYAMLError strips the library prefix from a yaml.v3 error message.
func cleanYAMLError(msg string) string {
	msg = strings.TrimPrefix(msg, "yaml: ")
	if idx := strings.Index(msg, ": "); idx >= 0 && strings.HasPrefix(msg, "line ") {
		msg = msg[idx+2:]
	}
	return msg
}

func formatValidationError(e validator.FieldError) string {
	field := toSnakeCase(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, e.Tag())
	}
}

func toSnakeCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteRune('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
