package model

import (
	"fmt"
	"strings"
)

// Config is the configuration record persisted at setup time as
// <app_dir>/config.yml. It is written once and read by the command layer
// and by stack collaborators; odooghost defines no update path for it.
type Config struct {
	// Version is the odooghost version that performed the setup.
	Version string `yaml:"version" mapstructure:"version" json:"version"`

	// WorkingDir is the absolute, OS-native path of the directory holding
	// the user's stack definitions.
	WorkingDir string `yaml:"working_dir" mapstructure:"working_dir" json:"workingDir"`
}

// Validate checks that both required fields are set and that WorkingDir
// is absolute.
func (c *Config) Validate() error {
	var missing []string
	if c.Version == "" {
		missing = append(missing, "version")
	}
	if c.WorkingDir == "" {
		missing = append(missing, "working_dir")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required fields: %s", strings.Join(missing, ", "))
	}
	if !isAbs(c.WorkingDir) {
		return fmt.Errorf("config: working_dir %q is not an absolute path", c.WorkingDir)
	}
	return nil
}

// SetupState is the binary initialization state of an installation,
// derived from the existence of the application directory.
type SetupState string

const (
	// StateUninitialized means the application directory does not exist.
	StateUninitialized SetupState = "uninitialized"

	// StateInitialized means setup completed and the application
	// directory exists.
	StateInitialized SetupState = "initialized"
)

// String returns the string representation of SetupState.
func (s SetupState) String() string {
	return string(s)
}

// SetupStateOf maps the boolean setup check to a SetupState.
func SetupStateOf(done bool) SetupState {
	if done {
		return StateInitialized
	}
	return StateUninitialized
}

// ExitCode defines the CLI process exit codes. Scripts can branch on them
// without parsing error messages.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitDockerNotRunning indicates the Docker daemon is not accessible
	// or rejected a request, including common network failures.
	ExitDockerNotRunning ExitCode = 3

	// ExitAlreadySetup indicates setup was attempted on an installation
	// that is already initialized.
	ExitAlreadySetup ExitCode = 8

	// ExitSetupFailed indicates a filesystem error aborted setup.
	ExitSetupFailed ExitCode = 9

	// ExitNotSetup indicates a command requiring an initialized
	// installation ran before setup.
	ExitNotSetup ExitCode = 10
)

// ExitCodeOf maps a domain error to the exit code the CLI reports for it.
func ExitCodeOf(err error) ExitCode {
	switch KindOf(err) {
	case KindAlreadySetup:
		return ExitAlreadySetup
	case KindSetupFailure:
		return ExitSetupFailed
	case KindCommonNetworkEnsure:
		return ExitDockerNotRunning
	case KindNotSetup:
		return ExitNotSetup
	default:
		return ExitGeneralError
	}
}

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// isAbs accepts both POSIX and Windows absolute forms so a config written
// on one platform validates the same way everywhere.
func isAbs(p string) bool {
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\\`) {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/')
}

// StackRef identifies the stack, service type and one-off status of a
// Docker resource, as recorded in its odooghost labels.
type StackRef struct {
	// Stack is the stack name.
	Stack string `json:"stack"`

	// ServiceType is the stack service type (e.g. "odoo", "db").
	// Empty for resources shared by the whole stack.
	ServiceType string `json:"serviceType,omitempty"`

	// OneOff marks short-lived containers such as shells or upgrade runs.
	OneOff bool `json:"oneOff,omitempty"`
}

// StackContainer is a container carrying odooghost stack labels.
type StackContainer struct {
	// ID is the Docker container ID.
	ID string `json:"id"`

	// Name is the container name without the leading "/".
	Name string `json:"name"`

	// Image is the image the container was created from.
	Image string `json:"image"`

	// State is the Docker container state (e.g. "running", "exited").
	State string `json:"state"`

	// Ref holds the stack identity parsed from the container labels.
	Ref StackRef `json:"ref"`
}

// StackSummary aggregates the containers of one stack.
type StackSummary struct {
	Name       string `json:"name"`
	Containers int    `json:"containers"`
	Running    int    `json:"running"`
}

// IsRunning reports whether at least one container of the stack runs.
func (s StackSummary) IsRunning() bool {
	return s.Running > 0
}
