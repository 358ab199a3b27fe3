// Package ai defines the model client surface used for metadata extraction.
package ai

// AiInterface is implemented by the model backends.
type AiInterface interface {
	Name() string
	HandleText(string) (string, error)
}
