package identity

import "fmt"

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type defLogger struct{}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DEBUG] "+format+"\n", args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INFO] "+format+"\n", args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WARN] "+format+"\n", args...)
}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERROR] "+format+"\n", args...)
}

// Site supplies the hostname/display-name pair used to compose activation
// links in outgoing notifications. No further contract.
type Site interface {
	GetName() string
	GetDomain() string
}

// SiteContext is the plain-struct Site used when the host has no site
// framework of its own.
type SiteContext struct {
	Name   string
	Domain string
}

// GetName returns the display name, falling back to the domain.
func (s SiteContext) GetName() string {
	if s.Name == "" {
		return s.Domain
	}
	return s.Name
}

// GetDomain returns the hostname used for activation links.
func (s SiteContext) GetDomain() string {
	return s.Domain
}
