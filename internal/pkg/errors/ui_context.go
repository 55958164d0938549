package errors

import "strings"

// ErrNoSettingsFiles is an error to be used when a resolution request matches
// no settings files at all, which almost always means the patterns or the
// basepath are wrong.
var ErrNoSettingsFiles = newError("no settings files matched the requested patterns")

// UIContextPrefix* are the prefixes commonly used to create a string used in
// UI errors outputs. If a prefix is used more than once, it should have a
// const created.
const (
	UIContextPrefixSettingsFile = "Settings File: "
	UIContextPrefixBasePath     = "Base Path: "
	UIContextPrefixNamespaces   = "Namespaces: "
	UIContextPrefixSettingKey   = "Setting Key: "
	UIContextPrefixKeyFile      = "Key File: "
	UIContextPrefixSignature    = "Signature File: "
)

// UIErrorContext is used to store and manipulate error context strings used
// by the CLI to output user-friendly, rich information.
type UIErrorContext struct {
	contexts []string
}

// NewUIErrorContext creates an empty UIErrorContext.
func NewUIErrorContext() *UIErrorContext { return &UIErrorContext{} }

// Add upserts the passed prefix and value onto the error contexts. A prefix
// already present has its value replaced rather than duplicated.
func (u *UIErrorContext) Add(prefix, val string) {
	for i, c := range u.contexts {
		if strings.HasPrefix(c, prefix) {
			u.contexts[i] = prefix + val
			return
		}
	}
	u.contexts = append(u.contexts, prefix+val)
}

// Append takes an existing UIErrorContext and appends any context into the
// current.
func (u *UIErrorContext) Append(other *UIErrorContext) {
	u.contexts = append(u.contexts, other.GetAll()...)
}

// Copy the currently stored contexts into a new UIErrorContext.
func (u *UIErrorContext) Copy() *UIErrorContext {
	out := NewUIErrorContext()
	out.contexts = append(out.contexts, u.contexts...)
	return out
}

// GetAll returns all the stored context strings.
func (u *UIErrorContext) GetAll() []string { return u.contexts }

// String returns the stored contexts as a minimally formatted string.
func (u *UIErrorContext) String() string { return strings.Join(u.contexts, "\n") }
