package mcp

import (
	"github.com/1broseidon/keysheet/internal/ipc"
	"github.com/1broseidon/keysheet/internal/registry"
	"github.com/1broseidon/keysheet/internal/storage"
)

// ListApplicationsInput is the input for the list_applications tool.
type ListApplicationsInput struct{}

// ListApplicationsOutput is the output for the list_applications tool.
type ListApplicationsOutput struct {
	Applications []registry.Application `json:"applications"`
}

// LookupApplicationInput is the input for the lookup_application tool.
type LookupApplicationInput struct {
	Process string `json:"process" jsonschema:"Process name or executable path of the application, e.g. code or chrome.exe"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum number of suggestions when there is no exact match (default: 3)"`
}

// LookupApplicationOutput is the output for the lookup_application tool.
type LookupApplicationOutput struct {
	Found       bool                  `json:"found"`
	Name        string                `json:"name"`
	Application *registry.Application `json:"application,omitempty"`
	Suggestions []registry.Suggestion `json:"suggestions,omitempty"`
}

// GetShortcutsInput is the input for the get_shortcuts tool.
type GetShortcutsInput struct {
	Application string `json:"application" jsonschema:"Application ID, process name or display name"`
	List        string `json:"list,omitempty" jsonschema:"Only return the list with this ID or name"`
}

// GetShortcutsOutput is the output for the get_shortcuts tool.
type GetShortcutsOutput struct {
	Application registry.Application   `json:"application"`
	Lists       []storage.ShortcutList `json:"lists"`
}

// ActiveApplicationInput is the input for the active_application tool.
type ActiveApplicationInput struct{}

// ActiveApplicationOutput is the output for the active_application tool.
type ActiveApplicationOutput struct {
	Active    ipc.ActiveAppData     `json:"active"`
	Shortcuts *storage.ShortcutList `json:"shortcuts,omitempty"`
}
