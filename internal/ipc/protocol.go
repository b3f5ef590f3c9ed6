package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/keysheet/internal/placement"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandToggle       CommandType = "TOGGLE"
	CommandShowSettings CommandType = "SHOW_SETTINGS"
	CommandHideSettings CommandType = "HIDE_SETTINGS"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetMonitors  CommandType = "GET_MONITORS"
	CommandGetActiveApp CommandType = "GET_ACTIVE_APP"
	CommandReload       CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	State           string            `json:"state"`
	SettingsVisible bool              `json:"settings_visible"`
	LastApp         string            `json:"last_app,omitempty"`
	Hotkey          string            `json:"hotkey"`
	Anchor          placement.Anchor  `json:"anchor"`
	Offsets         placement.Offsets `json:"offsets"`
	UptimeSeconds   int64             `json:"uptime_seconds"`
	DaemonRunning   bool              `json:"daemon_running"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []placement.Monitor `json:"monitors"`
}

// ActiveAppData represents the data returned by GET_ACTIVE_APP
type ActiveAppData struct {
	ProcessIdentity string         `json:"process_identity"`
	Title           string         `json:"title"`
	Bounds          placement.Rect `json:"bounds"`
	// Name is the registered display name, or ProcessIdentity when the
	// process is not registered.
	Name          string `json:"name"`
	Matched       bool   `json:"matched"`
	ApplicationID string `json:"application_id,omitempty"`
	Monitor       string `json:"monitor,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
