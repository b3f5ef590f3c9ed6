package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/keysheet/internal/registry"
	"github.com/1broseidon/keysheet/internal/storage"
)

const defaultSuggestionLimit = 3

func (s *Server) handleListApplications(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListApplicationsInput) (*mcpsdk.CallToolResult, ListApplicationsOutput, error) {
	reg, err := s.catalog.Applications()
	if err != nil {
		return nil, ListApplicationsOutput{}, fmt.Errorf("failed to load applications: %w", err)
	}
	apps := make([]registry.Application, 0, len(reg))
	apps = append(apps, reg...)
	return nil, ListApplicationsOutput{Applications: apps}, nil
}

func (s *Server) handleLookupApplication(_ context.Context, _ *mcpsdk.CallToolRequest, args LookupApplicationInput) (*mcpsdk.CallToolResult, LookupApplicationOutput, error) {
	if strings.TrimSpace(args.Process) == "" {
		return nil, LookupApplicationOutput{}, errors.New("process is required")
	}
	reg, err := s.catalog.Applications()
	if err != nil {
		return nil, LookupApplicationOutput{}, fmt.Errorf("failed to load applications: %w", err)
	}

	out := LookupApplicationOutput{Name: registry.DisplayName(reg, args.Process)}
	if app, ok := registry.Lookup(reg, args.Process); ok {
		out.Found = true
		out.Application = &app
		return nil, out, nil
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	out.Suggestions = registry.Suggest(reg, args.Process, limit)
	return nil, out, nil
}

func (s *Server) handleGetShortcuts(_ context.Context, _ *mcpsdk.CallToolRequest, args GetShortcutsInput) (*mcpsdk.CallToolResult, GetShortcutsOutput, error) {
	reg, err := s.catalog.Applications()
	if err != nil {
		return nil, GetShortcutsOutput{}, fmt.Errorf("failed to load applications: %w", err)
	}
	app, ok := reg.Find(args.Application)
	if !ok {
		return nil, GetShortcutsOutput{}, unknownApplication(reg, args.Application)
	}

	lists, err := s.catalog.ListsFor(app.ID)
	if err != nil {
		return nil, GetShortcutsOutput{}, fmt.Errorf("failed to load shortcut lists: %w", err)
	}

	out := GetShortcutsOutput{Application: app, Lists: []storage.ShortcutList{}}
	want := strings.TrimSpace(args.List)
	for _, l := range lists {
		if want != "" && l.ID != want && !strings.EqualFold(l.Name, want) {
			continue
		}
		out.Lists = append(out.Lists, nonNilShortcuts(l))
	}
	if want != "" && len(out.Lists) == 0 {
		return nil, GetShortcutsOutput{}, fmt.Errorf("application %q has no list %q", app.Name, want)
	}
	return nil, out, nil
}

func (s *Server) handleActiveApplication(_ context.Context, _ *mcpsdk.CallToolRequest, _ ActiveApplicationInput) (*mcpsdk.CallToolResult, ActiveApplicationOutput, error) {
	if s.daemon == nil {
		return nil, ActiveApplicationOutput{}, errors.New("keysheet daemon is not reachable")
	}
	active, err := s.daemon.GetActiveApp()
	if err != nil {
		return nil, ActiveApplicationOutput{}, err
	}

	out := ActiveApplicationOutput{Active: *active}
	if !active.Matched {
		return nil, out, nil
	}

	reg, err := s.catalog.Applications()
	if err != nil {
		return nil, ActiveApplicationOutput{}, fmt.Errorf("failed to load applications: %w", err)
	}
	app, ok := reg.ByID(active.ApplicationID)
	if !ok {
		return nil, out, nil
	}
	list, ok, err := s.catalog.PreferredList(app)
	if err != nil {
		return nil, ActiveApplicationOutput{}, fmt.Errorf("failed to load shortcut lists: %w", err)
	}
	if ok {
		list = nonNilShortcuts(list)
		out.Shortcuts = &list
	}
	return nil, out, nil
}

func unknownApplication(reg registry.Registry, ref string) error {
	suggestions := registry.Suggest(reg, ref, defaultSuggestionLimit)
	if len(suggestions) == 0 {
		return fmt.Errorf("unknown application %q", ref)
	}
	names := make([]string, 0, len(suggestions))
	for _, sg := range suggestions {
		names = append(names, sg.Application.Name)
	}
	return fmt.Errorf("unknown application %q (did you mean %s?)", ref, strings.Join(names, ", "))
}

// nonNilShortcuts keeps an empty list encoded as [] rather than null.
func nonNilShortcuts(l storage.ShortcutList) storage.ShortcutList {
	if l.Shortcuts == nil {
		l.Shortcuts = []storage.Shortcut{}
	}
	return l
}
