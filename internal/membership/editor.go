package membership

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/listmembers/internal/logging"
)

// Edit errors.
var (
	ErrMissingMember = errors.New("member id is required")
	ErrMissingList   = errors.New("list uri is required")
	ErrNoWriter      = errors.New("membership writer is not configured")
)

// EditRequest carries what the edit surface needs to show and act on a member.
type EditRequest struct {
	ListURI     string
	MemberID    string
	DisplayName string
	Handle      string
}

// Validate checks the request identifies a list and a member.
func (r EditRequest) Validate() error {
	if strings.TrimSpace(r.ListURI) == "" {
		return ErrMissingList
	}
	if strings.TrimSpace(r.MemberID) == "" {
		return ErrMissingMember
	}
	return nil
}

// EditResult describes what an edit did.
type EditResult struct {
	Request EditRequest
	Removed bool
}

// Editor is the membership edit surface.
type Editor interface {
	OpenEditMembership(ctx context.Context, req EditRequest) (EditResult, error)
}

// MembershipWriter mutates list membership in a store.
type MembershipWriter interface {
	RemoveMember(ctx context.Context, listURI, memberID string) (bool, error)
}

// StoreEditor edits membership by removing the member from the list.
type StoreEditor struct {
	writer MembershipWriter
}

// NewStoreEditor creates a StoreEditor backed by writer.
func NewStoreEditor(writer MembershipWriter) *StoreEditor {
	return &StoreEditor{writer: writer}
}

// OpenEditMembership removes req.MemberID from req.ListURI.
func (e *StoreEditor) OpenEditMembership(ctx context.Context, req EditRequest) (EditResult, error) {
	if err := req.Validate(); err != nil {
		return EditResult{Request: req}, err
	}
	if e == nil || e.writer == nil {
		return EditResult{Request: req}, ErrNoWriter
	}

	removed, err := e.writer.RemoveMember(ctx, req.ListURI, req.MemberID)
	if err != nil {
		return EditResult{Request: req}, fmt.Errorf("removing %s from %s: %w", req.MemberID, req.ListURI, err)
	}

	logging.FromContext(ctx).Info().Ctx(ctx).
		Str(logging.FieldComponent, "membership").
		Str(logging.FieldListURI, req.ListURI).
		Str("member_id", req.MemberID).
		Bool("removed", removed).
		Msg("membership edited")

	return EditResult{Request: req, Removed: removed}, nil
}
