// Package service defines the backend-agnostic interface for board operations.
package service

import (
	"fmt"
	"strconv"
	"strings"
)

// User is the authenticated account.
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	ProfileImage []byte `json:"profileImage,omitempty"` // base64 on the wire
}

// WorkspaceType is the visibility of a workspace.
type WorkspaceType string

const (
	WorkspacePrivate WorkspaceType = "PRIVATE"
	WorkspacePublic  WorkspaceType = "PUBLIC"
)

// Workspace is the top-level container owned by a user.
type Workspace struct {
	ID          int64         `json:"idWorkspace,omitempty"`
	Name        string        `json:"nameWorkspace"`
	Description string        `json:"descriptionWorkspace"`
	Type        WorkspaceType `json:"typeWorkspace"`
	AccessCode  string        `json:"accessCode,omitempty"`
	CreatedAt   Timestamp     `json:"createdAt"`
}

// List is a column inside a workspace.
type List struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	WorkspaceID int64  `json:"id_Workspace"`
}

// Priority is the ordinal importance of a task.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return strconv.Itoa(int(p))
}

// ParsePriority accepts a name (low, medium, high) or its number (1-3).
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "1":
		return PriorityLow, nil
	case "medium", "2":
		return PriorityMedium, nil
	case "high", "3":
		return PriorityHigh, nil
	}
	return 0, fmt.Errorf("invalid priority: %s", s)
}

// Status is the progress state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus accepts pending, progress (or in-progress) and completed (or done).
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "progress", "in-progress":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status: %s", s)
}

// Task is a unit of work inside a list.
type Task struct {
	ID          int64        `json:"id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    Priority     `json:"priority"`
	Status      Status       `json:"status"`
	DueDate     Timestamp    `json:"due_Date"`
	ListID      int64        `json:"id_List"`
	Labels      []Label      `json:"labels,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Label is a colored tag shared by tasks.
type Label struct {
	ID    int64  `json:"id,omitempty"`
	Title string `json:"title"`
	Color string `json:"colorHex"`
}

// Attachment is a file stored against one task.
type Attachment struct {
	ID       int64  `json:"id,omitempty"`
	FileName string `json:"fileName"`
	Content  []byte `json:"content,omitempty"` // base64 on the wire
	URL      string `json:"url"`
	TaskID   int64  `json:"-"`
}

// Credentials are exchanged for a session token.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration creates a user account.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`

	// ProfileImage is sent as a separate multipart part when non-empty.
	ProfileImage     []byte `json:"-"`
	ProfileImageName string `json:"-"`
}

// ProfileUpdate changes the authenticated user's profile.
type ProfileUpdate struct {
	FirstName        string
	LastName         string
	Email            string
	ProfileImage     []byte
	ProfileImageName string
}
