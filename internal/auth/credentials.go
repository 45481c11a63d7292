package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Staff role names used in the credential table.
const (
	RoleModerator   = "mod"
	RoleCaseManager = "cm"
	RoleGameMaster  = "gm"
)

const week = 7 * 24 * time.Hour

var (
	// ErrUnknownRole is returned when a credential names a role that does not exist.
	ErrUnknownRole = errors.New("unknown role")
	// ErrEmptyHash is returned when a credential has no password hash.
	ErrEmptyHash = errors.New("empty password hash")
)

// Window is a weekly recurring interval during which a credential is valid.
// It opens at Weekday/Hour local time and stays open for Duration.
type Window struct {
	Weekday  time.Weekday
	Hour     int
	Duration time.Duration
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.Duration <= 0 {
		return false
	}
	if w.Duration >= week {
		return true
	}
	start := time.Duration(w.Weekday)*24*time.Hour + time.Duration(w.Hour)*time.Hour
	cur := time.Duration(t.Weekday())*24*time.Hour +
		time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
	offset := ((cur-start)%week + week) % week
	return offset < w.Duration
}

// Credential grants a role to whoever knows the password. A credential
// without windows is valid at all times.
type Credential struct {
	Role         string
	PasswordHash string
	Windows      []Window
}

func (c Credential) activeAt(t time.Time) bool {
	if len(c.Windows) == 0 {
		return true
	}
	for _, w := range c.Windows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

// Table is an auditable list of staff credentials.
type Table struct {
	creds []Credential
}

// NewTable validates and builds a credential table.
func NewTable(creds []Credential) (*Table, error) {
	out := make([]Credential, 0, len(creds))
	for i, c := range creds {
		c.Role = strings.ToLower(strings.TrimSpace(c.Role))
		switch c.Role {
		case RoleModerator, RoleCaseManager, RoleGameMaster:
		default:
			return nil, fmt.Errorf("credential %d: %w: %q", i, ErrUnknownRole, c.Role)
		}
		if c.PasswordHash == "" {
			return nil, fmt.Errorf("credential %d: %w", i, ErrEmptyHash)
		}
		for j, w := range c.Windows {
			if w.Hour < 0 || w.Hour > 23 {
				return nil, fmt.Errorf("credential %d window %d: hour %d out of range", i, j, w.Hour)
			}
		}
		out = append(out, c)
	}
	return &Table{creds: out}, nil
}

// Verify reports whether password grants role at time at.
func (t *Table) Verify(role, password string, at time.Time) bool {
	if t == nil || password == "" {
		return false
	}
	for _, c := range t.creds {
		if c.Role != role || !c.activeAt(at) {
			continue
		}
		if ComparePassword(c.PasswordHash, password) == nil {
			return true
		}
	}
	return false
}

// Len returns the number of credentials in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.creds)
}
